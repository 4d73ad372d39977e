// Package report renders package graphs and version decisions for the terminal.
package report

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/settings"
)

// NextRow is one line of the next-version table.
type NextRow struct {
	ID      domain.RecipeID
	Current string
	Next    string
	// Found is false when the recipe has no candidate versions.
	Found bool
}

// Update reports whether Next differs from Current.
func (r NextRow) Update() bool {
	return r.Found && r.Next != r.Current
}

// Printer writes reports to an output stream.
type Printer struct {
	w io.Writer
}

// New creates a new Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// NextVersions prints the Package / New? / Current / Next table.
func (p *Printer) NextVersions(rows []NextRow) error {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		next, isNew := r.Next, "NO"
		if !r.Found {
			next = "-"
		}
		if r.Update() {
			isNew = "YES"
		}
		data = append(data, []string{r.ID.String(), isNew, r.Current, next})
	}

	t := newTable("Package", "New?", "Current", "Next").
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < len(rows) && rows[row].Update() {
				return updateStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

// Versions prints the candidate versions of n, oldest first, marking the pinned one.
func (p *Printer) Versions(n *domain.PackageNode) error {
	versions := n.CandidateVersions()
	if !slices.Contains(versions, n.Info.Version) {
		versions = append(versions, n.Info.Version)
	}
	domain.SortVersions(versions)

	data := make([][]string, 0, len(versions))
	for _, v := range versions {
		mark := ""
		if v == n.Info.Version {
			mark = "current"
		}
		pre := ""
		if c, ok := n.Info.Candidates[v]; ok && c.Prerelease {
			pre = "yes"
		}
		data = append(data, []string{v, pre, mark})
	}

	if _, err := fmt.Fprintf(p.w, "%s (%s)\n", rootStyle.Render(n.ID.String()), n.Info.Method); err != nil {
		return err
	}
	t := newTable("Version", "Prerelease", "").
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

// DependencyTree prints every dependency reachable from id.
func (p *Printer) DependencyTree(gs domain.Graphs, id domain.RecipeID) error {
	return p.printTree(id, gs.Dependencies)
}

// ParentTree prints every recipe that reaches id.
func (p *Printer) ParentTree(gs domain.Graphs, id domain.RecipeID) error {
	return p.printTree(id, gs.Parents)
}

func (p *Printer) printTree(id domain.RecipeID, next func(domain.RecipeID) []domain.RecipeID) error {
	t := tree.Root(rootStyle.Render(id.String())).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(borderStyle)
	onPath := map[domain.RecipeID]bool{id: true}
	grow(t, id, next, onPath)
	_, err := fmt.Fprintln(p.w, t.String())
	return err
}

// grow attaches the children of id to t. A child already on the current path is shown once,
// marked as a cycle, and not expanded.
func grow(t *tree.Tree, id domain.RecipeID, next func(domain.RecipeID) []domain.RecipeID, onPath map[domain.RecipeID]bool) {
	for _, child := range next(id) {
		if onPath[child] {
			t.Child(dimStyle.Render(child.String() + " (cycle)"))
			continue
		}
		children := next(child)
		if len(children) == 0 {
			t.Child(child.String())
			continue
		}
		sub := tree.Root(child.String())
		onPath[child] = true
		grow(sub, child, next, onPath)
		delete(onPath, child)
		t.Child(sub)
	}
}

// Settings prints the name, effective value and description of every setting, sorted by name.
func (p *Printer) Settings(store *settings.Store) error {
	names := store.Keys()
	data := make([][]string, 0, len(names))
	for _, name := range names {
		e, _ := store.Lookup(name)
		data = append(data, []string{name, store.Get(name, settings.Nil).String(), e.Description})
	}

	t := newTable("Name", "Value", "Description").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return dimStyle.Padding(0, 1)
			default:
				return cellStyle
			}
		})
	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}
