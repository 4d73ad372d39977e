package recipe

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

var (
	assignPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_.]+)\s*(\+=|:=|::=|\?=|=)\s*(.*)$`)
	refPattern    = regexp.MustCompile(`\$[({]([A-Za-z0-9_.]+)[)}]`)
)

const maxExpandDepth = 8

// Makefile holds the variable assignments of a recipe Makefile.
type Makefile struct {
	vars map[string]string
}

// ParseMakefile reads variable assignments from r.
// Continuation lines are joined, comments dropped and rule bodies ignored.
func ParseMakefile(r io.Reader) (*Makefile, error) {
	m := &Makefile{vars: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	var logical strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			logical.WriteString(strings.TrimSuffix(line, `\`))
			logical.WriteByte(' ')
			continue
		}
		logical.WriteString(line)
		m.assign(logical.String())
		logical.Reset()
	}
	if logical.Len() > 0 {
		m.assign(logical.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read makefile")
	}
	return m, nil
}

func (m *Makefile) assign(line string) {
	if strings.HasPrefix(line, "\t") {
		return
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	match := assignPattern.FindStringSubmatch(line)
	if match == nil {
		return
	}
	name, op, value := match[1], match[2], strings.TrimSpace(match[3])
	switch op {
	case "+=":
		if prev, ok := m.vars[name]; ok && prev != "" {
			value = prev + " " + value
		}
	case "?=":
		if _, ok := m.vars[name]; ok {
			return
		}
	}
	m.vars[name] = value
}

// Get returns the value of name with references to other variables of the file expanded.
// References to unknown variables are kept as written.
func (m *Makefile) Get(name string) string {
	return m.expand(m.vars[name], 0)
}

// Words returns the whitespace separated words of name.
func (m *Makefile) Words(name string) []string {
	return strings.Fields(m.Get(name))
}

func (m *Makefile) expand(value string, depth int) string {
	if depth >= maxExpandDepth || !strings.Contains(value, "$") {
		return value
	}
	return refPattern.ReplaceAllStringFunc(value, func(ref string) string {
		name := refPattern.FindStringSubmatch(ref)[1]
		v, ok := m.vars[name]
		if !ok {
			return ref
		}
		return m.expand(v, depth+1)
	})
}
