// Package refresh runs version discovery for many recipes on a bounded worker pool.
package refresh

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of refreshing one recipe.
type Result struct {
	ID     domain.RecipeID
	Status domain.VertexStatus
	Err    error
}

// Coordinator refreshes the version information of graph nodes in parallel.
type Coordinator struct {
	provider  ports.MetadataProvider
	cache     ports.GraphCache
	telemetry ports.Telemetry
	settings  *settings.Store
	logger    ports.Logger

	mu       sync.RWMutex
	statuses map[domain.RecipeID]domain.VertexStatus
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(
	provider ports.MetadataProvider,
	cache ports.GraphCache,
	telemetry ports.Telemetry,
	store *settings.Store,
	logger ports.Logger,
) *Coordinator {
	return &Coordinator{
		provider:  provider,
		cache:     cache,
		telemetry: telemetry,
		settings:  store,
		logger:    logger,
		statuses:  make(map[domain.RecipeID]domain.VertexStatus),
	}
}

// Refresh discovers fresh version information for every id of ids present in g.
// Ids are deduplicated and processed in sorted order by at most nb_jobs workers.
// Results are merged into g only after every worker has finished, then g is persisted.
// Failed ids keep their previous version information and are reported in the returned error.
func (c *Coordinator) Refresh(ctx context.Context, g *domain.PackageGraph, ids []domain.RecipeID) ([]Result, error) {
	ids = domain.SortedIDs(ids)
	snap := c.settings.Snapshot()
	ctx = settings.WithSnapshot(ctx, snap)

	results := make([]Result, len(ids))
	infos := make([]domain.VersionInfo, len(ids))

	eg := new(errgroup.Group)
	eg.SetLimit(jobs(snap))

	for i, id := range ids {
		results[i] = Result{ID: id, Status: domain.VertexStatusPending}
		if !g.Has(id) {
			results[i].Status = domain.VertexStatusSkipped
			c.logger.Warn("package not found", "package", id.String())
			c.setStatus(id, domain.VertexStatusSkipped)
			continue
		}
		c.setStatus(id, domain.VertexStatusPending)

		eg.Go(func() error {
			results[i], infos[i] = c.discover(ctx, id)
			return nil
		})
	}
	_ = eg.Wait()

	var errs []error
	for i, res := range results {
		switch res.Status {
		case domain.VertexStatusCompleted:
			if err := g.SetVersionInfo(res.ID, infos[i]); err != nil {
				errs = append(errs, err)
			}
		case domain.VertexStatusFailed:
			c.logger.Warn("version discovery failed", "package", res.ID.String(), "error", res.Err)
			errs = append(errs, res.Err)
		}
	}

	if err := c.cache.Save(g.Group().CacheKey(), g); err != nil {
		c.logger.Warn("failed to persist package graph", "group", string(g.Group()), "error", err)
	}

	if len(errs) > 0 {
		return results, errors.Join(append([]error{domain.ErrDiscoveryFailed}, errs...)...)
	}
	return results, nil
}

func (c *Coordinator) discover(ctx context.Context, id domain.RecipeID) (Result, domain.VersionInfo) {
	if err := ctx.Err(); err != nil {
		c.setStatus(id, domain.VertexStatusFailed)
		return Result{ID: id, Status: domain.VertexStatusFailed, Err: err}, domain.VersionInfo{}
	}

	c.setStatus(id, domain.VertexStatusRunning)
	vctx, vertex := c.telemetry.Record(ctx, "discover "+id.String())
	info, err := c.provider.Discover(vctx, id)
	vertex.Complete(err)

	if err != nil {
		c.setStatus(id, domain.VertexStatusFailed)
		err = zerr.With(zerr.Wrap(err, "failed to discover versions"), "package", id.String())
		return Result{ID: id, Status: domain.VertexStatusFailed, Err: err}, domain.VersionInfo{}
	}
	c.setStatus(id, domain.VertexStatusCompleted)
	return Result{ID: id, Status: domain.VertexStatusCompleted}, info
}

// Statuses returns a copy of the last known status of every id seen by Refresh.
func (c *Coordinator) Statuses() map[domain.RecipeID]domain.VertexStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[domain.RecipeID]domain.VertexStatus, len(c.statuses))
	for id, s := range c.statuses {
		out[id] = s
	}
	return out
}

func (c *Coordinator) setStatus(id domain.RecipeID, s domain.VertexStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[id] = s
}

func jobs(r settings.Reader) int {
	if n := r.Int("nb_jobs", runtime.NumCPU()); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
