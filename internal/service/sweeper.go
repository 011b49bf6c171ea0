package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitwise74/portal-api/internal/metrics"
	"bitwise74/portal-api/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultRetention = time.Hour * 24

	pendingSource = "pending_application"
)

// AssetStore deletes externally hosted binary assets such as uploaded images
type AssetStore interface {
	Destroy(ctx context.Context, assetID string) error
}

// Sweeper garbage collects pending applications that were never finished.
// Running two sweeps at once is safe, a row deleted by the other run simply
// isn't counted.
type Sweeper struct {
	repo      store.Repository
	assets    AssetStore
	retention time.Duration
}

func NewSweeper(repo store.Repository, assets AssetStore, retention time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Sweeper{
		repo:      repo,
		assets:    assets,
		retention: retention,
	}
}

// Sweep deletes every pending record created before now minus the retention
// window and returns how many rows it removed. Asset deletion is best-effort:
// failures are logged and kept in the orphaned assets table for the next run
// but never stop the record from being deleted.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (deleted int, err error) {
	defer func() {
		if err != nil {
			metrics.SweepRuns.WithLabelValues("error").Inc()
			return
		}

		metrics.SweepRuns.WithLabelValues("ok").Inc()
		metrics.SweptRecords.Add(float64(deleted))
	}()

	cutoff := now.Add(-s.retention)

	s.retryOrphans(ctx)

	records, err := s.repo.Pending().OlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to query pending applications, %w", err)
	}

	for _, p := range records {
		if p.ImageID != "" {
			s.destroy(ctx, p.ImageID)
		}

		ok, err := s.repo.Pending().Delete(ctx, p.ID)
		if err != nil {
			return deleted, fmt.Errorf("failed to delete pending application %s, %w", p.ID, err)
		}

		if ok {
			deleted++
		}
	}

	zap.L().Info("Pending application cleanup finished",
		zap.Int("deleted", deleted),
		zap.Time("cutoff", cutoff))

	return deleted, nil
}

func (s *Sweeper) destroy(ctx context.Context, assetID string) {
	err := errors.New("no asset store configured")
	if s.assets != nil {
		err = s.assets.Destroy(ctx, assetID)
	}

	if err == nil {
		return
	}

	metrics.AssetDeleteFailures.Inc()
	zap.L().Error("Failed to delete asset", zap.Error(err), zap.String("assetID", assetID))

	if err := s.repo.Orphans().Record(ctx, assetID, pendingSource, err); err != nil {
		zap.L().Error("Failed to record orphaned asset", zap.Error(err), zap.String("assetID", assetID))
	}
}

func (s *Sweeper) retryOrphans(ctx context.Context) {
	if s.assets == nil {
		return
	}

	orphans, err := s.repo.Orphans().List(ctx)
	if err != nil {
		zap.L().Error("Failed to query orphaned assets", zap.Error(err))
		return
	}

	for _, o := range orphans {
		if err := s.assets.Destroy(ctx, o.AssetID); err != nil {
			zap.L().Debug("Orphaned asset still not deletable", zap.Error(err), zap.String("assetID", o.AssetID), zap.Int("attempts", o.Attempts))

			if err := s.repo.Orphans().Record(ctx, o.AssetID, o.Source, err); err != nil {
				zap.L().Error("Failed to update orphaned asset", zap.Error(err), zap.String("assetID", o.AssetID))
			}
			continue
		}

		if err := s.repo.Orphans().Remove(ctx, o.AssetID); err != nil {
			zap.L().Error("Failed to remove orphaned asset", zap.Error(err), zap.String("assetID", o.AssetID))
		}
	}
}
