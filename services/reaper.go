package services

import (
	"context"
	"time"

	"unjumble/models"
	"unjumble/storage"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Reaper is the compensating half of the soft-delete design: it hard-deletes
// games that were soft-deleted at least retainFor ago, removing their media
// folder first so no orphaned files outlive the row.
type Reaper struct {
	db        *gorm.DB
	media     *storage.MediaStore
	log       zerolog.Logger
	interval  time.Duration
	retainFor time.Duration
}

func NewReaper(db *gorm.DB, media *storage.MediaStore, log zerolog.Logger, interval, retainFor time.Duration) *Reaper {
	return &Reaper{db: db, media: media, log: log, interval: interval, retainFor: retainFor}
}

// Run sweeps periodically until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.log.Warn().Err(err).Msg("reaper sweep failed")
			}
		}
	}
}

// Sweep processes every game past the retention cutoff. A media failure
// skips the row and leaves it for the next sweep; the record is only removed
// once its folder is gone.
func (r *Reaper) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-r.retainFor)

	var games []models.Game
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&games).Error
	if err != nil {
		return err
	}

	for _, game := range games {
		if err := r.media.RemoveFolder(ctx, mediaPrefix(game.ID)); err != nil {
			r.log.Warn().Err(err).Str("game_id", game.ID).Msg("media cleanup failed, will retry next sweep")
			continue
		}
		if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Game{}, "id = ?", game.ID).Error; err != nil {
			return err
		}
		r.log.Info().Str("game_id", game.ID).Msg("reaped soft-deleted game")
	}

	return nil
}
