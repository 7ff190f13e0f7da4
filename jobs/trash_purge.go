package jobs

import (
	"context"
	"log"
	"time"

	"nimbusdrive/services"
)

// TrashPurger permanently deletes trashed entries once they outlive the
// retention window. It is the only background task in the server.
type TrashPurger struct {
	entryService *services.EntryService
	retention    time.Duration
	interval     time.Duration
	logger       *log.Logger
}

func NewTrashPurger(entryService *services.EntryService, retention, interval time.Duration) *TrashPurger {
	return &TrashPurger{
		entryService: entryService,
		retention:    retention,
		interval:     interval,
		logger:       log.New(log.Writer(), "[TRASH_PURGE] ", log.LstdFlags),
	}
}

// Start runs the purge loop until ctx is cancelled. It runs one pass
// immediately, then on every tick.
func (p *TrashPurger) Start(ctx context.Context) {
	p.logger.Printf("Starting trash purge job, retention %v, interval %v", p.retention, p.interval)

	p.runOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Println("Trash purge job stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *TrashPurger) runOnce(ctx context.Context) {
	purgeCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-p.retention)
	deleted, err := p.entryService.PurgeTrashedBefore(purgeCtx, cutoff)
	if err != nil {
		p.logger.Printf("Error purging trash: %v", err)
		return
	}
	if deleted > 0 {
		p.logger.Printf("Purged %d trashed entries older than %v", deleted, cutoff.UTC().Format(time.RFC3339))
	}
}
