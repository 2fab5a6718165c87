package cleanup

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/repository"
)

// Worker deletes games whose last move is older than MaxAge.
type Worker struct {
	Games    repository.GameStore
	MaxAge   time.Duration
	Interval time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

const (
	DefaultMaxAge   = 24 * time.Hour
	DefaultInterval = time.Hour
)

// NewWorker replaces a non-positive maxAge or interval with the defaults.
// A zero age would delete every game in progress and a zero interval
// cannot drive a ticker.
func NewWorker(games repository.GameStore, maxAge, interval time.Duration) *Worker {
	if maxAge <= 0 {
		log.Printf("[CLEANUP] Invalid max age %s, using %s", maxAge, DefaultMaxAge)
		maxAge = DefaultMaxAge
	}
	if interval <= 0 {
		log.Printf("[CLEANUP] Invalid interval %s, using %s", interval, DefaultInterval)
		interval = DefaultInterval
	}

	return &Worker{
		Games:    games,
		MaxAge:   maxAge,
		Interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs a cleanup immediately and then on every tick
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.RunCleanup(context.Background())

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.RunCleanup(context.Background())
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// Stop ends the ticker loop and waits for a running cleanup to finish
func (w *Worker) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.wg.Wait()
}

// RunCleanup executes one pass and returns how many games were removed
func (w *Worker) RunCleanup(ctx context.Context) int64 {
	cutoff := time.Now().Add(-w.MaxAge)
	deletedCount, err := w.Games.DeleteStaleGames(ctx, cutoff)
	if err != nil {
		log.Printf("[CLEANUP] Error deleting stale games: %v", err)
		return 0
	}
	if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d games idle since %s", deletedCount, cutoff.Format(time.RFC3339))
	}
	return deletedCount
}
