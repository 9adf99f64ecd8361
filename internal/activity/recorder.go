package activity

import (
	"context"
	"sync"
	"time"

	"appraisells-auction/internal/auctionclock"
	"appraisells-auction/internal/metrics"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"
	"appraisells-auction/utils"
)

// Recorder is the side channel services use to log user activity and
// refresh user profiles. Neither call ever fails the caller.
type Recorder interface {
	Record(ctx context.Context, username, userUID, activityType string, details map[string]any)
	TouchProfile(ctx context.Context, username, userUID, wallet string)
}

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
)

// Options tunes an AsyncRecorder. Zero values select defaults.
type Options struct {
	QueueSize int
	Clock     auctionclock.Clock
	Metrics   *metrics.Metrics
}

// AsyncRecorder writes activities from a single background worker.
// Entries are dropped, and logged, when the queue is full.
type AsyncRecorder struct {
	activities repository.ActivityStore
	profiles   repository.ProfileStore
	now        auctionclock.Clock
	metrics    *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan models.Activity
	done   chan struct{}
}

var _ Recorder = (*AsyncRecorder)(nil)

// NewAsyncRecorder starts the background worker. Call Close to flush it.
func NewAsyncRecorder(activities repository.ActivityStore, profiles repository.ProfileStore, opts Options) *AsyncRecorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Clock == nil {
		opts.Clock = auctionclock.UTC
	}

	r := &AsyncRecorder{
		activities: activities,
		profiles:   profiles,
		now:        opts.Clock,
		metrics:    opts.Metrics,
		queue:      make(chan models.Activity, opts.QueueSize),
		done:       make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues an activity without blocking.
func (r *AsyncRecorder) Record(_ context.Context, username, userUID, activityType string, details map[string]any) {
	a := models.Activity{
		Username:  username,
		UserUID:   userUID,
		Type:      activityType,
		Details:   details,
		Timestamp: r.now(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(a, "recorder closed")
		return
	}
	select {
	case r.queue <- a:
	default:
		r.drop(a, "queue full")
	}
}

// TouchProfile upserts the user's last-seen metadata synchronously.
func (r *AsyncRecorder) TouchProfile(ctx context.Context, username, userUID, wallet string) {
	if err := r.profiles.TouchProfile(ctx, username, userUID, wallet, r.now()); err != nil {
		utils.Warn("failed to touch user profile", map[string]any{"username": username, "error": err.Error()})
	}
}

// Close stops accepting entries and waits for queued ones to be written,
// or for ctx to expire.
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *AsyncRecorder) run() {
	defer close(r.done)
	for a := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.activities.InsertActivity(ctx, a)
		cancel()
		if err != nil {
			r.drop(a, err.Error())
		}
	}
}

func (r *AsyncRecorder) drop(a models.Activity, reason string) {
	r.metrics.IncActivityDropped()
	utils.Warn("activity dropped", map[string]any{
		"username":      a.Username,
		"activity_type": a.Type,
		"reason":        reason,
	})
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(context.Context, string, string, string, map[string]any) {}

func (Nop) TouchProfile(context.Context, string, string, string) {}
