package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"appraisells-auction/internal/metrics"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// blockingStore holds every insert until release is closed.
type blockingStore struct {
	release chan struct{}
	mu      sync.Mutex
	written []models.Activity
}

func (b *blockingStore) InsertActivity(ctx context.Context, a models.Activity) error {
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.written = append(b.written, a)
	return nil
}

type failingStore struct{}

func (failingStore) InsertActivity(context.Context, models.Activity) error {
	return errors.New("disk full")
}

func (failingStore) TouchProfile(context.Context, string, string, string, time.Time) error {
	return errors.New("disk full")
}

func TestAsyncRecorder_WritesInOrder(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	rec := NewAsyncRecorder(repo, repo, Options{Clock: clock})

	ctx := context.Background()
	rec.Record(ctx, "alice", "uid-a", models.ActivityBidPlaced, map[string]any{"item_id": "item1"})
	rec.Record(ctx, "alice", "uid-a", models.ActivityBidRemoved, map[string]any{"item_id": "item1"})

	require.NoError(t, rec.Close(ctx))

	got := repo.Activities()
	require.Len(t, got, 2)
	require.Equal(t, models.ActivityBidPlaced, got[0].Type)
	require.Equal(t, models.ActivityBidRemoved, got[1].Type)
	require.Equal(t, fixedNow, got[0].Timestamp)

	// entries after close are dropped, not panicking
	rec.Record(ctx, "alice", "uid-a", models.ActivityBidPlaced, nil)
	require.Len(t, repo.Activities(), 2)
}

func TestAsyncRecorder_DropsWhenFull(t *testing.T) {
	t.Parallel()

	store := &blockingStore{release: make(chan struct{})}
	m := metrics.New(prometheus.NewRegistry())
	rec := NewAsyncRecorder(store, failingStore{}, Options{QueueSize: 1, Clock: clock, Metrics: m})

	ctx := context.Background()
	// the worker takes the first entry and blocks; the queue holds one more
	for i := 0; i < 10; i++ {
		rec.Record(ctx, "bob", "uid-b", models.ActivityBidPlaced, nil)
	}
	close(store.release)
	require.NoError(t, rec.Close(ctx))

	store.mu.Lock()
	written := len(store.written)
	store.mu.Unlock()

	require.GreaterOrEqual(t, written, 1)
	require.LessOrEqual(t, written, 2)
	require.Equal(t, float64(10-written), testutil.ToFloat64(m.ActivitiesDropped))
}

func TestAsyncRecorder_StoreFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	rec := NewAsyncRecorder(failingStore{}, failingStore{}, Options{Clock: clock, Metrics: m})

	ctx := context.Background()
	rec.Record(ctx, "carol", "uid-c", models.ActivityPaymentApproved, nil)
	rec.TouchProfile(ctx, "carol", "uid-c", "")
	require.NoError(t, rec.Close(ctx))

	require.Equal(t, 1.0, testutil.ToFloat64(m.ActivitiesDropped))
}

func TestAsyncRecorder_CloseHonoursContext(t *testing.T) {
	t.Parallel()

	store := &blockingStore{release: make(chan struct{})}
	rec := NewAsyncRecorder(store, failingStore{}, Options{Clock: clock})
	rec.Record(context.Background(), "dave", "uid-d", models.ActivityBidPlaced, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, rec.Close(ctx), context.DeadlineExceeded)

	close(store.release)
	require.NoError(t, rec.Close(context.Background()))
}
