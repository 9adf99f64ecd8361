package settlement

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"appraisells-auction/internal/auctionclock"
	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"

	"github.com/stretchr/testify/require"
)

var (
	auctionStart = time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	auctionEnd   = time.Date(2025, 8, 25, 23, 59, 59, 0, time.UTC)
	testAuction  = auctionclock.Auction{
		ID:    "auction-1",
		Start: auctionStart,
		End:   auctionEnd,
		Items: []string{"item1", "item2", "item3", "item4", "item5"},
	}
	afterEnd = auctionEnd.Add(time.Hour)
)

func seedBid(t *testing.T, s repository.BidStore, username, itemID string, amount float64, at time.Time) {
	t.Helper()
	_, err := s.SupersedeBid(context.Background(), models.Bid{
		Username:  username,
		UserUID:   "uid-" + username,
		ItemID:    itemID,
		Amount:    amount,
		CreatedAt: at,
	})
	require.NoError(t, err)
}

// seedScenario places userA 5, userB 8, userC 8 on item1 and one bid on item3.
func seedScenario(t *testing.T, s repository.BidStore) {
	t.Helper()
	seedBid(t, s, "userA", "item1", 5, auctionStart.Add(1*time.Minute))
	seedBid(t, s, "userB", "item1", 8, auctionStart.Add(2*time.Minute))
	seedBid(t, s, "userC", "item1", 8, auctionStart.Add(3*time.Minute))
	seedBid(t, s, "userD", "item3", 2, auctionStart.Add(4*time.Minute))
}

func newService(store Store, now time.Time) *Service {
	return NewService(Deps{
		Store:         store,
		Auction:       testAuction,
		PaymentWindow: 24 * time.Hour,
		Clock:         func() time.Time { return now },
	})
}

func TestService_Close(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	seedScenario(t, repo)
	svc := newService(repo, afterEnd)

	results, err := svc.Close(context.Background(), "auction-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "item1", results[0].ItemID)
	require.Equal(t, "userB", results[0].Username)
	require.Equal(t, 8.0, results[0].WinningBid)
	require.Equal(t, models.PaymentPending, results[0].PaymentStatus)
	require.Equal(t, afterEnd.Add(24*time.Hour), results[0].PaymentDeadline)
	require.True(t, results[0].Created)

	require.Equal(t, "item3", results[1].ItemID)
	require.Equal(t, "userD", results[1].Username)
}

func TestService_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	seedScenario(t, repo)

	first, err := newService(repo, afterEnd).Close(context.Background(), "auction-1")
	require.NoError(t, err)

	// later call with a new bid snuck into storage still returns the stored winners
	seedBid(t, repo, "userE", "item1", 100, afterEnd)
	second, err := newService(repo, afterEnd.Add(48*time.Hour)).Close(context.Background(), "auction-1")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].Winner, second[i].Winner)
		require.False(t, second[i].Created)
	}
}

func TestService_CloseGuards(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	seedScenario(t, repo)

	tests := []struct {
		name      string
		now       time.Time
		auctionID string
		wantErr   error
	}{
		{name: "unknown_auction", now: afterEnd, auctionID: "auction-9", wantErr: auctionerrors.ErrNotFound},
		{name: "empty_auction", now: afterEnd, auctionID: "", wantErr: auctionerrors.ErrInvalidInput},
		{name: "still_active", now: auctionEnd.Add(-time.Second), auctionID: "auction-1", wantErr: auctionerrors.ErrAuctionStillActive},
		{name: "not_started", now: auctionStart.Add(-time.Hour), auctionID: "auction-1", wantErr: auctionerrors.ErrAuctionStillActive},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newService(repo, tc.now).Close(context.Background(), tc.auctionID)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	wins, err := repo.WinnersByUser(context.Background(), "userB")
	require.NoError(t, err)
	require.Empty(t, wins)
}

func TestService_CloseNoBids(t *testing.T) {
	t.Parallel()

	results, err := newService(repository.NewMemoryRepo(), afterEnd).Close(context.Background(), "auction-1")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestService_CloseConcurrent(t *testing.T) {
	t.Parallel()

	dsn := "file:" + filepath.Join(t.TempDir(), "auction.db") + "?_pragma=busy_timeout(5000)&_time_format=sqlite"
	sqlRepo, err := repository.OpenSQL(context.Background(), "sqlite", dsn, repository.SQLOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlRepo.Close() })

	stores := map[string]Store{
		"memory": repository.NewMemoryRepo(),
		"sqlite": sqlRepo,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			seedScenario(t, store)
			svc := newService(store, afterEnd)

			const callers = 20
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				results [][]Result
			)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, err := svc.Close(context.Background(), "auction-1")
					require.NoError(t, err)
					mu.Lock()
					results = append(results, res)
					mu.Unlock()
				}()
			}
			wg.Wait()

			require.Len(t, results, callers)
			created := map[string]int{}
			for _, res := range results {
				require.Len(t, res, 2)
				for i, r := range res {
					require.Equal(t, results[0][i].WinnerID, r.WinnerID)
					require.Equal(t, results[0][i].Username, r.Username)
					if r.Created {
						created[r.ItemID]++
					}
				}
			}
			require.Equal(t, map[string]int{"item1": 1, "item3": 1}, created)

			wins, err := svc.WinsForUser(context.Background(), "userB")
			require.NoError(t, err)
			require.Len(t, wins, 1)
		})
	}
}

func TestService_WinsForUser(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	seedScenario(t, repo)
	svc := newService(repo, afterEnd)

	_, err := svc.WinsForUser(context.Background(), "")
	require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)

	wins, err := svc.WinsForUser(context.Background(), "userB")
	require.NoError(t, err)
	require.Empty(t, wins)

	_, err = svc.Close(context.Background(), "auction-1")
	require.NoError(t, err)

	wins, err = svc.WinsForUser(context.Background(), "userB")
	require.NoError(t, err)
	require.Len(t, wins, 1)
	require.Equal(t, "item1", wins[0].ItemID)
}
