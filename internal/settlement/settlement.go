// Package settlement closes an auction and records one winner per item.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appraisells-auction/internal/auctionclock"
	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/metrics"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"
	"appraisells-auction/utils"

	"golang.org/x/sync/errgroup"
)

// Store is the storage the settlement engine needs.
type Store interface {
	repository.BidStore
	repository.WinnerStore
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store         Store
	Auction       auctionclock.Auction
	PaymentWindow time.Duration
	Metrics       *metrics.Metrics
	Clock         auctionclock.Clock
}

// Service closes the auction. It holds no lock of its own: the store's
// insert-or-fetch on the item id is the only serialization point.
type Service struct {
	store         Store
	auction       auctionclock.Auction
	paymentWindow time.Duration
	metrics       *metrics.Metrics
	now           auctionclock.Clock
}

// NewService creates a settlement Service.
func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = auctionclock.UTC
	}
	if d.PaymentWindow <= 0 {
		d.PaymentWindow = 24 * time.Hour
	}
	return &Service{
		store:         d.Store,
		auction:       d.Auction,
		paymentWindow: d.PaymentWindow,
		metrics:       d.Metrics,
		now:           d.Clock,
	}
}

// Result is one item's winner as returned by Close. Created is true only for
// the call that inserted the record.
type Result struct {
	models.Winner
	Created bool `json:"created"`
}

// Close determines the winner of every item once the auction has ended.
// Repeated and concurrent calls return the same winners.
func (s *Service) Close(ctx context.Context, auctionID string) ([]Result, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w: empty auction id", auctionerrors.ErrInvalidInput)
	}
	if auctionID != s.auction.ID {
		return nil, fmt.Errorf("service: auction %q: %w", auctionID, auctionerrors.ErrNotFound)
	}

	now := s.now()
	if phase := s.auction.Phase(now); phase != auctionclock.PhaseEnded {
		return nil, fmt.Errorf("service: %w: auction is %s until %s",
			auctionerrors.ErrAuctionStillActive, phase, s.auction.End.Format(time.RFC3339))
	}

	settled := make([]*Result, len(s.auction.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, itemID := range s.auction.Items {
		g.Go(func() error {
			res, err := s.settleItem(gctx, itemID, now)
			if err != nil {
				return err
			}
			settled[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}

	out := make([]Result, 0, len(settled))
	created := 0
	for _, res := range settled {
		if res == nil {
			continue
		}
		if res.Created {
			created++
		}
		out = append(out, *res)
	}

	s.metrics.AddWinnersCreated(created)
	if created > 0 {
		utils.Info("auction closed", map[string]any{
			"auction_id":      auctionID,
			"winners":         len(out),
			"winners_created": created,
		})
	}
	return out, nil
}

// settleItem returns nil when the item received no active bid.
func (s *Service) settleItem(ctx context.Context, itemID string, now time.Time) (*Result, error) {
	top, err := s.store.HighestBid(ctx, itemID)
	if errors.Is(err, auctionerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("highest bid for %s: %w", itemID, err)
	}

	w, created, err := s.store.InsertOrFetchWinner(ctx, models.Winner{
		AuctionID:       s.auction.ID,
		ItemID:          itemID,
		Username:        top.Username,
		UserUID:         top.UserUID,
		WinningBid:      top.Amount,
		PaymentStatus:   models.PaymentPending,
		PaymentDeadline: now.Add(s.paymentWindow),
		CreatedAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("record winner for %s: %w", itemID, err)
	}
	return &Result{Winner: w, Created: created}, nil
}

// WinsForUser lists the winner records of a user.
func (s *Service) WinsForUser(ctx context.Context, username string) ([]models.Winner, error) {
	if username == "" {
		return nil, fmt.Errorf("service: %w: empty username", auctionerrors.ErrInvalidInput)
	}
	wins, err := s.store.WinnersByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get wins for user %s: %w", username, err)
	}
	return wins, nil
}
