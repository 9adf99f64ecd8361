package bidding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"appraisells-auction/internal/activity"
	"appraisells-auction/internal/auctionclock"
	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/locker"
	"appraisells-auction/internal/metrics"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"
)

// Deps are the collaborators of a BiddingService. Locks, Activity and Clock
// default to an in-process keyed mutex, a no-op recorder and UTC.
type Deps struct {
	Bids     repository.BidStore
	Auction  auctionclock.Auction
	Locks    locker.Locker
	Activity activity.Recorder
	Metrics  *metrics.Metrics
	Clock    auctionclock.Clock
}

// BiddingService is the bid ledger: it places and withdraws bids while the
// auction is active and answers highest-bid queries.
type BiddingService struct {
	bids     repository.BidStore
	auction  auctionclock.Auction
	locks    locker.Locker
	activity activity.Recorder
	metrics  *metrics.Metrics
	now      auctionclock.Clock
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(d Deps) *BiddingService {
	if d.Locks == nil {
		d.Locks = locker.NewKeyedMutex()
	}
	if d.Activity == nil {
		d.Activity = activity.Nop{}
	}
	if d.Clock == nil {
		d.Clock = auctionclock.UTC
	}
	return &BiddingService{
		bids:     d.Bids,
		auction:  d.Auction,
		locks:    d.Locks,
		activity: d.Activity,
		metrics:  d.Metrics,
		now:      d.Clock,
	}
}

// ItemHighestBid pairs an item with its current highest bid, nil if none.
type ItemHighestBid struct {
	ItemID     string      `json:"item_id"`
	HighestBid *models.Bid `json:"highest_bid"`
}

// UserBidStatus is the latest bid of a user on one item.
type UserBidStatus struct {
	ItemID    string          `json:"item_id"`
	BidAmount float64         `json:"bid_amount"`
	Status    models.BidState `json:"status"`
	BidTime   time.Time       `json:"bid_time"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PlaceBid records a user's bid for an item, replacing the user's previous
// active bid on that item. A bid lower than the current highest is accepted.
func (s *BiddingService) PlaceBid(ctx context.Context, username, userUID, itemID string, amount float64) (models.Bid, error) {
	if err := s.validateBid(username, userUID, itemID, amount); err != nil {
		return models.Bid{}, err
	}

	release, err := s.locks.Lock(ctx, locker.BidKey(username, itemID))
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to lock bid of %s on %s: %w", username, itemID, err)
	}
	defer release()

	// the phase is judged at the instant the bid is recorded, not when it arrived
	now := s.now()
	if err := s.requireActive(now); err != nil {
		return models.Bid{}, err
	}

	bid, err := s.bids.SupersedeBid(ctx, models.Bid{
		Username:  username,
		UserUID:   userUID,
		ItemID:    itemID,
		Amount:    amount,
		CreatedAt: now,
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for item %s by user %s: %w", itemID, username, err)
	}

	s.metrics.IncBidPlaced()
	s.activity.Record(ctx, username, userUID, models.ActivityBidPlaced, map[string]any{
		"item_id":    itemID,
		"bid_amount": amount,
		"bid_id":     bid.BidID,
	})
	s.activity.TouchProfile(ctx, username, userUID, "")

	return bid, nil
}

// WithdrawBid deactivates the user's active bid on an item.
func (s *BiddingService) WithdrawBid(ctx context.Context, username, userUID, itemID string) (models.Bid, error) {
	if username == "" || userUID == "" {
		return models.Bid{}, fmt.Errorf("service: %w: missing username or user uid", auctionerrors.ErrInvalidInput)
	}
	if err := s.validateItem(itemID); err != nil {
		return models.Bid{}, err
	}

	release, err := s.locks.Lock(ctx, locker.BidKey(username, itemID))
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to lock bid of %s on %s: %w", username, itemID, err)
	}
	defer release()

	now := s.now()
	if err := s.requireActive(now); err != nil {
		return models.Bid{}, err
	}

	bid, err := s.bids.DeactivateBid(ctx, username, itemID, now)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to withdraw bid for item %s by user %s: %w", itemID, username, err)
	}

	s.metrics.IncBidWithdrawn()
	s.activity.Record(ctx, username, userUID, models.ActivityBidRemoved, map[string]any{
		"item_id": itemID,
		"bid_id":  bid.BidID,
	})
	s.activity.TouchProfile(ctx, username, userUID, "")

	return bid, nil
}

// HighestBid returns the highest active bid for an item
func (s *BiddingService) HighestBid(ctx context.Context, itemID string) (models.Bid, error) {
	if err := s.validateItem(itemID); err != nil {
		return models.Bid{}, err
	}

	bid, err := s.bids.HighestBid(ctx, itemID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get highest bid for item %s: %w", itemID, err)
	}
	return bid, nil
}

// HighestBids returns the highest bid of every auction item, in item order.
func (s *BiddingService) HighestBids(ctx context.Context) ([]ItemHighestBid, error) {
	out := make([]ItemHighestBid, 0, len(s.auction.Items))
	for _, itemID := range s.auction.Items {
		entry := ItemHighestBid{ItemID: itemID}

		bid, err := s.bids.HighestBid(ctx, itemID)
		switch {
		case err == nil:
			entry.HighestBid = &bid
		case errors.Is(err, auctionerrors.ErrNotFound):
		default:
			return nil, fmt.Errorf("service: failed to get highest bid for item %s: %w", itemID, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// BidStatus returns, per item, the user's most recent bid and whether it is
// still active.
func (s *BiddingService) BidStatus(ctx context.Context, username string) ([]UserBidStatus, error) {
	if username == "" {
		return nil, fmt.Errorf("service: %w: empty username", auctionerrors.ErrInvalidInput)
	}

	bids, err := s.bids.LatestBidsByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for user %s: %w", username, err)
	}

	out := make([]UserBidStatus, 0, len(bids))
	for _, b := range bids {
		out = append(out, UserBidStatus{
			ItemID:    b.ItemID,
			BidAmount: b.Amount,
			Status:    b.State(),
			BidTime:   b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return out, nil
}

// BidHistory returns every bid the user has placed, newest first, including
// superseded and withdrawn ones.
func (s *BiddingService) BidHistory(ctx context.Context, username string) ([]models.Bid, error) {
	if username == "" {
		return nil, fmt.Errorf("service: %w: empty username", auctionerrors.ErrInvalidInput)
	}

	bids, err := s.bids.BidsByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bid history of %s: %w", username, err)
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	return bids, nil
}

// AuctionStatus reports the auction timer at the current time.
func (s *BiddingService) AuctionStatus() auctionclock.Status {
	return s.auction.Status(s.now())
}

// validateBid checks input validity for bidding
func (s *BiddingService) validateBid(username, userUID, itemID string, amount float64) error {
	if username == "" || userUID == "" {
		return fmt.Errorf("service: %w: missing username or user uid", auctionerrors.ErrInvalidInput)
	}
	if err := s.validateItem(itemID); err != nil {
		return err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("service: %w: bid amount must be a positive number", auctionerrors.ErrInvalidInput)
	}
	return nil
}

func (s *BiddingService) validateItem(itemID string) error {
	if itemID == "" {
		return fmt.Errorf("service: %w: empty item id", auctionerrors.ErrInvalidInput)
	}
	if !s.auction.HasItem(itemID) {
		return fmt.Errorf("service: %w: unknown item %q", auctionerrors.ErrInvalidInput, itemID)
	}
	return nil
}

func (s *BiddingService) requireActive(now time.Time) error {
	if phase := s.auction.Phase(now); phase != auctionclock.PhaseActive {
		return fmt.Errorf("service: %w: auction is %s", auctionerrors.ErrAuctionNotActive, phase)
	}
	return nil
}
