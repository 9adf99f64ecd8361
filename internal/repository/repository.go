package repository

import (
	"context"
	"time"

	"appraisells-auction/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository appraisells-auction/internal/repository BidStore

// TxRunner runs fn inside one storage transaction. The transaction travels in
// the context, so store methods called with the callback's ctx join it.
// Nested calls join the outer transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// BidStore defines the bid ledger storage.
type BidStore interface {
	// SupersedeBid deactivates the user's active bid for the item, if any,
	// and appends bid as the new active one. Both happen atomically.
	SupersedeBid(ctx context.Context, bid models.Bid) (models.Bid, error)
	// DeactivateBid withdraws the user's active bid for the item.
	// Returns ErrNotFound if no bid is active.
	DeactivateBid(ctx context.Context, username, itemID string, at time.Time) (models.Bid, error)
	// HighestBid returns the max-amount active bid, earliest first on ties.
	// Returns ErrNoBids if the item has no active bid.
	HighestBid(ctx context.Context, itemID string) (models.Bid, error)
	// LatestBidsByUser returns the most recent bid per item for username.
	LatestBidsByUser(ctx context.Context, username string) ([]models.Bid, error)
	// BidsByUser returns every bid of username, active or not, newest first.
	BidsByUser(ctx context.Context, username string) ([]models.Bid, error)
}

// WinnerStore defines storage for settled winner records.
type WinnerStore interface {
	// InsertOrFetchWinner stores w unless a winner for w.ItemID exists. It
	// returns the stored record and whether this call created it.
	InsertOrFetchWinner(ctx context.Context, w models.Winner) (models.Winner, bool, error)
	GetWinner(ctx context.Context, winnerID int64) (models.Winner, error)
	WinnersByUser(ctx context.Context, username string) ([]models.Winner, error)
	// MarkWinnerProcessing links paymentID to a winner that is not completed yet.
	MarkWinnerProcessing(ctx context.Context, winnerID int64, username, paymentID string) error
	// MarkWinnerCompleted records paymentID as the completed payment of a
	// winner. It fails with ErrNotFound unless the winner is linked to
	// paymentID.
	MarkWinnerCompleted(ctx context.Context, winnerID int64, paymentID, txID string, at time.Time) error
}

// PaymentStore defines storage for gateway payments keyed by payment id.
type PaymentStore interface {
	GetPayment(ctx context.Context, paymentID string) (models.Payment, error)
	// InsertApprovedPayment stores p in approved state unless a row with the
	// same payment id exists, and returns the stored row.
	InsertApprovedPayment(ctx context.Context, p models.Payment) (models.Payment, error)
	// CompletePayment moves an approved payment to completed. It reports
	// false when the payment was not in approved state.
	CompletePayment(ctx context.Context, paymentID, txID string, at time.Time) (bool, error)
	// ListPayments returns up to limit payments, newest first.
	ListPayments(ctx context.Context, limit int) ([]models.Payment, error)
}

// SubscriptionStore defines storage for user subscriptions.
type SubscriptionStore interface {
	// ActiveSubscription returns the user's active row, expired or not.
	ActiveSubscription(ctx context.Context, username string) (models.Subscription, error)
	CreateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error)
	ExtendSubscription(ctx context.Context, subscriptionID int64, endDate time.Time, paymentID, txID string, at time.Time) error
	DeactivateSubscription(ctx context.Context, subscriptionID int64, at time.Time) error
	// ListSubscriptions returns up to limit rows of every user, newest first.
	ListSubscriptions(ctx context.Context, limit int) ([]models.Subscription, error)
}

// ActivityStore persists the user activity log.
type ActivityStore interface {
	InsertActivity(ctx context.Context, a models.Activity) error
}

// ProfileStore keeps last-seen metadata of users.
type ProfileStore interface {
	TouchProfile(ctx context.Context, username, userUID, wallet string, at time.Time) error
}

// Store is the full storage handle handed to the services at construction.
type Store interface {
	TxRunner
	BidStore
	WinnerStore
	PaymentStore
	SubscriptionStore
	ActivityStore
	ProfileStore
	Ping(ctx context.Context) error
	Close() error
}
