package models

import "time"

// Bid represents a user's bid on an item
type Bid struct {
	BidID     int64     `json:"bid_id"`
	Username  string    `json:"username"`
	UserUID   string    `json:"user_uid"`
	ItemID    string    `json:"item_id"`
	Amount    float64   `json:"amount"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BidState is the client-facing status of a user's latest bid on an item.
type BidState string

const (
	BidStateActive  BidState = "active"
	BidStateRemoved BidState = "removed"
)

// State reports whether the bid is still competing.
func (b Bid) State() BidState {
	if b.Active {
		return BidStateActive
	}
	return BidStateRemoved
}

// PaymentStatus tracks a winner record through the payment flow.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
)

// Winner is the single settled outcome of one item's auction.
type Winner struct {
	WinnerID           int64         `json:"winner_id"`
	AuctionID          string        `json:"auction_id"`
	ItemID             string        `json:"item_id"`
	Username           string        `json:"winner_username"`
	UserUID            string        `json:"user_uid"`
	WinningBid         float64       `json:"winning_bid"`
	PaymentID          string        `json:"payment_id,omitempty"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	PaymentDeadline    time.Time     `json:"payment_deadline"`
	TransactionID      string        `json:"transaction_id,omitempty"`
	PaymentCompletedAt *time.Time    `json:"payment_completed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

// PaymentKind distinguishes what a completed payment settles.
type PaymentKind string

const (
	KindAuction      PaymentKind = "auction"
	KindSubscription PaymentKind = "subscription"
)

// PaymentState is the local view of a gateway payment.
type PaymentState string

const (
	PaymentApproved      PaymentState = "approved"
	PaymentStateComplete PaymentState = "completed"
)

// Payment mirrors a gateway payment identified by the gateway's own id.
// LinkedID is the winner id for auction payments and the username for
// subscription payments.
type Payment struct {
	PaymentID     string       `json:"payment_id"`
	Kind          PaymentKind  `json:"kind"`
	Status        PaymentState `json:"status"`
	Username      string       `json:"username"`
	UserUID       string       `json:"user_uid"`
	LinkedID      string       `json:"linked_id"`
	TransactionID string       `json:"transaction_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// Subscription is a time-bounded access grant.
type Subscription struct {
	SubscriptionID int64     `json:"subscription_id"`
	Username       string    `json:"username"`
	UserUID        string    `json:"user_uid"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Active         bool      `json:"is_active"`
	PaymentID      string    `json:"payment_id"`
	TransactionID  string    `json:"transaction_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Activity is one entry of the user activity log.
type Activity struct {
	Username  string         `json:"username"`
	UserUID   string         `json:"user_uid"`
	Type      string         `json:"activity_type"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
}

// Activity types written by the core
const (
	ActivityBidPlaced                    = "auction_bid"
	ActivityBidRemoved                   = "auction_bid_removed"
	ActivityPaymentApproved              = "payment_approved"
	ActivityPaymentCompleted             = "payment_completed"
	ActivitySubscriptionPaymentApproved  = "subscription_payment_approved"
	ActivitySubscriptionPaymentCompleted = "subscription_payment_completed"
)
