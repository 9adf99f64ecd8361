package helpers

import "appraisells-auction/internal/models"

// Request/Response DTOs
type PlaceBidRequest struct {
	Username  string  `json:"username" binding:"required"`
	UserUID   string  `json:"userUid" binding:"required"`
	ItemID    string  `json:"itemId" binding:"required"`
	BidAmount float64 `json:"bidAmount" binding:"required,gt=0"`
}

type RemoveBidRequest struct {
	Username string `json:"username" binding:"required"`
	UserUID  string `json:"userUid" binding:"required"`
	ItemID   string `json:"itemId" binding:"required"`
}

type BidResponse struct {
	BidID     int64   `json:"bid_id"`
	Username  string  `json:"username"`
	ItemID    string  `json:"item_id"`
	BidAmount float64 `json:"bid_amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

type HighestBidResponse struct {
	ItemID     string  `json:"item_id"`
	Username   string  `json:"username"`
	HighestBid float64 `json:"highest_bid"`
	BidTime    string  `json:"bid_time"`
}

// CloseAuctionRequest closes the configured auction when AuctionID is empty.
type CloseAuctionRequest struct {
	AuctionID string `json:"auctionId"`
}

type WinnerResponse struct {
	WinnerID        int64   `json:"winner_id"`
	AuctionID       string  `json:"auction_id"`
	ItemID          string  `json:"item_id"`
	Username        string  `json:"winner_username"`
	WinningBid      float64 `json:"winning_bid"`
	PaymentStatus   string  `json:"payment_status"`
	PaymentDeadline string  `json:"payment_deadline"`
	Created         bool    `json:"created"`
}

type ApprovePaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	WinnerID  int64  `json:"winnerId" binding:"required,gt=0"`
	Username  string `json:"username" binding:"required"`
}

type CompletePaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	TxID      string `json:"txid" binding:"required"`
	WinnerID  int64  `json:"winnerId" binding:"required,gt=0"`
	Username  string `json:"username" binding:"required"`
}

type ApproveSubscriptionRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	Username  string `json:"username" binding:"required"`
	UserUID   string `json:"userUid" binding:"required"`
}

type CompleteSubscriptionRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	TxID      string `json:"txId" binding:"required"`
	Username  string `json:"username" binding:"required"`
	UserUID   string `json:"userUid" binding:"required"`
}

type PaymentListResponse struct {
	Count    int              `json:"count"`
	Payments []models.Payment `json:"payments"`
}
