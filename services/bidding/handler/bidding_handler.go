package handler

import (
	"context"
	"net/http"

	"appraisells-auction/internal/auctionclock"
	bidding "appraisells-auction/internal/biddingService"
	"appraisells-auction/internal/models"
	"appraisells-auction/services/bidding/helpers"
	"appraisells-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_services.go -package=handler appraisells-auction/services/bidding/handler BiddingServiceInterface,SettlementServiceInterface,PaymentServiceInterface,SubscriptionServiceInterface

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, username, userUID, itemID string, amount float64) (models.Bid, error)
	WithdrawBid(ctx context.Context, username, userUID, itemID string) (models.Bid, error)
	HighestBid(ctx context.Context, itemID string) (models.Bid, error)
	HighestBids(ctx context.Context) ([]bidding.ItemHighestBid, error)
	BidStatus(ctx context.Context, username string) ([]bidding.UserBidStatus, error)
	BidHistory(ctx context.Context, username string) ([]models.Bid, error)
	AuctionStatus() auctionclock.Status
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// PlaceBidHandler handles POST /api/place-auction-bid and /api/auction-bid
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), req.Username, req.UserUID, req.ItemID, req.BidAmount)
	if err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", err, map[string]any{
			"item_id":  req.ItemID,
			"username": req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":   bid.BidID,
		"item_id":  bid.ItemID,
		"username": bid.Username,
		"amount":   bid.Amount,
	})
}

// RemoveBidHandler handles POST /api/remove-auction-bid
func (h *BiddingHandler) RemoveBidHandler(c *gin.Context) {
	var req helpers.RemoveBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RemoveBidHandler", err)
		return
	}

	bid, err := h.service.WithdrawBid(c.Request.Context(), req.Username, req.UserUID, req.ItemID)
	if err != nil {
		helpers.HandleServiceError(c, "RemoveBidHandler", err, map[string]any{
			"item_id":  req.ItemID,
			"username": req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "bid removed successfully")
	helpers.LogSuccess("RemoveBidHandler", "bid removed successfully", map[string]any{
		"bid_id":   bid.BidID,
		"item_id":  bid.ItemID,
		"username": bid.Username,
	})
}

// HighestBidHandler handles GET /api/items/:item_id/highest-bid
func (h *BiddingHandler) HighestBidHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	bid, err := h.service.HighestBid(c.Request.Context(), itemID)
	if err != nil {
		helpers.HandleServiceError(c, "HighestBidHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToHighestBidResponse(bid), "highest bid retrieved successfully")
}

// HighestBidsHandler handles GET /api/auction-highest-bids
func (h *BiddingHandler) HighestBidsHandler(c *gin.Context) {
	bids, err := h.service.HighestBids(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "HighestBidsHandler", err, nil)
		return
	}

	out := make(map[string]*helpers.HighestBidResponse, len(bids))
	for _, b := range bids {
		if b.HighestBid == nil {
			out[b.ItemID] = nil
			continue
		}
		resp := helpers.ToHighestBidResponse(*b.HighestBid)
		out[b.ItemID] = &resp
	}

	utils.JSONResponse(c, http.StatusOK, out, "highest bids retrieved successfully")
}

// UserBidStatusHandler handles GET /api/user-bid-status/:username
func (h *BiddingHandler) UserBidStatusHandler(c *gin.Context) {
	username := c.Param("username")
	statuses, err := h.service.BidStatus(c.Request.Context(), username)
	if err != nil {
		helpers.HandleServiceError(c, "UserBidStatusHandler", err, map[string]any{"username": username})
		return
	}

	out := make(map[string]bidding.UserBidStatus, len(statuses))
	for _, s := range statuses {
		out[s.ItemID] = s
	}

	utils.JSONResponse(c, http.StatusOK, out, "bid status retrieved successfully")
}

// UserBidsHandler handles GET /api/auction-bids/:username
func (h *BiddingHandler) UserBidsHandler(c *gin.Context) {
	username := c.Param("username")
	bids, err := h.service.BidHistory(c.Request.Context(), username)
	if err != nil {
		helpers.HandleServiceError(c, "UserBidsHandler", err, map[string]any{"username": username})
		return
	}

	out := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, helpers.ToBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, out, "bid history retrieved successfully")
}

// AuctionStatusHandler handles GET /api/auction-status
func (h *BiddingHandler) AuctionStatusHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.service.AuctionStatus(), "auction status retrieved successfully")
}
