package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"appraisells-auction/internal/models"
	"appraisells-auction/internal/settlement"
	"appraisells-auction/services/bidding/helpers"
	"appraisells-auction/utils"

	"github.com/gin-gonic/gin"
)

type SettlementServiceInterface interface {
	Close(ctx context.Context, auctionID string) ([]settlement.Result, error)
	WinsForUser(ctx context.Context, username string) ([]models.Winner, error)
}

type SettlementHandler struct {
	service   SettlementServiceInterface
	auctionID string
}

// NewSettlementHandler serves settlement of the auction identified by
// auctionID when a request does not name one.
func NewSettlementHandler(service SettlementServiceInterface, auctionID string) *SettlementHandler {
	return &SettlementHandler{service: service, auctionID: auctionID}
}

// CloseAuctionHandler handles POST /api/close-auction
func (h *SettlementHandler) CloseAuctionHandler(c *gin.Context) {
	var req helpers.CloseAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		helpers.HandleBindError(c, "CloseAuctionHandler", err)
		return
	}
	if req.AuctionID == "" {
		req.AuctionID = h.auctionID
	}
	h.close(c, "CloseAuctionHandler", req.AuctionID)
}

// CalculateWinnersHandler handles GET /api/calculate-winners/:auction_id
func (h *SettlementHandler) CalculateWinnersHandler(c *gin.Context) {
	h.close(c, "CalculateWinnersHandler", c.Param("auction_id"))
}

func (h *SettlementHandler) close(c *gin.Context, handlerName, auctionID string) {
	results, err := h.service.Close(c.Request.Context(), auctionID)
	if err != nil {
		helpers.HandleServiceError(c, handlerName, err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToWinnerResponses(results), "auction winners determined")
	helpers.LogSuccess(handlerName, "auction winners determined", map[string]any{
		"auction_id": auctionID,
		"winners":    len(results),
	})
}

// UserWinsHandler handles GET /api/user-wins/:username
func (h *SettlementHandler) UserWinsHandler(c *gin.Context) {
	username := c.Param("username")
	wins, err := h.service.WinsForUser(c.Request.Context(), username)
	if err != nil {
		helpers.HandleServiceError(c, "UserWinsHandler", err, map[string]any{"username": username})
		return
	}

	if wins == nil {
		wins = []models.Winner{}
	}
	utils.JSONResponse(c, http.StatusOK, wins, "user wins retrieved successfully")
}
