package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/settlement"
	"appraisells-auction/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{
		"error":      err.Error(),
		"request_id": RequestID(c),
	})
}

// HandleServiceError maps err and sends it as a JSON error
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, err, message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	fields["request_id"] = RequestID(c)
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
// Identity mismatches are checked first since they may also wrap
// ErrNotApproved.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrIdentityMismatch):
		return http.StatusForbidden, "payment does not belong to this user"
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive):
		return http.StatusConflict, "auction is not active"
	case errors.Is(err, auctionerrors.ErrAuctionStillActive):
		return http.StatusConflict, "auction has not ended yet"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for item"
	case errors.Is(err, auctionerrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, auctionerrors.ErrNotApproved):
		return http.StatusConflict, "payment not approved"
	case errors.Is(err, auctionerrors.ErrConflict):
		return http.StatusConflict, "conflicting record exists"
	case errors.Is(err, auctionerrors.ErrGatewayUnavailable):
		return http.StatusBadGateway, "payment gateway unavailable"
	case errors.Is(err, auctionerrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ParseLimit reads the optional ?limit= query value, capped at MaxListLimit.
func ParseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit %q: %w", raw, auctionerrors.ErrInvalidInput)
	}
	if n > MaxListLimit {
		n = MaxListLimit
	}
	return n, nil
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestID returns the id assigned to the request by the server middleware.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// FormatTime renders timestamps the same way across responses
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ToBidResponse converts a ledger bid for the wire
func ToBidResponse(b models.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		Username:  b.Username,
		ItemID:    b.ItemID,
		BidAmount: b.Amount,
		Status:    string(b.State()),
		CreatedAt: FormatTime(b.CreatedAt),
	}
}

// ToHighestBidResponse converts the leading bid of an item for the wire
func ToHighestBidResponse(b models.Bid) HighestBidResponse {
	return HighestBidResponse{
		ItemID:     b.ItemID,
		Username:   b.Username,
		HighestBid: b.Amount,
		BidTime:    FormatTime(b.CreatedAt),
	}
}

// ToWinnerResponses converts settlement results for the wire
func ToWinnerResponses(results []settlement.Result) []WinnerResponse {
	out := make([]WinnerResponse, 0, len(results))
	for _, r := range results {
		out = append(out, WinnerResponse{
			WinnerID:        r.WinnerID,
			AuctionID:       r.AuctionID,
			ItemID:          r.ItemID,
			Username:        r.Username,
			WinningBid:      r.WinningBid,
			PaymentStatus:   string(r.PaymentStatus),
			PaymentDeadline: FormatTime(r.PaymentDeadline),
			Created:         r.Created,
		})
	}
	return out
}
