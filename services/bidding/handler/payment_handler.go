package handler

import (
	"context"
	"net/http"

	"appraisells-auction/internal/models"
	"appraisells-auction/internal/payment"
	"appraisells-auction/internal/subscription"
	"appraisells-auction/services/bidding/helpers"
	"appraisells-auction/utils"

	"github.com/gin-gonic/gin"
)

type PaymentServiceInterface interface {
	ApproveAuction(ctx context.Context, paymentID, username string, winnerID int64) (payment.Outcome, error)
	CompleteAuction(ctx context.Context, paymentID, txID, username string, winnerID int64) (payment.Outcome, error)
	ApproveSubscription(ctx context.Context, paymentID, username, userUID string) (payment.Outcome, error)
	CompleteSubscription(ctx context.Context, paymentID, txID, username, userUID string) (payment.Outcome, error)
	Get(ctx context.Context, paymentID string) (models.Payment, error)
	List(ctx context.Context, limit int) ([]models.Payment, error)
}

type SubscriptionServiceInterface interface {
	Status(ctx context.Context, username string) (subscription.UserStatus, error)
	List(ctx context.Context, limit int) (subscription.Listing, error)
}

type PaymentHandler struct {
	payments      PaymentServiceInterface
	subscriptions SubscriptionServiceInterface
}

func NewPaymentHandler(payments PaymentServiceInterface, subscriptions SubscriptionServiceInterface) *PaymentHandler {
	return &PaymentHandler{payments: payments, subscriptions: subscriptions}
}

// ApprovePaymentHandler handles POST /api/approve-payment
func (h *PaymentHandler) ApprovePaymentHandler(c *gin.Context) {
	var req helpers.ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ApprovePaymentHandler", err)
		return
	}

	out, err := h.payments.ApproveAuction(c.Request.Context(), req.PaymentID, req.Username, req.WinnerID)
	if err != nil {
		helpers.HandleServiceError(c, "ApprovePaymentHandler", err, map[string]any{
			"payment_id": req.PaymentID,
			"winner_id":  req.WinnerID,
			"username":   req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, out, "payment approved")
	helpers.LogSuccess("ApprovePaymentHandler", "payment approved", map[string]any{
		"payment_id": req.PaymentID,
		"replayed":   out.Replayed,
	})
}

// CompletePaymentHandler handles POST /api/complete-payment
func (h *PaymentHandler) CompletePaymentHandler(c *gin.Context) {
	var req helpers.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CompletePaymentHandler", err)
		return
	}

	out, err := h.payments.CompleteAuction(c.Request.Context(), req.PaymentID, req.TxID, req.Username, req.WinnerID)
	if err != nil {
		helpers.HandleServiceError(c, "CompletePaymentHandler", err, map[string]any{
			"payment_id": req.PaymentID,
			"winner_id":  req.WinnerID,
			"username":   req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, out, "payment completed")
	helpers.LogSuccess("CompletePaymentHandler", "payment completed", map[string]any{
		"payment_id": req.PaymentID,
		"txid":       out.Payment.TransactionID,
		"replayed":   out.Replayed,
	})
}

// ApproveSubscriptionHandler handles POST /api/approve-subscription-payment
func (h *PaymentHandler) ApproveSubscriptionHandler(c *gin.Context) {
	var req helpers.ApproveSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ApproveSubscriptionHandler", err)
		return
	}

	out, err := h.payments.ApproveSubscription(c.Request.Context(), req.PaymentID, req.Username, req.UserUID)
	if err != nil {
		helpers.HandleServiceError(c, "ApproveSubscriptionHandler", err, map[string]any{
			"payment_id": req.PaymentID,
			"username":   req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, out, "subscription payment approved")
}

// CompleteSubscriptionHandler handles POST /api/complete-subscription-payment
func (h *PaymentHandler) CompleteSubscriptionHandler(c *gin.Context) {
	var req helpers.CompleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CompleteSubscriptionHandler", err)
		return
	}

	out, err := h.payments.CompleteSubscription(c.Request.Context(), req.PaymentID, req.TxID, req.Username, req.UserUID)
	if err != nil {
		helpers.HandleServiceError(c, "CompleteSubscriptionHandler", err, map[string]any{
			"payment_id": req.PaymentID,
			"username":   req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, out, "subscription payment completed")
	fields := map[string]any{"payment_id": req.PaymentID, "replayed": out.Replayed}
	if out.Subscription != nil {
		fields["end_date"] = helpers.FormatTime(out.Subscription.EndDate)
	}
	helpers.LogSuccess("CompleteSubscriptionHandler", "subscription payment completed", fields)
}

// GetPaymentHandler handles GET /api/payments/:payment_id
func (h *PaymentHandler) GetPaymentHandler(c *gin.Context) {
	paymentID := c.Param("payment_id")
	p, err := h.payments.Get(c.Request.Context(), paymentID)
	if err != nil {
		helpers.HandleServiceError(c, "GetPaymentHandler", err, map[string]any{"payment_id": paymentID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, p, "payment retrieved successfully")
}

// ListPaymentsHandler handles GET /api/payments
func (h *PaymentHandler) ListPaymentsHandler(c *gin.Context) {
	limit, err := helpers.ParseLimit(c)
	if err != nil {
		helpers.HandleServiceError(c, "ListPaymentsHandler", err, nil)
		return
	}
	payments, err := h.payments.List(c.Request.Context(), limit)
	if err != nil {
		helpers.HandleServiceError(c, "ListPaymentsHandler", err, map[string]any{"limit": limit})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.PaymentListResponse{Count: len(payments), Payments: payments},
		"payments retrieved successfully")
}

// ListSubscriptionsHandler handles GET /api/subscriptions
func (h *PaymentHandler) ListSubscriptionsHandler(c *gin.Context) {
	limit, err := helpers.ParseLimit(c)
	if err != nil {
		helpers.HandleServiceError(c, "ListSubscriptionsHandler", err, nil)
		return
	}
	listing, err := h.subscriptions.List(c.Request.Context(), limit)
	if err != nil {
		helpers.HandleServiceError(c, "ListSubscriptionsHandler", err, map[string]any{"limit": limit})
		return
	}
	utils.JSONResponse(c, http.StatusOK, listing, "subscriptions retrieved successfully")
}

// SubscriptionStatusHandler handles GET /api/subscription-status/:username
func (h *PaymentHandler) SubscriptionStatusHandler(c *gin.Context) {
	username := c.Param("username")
	status, err := h.subscriptions.Status(c.Request.Context(), username)
	if err != nil {
		helpers.HandleServiceError(c, "SubscriptionStatusHandler", err, map[string]any{"username": username})
		return
	}
	utils.JSONResponse(c, http.StatusOK, status, "subscription status retrieved successfully")
}
