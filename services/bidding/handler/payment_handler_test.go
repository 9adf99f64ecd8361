package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/payment"
	"appraisells-auction/internal/settlement"
	"appraisells-auction/internal/subscription"
	"appraisells-auction/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test CloseAuctionHandler and CalculateWinnersHandler
func TestSettlementHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockSettlementServiceInterface(ctrl)
	handler := NewSettlementHandler(mockService, "auction-1")
	router := gin.New()
	router.POST("/api/close-auction", handler.CloseAuctionHandler)
	router.GET("/api/calculate-winners/:auction_id", handler.CalculateWinnersHandler)
	router.GET("/api/user-wins/:username", handler.UserWinsHandler)

	deadline := time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)
	results := []settlement.Result{
		{Winner: models.Winner{WinnerID: 1, AuctionID: "auction-1", ItemID: "item1", Username: "bob", WinningBid: 8,
			PaymentStatus: models.PaymentPending, PaymentDeadline: deadline}, Created: true},
	}

	t.Run("close_defaults_to_configured_auction", func(t *testing.T) {
		mockService.EXPECT().Close(gomock.Any(), "auction-1").Return(results, nil)

		w, resp := performRequest(t, router, http.MethodPost, "/api/close-auction", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].([]any)
		require.Len(t, data, 1)
		winner := data[0].(map[string]any)
		require.Equal(t, "bob", winner["winner_username"])
		require.Equal(t, "pending", winner["payment_status"])
		require.Equal(t, "2025-08-27T00:00:00Z", winner["payment_deadline"])
		require.Equal(t, true, winner["created"])
	})

	t.Run("close_named_auction", func(t *testing.T) {
		mockService.EXPECT().Close(gomock.Any(), "auction-9").
			Return(nil, fmt.Errorf("service: %w", auctionerrors.ErrNotFound))

		w, _ := performRequest(t, router, http.MethodPost, "/api/close-auction", map[string]any{"auctionId": "auction-9"})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("close_malformed_body", func(t *testing.T) {
		w, resp := performRequest(t, router, http.MethodPost, "/api/close-auction", `{"auctionId":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid request payload", resp["message"])
	})

	t.Run("calculate_while_active", func(t *testing.T) {
		mockService.EXPECT().Close(gomock.Any(), "auction-1").
			Return(nil, fmt.Errorf("service: %w", auctionerrors.ErrAuctionStillActive))

		w, resp := performRequest(t, router, http.MethodGet, "/api/calculate-winners/auction-1", nil)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "auction has not ended yet", resp["message"])
	})

	t.Run("user_wins_empty", func(t *testing.T) {
		mockService.EXPECT().WinsForUser(gomock.Any(), "carol").Return(nil, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/api/user-wins/carol", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, resp["data"])
		require.NotNil(t, resp["data"])
	})
}

// Test payment and subscription handlers
func TestPaymentHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payments := NewMockPaymentServiceInterface(ctrl)
	subs := NewMockSubscriptionServiceInterface(ctrl)
	handler := NewPaymentHandler(payments, subs)

	router := gin.New()
	router.POST("/api/approve-payment", handler.ApprovePaymentHandler)
	router.POST("/api/complete-payment", handler.CompletePaymentHandler)
	router.POST("/api/approve-subscription-payment", handler.ApproveSubscriptionHandler)
	router.POST("/api/complete-subscription-payment", handler.CompleteSubscriptionHandler)
	router.GET("/api/payments/:payment_id", handler.GetPaymentHandler)
	router.GET("/api/subscription-status/:username", handler.SubscriptionStatusHandler)

	approveBody := map[string]any{"paymentId": "pay-1", "winnerId": 1, "username": "bob"}
	completeBody := map[string]any{"paymentId": "pay-1", "txid": "tx-1", "winnerId": 1, "username": "bob"}

	tests := []struct {
		name           string
		path           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "approve_success",
			path:        "/api/approve-payment",
			requestBody: approveBody,
			mockSetup: func() {
				payments.EXPECT().ApproveAuction(gomock.Any(), "pay-1", "bob", int64(1)).
					Return(payment.Outcome{Payment: models.Payment{PaymentID: "pay-1", Status: models.PaymentApproved}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "payment approved",
		},
		{
			name:           "approve_missing_winner",
			path:           "/api/approve-payment",
			requestBody:    map[string]any{"paymentId": "pay-1", "username": "bob"},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "approve_gateway_down",
			path:        "/api/approve-payment",
			requestBody: approveBody,
			mockSetup: func() {
				payments.EXPECT().ApproveAuction(gomock.Any(), "pay-1", "bob", int64(1)).
					Return(payment.Outcome{}, fmt.Errorf("service: %w", auctionerrors.ErrGatewayUnavailable))
			},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "payment gateway unavailable",
		},
		{
			name:        "approve_foreign_payment",
			path:        "/api/approve-payment",
			requestBody: approveBody,
			mockSetup: func() {
				payments.EXPECT().ApproveAuction(gomock.Any(), "pay-1", "bob", int64(1)).
					Return(payment.Outcome{}, fmt.Errorf("service: %w", auctionerrors.ErrIdentityMismatch))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "payment does not belong to this user",
		},
		{
			name:        "complete_success",
			path:        "/api/complete-payment",
			requestBody: completeBody,
			mockSetup: func() {
				payments.EXPECT().CompleteAuction(gomock.Any(), "pay-1", "tx-1", "bob", int64(1)).
					Return(payment.Outcome{Payment: models.Payment{PaymentID: "pay-1", TransactionID: "tx-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "payment completed",
		},
		{
			name:        "complete_not_approved",
			path:        "/api/complete-payment",
			requestBody: completeBody,
			mockSetup: func() {
				payments.EXPECT().CompleteAuction(gomock.Any(), "pay-1", "tx-1", "bob", int64(1)).
					Return(payment.Outcome{}, fmt.Errorf("service: %w", auctionerrors.ErrNotApproved))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "payment not approved",
		},
		{
			name:        "complete_identity_mismatch",
			path:        "/api/complete-payment",
			requestBody: completeBody,
			mockSetup: func() {
				payments.EXPECT().CompleteAuction(gomock.Any(), "pay-1", "tx-1", "bob", int64(1)).
					Return(payment.Outcome{}, fmt.Errorf("service: %w: %w", auctionerrors.ErrNotApproved, auctionerrors.ErrIdentityMismatch))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "payment does not belong to this user",
		},
		{
			name:        "approve_subscription",
			path:        "/api/approve-subscription-payment",
			requestBody: map[string]any{"paymentId": "sub-1", "username": "alice", "userUid": "uid-a"},
			mockSetup: func() {
				payments.EXPECT().ApproveSubscription(gomock.Any(), "sub-1", "alice", "uid-a").
					Return(payment.Outcome{Payment: models.Payment{PaymentID: "sub-1", Kind: models.KindSubscription}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "subscription payment approved",
		},
		{
			name:        "complete_subscription",
			path:        "/api/complete-subscription-payment",
			requestBody: map[string]any{"paymentId": "sub-1", "txId": "tx-9", "username": "alice", "userUid": "uid-a"},
			mockSetup: func() {
				end := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
				payments.EXPECT().CompleteSubscription(gomock.Any(), "sub-1", "tx-9", "alice", "uid-a").
					Return(payment.Outcome{
						Payment:      models.Payment{PaymentID: "sub-1", Kind: models.KindSubscription},
						Subscription: &models.Subscription{Username: "alice", EndDate: end, Active: true},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "subscription payment completed",
		},
		{
			name:           "complete_subscription_missing_txid",
			path:           "/api/complete-subscription-payment",
			requestBody:    map[string]any{"paymentId": "sub-1", "username": "alice", "userUid": "uid-a"},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := performRequest(t, router, http.MethodPost, tc.path, tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])
		})
	}

	t.Run("get_payment_unknown", func(t *testing.T) {
		payments.EXPECT().Get(gomock.Any(), "nope").
			Return(models.Payment{}, fmt.Errorf("get payment nope: %w", auctionerrors.ErrNotFound))

		w, _ := performRequest(t, router, http.MethodGet, "/api/payments/nope", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("subscription_status", func(t *testing.T) {
		subs.EXPECT().Status(gomock.Any(), "alice").Return(subscription.UserStatus{
			HasActiveSubscription: true,
			Subscription: &subscription.View{
				Subscription:  models.Subscription{Username: "alice", Active: true},
				DaysRemaining: 12,
				Status:        subscription.StatusActive,
			},
		}, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/api/subscription-status/alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, true, data["has_active_subscription"])
		require.Equal(t, 12.0, data["subscription"].(map[string]any)["days_remaining"])
	})
}

// Test ListPaymentsHandler and ListSubscriptionsHandler
func TestListHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payments := NewMockPaymentServiceInterface(ctrl)
	subs := NewMockSubscriptionServiceInterface(ctrl)
	handler := NewPaymentHandler(payments, subs)

	router := gin.New()
	router.GET("/api/payments", handler.ListPaymentsHandler)
	router.GET("/api/subscriptions", handler.ListSubscriptionsHandler)

	t.Run("payments_default_limit", func(t *testing.T) {
		payments.EXPECT().List(gomock.Any(), helpers.DefaultListLimit).Return([]models.Payment{
			{PaymentID: "pay-2", Username: "bob"},
			{PaymentID: "pay-1", Username: "alice"},
		}, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/api/payments", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, 2.0, data["count"])
		require.Equal(t, "pay-2", data["payments"].([]any)[0].(map[string]any)["payment_id"])
	})

	t.Run("payments_limit_capped", func(t *testing.T) {
		payments.EXPECT().List(gomock.Any(), helpers.MaxListLimit).Return([]models.Payment{}, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/api/payments?limit=100000", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 0.0, resp["data"].(map[string]any)["count"])
	})

	t.Run("payments_bad_limit", func(t *testing.T) {
		w, resp := performRequest(t, router, http.MethodGet, "/api/payments?limit=abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid request", resp["message"])
	})

	t.Run("subscriptions", func(t *testing.T) {
		subs.EXPECT().List(gomock.Any(), 10).Return(subscription.Listing{
			Count:  2,
			Active: 1,
			Subscriptions: []models.Subscription{
				{SubscriptionID: 2, Username: "bob", Active: true},
				{SubscriptionID: 1, Username: "alice"},
			},
		}, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/api/subscriptions?limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, 2.0, data["count"])
		require.Equal(t, 1.0, data["active"])
		require.Len(t, data["subscriptions"], 2)
	})

	t.Run("subscriptions_negative_limit", func(t *testing.T) {
		w, _ := performRequest(t, router, http.MethodGet, "/api/subscriptions?limit=-1", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
