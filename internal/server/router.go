package server

import (
	"context"
	"net/http"
	"time"

	"appraisells-auction/internal/metrics"
	handler "appraisells-auction/services/bidding/handler"
	"appraisells-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps are the services exposed over HTTP.
type RouterDeps struct {
	Bidding       handler.BiddingServiceInterface
	Settlement    handler.SettlementServiceInterface
	Payments      handler.PaymentServiceInterface
	Subscriptions handler.SubscriptionServiceInterface
	AuctionID     string

	Store             Pinger
	GatewayConfigured bool
	Metrics           *metrics.Metrics
	// Gatherer backs /metrics; the route is omitted when nil.
	Gatherer prometheus.Gatherer
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(d RouterDeps) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // assign X-Request-ID
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(MetricsMiddleware(d.Metrics))

	biddingHandler := handler.NewBiddingHandler(d.Bidding)
	settlementHandler := handler.NewSettlementHandler(d.Settlement, d.AuctionID)
	paymentHandler := handler.NewPaymentHandler(d.Payments, d.Subscriptions)

	api := router.Group("/api")
	{
		api.POST("/place-auction-bid", biddingHandler.PlaceBidHandler)
		api.POST("/auction-bid", biddingHandler.PlaceBidHandler)
		api.POST("/remove-auction-bid", biddingHandler.RemoveBidHandler)
		api.GET("/items/:item_id/highest-bid", biddingHandler.HighestBidHandler)
		api.GET("/auction-highest-bids", biddingHandler.HighestBidsHandler)
		api.GET("/user-bid-status/:username", biddingHandler.UserBidStatusHandler)
		api.GET("/auction-bids/:username", biddingHandler.UserBidsHandler)
		api.GET("/auction-status", biddingHandler.AuctionStatusHandler)

		api.POST("/close-auction", settlementHandler.CloseAuctionHandler)
		api.GET("/calculate-winners/:auction_id", settlementHandler.CalculateWinnersHandler)
		api.GET("/user-wins/:username", settlementHandler.UserWinsHandler)

		api.POST("/approve-payment", paymentHandler.ApprovePaymentHandler)
		api.POST("/complete-payment", paymentHandler.CompletePaymentHandler)
		api.POST("/approve-subscription-payment", paymentHandler.ApproveSubscriptionHandler)
		api.POST("/complete-subscription-payment", paymentHandler.CompleteSubscriptionHandler)
		api.GET("/payments", paymentHandler.ListPaymentsHandler)
		api.GET("/payments/:payment_id", paymentHandler.GetPaymentHandler)
		api.GET("/subscriptions", paymentHandler.ListSubscriptionsHandler)
		api.GET("/subscription-status/:username", paymentHandler.SubscriptionStatusHandler)
	}

	router.GET("/health", healthHandler(d.Store, d.GatewayConfigured))
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	return router
}

// healthHandler reports store connectivity and gateway configuration
func healthHandler(store Pinger, gatewayConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		data := gin.H{
			"database":           "connected",
			"gateway_configured": gatewayConfigured,
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
		}
		if store != nil {
			if err := store.Ping(ctx); err != nil {
				utils.JSONError(c, http.StatusServiceUnavailable, err, "storage unavailable")
				utils.Warn("health check failed", map[string]any{"error": err.Error()})
				return
			}
		}
		utils.JSONResponse(c, http.StatusOK, data, "ok")
	}
}
