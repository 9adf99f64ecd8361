package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// PlaceBid validation through the full stack
func TestPlaceBidHandler(t *testing.T) {
	tests := []struct {
		name       string
		request    any
		wantStatus int
	}{
		{
			name:       "Valid_Bid",
			request:    map[string]any{"username": "alice", "userUid": "uid-a", "itemId": "item1", "bidAmount": 100},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Invalid_JSON",
			request:    "{itemId: 'missing quotes', bidAmount: 100}",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Unknown_Item",
			request:    map[string]any{"username": "alice", "userUid": "uid-a", "itemId": "item99", "bidAmount": 100},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Zero_Amount",
			request:    map[string]any{"username": "alice", "userUid": "uid-a", "itemId": "item1", "bidAmount": 0},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := SetupTestApp(t, stores(t)["memory"])
			resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/place-auction-bid", tt.request)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "item1", data["item_id"])
				require.Equal(t, "alice", data["username"])
				require.Equal(t, 100.0, data["bid_amount"])
				require.Equal(t, "active", data["status"])

				_, err := time.Parse(time.RFC3339, data["created_at"].(string))
				require.NoError(t, err)
			}
		})
	}
}

// Bidding, settlement and payment of one item, end to end
func TestAuctionLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			app := SetupTestApp(t, store)

			// bids during the auction: alice 5, bob 8, carol 8 a second later
			placeBid(t, app, "alice", "item1", 5, http.StatusCreated)
			app.Clock.Set(app.Clock.Now().Add(time.Second))
			placeBid(t, app, "bob", "item1", 8, http.StatusCreated)
			app.Clock.Set(app.Clock.Now().Add(time.Second))
			placeBid(t, app, "carol", "item1", 8, http.StatusCreated)
			placeBid(t, app, "alice", "item2", 3, http.StatusCreated)

			resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/items/item1/highest-bid", nil)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "bob", resp["data"].(map[string]any)["username"])

			// closing early is rejected
			_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/close-auction", nil)
			require.Equal(t, http.StatusConflict, w.Code)

			// alice withdraws item2 before the end
			_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/remove-auction-bid", map[string]any{
				"username": "alice", "userUid": "uid-alice", "itemId": "item2",
			})
			require.Equal(t, http.StatusOK, w.Code)

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/user-bid-status/alice", nil)
			require.Equal(t, http.StatusOK, w.Code)
			statuses := resp["data"].(map[string]any)
			require.Equal(t, "active", statuses["item1"].(map[string]any)["status"])
			require.Equal(t, "removed", statuses["item2"].(map[string]any)["status"])

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/auction-bids/alice", nil)
			require.Equal(t, http.StatusOK, w.Code)
			history := resp["data"].([]any)
			require.Len(t, history, 2)
			require.Equal(t, "item2", history[0].(map[string]any)["item_id"])
			require.Equal(t, "removed", history[0].(map[string]any)["status"])

			// after the end no more bids are accepted
			app.Clock.Set(auctionEnd.Add(time.Minute))
			placeBid(t, app, "dave", "item1", 50, http.StatusConflict)

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/auction-status", nil)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, false, resp["data"].(map[string]any)["is_active"])

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/close-auction", nil)
			require.Equal(t, http.StatusOK, w.Code)
			winners := resp["data"].([]any)
			require.Len(t, winners, 1)
			winner := winners[0].(map[string]any)
			require.Equal(t, "item1", winner["item_id"])
			require.Equal(t, "bob", winner["winner_username"])
			require.Equal(t, 8.0, winner["winning_bid"])
			winnerID := int64(winner["winner_id"].(float64))

			// the GET route settles the same auction with the same result
			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/calculate-winners/auction-1", nil)
			require.Equal(t, http.StatusOK, w.Code)
			again := resp["data"].([]any)[0].(map[string]any)
			require.Equal(t, float64(winnerID), again["winner_id"])
			require.Equal(t, false, again["created"])

			// completing before approval changes nothing
			completeBody := map[string]any{"paymentId": "pay-1", "txid": "tx-1", "winnerId": winnerID, "username": "bob"}
			_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/complete-payment", completeBody)
			require.Equal(t, http.StatusConflict, w.Code)
			require.Zero(t, app.Gateway.Calls("/v2/payments/pay-1/complete"))

			approveBody := map[string]any{"paymentId": "pay-1", "winnerId": winnerID, "username": "bob"}
			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/approve-payment", approveBody)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			require.Equal(t, "processing", resp["data"].(map[string]any)["winner"].(map[string]any)["payment_status"])

			// carol cannot approve bob's win
			_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/approve-payment", map[string]any{
				"paymentId": "pay-2", "winnerId": winnerID, "username": "carol",
			})
			require.Equal(t, http.StatusNotFound, w.Code)

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/complete-payment", completeBody)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			data := resp["data"].(map[string]any)
			require.Equal(t, "completed", data["winner"].(map[string]any)["payment_status"])
			require.Equal(t, "tx-1", data["payment"].(map[string]any)["transaction_id"])

			// a replay with another tx id keeps tx-1 and skips the gateway
			completeBody["txid"] = "tx-2"
			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/complete-payment", completeBody)
			require.Equal(t, http.StatusOK, w.Code)
			data = resp["data"].(map[string]any)
			require.Equal(t, true, data["replayed"])
			require.Equal(t, "tx-1", data["payment"].(map[string]any)["transaction_id"])
			require.Equal(t, 1, app.Gateway.Calls("/v2/payments/pay-1/complete"))
			require.Equal(t, 1, app.Gateway.Calls("/v2/payments/pay-1/approve"))

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/user-wins/bob", nil)
			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, resp["data"].([]any), 1)

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/payments?limit=10", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var listed []string
			for _, p := range resp["data"].(map[string]any)["payments"].([]any) {
				listed = append(listed, p.(map[string]any)["payment_id"].(string))
			}
			require.Contains(t, listed, "pay-1")
		})
	}
}

// Subscription purchases extend from the current end date
func TestSubscriptionLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			app := SetupTestApp(t, store)
			app.Clock.Set(time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC))

			resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/subscription-status/alice", nil)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, false, resp["data"].(map[string]any)["has_active_subscription"])

			buy := func(paymentID, txID string) map[string]any {
				_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/approve-subscription-payment", map[string]any{
					"paymentId": paymentID, "username": "alice", "userUid": "uid-a",
				})
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
				resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/complete-subscription-payment", map[string]any{
					"paymentId": paymentID, "txId": txID, "username": "alice", "userUid": "uid-a",
				})
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
				return resp["data"].(map[string]any)["subscription"].(map[string]any)
			}

			first := buy("sub-1", "tx-1")
			require.Equal(t, "2025-10-01T00:00:00Z", first["end_date"])

			app.Clock.Set(time.Date(2025, 9, 11, 9, 0, 0, 0, time.UTC))
			second := buy("sub-2", "tx-2")
			require.Equal(t, "2025-10-31T00:00:00Z", second["end_date"])
			require.Equal(t, first["subscription_id"], second["subscription_id"])

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/subscription-status/alice", nil)
			require.Equal(t, http.StatusOK, w.Code)
			status := resp["data"].(map[string]any)
			require.Equal(t, true, status["has_active_subscription"])
			require.Equal(t, 49.0, status["subscription"].(map[string]any)["days_remaining"])

			resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/subscriptions", nil)
			require.Equal(t, http.StatusOK, w.Code)
			listing := resp["data"].(map[string]any)
			require.Equal(t, 1.0, listing["count"])
			require.Equal(t, 1.0, listing["active"])

			// another user cannot claim a used payment id
			_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/approve-subscription-payment", map[string]any{
				"paymentId": "sub-1", "username": "bob", "userUid": "uid-b",
			})
			require.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

// A failing gateway leaves the payment unrecorded and can be retried
func TestGatewayFailure(t *testing.T) {
	app := SetupTestApp(t, stores(t)["memory"])
	app.Clock.Set(time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC))
	body := map[string]any{"paymentId": "sub-1", "username": "alice", "userUid": "uid-a"}

	app.Gateway.SetFailing(true)
	_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/approve-subscription-payment", body)
	require.Equal(t, http.StatusBadGateway, w.Code)

	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/api/payments/sub-1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	app.Gateway.SetFailing(false)
	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/approve-subscription-payment", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "approved", resp["data"].(map[string]any)["payment"].(map[string]any)["status"])
}

// Concurrent settlement through both routes yields one winner per item
func TestConcurrentClose(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			app := SetupTestApp(t, store)
			for i := 1; i <= 5; i++ {
				placeBid(t, app, fmt.Sprintf("user%d", i), fmt.Sprintf("item%d", i), float64(i), http.StatusCreated)
			}
			app.Clock.Set(auctionEnd.Add(time.Hour))

			const callers = 10
			var wg sync.WaitGroup
			ids := make([][]float64, callers)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					method, path := http.MethodPost, "/api/close-auction"
					if i%2 == 1 {
						method, path = http.MethodGet, "/api/calculate-winners/auction-1"
					}
					resp, w := ExecuteRequestAndParse(t, app.Router, method, path, nil)
					if w.Code != http.StatusOK {
						return
					}
					for _, r := range resp["data"].([]any) {
						ids[i] = append(ids[i], r.(map[string]any)["winner_id"].(float64))
					}
				}(i)
			}
			wg.Wait()

			for i := 1; i < callers; i++ {
				require.Len(t, ids[i], 5)
				require.Equal(t, ids[0], ids[i])
			}
		})
	}
}
