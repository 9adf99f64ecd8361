package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"appraisells-auction/internal/auctionclock"
	bidding "appraisells-auction/internal/biddingService"
	"appraisells-auction/internal/gateway"
	"appraisells-auction/internal/payment"
	"appraisells-auction/internal/repository"
	"appraisells-auction/internal/server"
	"appraisells-auction/internal/settlement"
	"appraisells-auction/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	auctionStart = time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	auctionEnd   = time.Date(2025, 8, 25, 23, 59, 59, 0, time.UTC)
)

// testClock starts inside the auction window and can be moved by the test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeGateway counts payment API calls and can be told to fail.
type fakeGateway struct {
	mu      sync.Mutex
	calls   map[string]int
	failing bool
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[r.URL.Path]++
	if g.failing || !strings.HasPrefix(r.Header.Get("Authorization"), "Key ") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{}`))
}

func (g *fakeGateway) Calls(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[path]
}

func (g *fakeGateway) SetFailing(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing = v
}

// TestApp is a fully wired router over a real store.
type TestApp struct {
	Router  *gin.Engine
	Clock   *testClock
	Gateway *fakeGateway
	Store   repository.Store
}

// stores returns the store backends every flow test runs against.
func stores(t *testing.T) map[string]repository.Store {
	t.Helper()
	sqlRepo, err := repository.OpenSQL(context.Background(), "sqlite",
		"file:"+filepath.Join(t.TempDir(), "auction.db")+"?_pragma=busy_timeout(5000)&_time_format=sqlite",
		repository.SQLOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlRepo.Close() })

	return map[string]repository.Store{
		"memory": repository.NewMemoryRepo(),
		"sqlite": sqlRepo,
	}
}

// SetupTestApp wires every service the way main does, with a pinned clock
// and a local payments API.
func SetupTestApp(t *testing.T, store repository.Store) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := &testClock{now: auctionStart.Add(24 * time.Hour)}
	fake := &fakeGateway{calls: map[string]int{}}
	gwServer := httptest.NewServer(fake)
	t.Cleanup(gwServer.Close)

	auction := auctionclock.Auction{
		ID:    "auction-1",
		Name:  "Auction 1",
		Start: auctionStart,
		End:   auctionEnd,
		Items: []string{"item1", "item2", "item3", "item4", "item5"},
	}

	biddingSvc := bidding.NewBiddingService(bidding.Deps{Bids: store, Auction: auction, Clock: clock.Now})
	settlementSvc := settlement.NewService(settlement.Deps{Store: store, Auction: auction, PaymentWindow: 24 * time.Hour, Clock: clock.Now})
	subscriptionSvc := subscription.NewService(subscription.Deps{Store: store, Duration: 30 * 24 * time.Hour, Clock: clock.Now})
	paymentSvc := payment.NewService(payment.Deps{
		Store:         store,
		Gateway:       gateway.NewPiClient(gwServer.URL, "test-key", 2*time.Second),
		Subscriptions: subscriptionSvc,
		Clock:         clock.Now,
	})

	router := server.SetupRouter(server.RouterDeps{
		Bidding:           biddingSvc,
		Settlement:        settlementSvc,
		Payments:          paymentSvc,
		Subscriptions:     subscriptionSvc,
		AuctionID:         auction.ID,
		Store:             store,
		GatewayConfigured: true,
	})

	return &TestApp{Router: router, Clock: clock, Gateway: fake, Store: store}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router http.Handler, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// placeBid posts a bid and requires the given status
func placeBid(t *testing.T, app *TestApp, username, itemID string, amount float64, wantStatus int) map[string]any {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/api/place-auction-bid", map[string]any{
		"username":  username,
		"userUid":   "uid-" + username,
		"itemId":    itemID,
		"bidAmount": amount,
	})
	require.Equal(t, wantStatus, w.Code, w.Body.String())
	return resp
}
