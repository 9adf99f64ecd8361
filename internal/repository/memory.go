package repository

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of Store.
// It is meant for development and tests; nothing survives a restart.
type MemoryRepo struct {
	mu sync.RWMutex

	nextBidID    int64
	nextWinnerID int64
	nextSubID    int64

	bids          []models.Bid                  // append-only, in id order
	winners       map[string]models.Winner      // key: itemID
	payments      map[string]models.Payment     // key: paymentID
	subscriptions map[int64]models.Subscription // key: subscriptionID
	activities    []models.Activity
	profiles      map[string]memoryProfile // key: username
}

type memoryProfile struct {
	UserUID  string
	Wallet   string
	LastSeen time.Time
}

type memoryTxKey struct{}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		winners:       make(map[string]models.Winner),
		payments:      make(map[string]models.Payment),
		subscriptions: make(map[int64]models.Subscription),
		profiles:      make(map[string]memoryProfile),
	}
}

var _ Store = (*MemoryRepo)(nil)

// RunInTx holds the write lock for the whole callback and restores the
// previous state if fn fails.
func (r *MemoryRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.inTx(ctx) {
		return fn(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	if err := fn(context.WithValue(ctx, memoryTxKey{}, r)); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *MemoryRepo) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(memoryTxKey{}).(*MemoryRepo)
	return ok && owner == r
}

// lock takes the write lock unless ctx already carries this repo's transaction.
func (r *MemoryRepo) lock(ctx context.Context) func() {
	if r.inTx(ctx) {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *MemoryRepo) rlock(ctx context.Context) func() {
	if r.inTx(ctx) {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

type memorySnapshot struct {
	nextBidID, nextWinnerID, nextSubID int64
	bids                               []models.Bid
	winners                            map[string]models.Winner
	payments                           map[string]models.Payment
	subscriptions                      map[int64]models.Subscription
	activities                         []models.Activity
	profiles                           map[string]memoryProfile
}

func (r *MemoryRepo) snapshot() memorySnapshot {
	return memorySnapshot{
		nextBidID:     r.nextBidID,
		nextWinnerID:  r.nextWinnerID,
		nextSubID:     r.nextSubID,
		bids:          append([]models.Bid(nil), r.bids...),
		winners:       maps.Clone(r.winners),
		payments:      maps.Clone(r.payments),
		subscriptions: maps.Clone(r.subscriptions),
		activities:    append([]models.Activity(nil), r.activities...),
		profiles:      maps.Clone(r.profiles),
	}
}

func (r *MemoryRepo) restore(s memorySnapshot) {
	r.nextBidID, r.nextWinnerID, r.nextSubID = s.nextBidID, s.nextWinnerID, s.nextSubID
	r.bids = s.bids
	r.winners = s.winners
	r.payments = s.payments
	r.subscriptions = s.subscriptions
	r.activities = s.activities
	r.profiles = s.profiles
}

// SupersedeBid records a user's bid on an item, retiring the previous one
func (r *MemoryRepo) SupersedeBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	defer r.lock(ctx)()

	for i := range r.bids {
		b := &r.bids[i]
		if b.Active && b.Username == bid.Username && b.ItemID == bid.ItemID {
			b.Active = false
			b.UpdatedAt = bid.CreatedAt
		}
	}

	r.nextBidID++
	bid.BidID = r.nextBidID
	bid.Active = true
	bid.UpdatedAt = bid.CreatedAt
	r.bids = append(r.bids, bid)
	return bid, nil
}

// DeactivateBid withdraws the user's active bid for an item
func (r *MemoryRepo) DeactivateBid(ctx context.Context, username, itemID string, at time.Time) (models.Bid, error) {
	defer r.lock(ctx)()

	for i := range r.bids {
		b := &r.bids[i]
		if b.Active && b.Username == username && b.ItemID == itemID {
			b.Active = false
			b.UpdatedAt = at
			return *b, nil
		}
	}
	return models.Bid{}, fmt.Errorf("deactivate bid of %s on %s: %w", username, itemID, auctionerrors.ErrNotFound)
}

// HighestBid returns the highest active bid for an item
func (r *MemoryRepo) HighestBid(ctx context.Context, itemID string) (models.Bid, error) {
	defer r.rlock(ctx)()

	var (
		winning models.Bid
		found   bool
	)
	for _, b := range r.bids {
		if !b.Active || b.ItemID != itemID {
			continue
		}
		if !found || outranks(b, winning) {
			winning = b
			found = true
		}
	}
	if !found {
		return models.Bid{}, fmt.Errorf("get highest bid for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}
	return winning, nil
}

// outranks orders bids by amount, then earliest timestamp, then insertion order.
func outranks(b, current models.Bid) bool {
	if b.Amount != current.Amount {
		return b.Amount > current.Amount
	}
	if !b.CreatedAt.Equal(current.CreatedAt) {
		return b.CreatedAt.Before(current.CreatedAt)
	}
	return b.BidID < current.BidID
}

// LatestBidsByUser returns the most recent bid per item a user has bid on
func (r *MemoryRepo) LatestBidsByUser(ctx context.Context, username string) ([]models.Bid, error) {
	defer r.rlock(ctx)()

	latest := make(map[string]models.Bid)
	for _, b := range r.bids {
		if b.Username != username {
			continue
		}
		// later ids always win: bids are appended in time order
		latest[b.ItemID] = b
	}

	out := make([]models.Bid, 0, len(latest))
	for _, b := range latest {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// BidsByUser returns the full bid history of a user, newest first
func (r *MemoryRepo) BidsByUser(ctx context.Context, username string) ([]models.Bid, error) {
	defer r.rlock(ctx)()

	var out []models.Bid
	for i := len(r.bids) - 1; i >= 0; i-- {
		if r.bids[i].Username == username {
			out = append(out, r.bids[i])
		}
	}
	return out, nil
}

// InsertOrFetchWinner stores a winner unless the item is already settled
func (r *MemoryRepo) InsertOrFetchWinner(ctx context.Context, w models.Winner) (models.Winner, bool, error) {
	defer r.lock(ctx)()

	if existing, ok := r.winners[w.ItemID]; ok {
		return existing, false, nil
	}
	r.nextWinnerID++
	w.WinnerID = r.nextWinnerID
	if w.PaymentStatus == "" {
		w.PaymentStatus = models.PaymentPending
	}
	r.winners[w.ItemID] = w
	return w, true, nil
}

// GetWinner returns a winner record by id
func (r *MemoryRepo) GetWinner(ctx context.Context, winnerID int64) (models.Winner, error) {
	defer r.rlock(ctx)()

	for _, w := range r.winners {
		if w.WinnerID == winnerID {
			return w, nil
		}
	}
	return models.Winner{}, fmt.Errorf("get winner %d: %w", winnerID, auctionerrors.ErrNotFound)
}

// WinnersByUser returns all winner records of a user, newest first
func (r *MemoryRepo) WinnersByUser(ctx context.Context, username string) ([]models.Winner, error) {
	defer r.rlock(ctx)()

	var out []models.Winner
	for _, w := range r.winners {
		if w.Username == username {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WinnerID > out[j].WinnerID })
	return out, nil
}

// MarkWinnerProcessing links a payment to a winner awaiting payment
func (r *MemoryRepo) MarkWinnerProcessing(ctx context.Context, winnerID int64, username, paymentID string) error {
	defer r.lock(ctx)()

	for item, w := range r.winners {
		if w.WinnerID != winnerID || w.Username != username || w.PaymentStatus == models.PaymentCompleted {
			continue
		}
		w.PaymentID = paymentID
		w.PaymentStatus = models.PaymentProcessing
		r.winners[item] = w
		return nil
	}
	return fmt.Errorf("mark winner %d processing: %w", winnerID, auctionerrors.ErrNotFound)
}

// MarkWinnerCompleted closes the payment of a winner linked to paymentID
func (r *MemoryRepo) MarkWinnerCompleted(ctx context.Context, winnerID int64, paymentID, txID string, at time.Time) error {
	defer r.lock(ctx)()

	for item, w := range r.winners {
		if w.WinnerID != winnerID {
			continue
		}
		if w.PaymentID != paymentID {
			break
		}
		w.PaymentStatus = models.PaymentCompleted
		w.TransactionID = txID
		w.PaymentCompletedAt = &at
		r.winners[item] = w
		return nil
	}
	return fmt.Errorf("mark winner %d completed: %w", winnerID, auctionerrors.ErrNotFound)
}

// GetPayment returns a payment by gateway id
func (r *MemoryRepo) GetPayment(ctx context.Context, paymentID string) (models.Payment, error) {
	defer r.rlock(ctx)()

	p, ok := r.payments[paymentID]
	if !ok {
		return models.Payment{}, fmt.Errorf("get payment %s: %w", paymentID, auctionerrors.ErrNotFound)
	}
	return p, nil
}

// InsertApprovedPayment stores an approved payment unless it already exists
func (r *MemoryRepo) InsertApprovedPayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	defer r.lock(ctx)()

	if existing, ok := r.payments[p.PaymentID]; ok {
		return existing, nil
	}
	p.Status = models.PaymentApproved
	r.payments[p.PaymentID] = p
	return p, nil
}

// CompletePayment moves an approved payment to completed
func (r *MemoryRepo) CompletePayment(ctx context.Context, paymentID, txID string, at time.Time) (bool, error) {
	defer r.lock(ctx)()

	p, ok := r.payments[paymentID]
	if !ok || p.Status != models.PaymentApproved {
		return false, nil
	}
	p.Status = models.PaymentStateComplete
	p.TransactionID = txID
	p.UpdatedAt = at
	p.CompletedAt = &at
	r.payments[paymentID] = p
	return true, nil
}

// ListPayments returns the newest payments first
func (r *MemoryRepo) ListPayments(ctx context.Context, limit int) ([]models.Payment, error) {
	defer r.rlock(ctx)()

	out := make([]models.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PaymentID > out[j].PaymentID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ActiveSubscription returns the user's active subscription row
func (r *MemoryRepo) ActiveSubscription(ctx context.Context, username string) (models.Subscription, error) {
	defer r.rlock(ctx)()

	for _, s := range r.subscriptions {
		if s.Active && s.Username == username {
			return s, nil
		}
	}
	return models.Subscription{}, fmt.Errorf("active subscription of %s: %w", username, auctionerrors.ErrNotFound)
}

// CreateSubscription stores a new active subscription
func (r *MemoryRepo) CreateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	defer r.lock(ctx)()

	for _, existing := range r.subscriptions {
		if existing.Active && existing.Username == s.Username {
			return models.Subscription{}, fmt.Errorf("create subscription for %s: active subscription %d exists: %w",
				s.Username, existing.SubscriptionID, auctionerrors.ErrConflict)
		}
	}
	r.nextSubID++
	s.SubscriptionID = r.nextSubID
	s.Active = true
	r.subscriptions[s.SubscriptionID] = s
	return s, nil
}

// ExtendSubscription moves the end date of a subscription
func (r *MemoryRepo) ExtendSubscription(ctx context.Context, subscriptionID int64, endDate time.Time, paymentID, txID string, at time.Time) error {
	defer r.lock(ctx)()

	s, ok := r.subscriptions[subscriptionID]
	if !ok {
		return fmt.Errorf("extend subscription %d: %w", subscriptionID, auctionerrors.ErrNotFound)
	}
	s.EndDate = endDate
	s.PaymentID = paymentID
	s.TransactionID = txID
	s.UpdatedAt = at
	r.subscriptions[subscriptionID] = s
	return nil
}

// DeactivateSubscription retires a subscription row
func (r *MemoryRepo) DeactivateSubscription(ctx context.Context, subscriptionID int64, at time.Time) error {
	defer r.lock(ctx)()

	s, ok := r.subscriptions[subscriptionID]
	if !ok {
		return fmt.Errorf("deactivate subscription %d: %w", subscriptionID, auctionerrors.ErrNotFound)
	}
	s.Active = false
	s.UpdatedAt = at
	r.subscriptions[subscriptionID] = s
	return nil
}

// ListSubscriptions returns the newest subscription rows first
func (r *MemoryRepo) ListSubscriptions(ctx context.Context, limit int) ([]models.Subscription, error) {
	defer r.rlock(ctx)()

	out := make([]models.Subscription, 0, len(r.subscriptions))
	for _, s := range r.subscriptions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscriptionID > out[j].SubscriptionID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// InsertActivity appends to the activity log
func (r *MemoryRepo) InsertActivity(ctx context.Context, a models.Activity) error {
	defer r.lock(ctx)()
	r.activities = append(r.activities, a)
	return nil
}

// Activities returns a copy of the activity log. Intended for tests.
func (r *MemoryRepo) Activities() []models.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Activity(nil), r.activities...)
}

// TouchProfile upserts last-seen metadata of a user
func (r *MemoryRepo) TouchProfile(ctx context.Context, username, userUID, wallet string, at time.Time) error {
	defer r.lock(ctx)()

	p := r.profiles[username]
	if userUID != "" {
		p.UserUID = userUID
	}
	if wallet != "" {
		p.Wallet = wallet
	}
	p.LastSeen = at
	r.profiles[username] = p
	return nil
}

// ActiveBidCount counts active bids of a user on an item. Intended for tests.
func (r *MemoryRepo) ActiveBidCount(username, itemID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, b := range r.bids {
		if b.Active && b.Username == username && b.ItemID == itemID {
			n++
		}
	}
	return n
}

func (r *MemoryRepo) Ping(context.Context) error { return nil }

func (r *MemoryRepo) Close() error { return nil }
