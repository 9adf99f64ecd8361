// Package payment drives gateway payments through approve and complete.
// A payment only moves forward: none, approved, completed.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"appraisells-auction/internal/activity"
	"appraisells-auction/internal/auctionclock"
	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/gateway"
	"appraisells-auction/internal/locker"
	"appraisells-auction/internal/metrics"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"
	"appraisells-auction/internal/subscription"
	"appraisells-auction/utils"

	"golang.org/x/sync/singleflight"
)

// Store is the storage the payment engine needs. It must be the same store
// the subscription service writes to, so completion joins one transaction.
type Store interface {
	repository.TxRunner
	repository.PaymentStore
	repository.WinnerStore
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store         Store
	Gateway       gateway.Gateway
	Subscriptions *subscription.Service
	Locks         locker.Locker
	Activity      activity.Recorder
	Metrics       *metrics.Metrics
	Clock         auctionclock.Clock
}

// Service is the payment state machine. Gateway calls are made holding only
// the payment lock, plus the winner lock for auction payments. Local state is
// written after the gateway succeeds.
type Service struct {
	store    Store
	gateway  gateway.Gateway
	subs     *subscription.Service
	locks    locker.Locker
	activity activity.Recorder
	metrics  *metrics.Metrics
	now      auctionclock.Clock
	group    singleflight.Group
}

// NewService creates a payment Service.
func NewService(d Deps) *Service {
	if d.Locks == nil {
		d.Locks = locker.NewKeyedMutex()
	}
	if d.Activity == nil {
		d.Activity = activity.Nop{}
	}
	if d.Clock == nil {
		d.Clock = auctionclock.UTC
	}
	return &Service{
		store:    d.Store,
		gateway:  d.Gateway,
		subs:     d.Subscriptions,
		locks:    d.Locks,
		activity: d.Activity,
		metrics:  d.Metrics,
		now:      d.Clock,
	}
}

// Outcome is the result of a payment transition. Replayed is true when the
// call found the transition already applied and changed nothing.
type Outcome struct {
	Payment      models.Payment       `json:"payment"`
	Winner       *models.Winner       `json:"winner,omitempty"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	Replayed     bool                 `json:"replayed"`
}

// claim identifies who a payment belongs to.
type claim struct {
	kind     models.PaymentKind
	username string
	userUID  string
	linkedID string
	winnerID int64
}

func (c claim) matches(p models.Payment) bool {
	return p.Kind == c.kind && p.Username == c.username && p.LinkedID == c.linkedID
}

func auctionClaim(username string, winnerID int64) claim {
	return claim{
		kind:     models.KindAuction,
		username: username,
		linkedID: strconv.FormatInt(winnerID, 10),
		winnerID: winnerID,
	}
}

func subscriptionClaim(username, userUID string) claim {
	return claim{kind: models.KindSubscription, username: username, userUID: userUID, linkedID: username}
}

// ApproveAuction approves the payment of an auction win.
func (s *Service) ApproveAuction(ctx context.Context, paymentID, username string, winnerID int64) (Outcome, error) {
	if paymentID == "" || username == "" || winnerID <= 0 {
		return Outcome{}, fmt.Errorf("service: %w: payment id, username and winner id are required", auctionerrors.ErrInvalidInput)
	}
	return s.approve(ctx, paymentID, auctionClaim(username, winnerID))
}

// ApproveSubscription approves a subscription payment.
func (s *Service) ApproveSubscription(ctx context.Context, paymentID, username, userUID string) (Outcome, error) {
	if paymentID == "" || username == "" || userUID == "" {
		return Outcome{}, fmt.Errorf("service: %w: payment id, username and user uid are required", auctionerrors.ErrInvalidInput)
	}
	return s.approve(ctx, paymentID, subscriptionClaim(username, userUID))
}

// CompleteAuction completes an approved auction payment and closes the win.
func (s *Service) CompleteAuction(ctx context.Context, paymentID, txID, username string, winnerID int64) (Outcome, error) {
	if paymentID == "" || txID == "" || username == "" || winnerID <= 0 {
		return Outcome{}, fmt.Errorf("service: %w: payment id, transaction id, username and winner id are required", auctionerrors.ErrInvalidInput)
	}
	return s.complete(ctx, paymentID, txID, auctionClaim(username, winnerID))
}

// CompleteSubscription completes an approved subscription payment and
// activates or extends the user's subscription.
func (s *Service) CompleteSubscription(ctx context.Context, paymentID, txID, username, userUID string) (Outcome, error) {
	if paymentID == "" || txID == "" || username == "" || userUID == "" {
		return Outcome{}, fmt.Errorf("service: %w: payment id, transaction id, username and user uid are required", auctionerrors.ErrInvalidInput)
	}
	return s.complete(ctx, paymentID, txID, subscriptionClaim(username, userUID))
}

// Get returns the local record of a payment.
func (s *Service) Get(ctx context.Context, paymentID string) (models.Payment, error) {
	if paymentID == "" {
		return models.Payment{}, fmt.Errorf("service: %w: empty payment id", auctionerrors.ErrInvalidInput)
	}
	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return models.Payment{}, fmt.Errorf("service: failed to get payment %s: %w", paymentID, err)
	}
	return p, nil
}

// List returns up to limit payments, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("service: %w: limit must be positive", auctionerrors.ErrInvalidInput)
	}
	payments, err := s.store.ListPayments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list payments: %w", err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

func (s *Service) approve(ctx context.Context, paymentID string, c claim) (Outcome, error) {
	key := "approve|" + paymentID + "|" + string(c.kind) + "|" + c.username + "|" + c.linkedID
	return s.collapse(ctx, key, func(ctx context.Context) (Outcome, error) {
		release, err := s.lockPayment(ctx, paymentID, c)
		if err != nil {
			return Outcome{}, err
		}
		defer release()
		return s.approveLocked(ctx, paymentID, c)
	})
}

// lockPayment takes the payment lock and, for auction payments, the winner
// lock after it. Holding the winner lock keeps approvals and completions of
// different payments for one win from interleaving.
func (s *Service) lockPayment(ctx context.Context, paymentID string, c claim) (func(), error) {
	releasePayment, err := s.locks.Lock(ctx, locker.PaymentKey(paymentID))
	if err != nil {
		return nil, fmt.Errorf("service: failed to lock payment %s: %w", paymentID, err)
	}
	if c.kind != models.KindAuction {
		return releasePayment, nil
	}
	releaseWinner, err := s.locks.Lock(ctx, locker.WinnerKey(c.winnerID))
	if err != nil {
		releasePayment()
		return nil, fmt.Errorf("service: failed to lock winner %d: %w", c.winnerID, err)
	}
	return func() {
		releaseWinner()
		releasePayment()
	}, nil
}

func (s *Service) approveLocked(ctx context.Context, paymentID string, c claim) (Outcome, error) {
	existing, err := s.store.GetPayment(ctx, paymentID)
	switch {
	case err == nil:
		if !c.matches(existing) {
			return Outcome{}, fmt.Errorf("service: payment %s belongs to another %s: %w", paymentID, existing.Kind, auctionerrors.ErrIdentityMismatch)
		}
		out := Outcome{Payment: existing, Replayed: true}
		if c.kind == models.KindAuction {
			if w, err := s.store.GetWinner(ctx, c.winnerID); err == nil {
				out.Winner = &w
			}
		}
		return out, nil
	case !errors.Is(err, auctionerrors.ErrNotFound):
		return Outcome{}, fmt.Errorf("service: failed to read payment %s: %w", paymentID, err)
	}

	if c.kind == models.KindAuction {
		if _, err := s.payableWinner(ctx, paymentID, c); err != nil {
			return Outcome{}, err
		}
	}

	if err := s.gateway.Approve(ctx, paymentID); err != nil {
		return Outcome{}, s.gatewayErr("approve", paymentID, err)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("service: approve %s: %w", paymentID, err)
	}

	now := s.now()
	var out Outcome
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		stored, err := s.store.InsertApprovedPayment(ctx, models.Payment{
			PaymentID: paymentID,
			Kind:      c.kind,
			Status:    models.PaymentApproved,
			Username:  c.username,
			UserUID:   c.userUID,
			LinkedID:  c.linkedID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if !c.matches(stored) {
			return fmt.Errorf("payment %s was claimed concurrently: %w", paymentID, auctionerrors.ErrIdentityMismatch)
		}
		out.Payment = stored

		if c.kind != models.KindAuction {
			return nil
		}
		if err := s.store.MarkWinnerProcessing(ctx, c.winnerID, c.username, paymentID); err != nil {
			return err
		}
		w, err := s.store.GetWinner(ctx, c.winnerID)
		if err != nil {
			return err
		}
		out.Winner = &w
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("service: failed to record approval of %s: %w", paymentID, err)
	}

	s.metrics.IncPaymentTransition(string(c.kind), string(models.PaymentApproved))
	details := map[string]any{"payment_id": paymentID}
	activityType := models.ActivitySubscriptionPaymentApproved
	if c.kind == models.KindAuction {
		activityType = models.ActivityPaymentApproved
		details["winner_id"] = c.winnerID
		details["item_id"] = out.Winner.ItemID
	}
	s.activity.Record(ctx, c.username, c.userUID, activityType, details)
	if c.userUID != "" {
		s.activity.TouchProfile(ctx, c.username, c.userUID, "")
	}
	utils.Info("payment approved", map[string]any{"payment_id": paymentID, "kind": c.kind, "username": c.username})

	return out, nil
}

func (s *Service) complete(ctx context.Context, paymentID, txID string, c claim) (Outcome, error) {
	key := "complete|" + paymentID + "|" + txID + "|" + string(c.kind) + "|" + c.username + "|" + c.linkedID
	return s.collapse(ctx, key, func(ctx context.Context) (Outcome, error) {
		release, err := s.lockPayment(ctx, paymentID, c)
		if err != nil {
			return Outcome{}, err
		}
		defer release()
		return s.completeLocked(ctx, paymentID, txID, c)
	})
}

func (s *Service) completeLocked(ctx context.Context, paymentID, txID string, c claim) (Outcome, error) {
	existing, err := s.store.GetPayment(ctx, paymentID)
	if errors.Is(err, auctionerrors.ErrNotFound) {
		return Outcome{}, fmt.Errorf("service: payment %s: %w", paymentID, auctionerrors.ErrNotApproved)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("service: failed to read payment %s: %w", paymentID, err)
	}
	if !c.matches(existing) {
		return Outcome{}, fmt.Errorf("service: payment %s: %w: %w", paymentID, auctionerrors.ErrNotApproved, auctionerrors.ErrIdentityMismatch)
	}
	if existing.Status == models.PaymentStateComplete {
		return s.replayed(ctx, existing, c), nil
	}

	if c.kind == models.KindAuction {
		w, err := s.payableWinner(ctx, paymentID, c)
		if err != nil {
			return Outcome{}, err
		}
		if w.PaymentID != paymentID {
			return Outcome{}, fmt.Errorf("service: winner %d is awaiting payment %s, not %s: %w",
				c.winnerID, w.PaymentID, paymentID, auctionerrors.ErrNotApproved)
		}
	}

	if err := s.gateway.Complete(ctx, paymentID, txID); err != nil {
		return Outcome{}, s.gatewayErr("complete", paymentID, err)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("service: complete %s: %w", paymentID, err)
	}

	var (
		out      Outcome
		replayed bool
	)
	apply := func(ctx context.Context) error {
		return s.store.RunInTx(ctx, func(ctx context.Context) error {
			now := s.now()
			ok, err := s.store.CompletePayment(ctx, paymentID, txID, now)
			if err != nil {
				return err
			}
			if !ok {
				replayed = true
				return nil
			}

			switch c.kind {
			case models.KindAuction:
				if err := s.store.MarkWinnerCompleted(ctx, c.winnerID, paymentID, txID, now); err != nil {
					return err
				}
				w, err := s.store.GetWinner(ctx, c.winnerID)
				if err != nil {
					return err
				}
				out.Winner = &w
			case models.KindSubscription:
				sub, err := s.subs.Apply(ctx, c.username, c.userUID, paymentID, txID)
				if err != nil {
					return err
				}
				out.Subscription = &sub
			}

			out.Payment, err = s.store.GetPayment(ctx, paymentID)
			return err
		})
	}

	if c.kind == models.KindSubscription {
		err = s.subs.WithUserLock(ctx, c.username, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		utils.Error("payment completed at gateway but not recorded", map[string]any{
			"payment_id": paymentID,
			"txid":       txID,
			"error":      err.Error(),
		})
		return Outcome{}, fmt.Errorf("service: failed to record completion of %s: %w", paymentID, err)
	}
	if replayed {
		p, err := s.store.GetPayment(ctx, paymentID)
		if err != nil {
			return Outcome{}, fmt.Errorf("service: failed to read payment %s: %w", paymentID, err)
		}
		return s.replayed(ctx, p, c), nil
	}

	s.metrics.IncPaymentTransition(string(c.kind), string(models.PaymentStateComplete))
	details := map[string]any{"payment_id": paymentID, "txid": txID}
	activityType := models.ActivitySubscriptionPaymentCompleted
	if c.kind == models.KindAuction {
		activityType = models.ActivityPaymentCompleted
		details["winner_id"] = c.winnerID
		details["item_id"] = out.Winner.ItemID
	} else {
		details["end_date"] = out.Subscription.EndDate
	}
	s.activity.Record(ctx, c.username, c.userUID, activityType, details)
	utils.Info("payment completed", map[string]any{"payment_id": paymentID, "kind": c.kind, "username": c.username})

	return out, nil
}

// payableWinner checks the winner belongs to the claimant and was not paid
// through a different payment.
func (s *Service) payableWinner(ctx context.Context, paymentID string, c claim) (models.Winner, error) {
	w, err := s.store.GetWinner(ctx, c.winnerID)
	if err != nil {
		return models.Winner{}, fmt.Errorf("service: winner %d: %w", c.winnerID, err)
	}
	if w.Username != c.username {
		return models.Winner{}, fmt.Errorf("service: winner %d of %s: %w", c.winnerID, c.username, auctionerrors.ErrNotFound)
	}
	if w.PaymentStatus == models.PaymentCompleted && w.PaymentID != paymentID {
		return models.Winner{}, fmt.Errorf("service: winner %d already paid by another payment: %w", c.winnerID, auctionerrors.ErrIdentityMismatch)
	}
	return w, nil
}

// replayed builds the no-op outcome of a second completion.
func (s *Service) replayed(ctx context.Context, p models.Payment, c claim) Outcome {
	out := Outcome{Payment: p, Replayed: true}
	switch c.kind {
	case models.KindAuction:
		if w, err := s.store.GetWinner(ctx, c.winnerID); err == nil {
			out.Winner = &w
		}
	case models.KindSubscription:
		if st, err := s.subs.Status(ctx, c.username); err == nil && st.Subscription != nil {
			sub := st.Subscription.Subscription
			out.Subscription = &sub
		}
	}
	return out
}

func (s *Service) gatewayErr(op, paymentID string, err error) error {
	s.metrics.IncGatewayFailure(op)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("service: gateway %s %s: %w: %w", op, paymentID, auctionerrors.ErrGatewayUnavailable, err)
	}
	if !errors.Is(err, auctionerrors.ErrGatewayUnavailable) {
		err = fmt.Errorf("%w: %w", auctionerrors.ErrGatewayUnavailable, err)
	}
	return fmt.Errorf("service: gateway %s %s: %w", op, paymentID, err)
}

// flight is what a shared execution hands to every waiter. abandoned is set
// when the leading caller's context ended before the execution finished.
type flight struct {
	out       Outcome
	abandoned bool
}

// collapse shares one in-flight execution between identical requests. The
// execution runs on the leading caller's context; if that caller goes away,
// waiters whose own context is still live run the request again.
func (s *Service) collapse(ctx context.Context, key string, fn func(ctx context.Context) (Outcome, error)) (Outcome, error) {
	for {
		ch := s.group.DoChan(key, func() (any, error) {
			out, err := fn(ctx)
			return flight{out: out, abandoned: ctx.Err() != nil}, err
		})
		select {
		case res := <-ch:
			f, _ := res.Val.(flight)
			if res.Err == nil {
				return f.out, nil
			}
			if f.abandoned && ctx.Err() == nil {
				continue
			}
			return Outcome{}, res.Err
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		}
	}
}
