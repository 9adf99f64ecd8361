// Package subscription grants and extends time-bounded access from
// completed subscription payments.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appraisells-auction/internal/auctionclock"
	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/locker"
	"appraisells-auction/internal/models"
	"appraisells-auction/internal/repository"
	"appraisells-auction/utils"
)

// Store is the storage the subscription manager needs.
type Store interface {
	repository.TxRunner
	repository.SubscriptionStore
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store    Store
	Locks    locker.Locker
	Duration time.Duration
	Clock    auctionclock.Clock
}

// Service owns the subscription lifecycle. Per-user changes are serialized
// by the subscription lock and the store's one-active-row constraint.
type Service struct {
	store    Store
	locks    locker.Locker
	duration time.Duration
	now      auctionclock.Clock
}

// NewService creates a subscription Service.
func NewService(d Deps) *Service {
	if d.Locks == nil {
		d.Locks = locker.NewKeyedMutex()
	}
	if d.Duration <= 0 {
		d.Duration = 30 * 24 * time.Hour
	}
	if d.Clock == nil {
		d.Clock = auctionclock.UTC
	}
	return &Service{store: d.Store, locks: d.Locks, duration: d.Duration, now: d.Clock}
}

// Status values reported by Status.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// View is a subscription row with its remaining time at query time.
type View struct {
	models.Subscription
	DaysRemaining int    `json:"days_remaining"`
	IsExpired     bool   `json:"is_expired"`
	Status        string `json:"status"`
}

// UserStatus answers whether a user currently has access.
type UserStatus struct {
	HasActiveSubscription bool  `json:"has_active_subscription"`
	Subscription          *View `json:"subscription"`
}

// ActivateOrExtend applies one completed subscription payment under the
// user's lock and in its own transaction.
func (s *Service) ActivateOrExtend(ctx context.Context, username, userUID, paymentID, txID string) (models.Subscription, error) {
	var sub models.Subscription
	err := s.WithUserLock(ctx, username, func(ctx context.Context) error {
		return s.store.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			sub, err = s.Apply(ctx, username, userUID, paymentID, txID)
			return err
		})
	})
	return sub, err
}

// WithUserLock runs fn holding the subscription lock of username. Callers
// must take it before opening a storage transaction.
func (s *Service) WithUserLock(ctx context.Context, username string, fn func(ctx context.Context) error) error {
	if username == "" {
		return fmt.Errorf("service: %w: empty username", auctionerrors.ErrInvalidInput)
	}
	release, err := s.locks.Lock(ctx, locker.SubscriptionKey(username))
	if err != nil {
		return fmt.Errorf("service: failed to lock subscription of %s: %w", username, err)
	}
	defer release()
	return fn(ctx)
}

// Apply extends the user's running subscription by the configured duration,
// or starts a new one today. An expired active row is retired first. The
// caller must hold the user's lock; ctx should carry a transaction.
func (s *Service) Apply(ctx context.Context, username, userUID, paymentID, txID string) (models.Subscription, error) {
	if username == "" || paymentID == "" || txID == "" {
		return models.Subscription{}, fmt.Errorf("service: %w: username, payment id and transaction id are required", auctionerrors.ErrInvalidInput)
	}
	now := s.now()

	current, err := s.store.ActiveSubscription(ctx, username)
	switch {
	case err == nil && current.EndDate.After(now):
		current.EndDate = current.EndDate.Add(s.duration)
		current.PaymentID = paymentID
		current.TransactionID = txID
		current.UpdatedAt = now
		if err := s.store.ExtendSubscription(ctx, current.SubscriptionID, current.EndDate, paymentID, txID, now); err != nil {
			return models.Subscription{}, fmt.Errorf("service: failed to extend subscription of %s: %w", username, err)
		}
		utils.Info("subscription extended", map[string]any{
			"username": username,
			"end_date": current.EndDate.Format(time.RFC3339),
		})
		return current, nil

	case err == nil:
		if err := s.store.DeactivateSubscription(ctx, current.SubscriptionID, now); err != nil {
			return models.Subscription{}, fmt.Errorf("service: failed to retire expired subscription of %s: %w", username, err)
		}

	case !errors.Is(err, auctionerrors.ErrNotFound):
		return models.Subscription{}, fmt.Errorf("service: failed to read subscription of %s: %w", username, err)
	}

	start := startOfDay(now)
	sub, err := s.store.CreateSubscription(ctx, models.Subscription{
		Username:      username,
		UserUID:       userUID,
		StartDate:     start,
		EndDate:       start.Add(s.duration),
		Active:        true,
		PaymentID:     paymentID,
		TransactionID: txID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return models.Subscription{}, fmt.Errorf("service: failed to create subscription for %s: %w", username, err)
	}
	utils.Info("subscription created", map[string]any{
		"username": username,
		"end_date": sub.EndDate.Format(time.RFC3339),
	})
	return sub, nil
}

// Status reports the user's active subscription, if any.
func (s *Service) Status(ctx context.Context, username string) (UserStatus, error) {
	if username == "" {
		return UserStatus{}, fmt.Errorf("service: %w: empty username", auctionerrors.ErrInvalidInput)
	}

	sub, err := s.store.ActiveSubscription(ctx, username)
	if errors.Is(err, auctionerrors.ErrNotFound) {
		return UserStatus{}, nil
	}
	if err != nil {
		return UserStatus{}, fmt.Errorf("service: failed to read subscription of %s: %w", username, err)
	}

	now := s.now()
	view := View{Subscription: sub, Status: StatusActive}
	if !sub.EndDate.After(now) {
		view.IsExpired = true
		view.Status = StatusExpired
	} else {
		view.DaysRemaining = int(sub.EndDate.Sub(now) / (24 * time.Hour))
	}
	return UserStatus{HasActiveSubscription: !view.IsExpired, Subscription: &view}, nil
}

// Listing is a page of subscription rows of every user. Active counts rows
// that are active and not yet expired.
type Listing struct {
	Count         int                   `json:"count"`
	Active        int                   `json:"active"`
	Subscriptions []models.Subscription `json:"subscriptions"`
}

// List returns up to limit subscription rows, newest first.
func (s *Service) List(ctx context.Context, limit int) (Listing, error) {
	if limit <= 0 {
		return Listing{}, fmt.Errorf("service: %w: limit must be positive", auctionerrors.ErrInvalidInput)
	}
	subs, err := s.store.ListSubscriptions(ctx, limit)
	if err != nil {
		return Listing{}, fmt.Errorf("service: failed to list subscriptions: %w", err)
	}

	now := s.now()
	out := Listing{Count: len(subs), Subscriptions: subs}
	for _, sub := range subs {
		if sub.Active && sub.EndDate.After(now) {
			out.Active++
		}
	}
	if out.Subscriptions == nil {
		out.Subscriptions = []models.Subscription{}
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
