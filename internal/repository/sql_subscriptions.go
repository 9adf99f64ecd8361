package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"appraisells-auction/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const subscriptionColumns = "id, username, user_uid, start_date, end_date, is_active, payment_id, transaction_id, created_at, updated_at"

func scanSubscription(row rowScanner) (models.Subscription, error) {
	var s models.Subscription
	var paymentID, txID sql.NullString
	var start, end, createdAt, updatedAt nullTime
	if err := row.Scan(&s.SubscriptionID, &s.Username, &s.UserUID, &start, &end, &s.Active,
		&paymentID, &txID, &createdAt, &updatedAt); err != nil {
		return models.Subscription{}, err
	}
	s.StartDate = start.Time
	s.EndDate = end.Time
	s.PaymentID = paymentID.String
	s.TransactionID = txID.String
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// ActiveSubscription returns the user's active row, whether expired or not.
func (r *SQLRepo) ActiveSubscription(ctx context.Context, username string) (models.Subscription, error) {
	s, err := scanSubscription(r.conn(ctx).QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+` FROM user_subscriptions
		WHERE username = ? AND is_active = 1
		ORDER BY id DESC LIMIT 1`, username))
	if err != nil {
		return models.Subscription{}, storageErr("active subscription of "+username, err)
	}
	return s, nil
}

// CreateSubscription inserts a new active row. The unique index on active
// rows rejects a second one for the same user.
func (r *SQLRepo) CreateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	res, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO user_subscriptions
			(username, user_uid, start_date, end_date, is_active, payment_id, transaction_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		s.Username, s.UserUID, s.StartDate, s.EndDate, nullString(s.PaymentID), nullString(s.TransactionID),
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return models.Subscription{}, storageErr("create subscription for "+s.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Subscription{}, storageErr("create subscription id", err)
	}
	s.SubscriptionID = id
	s.Active = true
	return s, nil
}

// ExtendSubscription moves the end date and records the paying transaction.
func (r *SQLRepo) ExtendSubscription(ctx context.Context, subscriptionID int64, endDate time.Time, paymentID, txID string, at time.Time) error {
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE user_subscriptions SET end_date = ?, payment_id = ?, transaction_id = ?, updated_at = ?
		WHERE id = ?`,
		endDate, nullString(paymentID), nullString(txID), at, subscriptionID)
	return expectOneRow(res, err, fmt.Sprintf("extend subscription %d", subscriptionID))
}

// DeactivateSubscription retires a subscription row.
func (r *SQLRepo) DeactivateSubscription(ctx context.Context, subscriptionID int64, at time.Time) error {
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE user_subscriptions SET is_active = 0, updated_at = ? WHERE id = ?`,
		at, subscriptionID)
	return expectOneRow(res, err, fmt.Sprintf("deactivate subscription %d", subscriptionID))
}

// ListSubscriptions returns up to limit subscription rows, newest first.
func (r *SQLRepo) ListSubscriptions(ctx context.Context, limit int) ([]models.Subscription, error) {
	q := sq.Select(subscriptionColumns).From("user_subscriptions").OrderBy("id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	rows, err := r.selectRows(ctx, q)
	if err != nil {
		return nil, storageErr("list subscriptions", err)
	}
	defer rows.Close()

	var out []models.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, storageErr("scan subscription", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list subscriptions", err)
	}
	return out, nil
}
