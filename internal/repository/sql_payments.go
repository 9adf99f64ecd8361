package repository

import (
	"context"
	"database/sql"
	"time"

	"appraisells-auction/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const paymentColumns = "payment_id, payment_type, status, username, user_uid, linked_id, tx_id, created_at, updated_at, completed_at"

func scanPayment(row rowScanner) (models.Payment, error) {
	var p models.Payment
	var txID sql.NullString
	var createdAt, updatedAt, completedAt nullTime
	if err := row.Scan(&p.PaymentID, &p.Kind, &p.Status, &p.Username, &p.UserUID, &p.LinkedID,
		&txID, &createdAt, &updatedAt, &completedAt); err != nil {
		return models.Payment{}, err
	}
	p.TransactionID = txID.String
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	p.CompletedAt = completedAt.ptr()
	return p, nil
}

// GetPayment returns a payment by gateway id.
func (r *SQLRepo) GetPayment(ctx context.Context, paymentID string) (models.Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = ?`, paymentID))
	if err != nil {
		return models.Payment{}, storageErr("get payment "+paymentID, err)
	}
	return p, nil
}

// InsertApprovedPayment stores an approved payment unless the id is taken,
// then returns whatever row holds the id.
func (r *SQLRepo) InsertApprovedPayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	var out models.Payment
	err := r.RunInTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)

		if _, err := q.ExecContext(ctx, r.dialect.insertIgnore+`
			INTO payments (payment_id, payment_type, status, username, user_uid, linked_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.PaymentID, string(p.Kind), string(models.PaymentApproved), p.Username, p.UserUID, p.LinkedID, p.CreatedAt, p.UpdatedAt); err != nil {
			return storageErr("insert payment "+p.PaymentID, err)
		}

		var err error
		out, err = scanPayment(q.QueryRowContext(ctx,
			`SELECT `+paymentColumns+` FROM payments WHERE payment_id = ?`, p.PaymentID))
		if err != nil {
			return storageErr("fetch payment "+p.PaymentID, err)
		}
		return nil
	})
	return out, err
}

// CompletePayment flips an approved payment to completed. The status guard in
// the WHERE clause makes a second completion a no-op.
func (r *SQLRepo) CompletePayment(ctx context.Context, paymentID, txID string, at time.Time) (bool, error) {
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE payments SET status = ?, tx_id = ?, updated_at = ?, completed_at = ?
		WHERE payment_id = ? AND status = ?`,
		string(models.PaymentStateComplete), txID, at, at, paymentID, string(models.PaymentApproved))
	if err != nil {
		return false, storageErr("complete payment "+paymentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("complete payment "+paymentID, err)
	}
	return n == 1, nil
}

// ListPayments returns up to limit payments, newest first. A limit of zero
// or less returns every row.
func (r *SQLRepo) ListPayments(ctx context.Context, limit int) ([]models.Payment, error) {
	q := sq.Select(paymentColumns).From("payments").OrderBy("created_at DESC", "payment_id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	rows, err := r.selectRows(ctx, q)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storageErr("scan payment", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list payments", err)
	}
	return out, nil
}
