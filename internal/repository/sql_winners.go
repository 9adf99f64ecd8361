package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const winnerColumns = "id, auction_id, item_id, winner_username, user_uid, winning_bid, payment_id, " +
	"payment_status, payment_deadline, transaction_id, payment_completed_at, created_at"

func scanWinner(row rowScanner) (models.Winner, error) {
	var w models.Winner
	var paymentID, txID sql.NullString
	var deadline, completed, createdAt nullTime
	if err := row.Scan(&w.WinnerID, &w.AuctionID, &w.ItemID, &w.Username, &w.UserUID, &w.WinningBid,
		&paymentID, &w.PaymentStatus, &deadline, &txID, &completed, &createdAt); err != nil {
		return models.Winner{}, err
	}
	w.PaymentID = paymentID.String
	w.TransactionID = txID.String
	w.PaymentDeadline = deadline.Time
	w.PaymentCompletedAt = completed.ptr()
	w.CreatedAt = createdAt.Time
	return w, nil
}

// InsertOrFetchWinner inserts the winner unless the item already has one;
// the unique key on item_id makes this a single atomic step.
func (r *SQLRepo) InsertOrFetchWinner(ctx context.Context, w models.Winner) (models.Winner, bool, error) {
	var (
		out     models.Winner
		created bool
	)
	err := r.RunInTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)

		res, err := q.ExecContext(ctx, r.dialect.insertIgnore+`
			INTO auction_winners
				(auction_id, item_id, winner_username, user_uid, winning_bid, payment_status, payment_deadline, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			w.AuctionID, w.ItemID, w.Username, w.UserUID, w.WinningBid, string(models.PaymentPending), w.PaymentDeadline, w.CreatedAt)
		if err != nil {
			return storageErr("insert winner for "+w.ItemID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("insert winner for "+w.ItemID, err)
		}
		created = n == 1

		out, err = scanWinner(q.QueryRowContext(ctx,
			`SELECT `+winnerColumns+` FROM auction_winners WHERE item_id = ?`, w.ItemID))
		if err != nil {
			return storageErr("fetch winner for "+w.ItemID, err)
		}
		return nil
	})
	if err != nil {
		return models.Winner{}, false, err
	}
	return out, created, nil
}

// GetWinner returns a winner record by id.
func (r *SQLRepo) GetWinner(ctx context.Context, winnerID int64) (models.Winner, error) {
	w, err := scanWinner(r.conn(ctx).QueryRowContext(ctx,
		`SELECT `+winnerColumns+` FROM auction_winners WHERE id = ?`, winnerID))
	if err != nil {
		return models.Winner{}, storageErr(fmt.Sprintf("get winner %d", winnerID), err)
	}
	return w, nil
}

// WinnersByUser returns the winner records of a user, newest first.
func (r *SQLRepo) WinnersByUser(ctx context.Context, username string) ([]models.Winner, error) {
	rows, err := r.selectRows(ctx, sq.Select(winnerColumns).
		From("auction_winners").
		Where(sq.Eq{"winner_username": username}).
		OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		return nil, storageErr("list wins of "+username, err)
	}
	defer rows.Close()

	var out []models.Winner
	for rows.Next() {
		w, err := scanWinner(rows)
		if err != nil {
			return nil, storageErr("scan winner", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list wins of "+username, err)
	}
	return out, nil
}

// MarkWinnerProcessing links a payment to a winner whose payment is not completed.
func (r *SQLRepo) MarkWinnerProcessing(ctx context.Context, winnerID int64, username, paymentID string) error {
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE auction_winners SET payment_id = ?, payment_status = ?
		WHERE id = ? AND winner_username = ? AND payment_status <> ?`,
		paymentID, string(models.PaymentProcessing), winnerID, username, string(models.PaymentCompleted))
	return expectOneRow(res, err, fmt.Sprintf("mark winner %d processing", winnerID))
}

// MarkWinnerCompleted records the completed payment on a winner currently
// linked to paymentID.
func (r *SQLRepo) MarkWinnerCompleted(ctx context.Context, winnerID int64, paymentID, txID string, at time.Time) error {
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE auction_winners SET payment_status = ?, transaction_id = ?, payment_completed_at = ?
		WHERE id = ? AND payment_id = ?`,
		string(models.PaymentCompleted), txID, at, winnerID, paymentID)
	return expectOneRow(res, err, fmt.Sprintf("mark winner %d completed", winnerID))
}

// expectOneRow turns an update that matched nothing into ErrNotFound.
func expectOneRow(res sql.Result, err error, op string) error {
	if err != nil {
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, auctionerrors.ErrNotFound)
	}
	return nil
}
