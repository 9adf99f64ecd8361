package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const bidColumns = "id, username, user_uid, item_id, bid_amount, is_active, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBid(row rowScanner) (models.Bid, error) {
	var (
		b                  models.Bid
		createdAt, updated nullTime
	)
	if err := row.Scan(&b.BidID, &b.Username, &b.UserUID, &b.ItemID, &b.Amount, &b.Active, &createdAt, &updated); err != nil {
		return models.Bid{}, err
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updated.Time
	return b, nil
}

// SupersedeBid retires the user's active bid on the item and appends the new one.
func (r *SQLRepo) SupersedeBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	err := r.RunInTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)

		_, err := q.ExecContext(ctx, `
			UPDATE auction_bids SET is_active = 0, updated_at = ?
			WHERE username = ? AND item_id = ? AND is_active = 1`,
			bid.CreatedAt, bid.Username, bid.ItemID)
		if err != nil {
			return storageErr("supersede previous bid", err)
		}

		res, err := q.ExecContext(ctx, `
			INSERT INTO auction_bids (username, user_uid, item_id, bid_amount, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, 1, ?, ?)`,
			bid.Username, bid.UserUID, bid.ItemID, bid.Amount, bid.CreatedAt, bid.CreatedAt)
		if err != nil {
			return storageErr("insert bid", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return storageErr("insert bid id", err)
		}

		bid.BidID = id
		bid.Active = true
		bid.UpdatedAt = bid.CreatedAt
		return nil
	})
	if err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}

// DeactivateBid withdraws the user's active bid on the item.
func (r *SQLRepo) DeactivateBid(ctx context.Context, username, itemID string, at time.Time) (models.Bid, error) {
	var out models.Bid
	err := r.RunInTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)

		bid, err := scanBid(q.QueryRowContext(ctx, `
			SELECT `+bidColumns+` FROM auction_bids
			WHERE username = ? AND item_id = ? AND is_active = 1`,
			username, itemID))
		if err != nil {
			return storageErr(fmt.Sprintf("find active bid of %s on %s", username, itemID), err)
		}

		if _, err := q.ExecContext(ctx, `
			UPDATE auction_bids SET is_active = 0, updated_at = ? WHERE id = ?`,
			at, bid.BidID); err != nil {
			return storageErr("deactivate bid", err)
		}

		bid.Active = false
		bid.UpdatedAt = at
		out = bid
		return nil
	})
	return out, err
}

// HighestBid returns the max-amount active bid; earliest bid wins ties.
func (r *SQLRepo) HighestBid(ctx context.Context, itemID string) (models.Bid, error) {
	bid, err := scanBid(r.conn(ctx).QueryRowContext(ctx, `
		SELECT `+bidColumns+` FROM auction_bids
		WHERE item_id = ? AND is_active = 1
		ORDER BY bid_amount DESC, created_at ASC, id ASC
		LIMIT 1`, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bid{}, fmt.Errorf("get highest bid for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return models.Bid{}, storageErr("get highest bid for item "+itemID, err)
	}
	return bid, nil
}

// LatestBidsByUser returns the most recent bid per item of a user.
func (r *SQLRepo) LatestBidsByUser(ctx context.Context, username string) ([]models.Bid, error) {
	rows, err := r.selectRows(ctx, sq.Select(bidColumns).
		From("auction_bids").
		Where(sq.Eq{"username": username}).
		OrderBy("item_id ASC", "created_at DESC", "id DESC"))
	if err != nil {
		return nil, storageErr("list bids of "+username, err)
	}
	defer rows.Close()

	var out []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, storageErr("scan bid", err)
		}
		// rows are grouped by item, newest first
		if n := len(out); n > 0 && out[n-1].ItemID == b.ItemID {
			continue
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list bids of "+username, err)
	}
	return out, nil
}

// BidsByUser returns every bid of a user, newest first.
func (r *SQLRepo) BidsByUser(ctx context.Context, username string) ([]models.Bid, error) {
	rows, err := r.selectRows(ctx, sq.Select(bidColumns).
		From("auction_bids").
		Where(sq.Eq{"username": username}).
		OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		return nil, storageErr("list bid history of "+username, err)
	}
	defer rows.Close()

	var out []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, storageErr("scan bid", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list bid history of "+username, err)
	}
	return out, nil
}
