package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"appraisells-auction/internal/models"
)

// InsertActivity appends an entry to the activity log. Details are stored as JSON.
func (r *SQLRepo) InsertActivity(ctx context.Context, a models.Activity) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("encode activity details: %w", err)
	}
	_, err = r.conn(ctx).ExecContext(ctx, `
		INSERT INTO user_activities (username, user_uid, activity_type, details, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.Username, a.UserUID, a.Type, string(details), a.Timestamp)
	return storageErr("insert activity "+a.Type, err)
}

// TouchProfile upserts last-seen metadata. Empty uid or wallet keep the stored value.
func (r *SQLRepo) TouchProfile(ctx context.Context, username, userUID, wallet string, at time.Time) error {
	_, err := r.conn(ctx).ExecContext(ctx, r.dialect.touchProfile, username, userUID, wallet, at)
	return storageErr("touch profile of "+username, err)
}
