package purchase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

const (
	recordColumns = `id, user_id, item_type, item_id, status, amount, purchased_at, expiry_date, created_at, updated_at`

	findActiveQuery = `
		SELECT ` + recordColumns + `
		FROM purchases
		WHERE user_id = $1 AND item_type = $2 AND item_id = $3
		  AND status = 'ACTIVE' AND expiry_date > $4
		ORDER BY expiry_date DESC
		LIMIT 1
	`
	createQuery = `
		INSERT INTO purchases (user_id, item_type, item_id, status, amount, purchased_at, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + recordColumns
	listByUserQuery = `SELECT ` + recordColumns + ` FROM purchases WHERE user_id = $1 ORDER BY purchased_at DESC, id DESC`
	expireQuery     = `
		UPDATE purchases
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE status = 'ACTIVE' AND expiry_date <= $1
		RETURNING ` + recordColumns
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// FindActive returns the longest-lived record that is ACTIVE and expires strictly after now.
func (r *repository) FindActive(ctx context.Context, userID int, itemType ItemType, itemID int, now time.Time) (*Record, error) {
	var rec Record
	if err := r.db.GetContext(ctx, &rec, findActiveQuery, userID, itemType, itemID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("find active purchase of %s %d for user %d: %w", itemType, itemID, userID, err)
	}
	return &rec, nil
}

func (r *repository) Create(ctx context.Context, rec *Record) (*Record, error) {
	created := &Record{}
	err := r.db.QueryRowxContext(ctx, createQuery,
		rec.UserID, rec.ItemType, rec.ItemID, rec.Status, rec.Amount, rec.PurchasedAt, rec.ExpiryDate,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return created, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Record, error) {
	records := []Record{}
	if err := r.db.SelectContext(ctx, &records, listByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("list purchases for user %d: %w", userID, err)
	}
	return records, nil
}

// ExpireStale flips every ACTIVE record whose expiry is at or before now and returns them.
func (r *repository) ExpireStale(ctx context.Context, now time.Time) ([]Record, error) {
	records := []Record{}
	if err := r.db.SelectContext(ctx, &records, expireQuery, now); err != nil {
		return nil, fmt.Errorf("expire stale purchases: %w", err)
	}
	return records, nil
}
