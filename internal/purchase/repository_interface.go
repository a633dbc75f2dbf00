package purchase

import (
	"context"
	"time"
)

type Repository interface {
	FindActive(ctx context.Context, userID int, itemType ItemType, itemID int, now time.Time) (*Record, error)
	Create(ctx context.Context, rec *Record) (*Record, error)
	ListByUser(ctx context.Context, userID int) ([]Record, error)
	ExpireStale(ctx context.Context, now time.Time) ([]Record, error)
}
