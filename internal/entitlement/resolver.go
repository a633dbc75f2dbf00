// Package entitlement decides whether a caller may open a catalog item.
//
// The decision is read-only: it loads the item, short-circuits free and
// inactive items, and otherwise looks for an ACTIVE purchase of the exam plan
// that gates the item, comparing its expiry strictly against the injected clock.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"examprep/internal/catalog"
	"examprep/internal/purchase"
)

var (
	ErrNotFound         = errors.New("item not found")
	ErrInvalidReference = errors.New("paid item has no reachable exam plan")
	ErrStoreUnavailable = errors.New("entitlement store unavailable")
)

type Reason string

const (
	ReasonFree             Reason = "FREE"
	ReasonPurchased        Reason = "PURCHASED"
	ReasonUnavailable      Reason = "UNAVAILABLE"
	ReasonRequiresPurchase Reason = "REQUIRES_PURCHASE"
)

// Upsell describes the exam plan a caller has to buy to unlock a denied item.
type Upsell struct {
	ItemID       int
	Title        string
	Price        int64
	MRP          int64
	ValidityDays int
}

type Verdict struct {
	Allowed  bool
	Reason   Reason
	Item     *catalog.Item
	Purchase *purchase.Record
	Upsell   *Upsell
}

type Catalog interface {
	GetItem(ctx context.Context, itemType catalog.ItemType, id int) (*catalog.Item, error)
}

type Purchases interface {
	FindActive(ctx context.Context, userID int, itemType purchase.ItemType, itemID int, now time.Time) (*purchase.Record, error)
}

type Resolver struct {
	catalog   Catalog
	purchases Purchases
	now       func() time.Time
}

type Option func(*Resolver)

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(catalog Catalog, purchases Purchases, opts ...Option) *Resolver {
	r := &Resolver{catalog: catalog, purchases: purchases, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a verdict for userID opening the given item, or one of
// ErrNotFound, ErrInvalidReference or ErrStoreUnavailable.
func (r *Resolver) Resolve(ctx context.Context, itemType catalog.ItemType, itemID, userID int) (*Verdict, error) {
	item, err := r.catalog.GetItem(ctx, itemType, itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) || errors.Is(err, catalog.ErrInvalidItemType) {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, itemType, itemID)
		}
		return nil, fmt.Errorf("%w: load %s %d: %w", ErrStoreUnavailable, itemType, itemID, err)
	}

	if !item.Active() {
		return &Verdict{Reason: ReasonUnavailable, Item: item}, nil
	}
	if item.IsFree {
		return &Verdict{Allowed: true, Reason: ReasonFree, Item: item}, nil
	}

	planID, ok := item.GatingPlanID()
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrInvalidReference, itemType, itemID)
	}

	now := r.now()
	rec, err := r.purchases.FindActive(ctx, userID, purchase.ItemExamPlan, planID, now)
	switch {
	case err == nil && rec != nil && rec.ActiveAt(now):
		return &Verdict{Allowed: true, Reason: ReasonPurchased, Item: item, Purchase: rec}, nil
	case err != nil && !errors.Is(err, purchase.ErrPurchaseNotFound):
		return nil, fmt.Errorf("%w: find purchase of plan %d: %w", ErrStoreUnavailable, planID, err)
	}

	return r.deny(ctx, item, planID)
}

func (r *Resolver) deny(ctx context.Context, item *catalog.Item, planID int) (*Verdict, error) {
	plan := item
	if item.Type != catalog.ItemExamPlan {
		var err error
		plan, err = r.catalog.GetItem(ctx, catalog.ItemExamPlan, planID)
		if err != nil {
			if errors.Is(err, catalog.ErrItemNotFound) {
				return nil, fmt.Errorf("%w: %s %d references missing plan %d", ErrInvalidReference, item.Type, item.ID, planID)
			}
			return nil, fmt.Errorf("%w: load plan %d: %w", ErrStoreUnavailable, planID, err)
		}
		if plan.IsFree {
			return nil, fmt.Errorf("%w: paid %s %d is gated by free plan %d", ErrInvalidReference, item.Type, item.ID, planID)
		}
		// A retired plan cannot be bought, so its children are unavailable to non-owners.
		if !plan.Active() {
			return &Verdict{Reason: ReasonUnavailable, Item: item}, nil
		}
	}

	return &Verdict{
		Reason: ReasonRequiresPurchase,
		Item:   item,
		Upsell: &Upsell{
			ItemID:       plan.ID,
			Title:        plan.Title,
			Price:        plan.Price,
			MRP:          plan.MRP,
			ValidityDays: plan.ValidityDays,
		},
	}, nil
}
