package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"examprep/internal/catalog"
	"examprep/internal/logger"
	"examprep/internal/metrics"
	"examprep/internal/wallet"
)

var (
	ErrAlreadyOwned    = errors.New("exam plan already purchased and still active")
	ErrPlanNotFound    = errors.New("exam plan not found")
	ErrPlanUnavailable = errors.New("exam plan is not available for purchase")
	ErrNotForSale      = errors.New("exam plan is free")
)

// Catalog is the slice of the catalog checkout needs.
type Catalog interface {
	GetItem(ctx context.Context, itemType catalog.ItemType, id int) (*catalog.Item, error)
}

type Payments interface {
	Charge(ctx context.Context, userID int, amount int64, reference string) (*wallet.Wallet, error)
	Credit(ctx context.Context, userID int, amount int64, txType, reference string) (*wallet.Wallet, error)
}

type Notifier interface {
	SendPurchaseReceipt(ctx context.Context, userID int, planTitle string, amount int64, expiresAt time.Time) error
	SendExpiryNotice(ctx context.Context, userID int, planTitle string, expiredAt time.Time) error
}

type Service interface {
	Purchase(ctx context.Context, userID, planID int) (*Record, *wallet.Wallet, error)
	ListByUser(ctx context.Context, userID int) ([]Record, error)
}

type service struct {
	repo     Repository
	catalog  Catalog
	payments Payments
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, catalog Catalog, payments Payments, notifier Notifier) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
	}
}

func planReference(planID int) string {
	return fmt.Sprintf("exam_plan:%d", planID)
}

// Purchase charges the caller's wallet for an exam plan and records the entitlement.
// The charge and the insert are separate transactions; a failed insert is compensated with a refund.
func (s *service) Purchase(ctx context.Context, userID, planID int) (*Record, *wallet.Wallet, error) {
	plan, err := s.catalog.GetItem(ctx, catalog.ItemExamPlan, planID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			metrics.RecordPurchase("not_found")
			return nil, nil, ErrPlanNotFound
		}
		return nil, nil, err
	}
	if !plan.Active() {
		metrics.RecordPurchase("unavailable")
		return nil, nil, ErrPlanUnavailable
	}
	if plan.IsFree {
		metrics.RecordPurchase("free")
		return nil, nil, ErrNotForSale
	}
	if plan.Price <= 0 || plan.ValidityDays <= 0 {
		metrics.RecordPurchase("unavailable")
		return nil, nil, ErrPlanUnavailable
	}

	now := s.now().UTC()

	_, err = s.repo.FindActive(ctx, userID, ItemExamPlan, planID, now)
	switch {
	case err == nil:
		metrics.RecordPurchase("already_owned")
		return nil, nil, ErrAlreadyOwned
	case !errors.Is(err, ErrPurchaseNotFound):
		return nil, nil, err
	}

	ref := planReference(planID)
	w, err := s.payments.Charge(ctx, userID, plan.Price, ref)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			metrics.RecordPurchase("insufficient_funds")
		}
		return nil, nil, err
	}

	rec, err := s.repo.Create(ctx, &Record{
		UserID:      userID,
		ItemType:    ItemExamPlan,
		ItemID:      planID,
		Status:      StatusActive,
		Amount:      plan.Price,
		PurchasedAt: now,
		ExpiryDate:  now.AddDate(0, 0, plan.ValidityDays),
	})
	if err != nil {
		metrics.RecordPurchase("failed")
		if _, refundErr := s.payments.Credit(context.WithoutCancel(ctx), userID, plan.Price, wallet.TxRefund, ref); refundErr != nil {
			logger.Error("refund after failed purchase insert did not go through",
				"user_id", userID, "plan_id", planID, "amount", plan.Price, "error", refundErr)
		}
		return nil, nil, err
	}

	metrics.RecordPurchase("success")
	logger.Info("exam plan purchased", "user_id", userID, "plan_id", planID, "purchase_id", rec.ID, "expires", rec.ExpiryDate)

	if s.notifier != nil {
		if err := s.notifier.SendPurchaseReceipt(ctx, userID, plan.Title, plan.Price, rec.ExpiryDate); err != nil {
			logger.Warn("purchase receipt not queued", "purchase_id", rec.ID, "error", err)
		}
	}

	return rec, w, nil
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]Record, error) {
	return s.repo.ListByUser(ctx, userID)
}
