package purchase

import (
	"context"
	"time"

	"examprep/internal/catalog"
	"examprep/internal/wallet"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) FindActive(ctx context.Context, userID int, itemType ItemType, itemID int, now time.Time) (*Record, error) {
	args := m.Called(ctx, userID, itemType, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int) ([]Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockRepository) ExpireStale(ctx context.Context, now time.Time) ([]Record, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) GetItem(ctx context.Context, itemType catalog.ItemType, id int) (*catalog.Item, error) {
	args := m.Called(ctx, itemType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

type MockPayments struct{ mock.Mock }

func (m *MockPayments) Charge(ctx context.Context, userID int, amount int64, reference string) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID, amount, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockPayments) Credit(ctx context.Context, userID int, amount int64, txType, reference string) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID, amount, txType, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendPurchaseReceipt(ctx context.Context, userID int, planTitle string, amount int64, expiresAt time.Time) error {
	return m.Called(ctx, userID, planTitle, amount, expiresAt).Error(0)
}

func (m *MockNotifier) SendExpiryNotice(ctx context.Context, userID int, planTitle string, expiredAt time.Time) error {
	return m.Called(ctx, userID, planTitle, expiredAt).Error(0)
}
