package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"examprep/internal/catalog"
	"examprep/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type checkoutDeps struct {
	repo     *MockRepository
	catalog  *MockCatalog
	payments *MockPayments
	notifier *MockNotifier
	svc      Service
}

func newCheckout() checkoutDeps {
	d := checkoutDeps{
		repo:     new(MockRepository),
		catalog:  new(MockCatalog),
		payments: new(MockPayments),
		notifier: new(MockNotifier),
	}
	svc := NewService(d.repo, d.catalog, d.payments, d.notifier).(*service)
	svc.now = func() time.Time { return fixedNow }
	d.svc = svc
	return d
}

func paidPlan(id int) *catalog.Item {
	return &catalog.Item{ID: id, Type: catalog.ItemExamPlan, Title: "UPSC Prelims", Status: catalog.StatusActive, Price: 49900, MRP: 99900, ValidityDays: 180}
}

func TestPurchase_Success(t *testing.T) {
	d := newCheckout()
	expiry := fixedNow.AddDate(0, 0, 180)

	d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(paidPlan(7), nil)
	d.repo.On("FindActive", mock.Anything, 1, ItemExamPlan, 7, fixedNow).Return(nil, ErrPurchaseNotFound)
	d.payments.On("Charge", mock.Anything, 1, int64(49900), "exam_plan:7").Return(&wallet.Wallet{UserID: 1, Balance: 100}, nil)
	d.repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Record) bool {
		return r.UserID == 1 && r.ItemID == 7 && r.Status == StatusActive && r.ExpiryDate.Equal(expiry) && r.Amount == 49900
	})).Return(&Record{ID: 11, UserID: 1, ItemType: ItemExamPlan, ItemID: 7, Status: StatusActive, ExpiryDate: expiry}, nil)
	d.notifier.On("SendPurchaseReceipt", mock.Anything, 1, "UPSC Prelims", int64(49900), expiry).Return(nil)

	rec, w, err := d.svc.Purchase(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 11, rec.ID)
	assert.Equal(t, int64(100), w.Balance)

	d.repo.AssertExpectations(t)
	d.payments.AssertExpectations(t)
	d.notifier.AssertExpectations(t)
	d.payments.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchase_AlreadyOwned(t *testing.T) {
	d := newCheckout()

	d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(paidPlan(7), nil)
	d.repo.On("FindActive", mock.Anything, 1, ItemExamPlan, 7, fixedNow).
		Return(&Record{ID: 3, Status: StatusActive, ExpiryDate: fixedNow.Add(time.Hour)}, nil)

	_, _, err := d.svc.Purchase(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	d.payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchase_PlanChecks(t *testing.T) {
	cases := []struct {
		name    string
		plan    *catalog.Item
		lookErr error
		want    error
	}{
		{"missing plan", nil, catalog.ErrItemNotFound, ErrPlanNotFound},
		{"inactive plan", &catalog.Item{ID: 7, Status: catalog.StatusInactive, Price: 100, ValidityDays: 30}, nil, ErrPlanUnavailable},
		{"free plan", &catalog.Item{ID: 7, Status: catalog.StatusActive, IsFree: true}, nil, ErrNotForSale},
		{"no validity", &catalog.Item{ID: 7, Status: catalog.StatusActive, Price: 100}, nil, ErrPlanUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newCheckout()
			if tc.lookErr != nil {
				d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(nil, tc.lookErr)
			} else {
				d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(tc.plan, nil)
			}

			_, _, err := d.svc.Purchase(context.Background(), 1, 7)
			assert.ErrorIs(t, err, tc.want)
			d.repo.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			d.payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPurchase_InsufficientBalance(t *testing.T) {
	d := newCheckout()

	d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(paidPlan(7), nil)
	d.repo.On("FindActive", mock.Anything, 1, ItemExamPlan, 7, fixedNow).Return(nil, ErrPurchaseNotFound)
	d.payments.On("Charge", mock.Anything, 1, int64(49900), "exam_plan:7").Return(nil, wallet.ErrInsufficientBalance)

	_, _, err := d.svc.Purchase(context.Background(), 1, 7)
	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPurchase_RefundsWhenInsertFails(t *testing.T) {
	d := newCheckout()
	boom := errors.New("insert failed")

	d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(paidPlan(7), nil)
	d.repo.On("FindActive", mock.Anything, 1, ItemExamPlan, 7, fixedNow).Return(nil, ErrPurchaseNotFound)
	d.payments.On("Charge", mock.Anything, 1, int64(49900), "exam_plan:7").Return(&wallet.Wallet{Balance: 0}, nil)
	d.repo.On("Create", mock.Anything, mock.Anything).Return(nil, boom)
	d.payments.On("Credit", mock.Anything, 1, int64(49900), wallet.TxRefund, "exam_plan:7").Return(&wallet.Wallet{Balance: 49900}, nil).Once()

	_, _, err := d.svc.Purchase(context.Background(), 1, 7)
	assert.ErrorIs(t, err, boom)
	d.payments.AssertExpectations(t)
	d.notifier.AssertNotCalled(t, "SendPurchaseReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchase_ReceiptFailureDoesNotFailCheckout(t *testing.T) {
	d := newCheckout()
	expiry := fixedNow.AddDate(0, 0, 180)

	d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(paidPlan(7), nil)
	d.repo.On("FindActive", mock.Anything, 1, ItemExamPlan, 7, fixedNow).Return(nil, ErrPurchaseNotFound)
	d.payments.On("Charge", mock.Anything, 1, int64(49900), "exam_plan:7").Return(&wallet.Wallet{}, nil)
	d.repo.On("Create", mock.Anything, mock.Anything).Return(&Record{ID: 12, ExpiryDate: expiry}, nil)
	d.notifier.On("SendPurchaseReceipt", mock.Anything, 1, "UPSC Prelims", int64(49900), expiry).Return(errors.New("redis down"))

	rec, _, err := d.svc.Purchase(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, rec.ID)
}

func TestPurchase_LookupStoreErrorPropagates(t *testing.T) {
	d := newCheckout()
	boom := errors.New("db down")

	d.catalog.On("GetItem", mock.Anything, catalog.ItemExamPlan, 7).Return(paidPlan(7), nil)
	d.repo.On("FindActive", mock.Anything, 1, ItemExamPlan, 7, fixedNow).Return(nil, boom)

	_, _, err := d.svc.Purchase(context.Background(), 1, 7)
	assert.ErrorIs(t, err, boom)
	d.payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
