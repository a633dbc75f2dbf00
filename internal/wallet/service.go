package wallet

import "context"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Service interface {
	Balance(ctx context.Context, userID int) (*Wallet, error)
	TopUp(ctx context.Context, userID int, amount int64) (*Wallet, error)
	Charge(ctx context.Context, userID int, amount int64, reference string) (*Wallet, error)
	Credit(ctx context.Context, userID int, amount int64, txType, reference string) (*Wallet, error)
	ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Balance(ctx context.Context, userID int) (*Wallet, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *service) TopUp(ctx context.Context, userID int, amount int64) (*Wallet, error) {
	return s.Credit(ctx, userID, amount, TxTopUp, "")
}

// Charge debits the wallet for a purchase.
func (s *service) Charge(ctx context.Context, userID int, amount int64, reference string) (*Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.AddTransaction(ctx, userID, -amount, TxPurchase, reference)
}

func (s *service) Credit(ctx context.Context, userID int, amount int64, txType, reference string) (*Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.AddTransaction(ctx, userID, amount, txType, reference)
}

func (s *service) ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}
