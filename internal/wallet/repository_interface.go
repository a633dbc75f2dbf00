package wallet

import "context"

type Repository interface {
	GetOrCreate(ctx context.Context, userID int) (*Wallet, error)
	AddTransaction(ctx context.Context, userID int, amount int64, txType, reference string) (*Wallet, error)
	ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
