package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

const (
	walletColumns = `id, user_id, balance, currency, created_at, updated_at`

	getWalletQuery    = `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	lockWalletQuery   = `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	createWalletQuery = `INSERT INTO wallets (user_id) VALUES ($1) RETURNING ` + walletColumns
	setBalanceQuery   = `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`
	insertTxQuery     = `INSERT INTO wallet_transactions (wallet_id, amount, type, reference, balance_after) VALUES ($1, $2, $3, $4, $5)`
	walletIDQuery     = `SELECT id FROM wallets WHERE user_id = $1`
	listTxQuery       = `
		SELECT id, wallet_id, amount, type, reference, balance_after, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, getWalletQuery, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load wallet for user %d: %w", userID, err)
	}

	if err := r.db.QueryRowxContext(ctx, createWalletQuery, userID).StructScan(w); err != nil {
		return nil, fmt.Errorf("create wallet for user %d: %w", userID, err)
	}
	return w, nil
}

// AddTransaction applies a signed amount under a row lock and appends a ledger entry.
// A debit that would take the balance below zero fails with ErrInsufficientBalance.
func (r *repository) AddTransaction(ctx context.Context, userID int, amount int64, txType, reference string) (*Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowxContext(ctx, lockWalletQuery, userID).StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowxContext(ctx, createWalletQuery, userID).StructScan(&w)
	}
	if err != nil {
		return nil, fmt.Errorf("lock wallet for user %d: %w", userID, err)
	}

	newBalance := w.Balance + amount
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	if _, err := tx.ExecContext(ctx, setBalanceQuery, newBalance, w.ID); err != nil {
		return nil, fmt.Errorf("update wallet %d: %w", w.ID, err)
	}

	var ref *string
	if reference != "" {
		ref = &reference
	}
	if _, err := tx.ExecContext(ctx, insertTxQuery, w.ID, amount, txType, ref, newBalance); err != nil {
		return nil, fmt.Errorf("record %s on wallet %d: %w", txType, w.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	w.Balance = newBalance
	return &w, nil
}

func (r *repository) ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	var walletID int
	err := r.db.GetContext(ctx, &walletID, walletIDQuery, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	txs := []Transaction{}
	if err := r.db.SelectContext(ctx, &txs, listTxQuery, walletID, limit, offset); err != nil {
		return nil, fmt.Errorf("list transactions of wallet %d: %w", walletID, err)
	}
	return txs, nil
}
