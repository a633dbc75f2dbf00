package wallet

import "time"

// Transaction types recorded in the ledger.
const (
	TxTopUp    = "topup"
	TxPurchase = "purchase"
	TxRefund   = "refund"
)

// Wallet holds a prepaid balance in paise.
type Wallet struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID           int       `db:"id" json:"id"`
	WalletID     int       `db:"wallet_id" json:"wallet_id"`
	Amount       int64     `db:"amount" json:"amount"`
	Type         string    `db:"type" json:"type"`
	Reference    *string   `db:"reference" json:"reference,omitempty"`
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0,lte=10000000"`
}

type TopUpResponse struct {
	Message string  `json:"message"`
	Wallet  *Wallet `json:"wallet"`
}
