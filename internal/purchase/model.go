package purchase

import "time"

// ItemType names what a purchase record unlocks. Only exam plans are sold today.
type ItemType string

const ItemExamPlan ItemType = "EXAM_PLAN"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// Record is a user's entitlement to an item. Records are never deleted.
type Record struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	ItemType    ItemType  `db:"item_type" json:"item_type"`
	ItemID      int       `db:"item_id" json:"item_id"`
	Status      Status    `db:"status" json:"status"`
	Amount      int64     `db:"amount" json:"amount"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
	ExpiryDate  time.Time `db:"expiry_date" json:"expiry_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ActiveAt reports whether the record grants access at now.
// An ACTIVE record whose expiry has passed, or is exactly now, does not.
func (r *Record) ActiveAt(now time.Time) bool {
	return r.Status == StatusActive && r.ExpiryDate.After(now)
}

type CheckoutResponse struct {
	Purchase *Record `json:"purchase"`
	Balance  int64   `json:"balance"`
}

type ReconcileResponse struct {
	Expired int `json:"expired"`
}
