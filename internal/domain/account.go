package domain

import "time"

// CashbackAccount holds a passenger's loyalty balance, keyed by the
// passenger's external id. Created lazily on first reference.
type CashbackAccount struct {
	OwnerID   int64
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DriverTransaction is one entry in the append-only commission trail.
// Amount is signed: deductions are negative.
type DriverTransaction struct {
	ID        string
	DriverID  string
	OrderID   string
	Amount    int64
	Reason    string
	CreatedAt time.Time
}
