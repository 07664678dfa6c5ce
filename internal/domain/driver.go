package domain

import "time"

// DriverStatus represents the current status of a driver.
type DriverStatus string

const (
	DriverStatusOnline  DriverStatus = "ONLINE"
	DriverStatusOffline DriverStatus = "OFFLINE"
)

// Driver represents a driver in the system. Balance is in the same
// integer units as trip prices; it may go negative (commission debt).
type Driver struct {
	ID           string
	TelegramID   int64
	Name         string
	Phone        string
	FromLocation string
	ToLocation   string
	Status       DriverStatus
	Balance      int64
	CreatedAt    time.Time
}
