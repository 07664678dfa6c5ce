package domain

import "time"

// RequestStatus echoes the lifecycle of the order created from a request.
type RequestStatus string

const (
	RequestStatusCreated  RequestStatus = "CREATED"
	RequestStatusEnded    RequestStatus = "ENDED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// TripRequest is a passenger-submitted travel or delivery request, the
// origin of an Order. Immutable after order creation except for the
// status echo.
type TripRequest struct {
	ID                string
	Kind              RequestKind
	RequesterID       int64
	RouteID           string
	TariffID          string
	Price             int64
	CashbackRequested int64
	Comment           string
	FromLocation      string
	ToLocation        string
	StartTime         time.Time
	Status            RequestStatus
	CreatedAt         time.Time

	// Travel-only extras. Zero-valued for delivery requests.
	Passengers int
	HasWoman   bool
}
