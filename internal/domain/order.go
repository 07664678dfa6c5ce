package domain

import "time"

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusCreated  OrderStatus = "CREATED"
	OrderStatusAssigned OrderStatus = "ASSIGNED"
	OrderStatusArrived  OrderStatus = "ARRIVED"
	OrderStatusStarted  OrderStatus = "STARTED"
	OrderStatusEnded    OrderStatus = "ENDED"
	OrderStatusRejected OrderStatus = "REJECTED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusEnded || s == OrderStatusRejected || s == OrderStatusCanceled
}

// OrderType represents the kind of service an order covers.
type OrderType string

const (
	OrderTypeTravel   OrderType = "TRAVEL"
	OrderTypeDelivery OrderType = "DELIVERY"
)

// RequestKind identifies which request table an order points into.
type RequestKind string

const (
	RequestKindTravel   RequestKind = "TRAVEL"
	RequestKindDelivery RequestKind = "DELIVERY"
)

// OrderType maps a request kind to the order type it produces.
func (k RequestKind) OrderType() OrderType {
	if k == RequestKindDelivery {
		return OrderTypeDelivery
	}
	return OrderTypeTravel
}

// RequestRef is a tagged reference to the trip request an order was
// created from. Exactly one order may exist per (Kind, ID) pair.
type RequestRef struct {
	Kind RequestKind
	ID   string
}

// Order is the dispatch record tracking a passenger request from
// creation to completion. Status is mutated only by the order service;
// orders are never deleted.
type Order struct {
	ID           string
	RequesterID  int64
	DriverID     string // empty until assigned
	Status       OrderStatus
	OrderType    OrderType
	Request      RequestRef
	RejectReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
