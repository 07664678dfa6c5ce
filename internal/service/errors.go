package service

import "errors"

var (
	// ErrInvalidRequesterID is returned when the requester ID is missing.
	ErrInvalidRequesterID = errors.New("invalid requester id")

	// ErrInvalidRouteID is returned when the route ID is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidTariffID is returned when the tariff ID is empty.
	ErrInvalidTariffID = errors.New("invalid tariff id")

	// ErrInvalidOrderID is returned when the order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidDriverID is returned when the driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRequestID is returned when the trip request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidTransition is returned when an order cannot move from its
	// current status to the requested one.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrOrderBusy is returned when another transition currently holds the
	// order's lock.
	ErrOrderBusy = errors.New("order is being processed by another transition")

	// ErrInvalidDriverStatus is returned when a driver status value is not
	// ONLINE or OFFLINE.
	ErrInvalidDriverStatus = errors.New("invalid driver status")

	// ErrInvalidCashback is returned when a requested cashback amount is
	// negative.
	ErrInvalidCashback = errors.New("invalid cashback amount")
)
