package service

import (
	"fmt"
	"strings"

	"dispatch/internal/domain"
)

// BroadcastMessage renders the human-readable summary posted to the
// operations group chat when an order is created.
func BroadcastMessage(order *domain.Order, req *domain.TripRequest) string {
	var b strings.Builder

	b.WriteString("New order\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Requester: %d\n", order.RequesterID)
	fmt.Fprintf(&b, "Status: %s\n", titleCase(string(order.Status)))
	fmt.Fprintf(&b, "Type: %s\n", titleCase(string(order.OrderType)))

	if req == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "Route: %s -> %s\n", req.FromLocation, req.ToLocation)
	fmt.Fprintf(&b, "Price: %d\n", req.Price)

	comment := req.Comment
	if comment == "" {
		comment = "no comment"
	}
	fmt.Fprintf(&b, "Comment: %s\n", comment)
	fmt.Fprintf(&b, "Cashback applied: %d\n", req.CashbackRequested)

	if req.Kind == domain.RequestKindTravel {
		fmt.Fprintf(&b, "Passengers: %d\n", req.Passengers)
		female := "No"
		if req.HasWoman {
			female = "Yes"
		}
		fmt.Fprintf(&b, "Female passenger: %s\n", female)
	}

	if !req.StartTime.IsZero() {
		fmt.Fprintf(&b, "Departure: %s\n", req.StartTime.Format("02-01-2006 15:04"))
	}
	fmt.Fprintf(&b, "Created: %s", req.CreatedAt.Format("02-01-2006 15:04"))

	return b.String()
}

// titleCase renders an ALL_CAPS enum value as a display word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
