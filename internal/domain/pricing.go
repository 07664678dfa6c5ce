package domain

// CityPrice is the static trip price for a (route, tariff) pair.
type CityPrice struct {
	RouteID  string
	TariffID string
	Price    int64
}

// RouteCashback is the cashback rate for a route, e.g. 0.001 = 0.1%.
type RouteCashback struct {
	RouteID string
	Rate    float64
}
