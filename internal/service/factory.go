package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// RequestService handles trip request intake and creates exactly one
// order per request.
type RequestService struct {
	requestRepo repository.RequestRepository
	orderRepo   repository.OrderRepository
	driverRepo  repository.DriverRepository
	notifier    NotifierInterface
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	orderRepo repository.OrderRepository,
	driverRepo repository.DriverRepository,
	notifier NotifierInterface,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		orderRepo:   orderRepo,
		driverRepo:  driverRepo,
		notifier:    notifier,
	}
}

// CreateRequestParams contains the parameters for creating a trip request.
type CreateRequestParams struct {
	RequesterID       int64
	RouteID           string
	TariffID          string
	Price             int64
	CashbackRequested int64
	Comment           string
	FromLocation      string
	ToLocation        string
	StartTime         time.Time

	// Travel-only extras.
	Passengers int
	HasWoman   bool
}

// CreateRequestResponse contains the stored request and, when order
// creation succeeded, the order bound to it.
type CreateRequestResponse struct {
	Request *domain.TripRequest
	Order   *domain.Order
}

// CreateTravel stores a travel request and creates its order.
func (s *RequestService) CreateTravel(ctx context.Context, params CreateRequestParams) (*CreateRequestResponse, error) {
	return s.create(ctx, domain.RequestKindTravel, params)
}

// CreateDelivery stores a delivery request and creates its order.
func (s *RequestService) CreateDelivery(ctx context.Context, params CreateRequestParams) (*CreateRequestResponse, error) {
	return s.create(ctx, domain.RequestKindDelivery, params)
}

// GetRequest retrieves a trip request by ID.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.TripRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	return s.requestRepo.GetByID(ctx, requestID)
}

func (s *RequestService) create(ctx context.Context, kind domain.RequestKind, params CreateRequestParams) (*CreateRequestResponse, error) {
	if err := validateRequestParams(params); err != nil {
		return nil, err
	}

	req := &domain.TripRequest{
		ID:                uuid.New().String(),
		Kind:              kind,
		RequesterID:       params.RequesterID,
		RouteID:           params.RouteID,
		TariffID:          params.TariffID,
		Price:             params.Price,
		CashbackRequested: params.CashbackRequested,
		Comment:           params.Comment,
		FromLocation:      params.FromLocation,
		ToLocation:        params.ToLocation,
		StartTime:         params.StartTime,
		Status:            domain.RequestStatusCreated,
		CreatedAt:         time.Now(),
	}
	if kind == domain.RequestKindTravel {
		req.Passengers = params.Passengers
		if req.Passengers <= 0 {
			req.Passengers = 1
		}
		req.HasWoman = params.HasWoman
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	// Order creation is auxiliary bookkeeping: the request has been
	// accepted regardless of what happens past this point.
	order, err := s.CreateOrderFor(ctx, req)
	if err != nil {
		log.Printf("[FACTORY] failed to create order for %s request %s: %v", kind, req.ID, err)
		order = nil
	}

	return &CreateRequestResponse{Request: req, Order: order}, nil
}

// CreateOrderFor creates the order bound to a trip request, enforcing
// at-most-one order per (kind, id). A duplicate invocation is a benign
// no-op returning the existing order.
func (s *RequestService) CreateOrderFor(ctx context.Context, req *domain.TripRequest) (*domain.Order, error) {
	ref := domain.RequestRef{Kind: req.Kind, ID: req.ID}

	existing, err := s.orderRepo.GetByRequest(ctx, ref)
	if err == nil {
		log.Printf("[FACTORY] order already exists for %s request %s", req.Kind, req.ID)
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.New().String(),
		RequesterID: req.RequesterID,
		Status:      domain.OrderStatusCreated,
		OrderType:   req.Kind.OrderType(),
		Request:     ref,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, order, req)

	log.Printf("[FACTORY] order %s created from %s request %s", order.ID, req.Kind, req.ID)
	return order, nil
}

// notifyCreated fans the new order out to the online drivers on its
// route and posts the group broadcast. Both are fire-and-forget.
func (s *RequestService) notifyCreated(ctx context.Context, order *domain.Order, req *domain.TripRequest) {
	if s.notifier == nil {
		return
	}

	drivers, err := s.driverRepo.GetOnlineByRoute(ctx, req.FromLocation, req.ToLocation)
	if err != nil {
		log.Printf("[FACTORY] driver pool lookup failed request=%s: %v", req.ID, err)
	}

	s.notifier.NotifyDriverPool(order, req, drivers)
	s.notifier.BroadcastGroup(order, req)
}

func validateRequestParams(params CreateRequestParams) error {
	if params.RequesterID == 0 {
		return ErrInvalidRequesterID
	}
	if params.RouteID == "" {
		return ErrInvalidRouteID
	}
	if params.TariffID == "" {
		return ErrInvalidTariffID
	}
	if params.CashbackRequested < 0 {
		return ErrInvalidCashback
	}
	return nil
}
