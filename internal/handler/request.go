package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// RequestHandler handles HTTP requests for trip requests.
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequestBody is the HTTP request body for creating a trip request.
type CreateRequestBody struct {
	RequesterID       int64  `json:"requester_id"`
	RouteID           string `json:"route_id"`
	TariffID          string `json:"tariff_id"`
	Price             int64  `json:"price,omitempty"`
	CashbackRequested int64  `json:"cashback,omitempty"`
	Comment           string `json:"comment,omitempty"`
	FromLocation      string `json:"from_location"`
	ToLocation        string `json:"to_location"`
	StartTime         string `json:"start_time,omitempty"` // RFC 3339
	Passengers        int    `json:"passengers,omitempty"`
	HasWoman          bool   `json:"has_woman,omitempty"`
}

// RequestResponse is the HTTP representation of a trip request.
type RequestResponse struct {
	ID                string `json:"id"`
	Kind              string `json:"kind"`
	RequesterID       int64  `json:"requester_id"`
	RouteID           string `json:"route_id"`
	TariffID          string `json:"tariff_id"`
	Price             int64  `json:"price"`
	CashbackRequested int64  `json:"cashback"`
	Comment           string `json:"comment,omitempty"`
	FromLocation      string `json:"from_location"`
	ToLocation        string `json:"to_location"`
	StartTime         string `json:"start_time,omitempty"`
	Status            string `json:"status"`
	Passengers        int    `json:"passengers,omitempty"`
	HasWoman          bool   `json:"has_woman,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// CreateRequestResponse is the HTTP response for creating a trip request.
type CreateRequestResponse struct {
	Request RequestResponse `json:"request"`
	OrderID string          `json:"order_id,omitempty"`
}

// CreateTravel handles POST /v1/requests/travel
func (h *RequestHandler) CreateTravel(c *gin.Context) {
	h.create(c, h.requestService.CreateTravel)
}

// CreateDelivery handles POST /v1/requests/delivery
func (h *RequestHandler) CreateDelivery(c *gin.Context) {
	h.create(c, h.requestService.CreateDelivery)
}

// GetRequest handles GET /v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	req, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(req))
}

type createFn func(ctx context.Context, params service.CreateRequestParams) (*service.CreateRequestResponse, error)

func (h *RequestHandler) create(c *gin.Context, fn createFn) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var startTime time.Time
	if body.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339, body.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_time, expected RFC 3339"})
			return
		}
		startTime = parsed
	}

	result, err := fn(c.Request.Context(), service.CreateRequestParams{
		RequesterID:       body.RequesterID,
		RouteID:           body.RouteID,
		TariffID:          body.TariffID,
		Price:             body.Price,
		CashbackRequested: body.CashbackRequested,
		Comment:           body.Comment,
		FromLocation:      body.FromLocation,
		ToLocation:        body.ToLocation,
		StartTime:         startTime,
		Passengers:        body.Passengers,
		HasWoman:          body.HasWoman,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := CreateRequestResponse{Request: toRequestResponse(result.Request)}
	if result.Order != nil {
		response.OrderID = result.Order.ID
	}

	respondJSON(c, http.StatusCreated, response)
}

func toRequestResponse(req *domain.TripRequest) RequestResponse {
	response := RequestResponse{
		ID:                req.ID,
		Kind:              string(req.Kind),
		RequesterID:       req.RequesterID,
		RouteID:           req.RouteID,
		TariffID:          req.TariffID,
		Price:             req.Price,
		CashbackRequested: req.CashbackRequested,
		Comment:           req.Comment,
		FromLocation:      req.FromLocation,
		ToLocation:        req.ToLocation,
		Status:            string(req.Status),
		Passengers:        req.Passengers,
		HasWoman:          req.HasWoman,
		CreatedAt:         req.CreatedAt.Format(time.RFC3339),
	}

	if !req.StartTime.IsZero() {
		response.StartTime = req.StartTime.Format(time.RFC3339)
	}

	return response
}
