package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// OrderHandler handles HTTP requests for order lifecycle transitions.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// AssignRequest is the HTTP request body for assigning a driver.
type AssignRequest struct {
	DriverID string `json:"driver_id"`
}

// ReasonRequest is the HTTP request body for reject/cancel.
type ReasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderResponse is the HTTP representation of an order.
type OrderResponse struct {
	ID           string `json:"id"`
	RequesterID  int64  `json:"requester_id"`
	DriverID     string `json:"driver_id,omitempty"`
	Status       string `json:"status"`
	OrderType    string `json:"order_type"`
	RequestKind  string `json:"request_kind"`
	RequestID    string `json:"request_id"`
	RejectReason string `json:"reject_reason,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}

	c.JSON(http.StatusOK, response)
}

// Assign handles POST /v1/orders/:id/assign
func (h *OrderHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.Assign(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Arrive handles POST /v1/orders/:id/arrive
func (h *OrderHandler) Arrive(c *gin.Context) {
	h.plainTransition(c, h.orderService.Arrive)
}

// Start handles POST /v1/orders/:id/start
func (h *OrderHandler) Start(c *gin.Context) {
	h.plainTransition(c, h.orderService.Start)
}

// End handles POST /v1/orders/:id/end
func (h *OrderHandler) End(c *gin.Context) {
	h.plainTransition(c, h.orderService.End)
}

// Reject handles POST /v1/orders/:id/reject
func (h *OrderHandler) Reject(c *gin.Context) {
	h.reasonedTransition(c, h.orderService.Reject)
}

// Cancel handles POST /v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.reasonedTransition(c, h.orderService.Cancel)
}

func (h *OrderHandler) plainTransition(c *gin.Context, fn func(ctx context.Context, orderID string) (*domain.Order, error)) {
	order, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) reasonedTransition(c *gin.Context, fn func(ctx context.Context, orderID, reason string) (*domain.Order, error)) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := fn(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID,
		RequesterID:  order.RequesterID,
		DriverID:     order.DriverID,
		Status:       string(order.Status),
		OrderType:    string(order.OrderType),
		RequestKind:  string(order.Request.Kind),
		RequestID:    order.Request.ID,
		RejectReason: order.RejectReason,
		CreatedAt:    order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    order.UpdatedAt.Format(time.RFC3339),
	}
}
