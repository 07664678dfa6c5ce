package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// DriverHandler handles HTTP requests for driver management.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// RegisterDriverRequest is the HTTP request body for registering a driver.
type RegisterDriverRequest struct {
	TelegramID   int64  `json:"telegram_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
}

// SetStatusRequest is the HTTP request body for updating driver status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// DriverResponse is the HTTP representation of a driver.
type DriverResponse struct {
	ID           string `json:"id"`
	TelegramID   int64  `json:"telegram_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	Status       string `json:"status"`
	Balance      int64  `json:"balance"`
	CreatedAt    string `json:"created_at"`
}

// TransactionResponse is the HTTP representation of a driver ledger entry.
type TransactionResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

// BalanceResponse bundles a driver with their ledger history.
type BalanceResponse struct {
	Driver       DriverResponse        `json:"driver"`
	Transactions []TransactionResponse `json:"transactions"`
}

// Register handles POST /v1/drivers
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		TelegramID:   req.TelegramID,
		Name:         req.Name,
		Phone:        req.Phone,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// SetStatus handles POST /v1/drivers/:id/status
func (h *DriverHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.SetStatus(c.Request.Context(), c.Param("id"), domain.DriverStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// GetBalance handles GET /v1/drivers/:id/balance
func (h *DriverHandler) GetBalance(c *gin.Context) {
	balance, err := h.driverService.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := BalanceResponse{
		Driver:       toDriverResponse(balance.Driver),
		Transactions: make([]TransactionResponse, 0, len(balance.Transactions)),
	}
	for _, tx := range balance.Transactions {
		response.Transactions = append(response.Transactions, TransactionResponse{
			ID:        tx.ID,
			OrderID:   tx.OrderID,
			Amount:    tx.Amount,
			Reason:    tx.Reason,
			CreatedAt: tx.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverService.GetAllDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		response = append(response, toDriverResponse(driver))
	}

	c.JSON(http.StatusOK, response)
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:           driver.ID,
		TelegramID:   driver.TelegramID,
		Name:         driver.Name,
		Phone:        driver.Phone,
		FromLocation: driver.FromLocation,
		ToLocation:   driver.ToLocation,
		Status:       string(driver.Status),
		Balance:      driver.Balance,
		CreatedAt:    driver.CreatedAt.Format(time.RFC3339),
	}
}
