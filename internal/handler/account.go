package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/repository"
)

// AccountHandler exposes cashback account lookups.
type AccountHandler struct {
	cashbackRepo repository.CashbackRepository
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(cashbackRepo repository.CashbackRepository) *AccountHandler {
	return &AccountHandler{cashbackRepo: cashbackRepo}
}

// CashbackResponse is the HTTP representation of a cashback account.
type CashbackResponse struct {
	OwnerID   int64  `json:"owner_id"`
	Balance   int64  `json:"balance"`
	UpdatedAt string `json:"updated_at"`
}

// GetAccount handles GET /v1/cashback/:owner_id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	ownerID, err := strconv.ParseInt(c.Param("owner_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid owner id"})
		return
	}

	account, err := h.cashbackRepo.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CashbackResponse{
		OwnerID:   account.OwnerID,
		Balance:   account.Balance,
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	})
}
