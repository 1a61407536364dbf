package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/claim"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/holdings"
	"github.com/feral-file/ff-holdings-reconciler/internal/ratelimit"
)

// MAX_BATCH_TOKENS bounds the token ids accepted by one batch vesting request
const MAX_BATCH_TOKENS = 10000

// VestingBatchRequest is the body of POST /api/v1/vesting
type VestingBatchRequest struct {
	TokenIDs []string `json:"token_ids" binding:"required"`
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetHoldings returns the direct and delegated holdings of a wallet
	// GET /api/v1/holdings/:address
	GetHoldings(c *gin.Context)

	// GetVesting returns the vesting state of one token
	// GET /api/v1/vesting/:token_id
	GetVesting(c *gin.Context)

	// BatchVesting returns the vesting state of many tokens (requires authentication)
	// POST /api/v1/vesting
	BatchVesting(c *gin.Context)

	// GetQueueStats returns the contract call queue's control state
	// GET /api/v1/queue
	GetQueueStats(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	holdings holdings.Service
	claims   claim.Service
	queue    ratelimit.Queue
}

// NewHandler creates a new REST API handler
func NewHandler(holdingsService holdings.Service, claimService claim.Service, queue ratelimit.Queue) Handler {
	return &handler{
		holdings: holdingsService,
		claims:   claimService,
		queue:    queue,
	}
}

// GetHoldings returns the direct and delegated holdings of a wallet
func (h *handler) GetHoldings(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "Address is required")
		return
	}

	view, err := h.holdings.Holdings(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to reconcile holdings", zap.String("address", address))
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetVesting returns the vesting state of one token
func (h *handler) GetVesting(c *gin.Context) {
	tokenID := c.Param("token_id")

	entry, err := h.claims.VestingOf(c.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTokenID) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to compute vesting", zap.String("token_id", tokenID))
		return
	}

	c.JSON(http.StatusOK, entry)
}

// BatchVesting returns the vesting state of many tokens
func (h *handler) BatchVesting(c *gin.Context) {
	var req VestingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if len(req.TokenIDs) > MAX_BATCH_TOKENS {
		respondValidationError(c, "too many token ids")
		return
	}

	view, err := h.claims.Vesting(c.Request.Context(), req.TokenIDs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTokenID) || errors.Is(err, claim.ErrNoTokens) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to compute vesting", zap.Int("tokens", len(req.TokenIDs)))
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetQueueStats returns the contract call queue's control state
func (h *handler) GetQueueStats(c *gin.Context) {
	if h.queue == nil {
		respondNotFound(c, "Request queue is not configured")
		return
	}
	c.JSON(http.StatusOK, h.queue.Stats())
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-holdings-reconciler",
	})
}
