package handlers

import (
	"net/http"
	"time"

	"ceygo/middleware"
	"ceygo/models"
	"ceygo/services/transfer"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransferHandler struct {
	TransferService transfer.TransferService
}

func NewTransferHandler(transferService transfer.TransferService) *TransferHandler {
	return &TransferHandler{TransferService: transferService}
}

func (h *TransferHandler) ListTransfersHandler(c *gin.Context) {
	transfers, err := h.TransferService.ListTransfers(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch bank transfers", err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) GetTransferHandler(c *gin.Context) {
	t, err := h.TransferService.GetTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch bank transfer", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) CreateTransferHandler(c *gin.Context) {
	var t models.BankTransfer
	if !bindJSON(c, &t) {
		return
	}
	created, err := h.TransferService.CreateTransfer(c.Request.Context(), &t)
	if err != nil {
		utils.RespondError(c, "Failed to create bank transfer", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ApproveHandler applies the admin decision, approve or reject, to a pending transfer.
func (h *TransferHandler) ApproveHandler(c *gin.Context) {
	var req transfer.ProcessRequest
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")
	if err := h.TransferService.Process(c.Request.Context(), id, middleware.AdminEmail(c), req); err != nil {
		utils.RespondError(c, "Failed to process transfer", err)
		return
	}
	getLogger(c).Info("Transfer decision recorded", zap.String("transferID", id), zap.String("status", req.Status))
	c.JSON(http.StatusOK, successResponse{Success: true, Message: "Transfer updated successfully"})
}

// ProofHandler returns {url}, a short-lived link to the proof image. ?expires=30m sets
// the lifetime.
func (h *TransferHandler) ProofHandler(c *gin.Context) {
	var expires time.Duration
	if raw := c.Query("expires"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "expires must be a positive duration such as 15m")
			return
		}
		expires = d
	}
	url, err := h.TransferService.ProofURL(c.Request.Context(), c.Param("id"), expires)
	if err != nil {
		utils.RespondError(c, "Failed to fetch proof image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
