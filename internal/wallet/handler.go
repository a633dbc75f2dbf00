package wallet

import (
	"net/http"
	"strconv"

	"examprep/internal/api"
	"examprep/internal/auth"
	"examprep/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Wallet balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} wallet.Wallet
// @Router       /wallet [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
		return
	}

	w, err := h.service.Balance(c.Request.Context(), userID)
	if err != nil {
		logger.Error("load wallet failed", "user_id", userID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to load wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Top up wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body wallet.TopUpRequest true "Amount in paise"
// @Success      200 {object} wallet.TopUpResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /wallet/topup [post]
func (h *Handler) TopUp(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
		return
	}

	var req TopUpRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.TopUp(c.Request.Context(), userID, req.Amount)
	if err != nil {
		logger.Error("wallet top up failed", "user_id", userID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to top up wallet")
		return
	}

	logger.Info("wallet recharged", "user_id", userID, "amount", req.Amount)
	c.JSON(http.StatusOK, TopUpResponse{Message: "wallet recharged", Wallet: w})
}

// @Summary      Wallet transactions
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} wallet.Transaction
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Error("list wallet transactions failed", "user_id", userID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to load transactions")
		return
	}

	c.JSON(http.StatusOK, txs)
}
