package purchase

import (
	"errors"
	"net/http"
	"strconv"

	"examprep/internal/api"
	"examprep/internal/auth"
	"examprep/internal/logger"
	"examprep/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    Service
	reconciler *Reconciler
}

func NewHandler(service Service, reconciler *Reconciler) *Handler {
	return &Handler{service: service, reconciler: reconciler}
}

// @Summary      Purchase an exam plan
// @Description  Charges the wallet and unlocks the plan and all of its notes and test series.
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        planID path int true "Exam plan ID"
// @Success      201 {object} purchase.CheckoutResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /exam-plans/{planID}/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
		return
	}

	planID, err := strconv.Atoi(c.Param("planID"))
	if err != nil || planID <= 0 {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Invalid exam plan ID")
		return
	}

	rec, w, err := h.service.Purchase(c.Request.Context(), userID, planID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "Exam plan not found")
		case errors.Is(err, ErrPlanUnavailable):
			api.Error(c, http.StatusBadRequest, api.CodeUnavailable, "Exam plan is not available")
		case errors.Is(err, ErrNotForSale):
			api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Exam plan is free and needs no purchase")
		case errors.Is(err, ErrAlreadyOwned):
			api.Error(c, http.StatusConflict, api.CodeConflict, "You already have active access to this exam plan")
		case errors.Is(err, wallet.ErrInsufficientBalance):
			api.Error(c, http.StatusPaymentRequired, api.CodePaymentRequired, "Insufficient wallet balance")
		default:
			logger.Error("purchase failed", "user_id", userID, "plan_id", planID, "error", err)
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to complete purchase")
		}
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{Purchase: rec, Balance: w.Balance})
}

// @Summary      My purchases
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} purchase.Record
// @Router       /purchases [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
		return
	}

	records, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("list purchases failed", "user_id", userID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to load purchases")
		return
	}

	c.JSON(http.StatusOK, records)
}

// @Summary      Expire stale purchases now
// @Tags         admin,purchases
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} purchase.ReconcileResponse
// @Router       /admin/purchases/reconcile [post]
func (h *Handler) Reconcile(c *gin.Context) {
	n, err := h.reconciler.RunOnce(c.Request.Context())
	if err != nil {
		logger.Error("manual reconciliation failed", "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Reconciliation failed")
		return
	}
	c.JSON(http.StatusOK, ReconcileResponse{Expired: n})
}
