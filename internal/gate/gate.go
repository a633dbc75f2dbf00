// Package gate puts the entitlement decision in front of content handlers.
package gate

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"examprep/internal/api"
	"examprep/internal/auth"
	"examprep/internal/catalog"
	"examprep/internal/entitlement"
	"examprep/internal/logger"
	"examprep/internal/metrics"
	"examprep/internal/purchase"

	"github.com/gin-gonic/gin"
)

type Resolver interface {
	Resolve(ctx context.Context, itemType catalog.ItemType, itemID, userID int) (*entitlement.Verdict, error)
}

// Guard resolves the item named by the path parameter param and only calls the
// next handler on an allow verdict. The resolved item, and the purchase when
// one proved entitlement, are attached to the context for the handler.
func Guard(resolver Resolver, itemType catalog.ItemType, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
			return
		}

		itemID, err := strconv.Atoi(c.Param(param))
		if err != nil || itemID <= 0 {
			metrics.RecordVerdict(string(itemType), "not_found")
			api.Error(c, http.StatusNotFound, api.CodeNotFound, notFoundMessage(itemType))
			return
		}

		verdict, err := resolver.Resolve(c.Request.Context(), itemType, itemID, userID)
		if err != nil {
			switch {
			case errors.Is(err, entitlement.ErrNotFound):
				metrics.RecordVerdict(string(itemType), "not_found")
				api.Error(c, http.StatusNotFound, api.CodeNotFound, notFoundMessage(itemType))
			case errors.Is(err, entitlement.ErrInvalidReference):
				metrics.RecordVerdict(string(itemType), "invalid_reference")
				logger.Warn("paid item without a reachable exam plan", "type", itemType, "id", itemID, "error", err)
				api.Error(c, http.StatusNotFound, api.CodeNotFound, notFoundMessage(itemType))
			default:
				metrics.RecordVerdict(string(itemType), "error")
				logger.Error("entitlement check failed", "type", itemType, "id", itemID, "user_id", userID, "error", err)
				api.Error(c, http.StatusInternalServerError, api.CodeInternal, "internal server error")
			}
			return
		}

		if !verdict.Allowed {
			deny(c, itemType, itemID, userID, verdict)
			return
		}

		metrics.RecordVerdict(string(itemType), "allow_"+outcome(verdict.Reason))
		catalog.SetItem(c, verdict.Item)
		if verdict.Purchase != nil {
			purchase.SetRecord(c, verdict.Purchase)
		}
		c.Next()
	}
}

func deny(c *gin.Context, itemType catalog.ItemType, itemID, userID int, v *entitlement.Verdict) {
	metrics.RecordVerdict(string(itemType), "deny_"+outcome(v.Reason))
	logger.Debug("access denied", "type", itemType, "id", itemID, "user_id", userID, "reason", v.Reason)

	if v.Reason != entitlement.ReasonRequiresPurchase || v.Upsell == nil {
		api.Error(c, http.StatusBadRequest, api.CodeUnavailable, "This content is currently unavailable")
		return
	}

	api.Deny(c, http.StatusForbidden, api.DenyResponse{
		ErrorResponse: api.ErrorResponse{
			Error: "Purchase the exam plan to access this content",
			Code:  api.CodeRequiresPurchase,
		},
		RequiresPurchase: true,
		ItemID:           v.Upsell.ItemID,
		Title:            v.Upsell.Title,
		Price:            v.Upsell.Price,
		MRP:              v.Upsell.MRP,
		ValidityDays:     v.Upsell.ValidityDays,
	})
}

func outcome(r entitlement.Reason) string {
	switch r {
	case entitlement.ReasonFree:
		return "free"
	case entitlement.ReasonPurchased:
		return "purchased"
	case entitlement.ReasonUnavailable:
		return "unavailable"
	case entitlement.ReasonRequiresPurchase:
		return "requires_purchase"
	default:
		return "unknown"
	}
}

func notFoundMessage(t catalog.ItemType) string {
	switch t {
	case catalog.ItemExamPlan:
		return "Exam plan not found"
	case catalog.ItemNote:
		return "Note not found"
	case catalog.ItemTestSeries:
		return "Test series not found"
	default:
		return "Item not found"
	}
}
