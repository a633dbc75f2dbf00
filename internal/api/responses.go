package api

import (
	"github.com/gin-gonic/gin"
)

// Code is the machine-readable reason carried by every error payload.
type Code string

const (
	CodeInvalidRequest   Code = "INVALID_REQUEST"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodePaymentRequired  Code = "PAYMENT_REQUIRED"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeRequiresPurchase Code = "REQUIRES_PURCHASE"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeInternal         Code = "INTERNAL"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  Code   `json:"code" example:"INTERNAL"`
}

// DenyResponse is returned when a paid item is requested without an active purchase.
type DenyResponse struct {
	ErrorResponse
	RequiresPurchase bool   `json:"requiresPurchase"`
	ItemID           int    `json:"itemId"`
	Title            string `json:"title"`
	Price            int64  `json:"price"`
	MRP              int64  `json:"mrp"`
	ValidityDays     int    `json:"validityDays"`
}

type ValidationErrorResponse struct {
	ErrorResponse
	Details any `json:"details"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error writes the uniform error payload and aborts the chain.
func Error(c *gin.Context, status int, code Code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

func Deny(c *gin.Context, status int, resp DenyResponse) {
	c.AbortWithStatusJSON(status, resp)
}
