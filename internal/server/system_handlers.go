package server

import (
	"context"
	"net/http"

	"examprep/internal/api"
	"examprep/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Mailer interface {
	SendTest(ctx context.Context, to string) error
	QueueLength(ctx context.Context) (int64, error)
}

type QueueResponse struct {
	Pending int64 `json:"pending" example:"3"`
}

var emailCheck = validator.New()

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Queue a test email
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email query string true "Recipient email"
// @Success      202 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/notify/test [post]
func TestEmail(mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if err := emailCheck.Var(to, "required,email"); err != nil {
			api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "a valid email query parameter is required")
			return
		}

		if err := mailer.SendTest(c.Request.Context(), to); err != nil {
			logger.Error("queue test email", "error", err)
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to queue email")
			return
		}

		c.JSON(http.StatusAccepted, api.MessageResponse{Message: "Email queued successfully"})
	}
}

// @Summary      Pending notification emails
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} server.QueueResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/notify/queue [get]
func EmailQueue(mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := mailer.QueueLength(c.Request.Context())
		if err != nil {
			logger.Error("read email queue length", "error", err)
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to read queue")
			return
		}
		c.JSON(http.StatusOK, QueueResponse{Pending: n})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
