package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/opencommune/fiscalis/internal/audit/domain"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal error"}

	case errors.Is(err, noticedomain.ErrTaxpayerNotFound),
		errors.Is(err, taxpayerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, noticedomain.ErrTaxpayerPending):
		return http.StatusConflict, errorPayload{Type: "invalid_state", Message: err.Error()}

	case errors.Is(err, noticedomain.ErrConfigMissing):
		return http.StatusUnprocessableEntity, errorPayload{Type: "config_missing", Message: err.Error()}

	case errors.Is(err, noticedomain.ErrInvalidFilter):
		return http.StatusBadRequest, errorPayload{Type: "invalid_filter", Message: err.Error()}

	case errors.Is(err, noticedomain.ErrInvalidYear),
		errors.Is(err, taxpayerdomain.ErrInvalidName),
		errors.Is(err, taxpayerdomain.ErrInvalidStatus),
		errors.Is(err, taxpayerdomain.ErrInvalidCommune),
		errors.Is(err, taxpayerdomain.ErrInvalidMeasure),
		errors.Is(err, referencedomain.ErrInvalidLabel),
		errors.Is(err, referencedomain.ErrInvalidCode),
		errors.Is(err, referencedomain.ErrInvalidRate),
		errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}

	case errors.Is(err, referencedomain.ErrDuplicate):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal error"}
	}
}
