// domus-crm/internal/handlers/handler_utils.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"domus-crm/internal/admission"
	"domus-crm/internal/tenant"
)

// mustTenant достает явный контекст арендатора, положенный auth-middleware.
func mustTenant(c *gin.Context) (tenant.Context, bool) {
	v, ok := c.Get("tenant")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Tenant context not resolved"})
		return tenant.Context{}, false
	}
	return v.(tenant.Context), true
}

// memberID достает ID аутентифицированного пайщика.
func memberID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("member_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return 0, false
	}
	return v.(uint), true
}

// uintParam парсит числовой параметр пути.
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный параметр " + name})
		return 0, false
	}
	return uint(id), true
}

// renderAdmissionError переводит типизированную ошибку зачисления в HTTP-ответ.
// Ошибки валидации несут остаток к оплате, чтобы клиент скорректировал сумму
// без второго запроса.
func renderAdmissionError(c *gin.Context, err error) {
	var e *admission.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	payload := gin.H{
		"error":     e.Error(),
		"kind":      string(e.Kind),
		"remaining": e.Remaining.StringFixed(2),
	}

	switch e.Kind {
	case admission.KindNotFound:
		c.JSON(http.StatusNotFound, payload)
	case admission.KindMethodNotAllowed, admission.KindAlreadyFulfilled,
		admission.KindExceedsRemaining, admission.KindInsufficientBalance:
		c.JSON(http.StatusUnprocessableEntity, payload)
	case admission.KindConcurrencyConflict:
		c.JSON(http.StatusConflict, payload)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
