// domus-crm/internal/handlers/valuation_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domus-crm/config"
	"domus-crm/internal/valuation"
	"domus-crm/models"
)

// GetPropertyValuationHandler отдает текущую и прогнозную оценку объекта.
func GetPropertyValuationHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	propertyID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var property models.Property
	if err := config.DB.Where("cooperative_id = ?", tc.CooperativeID).
		First(&property, propertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Объект не найден"})
		return
	}

	current := valuation.CurrentValue(property)
	predictive := valuation.PredictiveValue(property, current)

	c.JSON(http.StatusOK, gin.H{
		"propertyId":      property.ID,
		"type":            property.Type,
		"price":           property.Price.StringFixed(2),
		"currentValue":    current.StringFixed(2),
		"predictiveValue": predictive.StringFixed(2),
	})
}
