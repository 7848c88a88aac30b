// domus-crm/internal/handlers/plan_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"domus-crm/config"
	"domus-crm/models"
)

// PaymentPlanInput - данные для настройки плана платежей админом.
type PaymentPlanInput struct {
	MemberID          uint                   `json:"memberId" binding:"required"`
	FundingOption     string                 `json:"fundingOption" binding:"required"`
	SelectedMethods   []models.PaymentMethod `json:"selectedMethods"`
	MixAllocations    map[string]string      `json:"mixAllocations"`
	TotalAmountTarget string                 `json:"totalAmountTarget"`
}

// CreatePaymentPlanHandler создает план платежей для пары (объект, пайщик).
// Валидация смешанного распределения происходит при создании, не при оплате.
func CreatePaymentPlanHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	propertyID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input PaymentPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// По плану уже могли пройти платежи - тогда он меняется только
	// административной корректировкой, а не повторным созданием.
	var existing models.PaymentPlan
	err := config.DB.Where("cooperative_id = ? AND property_id = ? AND member_id = ?",
		tc.CooperativeID, propertyID, input.MemberID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "План платежей уже существует"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := decimal.Zero
	if input.TotalAmountTarget != "" {
		total, err = decimal.NewFromString(input.TotalAmountTarget)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная целевая сумма"})
			return
		}
	}
	if total.LessThanOrEqual(decimal.Zero) {
		// Без явной суммы целью служит цена объекта.
		var property models.Property
		if err := config.DB.Where("cooperative_id = ?", tc.CooperativeID).
			First(&property, propertyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Объект не найден"})
			return
		}
		total = property.Price
	}

	plan := models.PaymentPlan{
		CooperativeID:     tc.CooperativeID,
		PropertyID:        propertyID,
		MemberID:          input.MemberID,
		FundingOption:     models.FundingOption(input.FundingOption),
		SelectedMethods:   input.SelectedMethods,
		TotalAmountTarget: total,
		RemainingBalance:  total,
	}

	if len(input.MixAllocations) > 0 {
		plan.MixAllocations = make(models.MixAllocations, len(input.MixAllocations))
		for m, pct := range input.MixAllocations {
			p, err := decimal.NewFromString(pct)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный процент для способа " + m})
				return
			}
			plan.MixAllocations[models.PaymentMethod(m)] = p
		}
	}

	if err := config.DB.Create(&plan).Error; err != nil {
		// BeforeCreate отклоняет несогласованный план.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPaymentPlanHandler возвращает план платежей пайщика по объекту.
func GetPaymentPlanHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	mID, ok := memberID(c)
	if !ok {
		return
	}
	propertyID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var plan models.PaymentPlan
	if err := config.DB.Where("cooperative_id = ? AND property_id = ? AND member_id = ?",
		tc.CooperativeID, propertyID, mID).First(&plan).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "План платежей не найден"})
		return
	}

	c.JSON(http.StatusOK, plan)
}
