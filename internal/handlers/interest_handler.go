// domus-crm/internal/handlers/interest_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"domus-crm/config"
	"domus-crm/models"
)

// InterestInput - заявка пайщика на объект со снимком предпочтений по финансированию.
type InterestInput struct {
	FundingOption           string                      `json:"fundingOption" binding:"required"`
	PreferredPaymentMethods []models.PaymentMethod      `json:"preferredPaymentMethods"`
	MortgagePreferences     *models.MortgagePreferences `json:"mortgagePreferences"`
}

// CreateInterestHandler регистрирует заявку пайщика на объект.
func CreateInterestHandler(c *gin.Context) {
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

	var input InterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var property models.Property
	if err := config.DB.Where("cooperative_id = ?", tc.CooperativeID).
		First(&property, propertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Объект не найден"})
		return
	}

	interest := models.PropertyInterest{
		CooperativeID:           tc.CooperativeID,
		PropertyID:              propertyID,
		MemberID:                mID,
		FundingOption:           models.FundingOption(input.FundingOption),
		PreferredPaymentMethods: input.PreferredPaymentMethods,
		MortgagePreferences:     input.MortgagePreferences,
		Status:                  models.InterestPending,
	}
	if err := config.DB.Create(&interest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create interest"})
		return
	}

	c.JSON(http.StatusCreated, interest)
}

// ApproveInterestHandler одобряет заявку; только одобренная заявка может
// служить целью финансирования.
func ApproveInterestHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	interestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var interest models.PropertyInterest
	if err := config.DB.Where("cooperative_id = ?", tc.CooperativeID).
		First(&interest, interestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Заявка не найдена"})
		return
	}
	if interest.Status == models.InterestWithdrawn {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Отозванную заявку нельзя одобрить"})
		return
	}

	if err := config.DB.Model(&interest).Update("status", models.InterestApproved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update interest"})
		return
	}
	c.JSON(http.StatusOK, interest)
}

// WithdrawInterestHandler отзывает заявку. Отзыв терминален.
func WithdrawInterestHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	mID, ok := memberID(c)
	if !ok {
		return
	}
	interestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var interest models.PropertyInterest
	if err := config.DB.Where("cooperative_id = ? AND member_id = ?", tc.CooperativeID, mID).
		First(&interest, interestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Заявка не найдена"})
		return
	}
	if interest.Status == models.InterestWithdrawn {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Заявка уже отозвана"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"status": models.InterestWithdrawn, "withdrawn_at": &now}
	if err := config.DB.Model(&interest).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw interest"})
		return
	}
	c.JSON(http.StatusOK, interest)
}
