// domus-crm/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"domus-crm/config"
	"domus-crm/internal/admission"
	"domus-crm/internal/funding"
	"domus-crm/internal/ledger"
	"domus-crm/internal/notify"
	"domus-crm/internal/wallet"
	"domus-crm/models"
)

var (
	engineOnce sync.Once
	engine     *admission.Engine
)

// paymentEngine лениво собирает движок зачисления поверх глобальных подключений.
func paymentEngine() *admission.Engine {
	engineOnce.Do(func() {
		engine = admission.NewEngine(config.DB, wallet.NewService(), notify.NewService(config.DB))
	})
	return engine
}

// PropertyPaymentInput - входные данные платежа за объект.
type PropertyPaymentInput struct {
	Method string `json:"method" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// AdmitPropertyPaymentHandler зачисляет платеж пайщика за объект.
func AdmitPropertyPaymentHandler(c *gin.Context) {
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

	var input PropertyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная сумма платежа"})
		return
	}

	result, err := paymentEngine().Admit(c.Request.Context(), tc, propertyID, mID,
		models.PaymentMethod(input.Method), amount)
	if err != nil {
		renderAdmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListPropertyPaymentsHandler возвращает записи леджера по объекту с пагинацией.
func ListPropertyPaymentsHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	propertyID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	base := config.DB.Model(&models.PropertyPaymentTransaction{}).
		Where("cooperative_id = ? AND property_id = ?", tc.CooperativeID, propertyID)

	var totalRows int64
	base.Count(&totalRows)

	var entries []models.PropertyPaymentTransaction
	if err := base.Scopes(Paginate(c)).Order("created_at DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, entries, totalRows))
}

// ConfirmPaymentHandler - ручное подтверждение платежа оператором
// (pending|scheduled -> completed).
func ConfirmPaymentHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	entry, err := ledger.MarkCompleted(config.DB, tc, entryID, time.Now())
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidTransition) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Платеж уже в терминальном статусе"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Платеж не найден"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// FailPaymentHandler помечает платеж неуспешным (pending|scheduled -> failed).
func FailPaymentHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	entry, err := ledger.MarkFailed(config.DB, tc, entryID)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidTransition) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Платеж уже в терминальном статусе"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Платеж не найден"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// FundingTargetResponse - цель финансирования в ответе API.
type FundingTargetResponse struct {
	AllowedMethods []models.PaymentMethod `json:"allowedMethods"`
	AmountByMethod map[string]string      `json:"amountByMethod,omitempty"`
	TotalTarget    string                 `json:"totalTarget"`
	CreditedTotal  string                 `json:"creditedTotal"`
	Remaining      string                 `json:"remaining"`
	FundingOption  models.FundingOption   `json:"fundingOption"`
}

// GetFundingTargetHandler показывает цель финансирования и текущий остаток.
func GetFundingTargetHandler(c *gin.Context) {
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

	target, err := funding.ResolveTarget(config.DB, tc, propertyID, mID)
	if err != nil {
		if errors.Is(err, funding.ErrNoFundingTarget) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Цель финансирования не определена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	credited, err := ledger.CreditedTotal(config.DB, tc, propertyID, mID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resp := FundingTargetResponse{
		AllowedMethods: target.AllowedMethods,
		TotalTarget:    target.TotalTarget.StringFixed(2),
		CreditedTotal:  credited.StringFixed(2),
		Remaining:      target.TotalTarget.Sub(credited).StringFixed(2),
		FundingOption:  target.Option,
	}
	if target.Mix() {
		resp.AmountByMethod = make(map[string]string, len(target.AmountByMethod))
		for m, amt := range target.AmountByMethod {
			resp.AmountByMethod[string(m)] = amt.StringFixed(2)
		}
	}

	c.JSON(http.StatusOK, resp)
}
