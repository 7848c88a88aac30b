// domus-crm/internal/handlers/instrument_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"domus-crm/config"
	"domus-crm/internal/amortization"
	"domus-crm/models"
)

// InstrumentInput - параметры нового амортизируемого инструмента.
type InstrumentInput struct {
	PropertyID       uint   `json:"propertyId" binding:"required"`
	MemberID         uint   `json:"memberId" binding:"required"`
	Principal        string `json:"principal" binding:"required"`
	InterestRatePct  string `json:"interestRatePct" binding:"required"`
	TenurePeriods    int    `json:"tenurePeriods" binding:"required"`
	PaymentFrequency string `json:"paymentFrequency"` // только для внутренней ипотеки
	StartDate        string `json:"startDate"`        // YYYY-MM-DD, по умолчанию сегодня
	Lender           string `json:"lender"`           // только для банковской ипотеки
}

func (in *InstrumentInput) parse(c *gin.Context) (principal, rate decimal.Decimal, start time.Time, ok bool) {
	var err error
	principal, err = decimal.NewFromString(in.Principal)
	if err != nil || principal.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная сумма основного долга"})
		return principal, rate, start, false
	}
	rate, err = decimal.NewFromString(in.InterestRatePct)
	if err != nil || rate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная процентная ставка"})
		return principal, rate, start, false
	}
	if in.TenurePeriods <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Срок должен быть положительным"})
		return principal, rate, start, false
	}
	start = time.Now()
	if in.StartDate != "" {
		start, err = time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Ожидается YYYY-MM-DD."})
			return principal, rate, start, false
		}
	}
	return principal, rate, start, true
}

// CreateLoanHandler выдает заем. Аннуитетный платеж считается сразу,
// периодичность - строго ежемесячная.
func CreateLoanHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	var input InstrumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	principal, rate, start, ok := input.parse(c)
	if !ok {
		return
	}

	loan := models.Loan{
		CooperativeID:   tc.CooperativeID,
		PropertyID:      input.PropertyID,
		MemberID:        input.MemberID,
		Principal:       principal,
		InterestRatePct: rate,
		TenurePeriods:   input.TenurePeriods,
		PeriodicPayment: amortization.PeriodicPayment(principal, rate, input.TenurePeriods, amortization.Monthly),
		StartDate:       start,
		Status:          models.InstrumentApproved,
	}
	if err := config.DB.Create(&loan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create loan"})
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// CreateMortgageHandler регистрирует банковскую ипотеку.
func CreateMortgageHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	var input InstrumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	principal, rate, start, ok := input.parse(c)
	if !ok {
		return
	}

	m := models.Mortgage{
		CooperativeID:   tc.CooperativeID,
		PropertyID:      input.PropertyID,
		MemberID:        input.MemberID,
		Lender:          input.Lender,
		Principal:       principal,
		InterestRatePct: rate,
		TenurePeriods:   input.TenurePeriods,
		PeriodicPayment: amortization.PeriodicPayment(principal, rate, input.TenurePeriods, amortization.Monthly),
		StartDate:       start,
		Status:          models.InstrumentApproved,
	}
	if err := config.DB.Create(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create mortgage"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// CreateInternalMortgageHandler регистрирует кооперативную ипотеку с выбранной
// периодичностью платежей.
func CreateInternalMortgageHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	var input InstrumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	principal, rate, start, ok := input.parse(c)
	if !ok {
		return
	}

	freq := amortization.Frequency(input.PaymentFrequency)
	if input.PaymentFrequency == "" {
		freq = amortization.Monthly
	}
	if !freq.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестная периодичность платежей"})
		return
	}

	p := models.InternalMortgagePlan{
		CooperativeID:    tc.CooperativeID,
		PropertyID:       input.PropertyID,
		MemberID:         input.MemberID,
		Principal:        principal,
		InterestRatePct:  rate,
		TenurePeriods:    input.TenurePeriods,
		PaymentFrequency: freq,
		PeriodicPayment:  amortization.PeriodicPayment(principal, rate, input.TenurePeriods, freq),
		StartDate:        start,
		Status:           models.InstrumentApproved,
	}
	if err := config.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create internal mortgage plan"})
		return
	}
	c.JSON(http.StatusCreated, p)
}
