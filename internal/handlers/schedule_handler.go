// domus-crm/internal/handlers/schedule_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"domus-crm/config"
	"domus-crm/internal/amortization"
	"domus-crm/internal/tenant"
	"domus-crm/models"
)

// amortizable - то, что умеют все три инструмента: отдать параметры графика
// и пройти утверждение.
type amortizable interface {
	amortization.Approvable
	ScheduleTerms() amortization.Terms
}

// loadInstrument загружает инструмент нужного типа в пределах кооператива.
func loadInstrument(tc tenant.Context, kind string, id uint) (amortizable, error) {
	q := config.DB.Where("cooperative_id = ?", tc.CooperativeID)
	switch kind {
	case models.InstrumentLoan:
		var loan models.Loan
		if err := q.First(&loan, id).Error; err != nil {
			return nil, err
		}
		return &loan, nil
	case models.InstrumentMortgage:
		var m models.Mortgage
		if err := q.First(&m, id).Error; err != nil {
			return nil, err
		}
		return &m, nil
	case models.InstrumentInternalMortgage:
		var p models.InternalMortgagePlan
		if err := q.First(&p, id).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, errors.New("unknown instrument kind: " + kind)
}

// loadRepayments достает оплаченные погашения инструмента для сверки графика.
func loadRepayments(tc tenant.Context, kind string, id uint) ([]amortization.Repayment, error) {
	var records []models.RepaymentRecord
	err := config.DB.Where("cooperative_id = ? AND instrument_type = ? AND instrument_id = ?",
		tc.CooperativeID, kind, id).
		Order("due_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	repayments := make([]amortization.Repayment, 0, len(records))
	for _, r := range records {
		repayments = append(repayments, amortization.Repayment{
			DueDate:       r.DueDate,
			PrincipalPaid: r.PrincipalPaid,
			Paid:          r.Status == models.RepaymentPaid,
		})
	}
	return repayments, nil
}

// GetScheduleHandler строит график инструмента, сверенный с фактическими
// погашениями. График пересчитывается при каждом запросе.
func GetScheduleHandler(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := mustTenant(c)
		if !ok {
			return
		}
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}

		inst, err := loadInstrument(tc, kind, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Инструмент не найден"})
			return
		}

		repayments, err := loadRepayments(tc, kind, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		schedule, err := amortization.GenerateSchedule(inst.ScheduleTerms(), repayments, time.Now())
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"schedule": schedule, "periods": len(schedule)})
	}
}

// ApproveScheduleHandler - одноразовое утверждение графика инструмента.
func ApproveScheduleHandler(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := mustTenant(c)
		if !ok {
			return
		}
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}

		inst, err := loadInstrument(tc, kind, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Инструмент не найден"})
			return
		}

		if err := amortization.ApproveSchedule(inst, time.Now()); err != nil {
			switch {
			case errors.Is(err, amortization.ErrAlreadyApproved):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "График уже утвержден"})
			case errors.Is(err, amortization.ErrInvalidState):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Статус инструмента не допускает утверждение графика"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			}
			return
		}

		if err := config.DB.Save(inst).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save instrument"})
			return
		}
		c.JSON(http.StatusOK, inst)
	}
}

// RepaymentInput - фиксация фактического погашения по инструменту.
type RepaymentInput struct {
	DueDate       string `json:"dueDate" binding:"required"` // YYYY-MM-DD
	PrincipalPaid string `json:"principalPaid" binding:"required"`
	InterestPaid  string `json:"interestPaid"`
}

// RecordRepaymentHandler записывает фактическое погашение; следующий запрос
// графика учтет его при сверке.
func RecordRepaymentHandler(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := mustTenant(c)
		if !ok {
			return
		}
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}

		if _, err := loadInstrument(tc, kind, id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Инструмент не найден"})
			return
		}

		var input RepaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		dueDate, err := time.Parse("2006-01-02", input.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Ожидается YYYY-MM-DD."})
			return
		}
		principal, err := decimal.NewFromString(input.PrincipalPaid)
		if err != nil || principal.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная сумма основного долга"})
			return
		}
		interest := decimal.Zero
		if input.InterestPaid != "" {
			interest, err = decimal.NewFromString(input.InterestPaid)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная сумма процентов"})
				return
			}
		}

		now := time.Now()
		record := models.RepaymentRecord{
			CooperativeID:  tc.CooperativeID,
			InstrumentType: kind,
			InstrumentID:   id,
			DueDate:        dueDate,
			PrincipalPaid:  principal,
			InterestPaid:   interest,
			Status:         models.RepaymentPaid,
			PaidAt:         &now,
		}
		if err := config.DB.Create(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record repayment"})
			return
		}

		c.JSON(http.StatusCreated, record)
	}
}
