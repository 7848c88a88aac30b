// domus-crm/models/loan.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"domus-crm/internal/amortization"
)

// Статусы амортизируемых инструментов (займ, ипотека, внутренняя ипотека).
const (
	InstrumentPending   = "pending"
	InstrumentApproved  = "approved"
	InstrumentActive    = "active"
	InstrumentCompleted = "completed"
)

// Loan - заем пайщику на оплату объекта. Погашается строго ежемесячно.
type Loan struct {
	gorm.Model
	CooperativeID uint `json:"cooperativeId" gorm:"not null;index"`
	PropertyID    uint `json:"propertyId" gorm:"not null;index"`
	MemberID      uint `json:"memberId" gorm:"not null;index"`

	Principal       decimal.Decimal `json:"principal" gorm:"type:numeric(14,2);not null"`
	InterestRatePct decimal.Decimal `json:"interestRatePct" gorm:"type:numeric(6,2);not null"`
	TenurePeriods   int             `json:"tenurePeriods" gorm:"not null"`
	PeriodicPayment decimal.Decimal `json:"periodicPayment" gorm:"type:numeric(14,2)"`
	StartDate       time.Time       `json:"startDate"`

	Status             string     `json:"status" gorm:"default:'pending'"`
	ScheduleApproved   bool       `json:"scheduleApproved" gorm:"default:false"`
	ScheduleApprovedAt *time.Time `json:"scheduleApprovedAt,omitempty"`
}

// ScheduleTerms отдает параметры графика для движка амортизации.
func (l *Loan) ScheduleTerms() amortization.Terms {
	return amortization.Terms{
		Principal:       l.Principal,
		AnnualRatePct:   l.InterestRatePct,
		TenurePeriods:   l.TenurePeriods,
		Frequency:       amortization.Monthly,
		PeriodicPayment: l.PeriodicPayment,
		StartDate:       l.StartDate,
	}
}

func (l *Loan) ScheduleState() (string, bool) { return l.Status, l.ScheduleApproved }

func (l *Loan) MarkScheduleApproved(at time.Time) {
	l.ScheduleApproved = true
	l.ScheduleApprovedAt = &at
}
