// domus-crm/models/mortgage.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"domus-crm/internal/amortization"
)

// Mortgage - внешняя банковская ипотека. Как и заем, погашается ежемесячно;
// кооператив лишь сверяет график с фактическими платежами банка.
type Mortgage struct {
	gorm.Model
	CooperativeID uint `json:"cooperativeId" gorm:"not null;index"`
	PropertyID    uint `json:"propertyId" gorm:"not null;index"`
	MemberID      uint `json:"memberId" gorm:"not null;index"`

	Lender          string          `json:"lender"`
	Principal       decimal.Decimal `json:"principal" gorm:"type:numeric(14,2);not null"`
	InterestRatePct decimal.Decimal `json:"interestRatePct" gorm:"type:numeric(6,2);not null"`
	TenurePeriods   int             `json:"tenurePeriods" gorm:"not null"`
	PeriodicPayment decimal.Decimal `json:"periodicPayment" gorm:"type:numeric(14,2)"`
	StartDate       time.Time       `json:"startDate"`

	Status             string     `json:"status" gorm:"default:'pending'"`
	ScheduleApproved   bool       `json:"scheduleApproved" gorm:"default:false"`
	ScheduleApprovedAt *time.Time `json:"scheduleApprovedAt,omitempty"`
}

func (m *Mortgage) ScheduleTerms() amortization.Terms {
	return amortization.Terms{
		Principal:       m.Principal,
		AnnualRatePct:   m.InterestRatePct,
		TenurePeriods:   m.TenurePeriods,
		Frequency:       amortization.Monthly,
		PeriodicPayment: m.PeriodicPayment,
		StartDate:       m.StartDate,
	}
}

func (m *Mortgage) ScheduleState() (string, bool) { return m.Status, m.ScheduleApproved }

func (m *Mortgage) MarkScheduleApproved(at time.Time) {
	m.ScheduleApproved = true
	m.ScheduleApprovedAt = &at
}
