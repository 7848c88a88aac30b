// domus-crm/models/internal_mortgage.go
package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"domus-crm/internal/amortization"
)

// InternalMortgagePlan - кооперативная (внутренняя) ипотека. В отличие от займа
// и банковской ипотеки допускает квартальную, полугодовую и годовую периодичность.
type InternalMortgagePlan struct {
	gorm.Model
	CooperativeID uint `json:"cooperativeId" gorm:"not null;index"`
	PropertyID    uint `json:"propertyId" gorm:"not null;index"`
	MemberID      uint `json:"memberId" gorm:"not null;index"`

	Principal        decimal.Decimal        `json:"principal" gorm:"type:numeric(14,2);not null"`
	InterestRatePct  decimal.Decimal        `json:"interestRatePct" gorm:"type:numeric(6,2);not null"`
	TenurePeriods    int                    `json:"tenurePeriods" gorm:"not null"`
	PaymentFrequency amortization.Frequency `json:"paymentFrequency" gorm:"not null;default:'monthly'"`
	PeriodicPayment  decimal.Decimal        `json:"periodicPayment" gorm:"type:numeric(14,2)"`
	StartDate        time.Time              `json:"startDate"`

	Status             string     `json:"status" gorm:"default:'pending'"`
	ScheduleApproved   bool       `json:"scheduleApproved" gorm:"default:false"`
	ScheduleApprovedAt *time.Time `json:"scheduleApprovedAt,omitempty"`
}

func (InternalMortgagePlan) TableName() string { return "internal_mortgage_plans" }

func (p *InternalMortgagePlan) BeforeCreate(tx *gorm.DB) error {
	if !p.PaymentFrequency.Valid() {
		return errors.New("неизвестная периодичность платежей: " + string(p.PaymentFrequency))
	}
	return nil
}

func (p *InternalMortgagePlan) ScheduleTerms() amortization.Terms {
	return amortization.Terms{
		Principal:       p.Principal,
		AnnualRatePct:   p.InterestRatePct,
		TenurePeriods:   p.TenurePeriods,
		Frequency:       p.PaymentFrequency,
		PeriodicPayment: p.PeriodicPayment,
		StartDate:       p.StartDate,
	}
}

func (p *InternalMortgagePlan) ScheduleState() (string, bool) { return p.Status, p.ScheduleApproved }

func (p *InternalMortgagePlan) MarkScheduleApproved(at time.Time) {
	p.ScheduleApproved = true
	p.ScheduleApprovedAt = &at
}
