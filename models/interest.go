// domus-crm/models/interest.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Статусы заявки на объект. Отзыв заявки - терминальное состояние.
const (
	InterestPending   = "pending"
	InterestApproved  = "approved"
	InterestWithdrawn = "withdrawn"
)

// MortgagePreferences - пожелания пайщика по ипотеке, снимок на момент подачи заявки.
type MortgagePreferences struct {
	Lender          string          `json:"lender,omitempty"`
	DownPayment     decimal.Decimal `json:"downPayment"`
	PreferredTenure int             `json:"preferredTenure,omitempty"`
}

func (p MortgagePreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *MortgagePreferences) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// PropertyInterest - выражение интереса пайщика к объекту. Содержит снимок
// предпочтений по финансированию и служит запасной целью, когда админ еще
// не настроил план платежей.
type PropertyInterest struct {
	gorm.Model
	CooperativeID uint `json:"cooperativeId" gorm:"not null;index"`
	PropertyID    uint `json:"propertyId" gorm:"not null;index"`
	MemberID      uint `json:"memberId" gorm:"not null;index"`

	FundingOption           FundingOption        `json:"fundingOption" gorm:"not null"`
	PreferredPaymentMethods MethodList           `json:"preferredPaymentMethods" gorm:"type:jsonb"`
	MortgagePreferences     *MortgagePreferences `json:"mortgagePreferences,omitempty" gorm:"type:jsonb"`

	Status      string     `json:"status" gorm:"default:'pending'"`
	WithdrawnAt *time.Time `json:"withdrawnAt,omitempty"`
}

func (PropertyInterest) TableName() string { return "property_interests" }
