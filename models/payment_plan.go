// domus-crm/models/payment_plan.go
package models

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentPlan - настроенная админом цель финансирования объекта для пайщика:
// сколько причитается, какими способами и в каких долях. После появления
// платежей по плану меняется только административной корректировкой.
type PaymentPlan struct {
	gorm.Model
	CooperativeID uint `json:"cooperativeId" gorm:"not null;index"`
	PropertyID    uint `json:"propertyId" gorm:"not null;index:idx_plan_property_member"`
	MemberID      uint `json:"memberId" gorm:"not null;index:idx_plan_property_member"`

	FundingOption   FundingOption `json:"fundingOption" gorm:"not null"`
	SelectedMethods MethodList    `json:"selectedMethods" gorm:"type:jsonb"`
	// MixAllocations заполняется только при FundingOption == mix.
	MixAllocations MixAllocations `json:"mixAllocations" gorm:"type:jsonb"`

	TotalAmountTarget decimal.Decimal `json:"totalAmountTarget" gorm:"type:numeric(14,2);not null"`

	// RemainingBalance - справочный кэш. Источником истины остается леджер.
	RemainingBalance decimal.Decimal `json:"remainingBalance" gorm:"type:numeric(14,2)"`
}

func (PaymentPlan) TableName() string { return "payment_plans" }

// BeforeCreate проверяет согласованность плана до записи в БД:
// смешанный план обязан иметь валидное распределение процентов,
// обычный план - известный вариант финансирования.
func (p *PaymentPlan) BeforeCreate(tx *gorm.DB) error {
	if p.TotalAmountTarget.LessThanOrEqual(decimal.Zero) {
		return errors.New("целевая сумма плана должна быть положительной")
	}
	if p.FundingOption == OptionMix {
		return p.MixAllocations.Validate()
	}
	if len(p.MixAllocations) > 0 {
		return errors.New("проценты распределения допустимы только для смешанного финансирования")
	}
	switch p.FundingOption {
	case OptionCash, OptionEquityWallet, OptionMortgage, OptionLoan, OptionCooperative:
		return nil
	}
	return errors.New("неизвестный вариант финансирования: " + string(p.FundingOption))
}
