// domus-crm/models/ledger_entry.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Направления и статусы записей леджера. Сумма записи неизменна;
// статус переходит только вперед: pending|scheduled -> completed|failed.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"

	TxPending   = "pending"
	TxScheduled = "scheduled"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// TxMetadata - произвольные атрибуты платежа (источник, комментарий оператора).
type TxMetadata map[string]interface{}

func (m TxMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *TxMetadata) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// PropertyPaymentTransaction - одна запись append-only леджера платежей по
// объекту. Источник истины для вопроса "сколько уже оплачено".
type PropertyPaymentTransaction struct {
	gorm.Model
	CooperativeID uint  `json:"cooperativeId" gorm:"not null;index"`
	PropertyID    uint  `json:"propertyId" gorm:"not null;index:idx_tx_property_member"`
	MemberID      uint  `json:"memberId" gorm:"not null;index:idx_tx_property_member"`
	PlanID        *uint `json:"planId,omitempty" gorm:"index"`

	Method    PaymentMethod   `json:"method" gorm:"not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Direction string          `json:"direction" gorm:"not null;default:'credit'"`
	Status    string          `json:"status" gorm:"not null;default:'pending'"`
	Reference string          `json:"reference" gorm:"uniqueIndex;not null"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	Metadata  TxMetadata      `json:"metadata,omitempty" gorm:"type:jsonb"`
}

func (PropertyPaymentTransaction) TableName() string { return "property_payment_transactions" }
