// domus-crm/models/repayment.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Типы инструментов, к которым привязываются записи о погашении.
const (
	InstrumentLoan             = "loan"
	InstrumentMortgage         = "mortgage"
	InstrumentInternalMortgage = "internal_mortgage"
)

// Статусы записей о погашении.
const (
	RepaymentPending = "pending"
	RepaymentPaid    = "paid"
	RepaymentOverdue = "overdue"
)

// RepaymentRecord - фактически зафиксированное погашение по инструменту.
// Полный график не хранится: движок амортизации строит его на лету и
// сверяет с этими записями.
type RepaymentRecord struct {
	gorm.Model
	CooperativeID  uint   `json:"cooperativeId" gorm:"not null;index"`
	InstrumentType string `json:"instrumentType" gorm:"not null;index:idx_repayment_instrument"`
	InstrumentID   uint   `json:"instrumentId" gorm:"not null;index:idx_repayment_instrument"`

	DueDate       time.Time       `json:"dueDate" gorm:"not null"`
	PrincipalPaid decimal.Decimal `json:"principalPaid" gorm:"type:numeric(14,2);not null"`
	InterestPaid  decimal.Decimal `json:"interestPaid" gorm:"type:numeric(14,2)"`
	Status        string          `json:"status" gorm:"default:'pending'"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}
