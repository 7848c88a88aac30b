// domus-crm/models/wallet.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EquityWallet - паевой кошелек пайщика. Баланс меняется только под блокировкой
// строки, чтобы платежи за разные объекты не гонялись за одним остатком.
type EquityWallet struct {
	gorm.Model
	CooperativeID uint            `json:"cooperativeId" gorm:"not null;index"`
	MemberID      uint            `json:"memberId" gorm:"not null;uniqueIndex"`
	Balance       decimal.Decimal `json:"balance" gorm:"type:numeric(14,2);not null;default:0"`
}

// EquityWalletTransaction - запись движения по кошельку для сверки.
type EquityWalletTransaction struct {
	gorm.Model
	CooperativeID uint            `json:"cooperativeId" gorm:"not null;index"`
	WalletID      uint            `json:"walletId" gorm:"not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Direction     string          `json:"direction" gorm:"not null"` // credit | debit
	Reference     string          `json:"reference"`
	Reason        string          `json:"reason"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
