// domus-crm/models/payment_method.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentMethod - способ оплаты, которым пайщик гасит стоимость объекта.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodEquityWallet PaymentMethod = "equity_wallet"
	MethodMortgage     PaymentMethod = "mortgage"
	MethodLoan         PaymentMethod = "loan"
	MethodCooperative  PaymentMethod = "cooperative"
)

// Valid проверяет, что способ оплаты входит в число поддерживаемых.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodEquityWallet, MethodMortgage, MethodLoan, MethodCooperative:
		return true
	}
	return false
}

// FundingOption - вариант финансирования, выбранный для плана или заявки.
// Отличается от PaymentMethod наличием смешанного варианта "mix".
type FundingOption string

const (
	OptionCash         FundingOption = "cash"
	OptionEquityWallet FundingOption = "equity_wallet"
	OptionMortgage     FundingOption = "mortgage"
	OptionLoan         FundingOption = "loan"
	OptionCooperative  FundingOption = "cooperative"
	OptionMix          FundingOption = "mix"
)

// Method возвращает способ оплаты, соответствующий варианту финансирования.
// Для неизвестных вариантов и для "mix" возвращает cash как безопасное значение по умолчанию.
func (o FundingOption) Method() PaymentMethod {
	switch o {
	case OptionEquityWallet:
		return MethodEquityWallet
	case OptionMortgage:
		return MethodMortgage
	case OptionLoan:
		return MethodLoan
	case OptionCooperative:
		return MethodCooperative
	default:
		return MethodCash
	}
}

// MethodList хранится в БД как JSONB-массив строк.
type MethodList []PaymentMethod

func (l MethodList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *MethodList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Contains сообщает, входит ли способ оплаты в список.
func (l MethodList) Contains(m PaymentMethod) bool {
	for _, v := range l {
		if v == m {
			return true
		}
	}
	return false
}

// MixAllocations - распределение стоимости по способам оплаты в процентах.
// Хранится в JSONB; сумма процентов обязана равняться 100.
type MixAllocations map[PaymentMethod]decimal.Decimal

func (a MixAllocations) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *MixAllocations) Scan(value interface{}) error {
	return scanJSON(value, a)
}

var hundred = decimal.NewFromInt(100)

// Validate проверяет распределение при создании плана, а не при использовании:
// каждый способ поддерживается, каждый процент положителен, сумма равна 100.
func (a MixAllocations) Validate() error {
	if len(a) == 0 {
		return errors.New("смешанное финансирование требует хотя бы одного способа оплаты")
	}
	total := decimal.Zero
	for m, pct := range a {
		if !m.Valid() {
			return fmt.Errorf("неизвестный способ оплаты в распределении: %s", m)
		}
		if pct.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("процент для способа %s должен быть положительным", m)
		}
		total = total.Add(pct)
	}
	if !total.Equal(hundred) {
		return fmt.Errorf("сумма процентов должна равняться 100, получено %s", total)
	}
	return nil
}

// scanJSON - общий помощник для JSONB-полей: Postgres отдает []byte,
// sqlite в тестах отдает string.
func scanJSON(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}
