// domus-crm/internal/ledger/ledger.go

// Пакет ledger - append-only журнал платежей по объектам. Суммы записей
// неизменны; статусы переходят только вперед. Вся денежная арифметика -
// decimal с двумя знаками, сравнения с целями - через допуск Epsilon.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"domus-crm/internal/tenant"
	"domus-crm/models"
)

// Epsilon - допуск 0.01 денежной единицы, поглощающий округление процентных долей.
var Epsilon = decimal.NewFromFloat(0.01)

// ErrInvalidTransition - попытка недопустимого перехода статуса записи.
var ErrInvalidTransition = errors.New("ledger: invalid status transition")

// CreditedTotal возвращает сумму подтвержденных (completed) зачислений по паре
// (объект, пайщик), при необходимости - по одному способу оплаты.
func CreditedTotal(db *gorm.DB, tc tenant.Context, propertyID, memberID uint, method ...models.PaymentMethod) (decimal.Decimal, error) {
	return sumCredits(db, tc, propertyID, memberID, []string{models.TxCompleted}, method...)
}

// RecognizedTotal возвращает сумму всех признанных зачислений: completed,
// scheduled и pending. Именно эта сумма резервирует лимит при зачислении -
// платеж, ожидающий подтверждения, уже занимает свою часть цели.
func RecognizedTotal(db *gorm.DB, tc tenant.Context, propertyID, memberID uint, method ...models.PaymentMethod) (decimal.Decimal, error) {
	return sumCredits(db, tc, propertyID, memberID,
		[]string{models.TxCompleted, models.TxScheduled, models.TxPending}, method...)
}

func sumCredits(db *gorm.DB, tc tenant.Context, propertyID, memberID uint, statuses []string, method ...models.PaymentMethod) (decimal.Decimal, error) {
	q := db.Model(&models.PropertyPaymentTransaction{}).
		Scopes(tenant.Scope(tc)).
		Where("property_id = ? AND member_id = ?", propertyID, memberID).
		Where("direction = ?", models.DirectionCredit).
		Where("status IN ?", statuses)
	if len(method) > 0 {
		q = q.Where("method = ?", method[0])
	}

	var total decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("ledger: sum credits: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Append добавляет запись в журнал. Вызывается только внутри транзакции
// критической секции зачисления.
func Append(tx *gorm.DB, entry *models.PropertyPaymentTransaction) error {
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("ledger: append entry: %w", err)
	}
	return nil
}

// MarkCompleted переводит запись pending|scheduled -> completed и ставит время
// оплаты. Любой другой исходный статус - ошибка ErrInvalidTransition.
func MarkCompleted(db *gorm.DB, tc tenant.Context, entryID uint, paidAt time.Time) (*models.PropertyPaymentTransaction, error) {
	return transition(db, tc, entryID, models.TxCompleted, &paidAt)
}

// MarkFailed переводит запись pending|scheduled -> failed.
func MarkFailed(db *gorm.DB, tc tenant.Context, entryID uint) (*models.PropertyPaymentTransaction, error) {
	return transition(db, tc, entryID, models.TxFailed, nil)
}

func transition(db *gorm.DB, tc tenant.Context, entryID uint, to string, paidAt *time.Time) (*models.PropertyPaymentTransaction, error) {
	var entry models.PropertyPaymentTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.Scope(tc)).First(&entry, entryID).Error; err != nil {
			return fmt.Errorf("ledger: load entry: %w", err)
		}
		if entry.Status != models.TxPending && entry.Status != models.TxScheduled {
			return ErrInvalidTransition
		}
		updates := map[string]interface{}{"status": to}
		if paidAt != nil {
			updates["paid_at"] = paidAt
		}
		if err := tx.Model(&entry).Updates(updates).Error; err != nil {
			return fmt.Errorf("ledger: update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
