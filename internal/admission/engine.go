// domus-crm/internal/admission/engine.go

// Пакет admission - движок зачисления платежей. Проверяет платеж против цели
// финансирования и текущих итогов леджера, выполняет расчет по способу оплаты
// и добавляет запись в журнал - все в одной критической секции на пару
// (объект, пайщик).
package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"domus-crm/config"
	"domus-crm/internal/funding"
	"domus-crm/internal/ledger"
	"domus-crm/internal/lockkey"
	"domus-crm/internal/tenant"
	"domus-crm/models"
)

// WalletService - узкий интерфейс паевого кошелька (внешний коллаборатор).
// Debit возвращает false при недостатке средств, не ошибку.
type WalletService interface {
	Balance(db *gorm.DB, tc tenant.Context, memberID uint) (decimal.Decimal, error)
	Debit(tx *gorm.DB, tc tenant.Context, memberID uint, amount decimal.Decimal, reference, reason string) (bool, error)
}

// Notifier - внешний сервис уведомлений; сбои логируются и не откатывают платеж.
type Notifier interface {
	NotifyAdmins(tc tenant.Context, kind, title, body string, metadata map[string]interface{})
}

// Result - итог успешного зачисления.
type Result struct {
	LedgerEntryID uint            `json:"ledgerEntryId"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	NewRemaining  decimal.Decimal `json:"newRemaining"`
}

// Engine связывает резолвер цели, леджер и кошелек.
type Engine struct {
	db       *gorm.DB
	wallets  WalletService
	notifier Notifier
	locks    *lockkey.Map
}

func NewEngine(db *gorm.DB, wallets WalletService, notifier Notifier) *Engine {
	return &Engine{
		db:       db,
		wallets:  wallets,
		notifier: notifier,
		locks:    lockkey.New(),
	}
}

// Admit проверяет и зачисляет платеж.
//
// Критическая секция: чтение цели, чтение итогов, сравнение, расчет и запись в
// журнал выполняются под внутрипроцессным ключевым мьютексом и в одной
// транзакции БД; строка плана читается с SELECT ... FOR UPDATE. Откат
// транзакции не оставляет частичной записи в журнале.
func (e *Engine) Admit(ctx context.Context, tc tenant.Context, propertyID, memberID uint, method models.PaymentMethod, amount decimal.Decimal) (*Result, error) {
	if !method.Valid() {
		return nil, newError(KindMethodNotAllowed, decimal.Zero, "unknown payment method "+string(method))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, newError(KindExceedsRemaining, decimal.Zero, "amount must be positive")
	}
	amount = amount.Round(2)

	unlock := e.locks.Lock(admissionKey(tc, propertyID, memberID))
	defer unlock()

	var (
		result Result
		target funding.Target
	)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		// Шаг 1: цель финансирования, всегда свежая, строка плана - под блокировкой.
		target, err = funding.ResolveTargetLocked(tx, tc, propertyID, memberID)
		if errors.Is(err, funding.ErrNoFundingTarget) {
			return newError(KindNotFound, decimal.Zero, "no funding target for property and member")
		}
		if err != nil {
			return wrapError(KindPersistenceFailure, "resolve funding target", err)
		}

		if !target.AllowedMethods.Contains(method) {
			return newError(KindMethodNotAllowed, decimal.Zero,
				fmt.Sprintf("method %s is not allowed by the funding target", method))
		}

		// Шаг 2: сколько уже признано. Для смешанного плана лимит считается
		// по способу, иначе - по общей цели.
		methodTarget := target.TotalTarget
		var recognized decimal.Decimal
		if target.Mix() {
			methodTarget = target.AmountByMethod[method]
			recognized, err = ledger.RecognizedTotal(tx, tc, propertyID, memberID, method)
		} else {
			recognized, err = ledger.RecognizedTotal(tx, tc, propertyID, memberID)
		}
		if err != nil {
			return wrapError(KindPersistenceFailure, "read ledger totals", err)
		}

		// Шаг 3: остаток и сравнение с допуском.
		remaining := methodTarget.Sub(recognized)
		if remaining.LessThanOrEqual(decimal.Zero) {
			return newError(KindAlreadyFulfilled, decimal.Zero, "funding target already fulfilled")
		}
		if amount.Sub(remaining).GreaterThan(ledger.Epsilon) {
			return newError(KindExceedsRemaining, remaining,
				fmt.Sprintf("amount %s exceeds remaining %s", amount, remaining))
		}

		// Шаг 4: расчет по способу оплаты.
		reference := uuid.NewString()
		status := models.TxScheduled
		var paidAt *time.Time

		switch method {
		case models.MethodEquityWallet:
			ok, err := e.wallets.Debit(tx, tc, memberID, amount, reference, "property payment")
			if err != nil {
				return wrapError(KindPersistenceFailure, "debit equity wallet", err)
			}
			if !ok {
				return newError(KindInsufficientBalance, remaining, "equity wallet balance is insufficient")
			}
			now := time.Now()
			status = models.TxCompleted
			paidAt = &now
		case models.MethodCash:
			// Наличные ждут ручного подтверждения оператором.
			status = models.TxPending
		case models.MethodCooperative, models.MethodMortgage, models.MethodLoan:
			// Платеж признан, но расчет идет по графику инструмента.
			status = models.TxScheduled
		}

		// Шаг 5: запись в журнал и справочный кэш остатка на плане.
		entry := models.PropertyPaymentTransaction{
			CooperativeID: tc.CooperativeID,
			PropertyID:    propertyID,
			MemberID:      memberID,
			PlanID:        target.PlanID,
			Method:        method,
			Amount:        amount,
			Direction:     models.DirectionCredit,
			Status:        status,
			Reference:     reference,
			PaidAt:        paidAt,
		}
		if err := ledger.Append(tx, &entry); err != nil {
			return wrapError(KindPersistenceFailure, "append ledger entry", err)
		}

		if target.PlanID != nil && status == models.TxCompleted {
			if err := tx.Model(&models.PaymentPlan{}).
				Where("id = ?", *target.PlanID).
				Update("remaining_balance", gorm.Expr("remaining_balance - ?", amount)).Error; err != nil {
				return wrapError(KindPersistenceFailure, "refresh plan remaining balance", err)
			}
		}

		result = Result{
			LedgerEntryID: entry.ID,
			Reference:     reference,
			Status:        status,
			NewRemaining:  remaining.Sub(amount),
		}
		return nil
	})
	if err != nil {
		var typed *Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, wrapError(KindPersistenceFailure, "admission transaction", err)
	}

	e.afterAdmit(tc, propertyID, memberID, method, amount, target, &result)
	return &result, nil
}

// afterAdmit - побочные действия вне критической секции: инвалидация кэша
// остатка и уведомление админов. Ошибки здесь платеж не откатывают.
func (e *Engine) afterAdmit(tc tenant.Context, propertyID, memberID uint, method models.PaymentMethod, amount decimal.Decimal, target funding.Target, result *Result) {
	invalidateRemainingCache(target.PlanID)

	if e.notifier == nil {
		return
	}
	e.notifier.NotifyAdmins(tc,
		"property_payment",
		"Поступил платеж за объект",
		fmt.Sprintf("Пайщик #%d внес %s способом %s за объект #%d", memberID, amount.StringFixed(2), method, propertyID),
		map[string]interface{}{
			"propertyId":    propertyID,
			"memberId":      memberID,
			"method":        string(method),
			"amount":        amount.StringFixed(2),
			"reference":     result.Reference,
			"ledgerEntryId": result.LedgerEntryID,
		})
}

func admissionKey(tc tenant.Context, propertyID, memberID uint) string {
	return fmt.Sprintf("admission:%d:%d:%d", tc.CooperativeID, propertyID, memberID)
}

// invalidateRemainingCache сбрасывает кэшированный остаток плана в Redis.
// Кэш справочный: его отсутствие означает лишь чтение из БД.
func invalidateRemainingCache(planID *uint) {
	if planID == nil || config.RDB == nil {
		return
	}
	key := fmt.Sprintf("plan:remaining:%d", *planID)
	if err := config.RDB.Del(config.Ctx, key).Err(); err != nil {
		slog.Warn("Не удалось сбросить кэш остатка плана", "plan_id", *planID, "error", err)
	}
}
