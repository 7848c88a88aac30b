// domus-crm/internal/admission/errors.go
package admission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind - класс ошибки зачисления. Обработчики переводят классы в HTTP-статусы;
// движок никогда не возвращает нетипизированные ошибки валидации.
type Kind string

const (
	// KindNotFound - цель финансирования не определена (нет ни плана, ни одобренной заявки).
	KindNotFound Kind = "not_found"
	// KindMethodNotAllowed - способ оплаты не входит в разрешенные целью.
	KindMethodNotAllowed Kind = "method_not_allowed"
	// KindAlreadyFulfilled - цель уже полностью оплачена.
	KindAlreadyFulfilled Kind = "already_fulfilled"
	// KindExceedsRemaining - сумма превышает остаток к оплате.
	KindExceedsRemaining Kind = "exceeds_remaining"
	// KindInsufficientBalance - на паевом кошельке не хватает средств.
	KindInsufficientBalance Kind = "insufficient_balance"
	// KindConcurrencyConflict - конфликт блокировок; вызывающему безопасно повторить один раз.
	KindConcurrencyConflict Kind = "concurrency_conflict"
	// KindPersistenceFailure - неожиданная ошибка хранилища; транзакция откачена.
	KindPersistenceFailure Kind = "persistence_failure"
)

// Error - типизированная ошибка зачисления. Несет остаток к оплате, чтобы
// клиент мог скорректировать сумму без второго запроса.
type Error struct {
	Kind      Kind
	Remaining decimal.Decimal
	msg       string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("admission: %s: %v", e.msg, e.cause)
	}
	return "admission: " + e.msg
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, remaining decimal.Decimal, msg string) *Error {
	return &Error{Kind: kind, Remaining: remaining, msg: msg}
}

func wrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// IsKind сообщает, относится ли ошибка к данному классу.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
