// domus-crm/internal/amortization/approve.go
package amortization

import (
	"errors"
	"time"
)

var (
	// ErrAlreadyApproved - график уже был утвержден; повторное утверждение запрещено.
	ErrAlreadyApproved = errors.New("amortization: schedule already approved")
	// ErrInvalidState - инструмент не в статусе approved/active.
	ErrInvalidState = errors.New("amortization: instrument state does not allow schedule approval")
)

// Approvable реализуют инструменты, чей график подлежит утверждению.
type Approvable interface {
	ScheduleState() (status string, approved bool)
	MarkScheduleApproved(at time.Time)
}

// ApproveSchedule - одноразовый переход "график утвержден". Требует статус
// approved или active и еще не утвержденный график.
func ApproveSchedule(inst Approvable, now time.Time) error {
	status, approved := inst.ScheduleState()
	if approved {
		return ErrAlreadyApproved
	}
	if status != "approved" && status != "active" {
		return ErrInvalidState
	}
	inst.MarkScheduleApproved(now)
	return nil
}
