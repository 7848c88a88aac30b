// domus-crm/internal/funding/resolver.go

// Пакет funding определяет авторитетную цель финансирования пары (объект, пайщик):
// сколько причитается, какими способами и в каких долях. Сначала ищется план
// платежей, настроенный админом; без него целью служит одобренная заявка пайщика.
package funding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"domus-crm/internal/tenant"
	"domus-crm/models"
)

// ErrNoFundingTarget - ни план, ни одобренная заявка не найдены; зачисление
// платежей в этом состоянии запрещено.
var ErrNoFundingTarget = errors.New("funding: no payment plan or approved interest for this property and member")

// Target - разрешенная цель финансирования.
type Target struct {
	// AllowedMethods - способы оплаты, которыми разрешено платить.
	AllowedMethods models.MethodList
	// AmountByMethod заполняется только для смешанного плана: целевая сумма
	// каждого способа, посчитанная от исходной целевой суммы плана.
	AmountByMethod map[models.PaymentMethod]decimal.Decimal
	// TotalTarget - общая целевая сумма.
	TotalTarget decimal.Decimal
	// PlanID указывает на план, если цель получена из него.
	PlanID *uint
	// Option - вариант финансирования, из которого получена цель.
	Option models.FundingOption
}

// Mix сообщает, получена ли цель из смешанного плана (лимиты по каждому способу).
func (t Target) Mix() bool { return t.Option == models.OptionMix }

// ResolveTarget определяет цель финансирования. Чистое чтение: вызывается заново
// при каждой попытке зачисления, потому что план мог измениться между платежами.
func ResolveTarget(db *gorm.DB, tc tenant.Context, propertyID, memberID uint) (Target, error) {
	return resolveTarget(db, tc, propertyID, memberID, false)
}

// ResolveTargetLocked делает то же самое, но берет блокировку строки плана
// (SELECT ... FOR UPDATE). Используется движком зачисления внутри транзакции.
func ResolveTargetLocked(tx *gorm.DB, tc tenant.Context, propertyID, memberID uint) (Target, error) {
	return resolveTarget(tx, tc, propertyID, memberID, true)
}

func resolveTarget(db *gorm.DB, tc tenant.Context, propertyID, memberID uint, forUpdate bool) (Target, error) {
	var plan models.PaymentPlan
	q := db.Scopes(tenant.Scope(tc)).Where("property_id = ? AND member_id = ?", propertyID, memberID)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&plan).Error
	switch {
	case err == nil:
		return targetFromPlan(db, tc, &plan)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return targetFromInterest(db, tc, propertyID, memberID)
	default:
		return Target{}, fmt.Errorf("funding: load payment plan: %w", err)
	}
}

func targetFromPlan(db *gorm.DB, tc tenant.Context, plan *models.PaymentPlan) (Target, error) {
	total := plan.TotalAmountTarget
	if total.LessThanOrEqual(decimal.Zero) {
		// План без суммы: целью служит цена объекта.
		price, err := propertyPrice(db, tc, plan.PropertyID)
		if err != nil {
			return Target{}, err
		}
		total = price
	}

	planID := plan.ID
	t := Target{
		TotalTarget: total,
		PlanID:      &planID,
		Option:      plan.FundingOption,
	}

	if plan.FundingOption == models.OptionMix {
		// Доли всегда считаются от исходной целевой суммы плана, а не от
		// текущего остатка: пересчет от убывающего остатка задваивал бы оплату.
		t.AmountByMethod = make(map[models.PaymentMethod]decimal.Decimal, len(plan.MixAllocations))
		for m, pct := range plan.MixAllocations {
			t.AllowedMethods = append(t.AllowedMethods, m)
			t.AmountByMethod[m] = pct.Div(hundred).Mul(total).Round(2)
		}
		// Детерминированный порядок: повторный вызов без записей между ними
		// обязан вернуть идентичный результат.
		sort.Slice(t.AllowedMethods, func(i, j int) bool {
			return t.AllowedMethods[i] < t.AllowedMethods[j]
		})
		return t, nil
	}

	if len(plan.SelectedMethods) > 0 {
		t.AllowedMethods = plan.SelectedMethods
	} else {
		t.AllowedMethods = models.MethodList{plan.FundingOption.Method()}
	}
	return t, nil
}

func targetFromInterest(db *gorm.DB, tc tenant.Context, propertyID, memberID uint) (Target, error) {
	var interest models.PropertyInterest
	err := db.Scopes(tenant.Scope(tc)).
		Where("property_id = ? AND member_id = ? AND status = ?", propertyID, memberID, models.InterestApproved).
		Order("created_at DESC").
		First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Target{}, ErrNoFundingTarget
	}
	if err != nil {
		return Target{}, fmt.Errorf("funding: load interest: %w", err)
	}

	price, err := propertyPrice(db, tc, propertyID)
	if err != nil {
		return Target{}, err
	}

	allowed := interest.PreferredPaymentMethods
	if len(allowed) == 0 {
		allowed = models.MethodList{interest.FundingOption.Method()}
	}

	return Target{
		AllowedMethods: allowed,
		TotalTarget:    price,
		Option:         interest.FundingOption,
	}, nil
}

func propertyPrice(db *gorm.DB, tc tenant.Context, propertyID uint) (decimal.Decimal, error) {
	var property models.Property
	if err := db.Scopes(tenant.Scope(tc)).First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrNoFundingTarget
		}
		return decimal.Zero, fmt.Errorf("funding: load property: %w", err)
	}
	return property.Price, nil
}

var hundred = decimal.NewFromInt(100)
