// domus-crm/internal/wallet/service.go

// Пакет wallet - узкий сервис паевого кошелька. Движок зачисления видит его
// только как интерфейс: баланс, списание, пополнение.
package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"domus-crm/internal/tenant"
	"domus-crm/models"
)

// Service работает поверх той же БД, что и остальная система.
type Service struct{}

func NewService() *Service { return &Service{} }

// Balance возвращает текущий остаток кошелька пайщика. Отсутствие кошелька
// равнозначно нулевому балансу.
func (s *Service) Balance(db *gorm.DB, tc tenant.Context, memberID uint) (decimal.Decimal, error) {
	var w models.EquityWallet
	err := db.Scopes(tenant.Scope(tc)).Where("member_id = ?", memberID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("wallet: load wallet: %w", err)
	}
	return w.Balance, nil
}

// Debit списывает сумму с кошелька под блокировкой его строки. Возвращает
// false при недостатке средств - вызывающий обязан трактовать это как
// InsufficientBalance. Вызывается внутри транзакции зачисления: блокировка
// кошелька вложена в блокировку пары (объект, пайщик).
func (s *Service) Debit(tx *gorm.DB, tc tenant.Context, memberID uint, amount decimal.Decimal, reference, reason string) (bool, error) {
	var w models.EquityWallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(tc)).
		Where("member_id = ?", memberID).
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("wallet: lock wallet: %w", err)
	}

	if w.Balance.LessThan(amount) {
		return false, nil
	}

	if err := tx.Model(&w).Update("balance", w.Balance.Sub(amount)).Error; err != nil {
		return false, fmt.Errorf("wallet: debit wallet: %w", err)
	}

	movement := models.EquityWalletTransaction{
		CooperativeID: tc.CooperativeID,
		WalletID:      w.ID,
		Amount:        amount,
		Direction:     "debit",
		Reference:     reference,
		Reason:        reason,
		OccurredAt:    time.Now(),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return false, fmt.Errorf("wallet: record debit: %w", err)
	}
	return true, nil
}

// Credit пополняет кошелек, создавая его при первом пополнении.
func (s *Service) Credit(db *gorm.DB, tc tenant.Context, memberID uint, amount decimal.Decimal, reference string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("wallet: credit amount must be positive")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var w models.EquityWallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(tenant.Scope(tc)).
			Where("member_id = ?", memberID).
			First(&w).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w = models.EquityWallet{CooperativeID: tc.CooperativeID, MemberID: memberID, Balance: decimal.Zero}
			if err := tx.Create(&w).Error; err != nil {
				return fmt.Errorf("wallet: create wallet: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("wallet: lock wallet: %w", err)
		}

		if err := tx.Model(&w).Update("balance", w.Balance.Add(amount)).Error; err != nil {
			return fmt.Errorf("wallet: credit wallet: %w", err)
		}

		movement := models.EquityWalletTransaction{
			CooperativeID: tc.CooperativeID,
			WalletID:      w.ID,
			Amount:        amount,
			Direction:     "credit",
			Reference:     reference,
			Reason:        "wallet top-up",
			OccurredAt:    time.Now(),
		}
		return tx.Create(&movement).Error
	})
}
