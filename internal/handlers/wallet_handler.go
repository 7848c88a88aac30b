// domus-crm/internal/handlers/wallet_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"domus-crm/config"
	"domus-crm/internal/wallet"
)

// GetWalletHandler возвращает баланс паевого кошелька пайщика.
func GetWalletHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	mID, ok := memberID(c)
	if !ok {
		return
	}

	balance, err := wallet.NewService().Balance(config.DB, tc, mID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"memberId": mID, "balance": balance.StringFixed(2)})
}

// WalletCreditInput - пополнение кошелька (платежный шлюз остается снаружи:
// сюда приходит уже подтвержденная сумма).
type WalletCreditInput struct {
	Amount    string `json:"amount" binding:"required"`
	Reference string `json:"reference"`
}

// CreditWalletHandler зачисляет подтвержденное пополнение на кошелек.
func CreditWalletHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	mID, ok := memberID(c)
	if !ok {
		return
	}

	var input WalletCreditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная сумма пополнения"})
		return
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	if err := wallet.NewService().Credit(config.DB, tc, mID, amount, reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit wallet"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"memberId": mID, "amount": amount.StringFixed(2), "reference": reference})
}
