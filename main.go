// domus-crm/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"domus-crm/config"
	"domus-crm/internal/routes"
	"domus-crm/models"
)

func main() {
	config.ConnectDB()
	config.ConnectRedis()
	config.InitAuth()

	if err := config.DB.AutoMigrate(
		&models.Member{},
		&models.Property{},
		&models.EquityWallet{},
		&models.EquityWalletTransaction{},
		&models.PropertyInterest{},
		&models.PaymentPlan{},
		&models.PropertyPaymentTransaction{},
		&models.Loan{},
		&models.Mortgage{},
		&models.InternalMortgagePlan{},
		&models.RepaymentRecord{},
		&models.Notification{},
	); err != nil {
		slog.Error("Ошибка миграции схемы БД", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Запуск сервера", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановлен с ошибкой", "error", err)
		os.Exit(1)
	}
}
