// domus-crm/internal/handlers/export_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"domus-crm/config"
	"domus-crm/models"
)

// ExportLedgerHandler выгружает журнал платежей по объекту в XLSX.
func ExportLedgerHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	propertyID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var entries []models.PropertyPaymentTransaction
	if err := config.DB.
		Where("cooperative_id = ? AND property_id = ?", tc.CooperativeID, propertyID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ledger entries"})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "По объекту нет платежей"})
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Не удалось закрыть файл выгрузки", "error", err)
		}
	}()

	sheet := "Ledger"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Дата", "Пайщик", "Способ", "Сумма", "Направление", "Статус", "Референс", "Дата оплаты"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, e := range entries {
		paidAt := ""
		if e.PaidAt != nil {
			paidAt = e.PaidAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.MemberID,
			string(e.Method),
			e.Amount.StringFixed(2),
			e.Direction,
			e.Status,
			e.Reference,
			paidAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export file"})
		return
	}

	filename := fmt.Sprintf("property_%d_ledger.xlsx", propertyID)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
