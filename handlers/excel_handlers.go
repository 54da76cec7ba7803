package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/services"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// ExportHandler serves ledger workbooks
type ExportHandler struct {
	excelService *services.ExcelService
}

// NewExportHandler creates a new export handler
func NewExportHandler(excelService *services.ExcelService) *ExportHandler {
	return &ExportHandler{excelService: excelService}
}

// ExportLedger handles GET /expenses/export
func (h *ExportHandler) ExportLedger(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	excelFile, filename, err := h.excelService.ExportLedger(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer excelFile.Close()

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", utils.ContentDisposition(filename))
	c.Header("Content-Transfer-Encoding", "binary")

	// Write Excel file to response
	if err := excelFile.Write(c.Writer); err != nil {
		log.Printf("level=error component=http msg=\"failed to write workbook\" err=%v", err)
	}
}
