package handler

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/service"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// ReportHandler streams transparency reports as PDF attachments.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport renders the product's report, streams it as a file attachment,
// and removes the transient file on the same control path once the stream
// has been written.
func (h *ReportHandler) GetReport(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}

	path, filename, err := h.reportService.GeneratePDF(productID)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Error().Err(err).Int("product_id", productID).Msg("Report generation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to generate report")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, filename)

	// The artifact is transient: remove it as soon as the response body has
	// been written. A crash before this line leaks the file; the janitor
	// worker sweeps those.
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove transient report file")
	}
}
