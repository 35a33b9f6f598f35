package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/service"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// ScoreHandler exposes on-demand transparency scoring.
type ScoreHandler struct {
	scoreService *service.ScoreService
}

// NewScoreHandler constructs a ScoreHandler.
func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// GetTransparencyScore computes and returns the product's transparency score.
// Upstream failures map to a generic 500; nothing is persisted.
func (h *ScoreHandler) GetTransparencyScore(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}

	score, err := h.scoreService.GetScore(c.Request.Context(), productID)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Error().Err(err).Int("product_id", productID).Msg("Transparency scoring failed")
		utils.Error(c, 500, "UPSTREAM_ERROR", "Failed to compute transparency score")
		return
	}

	utils.Success(c, 200, "Score computed successfully", gin.H{
		"score":     score.Score,
		"rationale": score.Rationale,
	})
}
