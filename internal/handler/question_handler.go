package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/service"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// QuestionHandler proxies question generation to the AI service so the
// browser client talks to a single origin.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler constructs a QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// GenerateQuestions returns the follow-up questions for the submitted
// product name and description.
func (h *QuestionHandler) GenerateQuestions(c *gin.Context) {
	var req struct {
		ProductName string `json:"product_name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ProductName) == "" {
		utils.Error(c, 400, "MISSING_NAME", "Product name is required")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		utils.Error(c, 400, "MISSING_DESCRIPTION", "Product description is required")
		return
	}

	questions, err := h.questionService.Generate(c.Request.Context(), req.ProductName, req.Description)
	if err != nil {
		log.Error().Err(err).Str("product_name", req.ProductName).Msg("Question generation failed")
		utils.Error(c, 500, "UPSTREAM_ERROR", "Failed to generate questions")
		return
	}

	utils.Success(c, 200, "Questions generated successfully", gin.H{
		"questions": questions,
	})
}
