package handler

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/middleware"
	"github.com/clearlabel/transparency-api/internal/service"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// ProductHandler handles product listing and submission endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts returns all products, newest first. Reads are public.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get products")
		return
	}

	utils.Success(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	})
}

// CreateProduct accepts one aggregated submission: basic info, the generated
// question list, and answers keyed by question id.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	result, err := h.productService.Create(userID, &req)
	if err != nil {
		switch err {
		case utils.ErrMissingName:
			utils.Error(c, 400, "MISSING_NAME", "Product name is required")
		case utils.ErrMissingDescription:
			utils.Error(c, 400, "MISSING_DESCRIPTION", "Product description is required")
		case utils.ErrNoCompany:
			utils.Error(c, 403, "NO_COMPANY", "Account has no associated company")
		case sql.ErrNoRows:
			utils.Error(c, 401, "INVALID_TOKEN", "Unknown identity")
		default:
			log.Error().Err(err).Int("user_id", userID).Msg("Failed to create product")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		}
		return
	}

	message := "Product created successfully"
	if len(result.FailedAnswers) > 0 {
		message = "Product created; some answers could not be saved"
	}
	utils.Success(c, 201, message, result)
}
