package api

import (
	"net/http"

	"ModelBoard/internal/repository"
	"ModelBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogHandler 用例、基准列表和建议提交
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *logrus.Logger
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(db *gorm.DB, logger *logrus.Logger) *CatalogHandler {
	svc := service.NewCatalogService(
		repository.NewUseCaseRepository(db),
		repository.NewBenchmarkRepository(db),
		repository.NewSuggestionRepository(db),
		logger,
	)
	return &CatalogHandler{
		catalogService: svc,
		logger:         logger,
	}
}

// ListUseCases GET /api/usecases
func (h *CatalogHandler) ListUseCases(c *gin.Context) {
	list, err := h.catalogService.ListUseCases(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListUseCases", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListBenchmarks GET /api/benchmarks
func (h *CatalogHandler) ListBenchmarks(c *gin.Context) {
	list, err := h.catalogService.ListBenchmarks(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListBenchmarks", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SubmitSuggestion POST /api/suggestions
// body: {"type":"model|use_case","name":"...","details":"..."}
func (h *CatalogHandler) SubmitSuggestion(c *gin.Context) {
	var in service.SuggestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	sg, err := h.catalogService.SubmitSuggestion(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "SubmitSuggestion", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Suggestion submitted successfully!",
		"id":      sg.ID,
	})
}
