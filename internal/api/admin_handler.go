package api

import (
	"net/http"

	"ModelBoard/internal/repository"
	"ModelBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler 管理后台 JSON 接口（Basic Auth 保护）
type AdminHandler struct {
	adminService *service.AdminService
	logger       *logrus.Logger
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(db *gorm.DB, logger *logrus.Logger) *AdminHandler {
	svc := service.NewAdminService(
		repository.NewUseCaseRepository(db),
		repository.NewBenchmarkRepository(db),
		repository.NewModelRepository(db),
		repository.NewSuggestionRepository(db),
		logger,
	)
	return &AdminHandler{
		adminService: svc,
		logger:       logger,
	}
}

// Register 挂载 /admin/api 下的路由
func (h *AdminHandler) Register(g *gin.RouterGroup) {
	g.GET("/usecases", h.ListUseCases)
	g.POST("/usecases", h.CreateUseCase)
	g.PUT("/usecases/:id", h.UpdateUseCase)
	g.DELETE("/usecases/:id", h.DeleteUseCase)

	g.GET("/benchmarks", h.ListBenchmarks)
	g.POST("/benchmarks", h.CreateBenchmark)
	g.PUT("/benchmarks/:id", h.UpdateBenchmark)
	g.DELETE("/benchmarks/:id", h.DeleteBenchmark)

	g.GET("/models", h.ListModels)
	g.POST("/models", h.CreateModel)
	g.GET("/models/:id", h.GetModel)
	g.PUT("/models/:id", h.UpdateModel)
	g.DELETE("/models/:id", h.DeleteModel)

	g.GET("/suggestions", h.ListSuggestions)
	g.PATCH("/suggestions/:id", h.UpdateSuggestionStatus)
}

func invalidID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
}

// ---------- 用例 ----------

func (h *AdminHandler) ListUseCases(c *gin.Context) {
	list, err := h.adminService.ListUseCases(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Admin ListUseCases", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) CreateUseCase(c *gin.Context) {
	var in service.UseCaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	uc, err := h.adminService.CreateUseCase(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "Admin CreateUseCase", err)
		return
	}
	c.JSON(http.StatusCreated, uc)
}

func (h *AdminHandler) UpdateUseCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	var in service.UseCaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	uc, err := h.adminService.UpdateUseCase(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "Admin UpdateUseCase", err)
		return
	}
	c.JSON(http.StatusOK, uc)
}

func (h *AdminHandler) DeleteUseCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	if err := h.adminService.DeleteUseCase(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Admin DeleteUseCase", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- 基准 ----------

func (h *AdminHandler) ListBenchmarks(c *gin.Context) {
	list, err := h.adminService.ListBenchmarks(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Admin ListBenchmarks", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) CreateBenchmark(c *gin.Context) {
	var in service.BenchmarkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.adminService.CreateBenchmark(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "Admin CreateBenchmark", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *AdminHandler) UpdateBenchmark(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	var in service.BenchmarkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.adminService.UpdateBenchmark(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "Admin UpdateBenchmark", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) DeleteBenchmark(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	if err := h.adminService.DeleteBenchmark(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Admin DeleteBenchmark", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- 模型 ----------

func (h *AdminHandler) ListModels(c *gin.Context) {
	list, err := h.adminService.ListModels(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Admin ListModels", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) GetModel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	m, err := h.adminService.GetModel(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Admin GetModel", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *AdminHandler) CreateModel(c *gin.Context) {
	var in service.ModelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.adminService.CreateModel(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "Admin CreateModel", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateModel 模型字段和分数一起提交；scores 中 score 为 null 的条目删除该分数
func (h *AdminHandler) UpdateModel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	var in service.ModelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.adminService.UpdateModel(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "Admin UpdateModel", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *AdminHandler) DeleteModel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	if err := h.adminService.DeleteModel(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Admin DeleteModel", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- 建议 ----------

func (h *AdminHandler) ListSuggestions(c *gin.Context) {
	list, err := h.adminService.ListSuggestions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Admin ListSuggestions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type suggestionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// UpdateSuggestionStatus PATCH /admin/api/suggestions/:id  body: {"status":"approved"}
func (h *AdminHandler) UpdateSuggestionStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidID(c)
		return
	}
	var req suggestionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.adminService.UpdateSuggestionStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, "Admin UpdateSuggestionStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "status": req.Status})
}
