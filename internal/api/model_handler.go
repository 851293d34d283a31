package api

import (
	"net/http"
	"strconv"

	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"
	"ModelBoard/internal/service"
	"ModelBoard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ModelHandler 榜单列表和投票
type ModelHandler struct {
	listingService *service.ListingService
	voteService    *service.VoteService
	defaultLimit   int
	logger         *logrus.Logger
}

// NewModelHandler 创建 ModelHandler
func NewModelHandler(db *gorm.DB, defaultLimit int, logger *logrus.Logger) *ModelHandler {
	useCases := repository.NewUseCaseRepository(db)
	models := repository.NewModelRepository(db)
	votes := repository.NewVoteRepository(db)
	return &ModelHandler{
		listingService: service.NewListingService(useCases, models, logger),
		voteService:    service.NewVoteService(useCases, models, votes, logger),
		defaultLimit:   defaultLimit,
		logger:         logger,
	}
}

// queryInt 缺省时用默认值；无法解析时返回 0，交给 service 报参数错误
func queryInt(c *gin.Context, key string, def int) int {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// ListModels 模型榜单
// GET /api/models?use_case_slug=rag&search=&sort_by=score_diff&sort_order=desc&page=1&limit=15
func (h *ModelHandler) ListModels(c *gin.Context) {
	req := service.ListModelsRequest{
		UseCaseSlug: c.Query("use_case_slug"),
		Search:      c.Query("search"),
		SortBy:      c.DefaultQuery("sort_by", string(repository.SortByScoreDiff)),
		SortOrder:   c.DefaultQuery("sort_order", "desc"),
		Page:        queryInt(c, "page", 1),
		Limit:       queryInt(c, "limit", h.defaultLimit),
	}

	result, err := h.listingService.ListModels(c.Request.Context(), req, session.FromContext(c))
	if err != nil {
		respondError(c, h.logger, "ListModels", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Vote 投票或撤销
// POST /api/vote/:model_id/:use_case_slug/:direction
func (h *ModelHandler) Vote(c *gin.Context) {
	direction := c.Param("direction")
	if _, ok := model.ParseDirection(direction); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote direction"})
		return
	}
	modelID, ok := parseID(c, "model_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	result, err := h.voteService.Vote(c.Request.Context(), modelID, c.Param("use_case_slug"), direction, session.FromContext(c))
	if err != nil {
		respondError(c, h.logger, "Vote", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
