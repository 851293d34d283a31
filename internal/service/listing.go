package service

import (
	"context"

	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"
	"ModelBoard/internal/session"

	"github.com/sirupsen/logrus"
)

const (
	MinLimit = 1
	MaxLimit = 100
)

// ListingService 模型榜单查询：过滤、排序、分页，附带分数、投票和当前会话的投票状态
type ListingService struct {
	useCases repository.UseCaseRepository
	models   repository.ModelRepository
	logger   *logrus.Logger
}

// NewListingService 创建 ListingService
func NewListingService(useCases repository.UseCaseRepository, models repository.ModelRepository, logger *logrus.Logger) *ListingService {
	return &ListingService{
		useCases: useCases,
		models:   models,
		logger:   logger,
	}
}

// ListModelsRequest 列表请求参数；SortBy/SortOrder 非法时回退，Page/Limit 非法时报错
type ListModelsRequest struct {
	UseCaseSlug string
	Search      string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

// ModelItem 列表中的单个模型
type ModelItem struct {
	ID              uint64                 `json:"id"`
	Name            string                 `json:"name"`
	Provider        *string                `json:"provider"`
	HuggingfaceLink *string                `json:"huggingface_link"`
	KnowledgeCutoff *string                `json:"knowledge_cutoff"`
	IsOpenSource    bool                   `json:"is_open_source"`
	Availability    *string                `json:"availability"`
	Formats         *string                `json:"formats"`
	LastUpdated     string                 `json:"last_updated"` // YYYY-MM-DD
	Upvotes         int64                  `json:"upvotes"`
	Downvotes       int64                  `json:"downvotes"`
	Scores          []repository.ScoreView `json:"scores"`
	UserVote        model.VoteStatus       `json:"userVote"`
}

// ModelListResult 列表返回
type ModelListResult struct {
	Models      []ModelItem `json:"models"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalItems  int64       `json:"totalItems"`
	Limit       int         `json:"limit"`
}

// ListModels 按用例查询模型列表。
// totalItems 只受搜索条件影响，与用例无关；用例只决定展示哪一组投票。
func (s *ListingService) ListModels(ctx context.Context, req ListModelsRequest, tracker session.Tracker) (*ModelListResult, error) {
	if req.UseCaseSlug == "" {
		return nil, invalid("use_case_slug parameter is required")
	}
	if req.Page < 1 {
		return nil, invalid("Invalid page number")
	}
	if req.Limit < MinLimit || req.Limit > MaxLimit {
		return nil, invalid("Invalid limit value (%d-%d)", MinLimit, MaxLimit)
	}

	useCase, err := s.useCases.GetBySlug(ctx, req.UseCaseSlug)
	if err != nil {
		return nil, lookupErr("Use case", "查询用例失败", err)
	}

	total, err := s.models.CountModels(ctx, req.Search)
	if err != nil {
		return nil, storageErr("统计模型数量失败", err)
	}

	rows, err := s.models.ListModels(ctx, repository.ListQuery{
		UseCaseID: useCase.ID,
		Search:    req.Search,
		SortBy:    repository.ParseSortField(req.SortBy),
		Order:     repository.ParseSortOrder(req.SortOrder),
		Limit:     req.Limit,
		Offset:    (req.Page - 1) * req.Limit,
	})
	if err != nil {
		return nil, storageErr("查询模型列表失败", err)
	}

	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	scores, err := s.models.ScoresForModels(ctx, ids)
	if err != nil {
		return nil, storageErr("查询基准分数失败", err)
	}

	items := make([]ModelItem, 0, len(rows))
	for _, r := range rows {
		modelScores := scores[r.ID]
		if modelScores == nil {
			modelScores = []repository.ScoreView{}
		}
		items = append(items, ModelItem{
			ID:              r.ID,
			Name:            r.Name,
			Provider:        r.Provider,
			HuggingfaceLink: r.HuggingfaceLink,
			KnowledgeCutoff: r.KnowledgeCutoff,
			IsOpenSource:    r.IsOpenSource,
			Availability:    r.Availability,
			Formats:         r.Formats,
			LastUpdated:     r.LastUpdated.Format("2006-01-02"),
			Upvotes:         r.Upvotes,
			Downvotes:       r.Downvotes,
			Scores:          modelScores,
			UserVote:        tracker.Get(req.UseCaseSlug, r.ID),
		})
	}

	return &ModelListResult{
		Models:      items,
		CurrentPage: req.Page,
		TotalPages:  int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		TotalItems:  total,
		Limit:       req.Limit,
	}, nil
}
