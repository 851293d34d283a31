package service

import (
	"context"
	"errors"
	"strings"

	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminService 后台维护：用例、基准、模型（含分数）、建议审核
type AdminService struct {
	useCases    repository.UseCaseRepository
	benchmarks  repository.BenchmarkRepository
	models      repository.ModelRepository
	suggestions repository.SuggestionRepository
	logger      *logrus.Logger
}

// NewAdminService 创建 AdminService
func NewAdminService(
	useCases repository.UseCaseRepository,
	benchmarks repository.BenchmarkRepository,
	models repository.ModelRepository,
	suggestions repository.SuggestionRepository,
	logger *logrus.Logger,
) *AdminService {
	return &AdminService{
		useCases:    useCases,
		benchmarks:  benchmarks,
		models:      models,
		suggestions: suggestions,
		logger:      logger,
	}
}

// UseCaseInput 新建/修改用例
type UseCaseInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// BenchmarkInput 新建/修改基准
type BenchmarkInput struct {
	Name        string  `json:"name" binding:"required"`
	ShortName   string  `json:"short_name" binding:"required"`
	Description *string `json:"description"`
	SourceURL   *string `json:"source_url" binding:"omitempty,url"`
}

// ScoreInput 单个基准分数，score 为 null 表示删除该分数
type ScoreInput struct {
	BenchmarkID uint64   `json:"benchmark_id" binding:"required"`
	Score       *float64 `json:"score"`
	ScoreLink   *string  `json:"score_link"`
}

// ModelInput 新建/修改模型
type ModelInput struct {
	Name            string       `json:"name" binding:"required"`
	Provider        *string      `json:"provider"`
	HuggingfaceLink *string      `json:"huggingface_link" binding:"omitempty,url"`
	KnowledgeCutoff *string      `json:"knowledge_cutoff"`
	IsOpenSource    bool         `json:"is_open_source"`
	Availability    *string      `json:"availability"`
	Formats         *string      `json:"formats"`
	Scores          []ScoreInput `json:"scores" binding:"dive"`
}

// ModelDetail 模型及其全部分数
type ModelDetail struct {
	*model.LanguageModel
	Scores []repository.ScoreView `json:"scores"`
}

// writeErr 写操作的错误转换：唯一约束冲突 -> 400，未命中 -> 404
func writeErr(resource, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource}
	}
	if isDuplicate(err) {
		return invalid("%s already exists", resource)
	}
	return storageErr(op, err)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ---------- 用例 ----------

func (s *AdminService) ListUseCases(ctx context.Context) ([]*model.UseCase, error) {
	list, err := s.useCases.List(ctx)
	if err != nil {
		return nil, storageErr("查询用例列表失败", err)
	}
	return list, nil
}

func (s *AdminService) CreateUseCase(ctx context.Context, in UseCaseInput) (*model.UseCase, error) {
	uc, err := useCaseFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.useCases.Create(ctx, uc); err != nil {
		return nil, writeErr("Use case", "新建用例失败", err)
	}
	s.logger.WithField("slug", uc.Slug).Info("新建用例")
	return uc, nil
}

func (s *AdminService) UpdateUseCase(ctx context.Context, id uint64, in UseCaseInput) (*model.UseCase, error) {
	uc, err := useCaseFromInput(in)
	if err != nil {
		return nil, err
	}
	uc.ID = id
	if err := s.useCases.Update(ctx, uc); err != nil {
		return nil, writeErr("Use case", "修改用例失败", err)
	}
	return uc, nil
}

// DeleteUseCase 级联删除该用例下的投票
func (s *AdminService) DeleteUseCase(ctx context.Context, id uint64) error {
	if err := s.useCases.Delete(ctx, id); err != nil {
		return writeErr("Use case", "删除用例失败", err)
	}
	s.logger.WithField("id", id).Info("删除用例")
	return nil
}

func useCaseFromInput(in UseCaseInput) (*model.UseCase, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if name == "" || slug == "" {
		return nil, invalid("Use case name and slug are required")
	}
	if strings.ContainsAny(slug, " /?#") {
		return nil, invalid("Invalid use case slug")
	}
	return &model.UseCase{Name: name, Slug: slug}, nil
}

// ---------- 基准 ----------

func (s *AdminService) ListBenchmarks(ctx context.Context) ([]*model.Benchmark, error) {
	list, err := s.benchmarks.List(ctx)
	if err != nil {
		return nil, storageErr("查询基准列表失败", err)
	}
	return list, nil
}

func (s *AdminService) CreateBenchmark(ctx context.Context, in BenchmarkInput) (*model.Benchmark, error) {
	b, err := benchmarkFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.benchmarks.Create(ctx, b); err != nil {
		return nil, writeErr("Benchmark", "新建基准失败", err)
	}
	s.logger.WithField("short_name", b.ShortName).Info("新建基准")
	return b, nil
}

func (s *AdminService) UpdateBenchmark(ctx context.Context, id uint64, in BenchmarkInput) (*model.Benchmark, error) {
	b, err := benchmarkFromInput(in)
	if err != nil {
		return nil, err
	}
	b.ID = id
	if err := s.benchmarks.Update(ctx, b); err != nil {
		return nil, writeErr("Benchmark", "修改基准失败", err)
	}
	return b, nil
}

// DeleteBenchmark 级联删除该基准的所有分数
func (s *AdminService) DeleteBenchmark(ctx context.Context, id uint64) error {
	if err := s.benchmarks.Delete(ctx, id); err != nil {
		return writeErr("Benchmark", "删除基准失败", err)
	}
	s.logger.WithField("id", id).Info("删除基准")
	return nil
}

func benchmarkFromInput(in BenchmarkInput) (*model.Benchmark, error) {
	name := strings.TrimSpace(in.Name)
	short := strings.TrimSpace(in.ShortName)
	if name == "" || short == "" {
		return nil, invalid("Benchmark name and short_name are required")
	}
	return &model.Benchmark{
		Name:        name,
		ShortName:   short,
		Description: trimPtr(in.Description),
		SourceURL:   trimPtr(in.SourceURL),
	}, nil
}

// ---------- 模型 ----------

func (s *AdminService) ListModels(ctx context.Context) ([]*model.LanguageModel, error) {
	list, err := s.models.ListAll(ctx)
	if err != nil {
		return nil, storageErr("查询模型列表失败", err)
	}
	return list, nil
}

// GetModel 返回模型及全部分数
func (s *AdminService) GetModel(ctx context.Context, id uint64) (*ModelDetail, error) {
	m, err := s.models.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("Model", "查询模型失败", err)
	}
	scores, err := s.models.ScoresForModels(ctx, []uint64{id})
	if err != nil {
		return nil, storageErr("查询基准分数失败", err)
	}
	detail := &ModelDetail{LanguageModel: m, Scores: scores[id]}
	if detail.Scores == nil {
		detail.Scores = []repository.ScoreView{}
	}
	return detail, nil
}

// CreateModel 新建模型和分数在同一事务内完成，任一步失败全部回滚
func (s *AdminService) CreateModel(ctx context.Context, in ModelInput) (*ModelDetail, error) {
	m, err := modelFromInput(in)
	if err != nil {
		return nil, err
	}
	changes, err := s.scoreChanges(ctx, in.Scores)
	if err != nil {
		return nil, err
	}
	if err := s.models.CreateWithScores(ctx, m, changes); err != nil {
		return nil, writeErr("Model", "新建模型失败", err)
	}
	s.logger.WithFields(logrus.Fields{"id": m.ID, "name": m.Name}).Info("新建模型")
	return s.GetModel(ctx, m.ID)
}

// UpdateModel 在一个事务内修改模型字段和分数，任一步失败全部回滚
func (s *AdminService) UpdateModel(ctx context.Context, id uint64, in ModelInput) (*ModelDetail, error) {
	m, err := modelFromInput(in)
	if err != nil {
		return nil, err
	}
	m.ID = id
	changes, err := s.scoreChanges(ctx, in.Scores)
	if err != nil {
		return nil, err
	}
	if err := s.models.UpdateWithScores(ctx, m, changes); err != nil {
		return nil, writeErr("Model", "修改模型失败", err)
	}
	return s.GetModel(ctx, id)
}

// DeleteModel 级联删除分数和投票
func (s *AdminService) DeleteModel(ctx context.Context, id uint64) error {
	if err := s.models.Delete(ctx, id); err != nil {
		return writeErr("Model", "删除模型失败", err)
	}
	s.logger.WithField("id", id).Info("删除模型")
	return nil
}

func modelFromInput(in ModelInput) (*model.LanguageModel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Model name is required")
	}
	return &model.LanguageModel{
		Name:            name,
		Provider:        trimPtr(in.Provider),
		HuggingfaceLink: trimPtr(in.HuggingfaceLink),
		KnowledgeCutoff: trimPtr(in.KnowledgeCutoff),
		IsOpenSource:    in.IsOpenSource,
		Availability:    trimPtr(in.Availability),
		Formats:         trimPtr(in.Formats),
	}, nil
}

// scoreChanges 校验分数引用的基准都存在，同一基准出现多次时以最后一次为准
func (s *AdminService) scoreChanges(ctx context.Context, scores []ScoreInput) ([]repository.ScoreChange, error) {
	if len(scores) == 0 {
		return nil, nil
	}
	index := make(map[uint64]int, len(scores))
	changes := make([]repository.ScoreChange, 0, len(scores))
	for _, sc := range scores {
		if sc.BenchmarkID == 0 {
			return nil, invalid("benchmark_id is required for every score")
		}
		c := repository.ScoreChange{BenchmarkID: sc.BenchmarkID, Score: sc.Score, ScoreLink: trimPtr(sc.ScoreLink)}
		if i, ok := index[sc.BenchmarkID]; ok {
			changes[i] = c
			continue
		}
		index[sc.BenchmarkID] = len(changes)
		changes = append(changes, c)
	}

	ids := make([]uint64, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	n, err := s.benchmarks.CountByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("校验基准失败", err)
	}
	if n != int64(len(ids)) {
		return nil, &NotFoundError{Resource: "Benchmark"}
	}
	return changes, nil
}

// ---------- 建议 ----------

func (s *AdminService) ListSuggestions(ctx context.Context) ([]*model.Suggestion, error) {
	list, err := s.suggestions.List(ctx)
	if err != nil {
		return nil, storageErr("查询建议列表失败", err)
	}
	return list, nil
}

// UpdateSuggestionStatus 审核建议：pending / approved / rejected
func (s *AdminService) UpdateSuggestionStatus(ctx context.Context, id uint64, status string) error {
	st := model.SuggestionStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return invalid("Invalid suggestion status")
	}
	if err := s.suggestions.UpdateStatus(ctx, id, st); err != nil {
		return writeErr("Suggestion", "修改建议状态失败", err)
	}
	s.logger.WithFields(logrus.Fields{"id": id, "status": st}).Info("建议已审核")
	return nil
}
