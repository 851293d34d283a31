package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
)

const (
	MaxSuggestionNameLen    = 150
	MaxSuggestionDetailsLen = 1000
)

// CatalogService 公开的用例/基准查询和建议提交
type CatalogService struct {
	useCases    repository.UseCaseRepository
	benchmarks  repository.BenchmarkRepository
	suggestions repository.SuggestionRepository
	policy      *bluemonday.Policy
	logger      *logrus.Logger
}

// NewCatalogService 创建 CatalogService
func NewCatalogService(useCases repository.UseCaseRepository, benchmarks repository.BenchmarkRepository, suggestions repository.SuggestionRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		useCases:    useCases,
		benchmarks:  benchmarks,
		suggestions: suggestions,
		policy:      bluemonday.StrictPolicy(),
		logger:      logger,
	}
}

// ListUseCases 按名称排序
func (s *CatalogService) ListUseCases(ctx context.Context) ([]*model.UseCase, error) {
	list, err := s.useCases.List(ctx)
	if err != nil {
		return nil, storageErr("查询用例列表失败", err)
	}
	return list, nil
}

// ListBenchmarks 按简称排序
func (s *CatalogService) ListBenchmarks(ctx context.Context) ([]*model.Benchmark, error) {
	list, err := s.benchmarks.List(ctx)
	if err != nil {
		return nil, storageErr("查询基准列表失败", err)
	}
	return list, nil
}

// SuggestionInput 提交建议的原始输入
type SuggestionInput struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

// SubmitSuggestion 校验、清洗 HTML 后保存为 pending
func (s *CatalogService) SubmitSuggestion(ctx context.Context, in SuggestionInput) (*model.Suggestion, error) {
	typ := model.SuggestionType(strings.TrimSpace(in.Type))
	name := strings.TrimSpace(in.Name)
	details := strings.TrimSpace(in.Details)

	if !typ.Valid() {
		return nil, invalid("Invalid suggestion type.")
	}
	if name == "" {
		if typ == model.SuggestionModel {
			return nil, invalid("Model name is required for model suggestions.")
		}
		return nil, invalid("Use case name is required for use case suggestions.")
	}
	if details == "" {
		return nil, invalid("Details/justification are required.")
	}

	// 清洗后再校验长度，清洗可能改变长度
	name = strings.TrimSpace(s.policy.Sanitize(name))
	details = strings.TrimSpace(s.policy.Sanitize(details))
	if name == "" || details == "" {
		return nil, invalid("Name and details must contain plain text.")
	}
	if utf8.RuneCountInString(name) > MaxSuggestionNameLen {
		return nil, invalid("Suggested name is too long (max %d chars).", MaxSuggestionNameLen)
	}
	if utf8.RuneCountInString(details) > MaxSuggestionDetailsLen {
		return nil, invalid("Details are too long (max %d chars).", MaxSuggestionDetailsLen)
	}

	sg := &model.Suggestion{
		Type:    typ,
		Name:    name,
		Details: details,
		Status:  model.SuggestionPending,
	}
	if err := s.suggestions.Create(ctx, sg); err != nil {
		return nil, storageErr("保存建议失败", err)
	}
	s.logger.WithFields(logrus.Fields{"id": sg.ID, "type": sg.Type}).Info("收到新建议")
	return sg, nil
}
