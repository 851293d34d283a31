package repository

import (
	"context"

	"ModelBoard/internal/model"

	"gorm.io/gorm"
)

// UseCaseRepository 用例仓储
type UseCaseRepository interface {
	List(ctx context.Context) ([]*model.UseCase, error)
	GetBySlug(ctx context.Context, slug string) (*model.UseCase, error)
	Create(ctx context.Context, uc *model.UseCase) error
	Update(ctx context.Context, uc *model.UseCase) error
	Delete(ctx context.Context, id uint64) error
}

// BenchmarkRepository 基准仓储
type BenchmarkRepository interface {
	List(ctx context.Context) ([]*model.Benchmark, error)
	// CountByIDs 统计给定 id 中实际存在的基准数量
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
	Create(ctx context.Context, b *model.Benchmark) error
	Update(ctx context.Context, b *model.Benchmark) error
	Delete(ctx context.Context, id uint64) error
}

// SuggestionRepository 建议仓储
type SuggestionRepository interface {
	Create(ctx context.Context, s *model.Suggestion) error
	List(ctx context.Context) ([]*model.Suggestion, error)
	UpdateStatus(ctx context.Context, id uint64, status model.SuggestionStatus) error
}

type useCaseRepository struct {
	db *gorm.DB
}

type benchmarkRepository struct {
	db *gorm.DB
}

type suggestionRepository struct {
	db *gorm.DB
}

// NewUseCaseRepository 创建 UseCaseRepository 实例
func NewUseCaseRepository(db *gorm.DB) UseCaseRepository {
	return &useCaseRepository{db: db}
}

// NewBenchmarkRepository 创建 BenchmarkRepository 实例
func NewBenchmarkRepository(db *gorm.DB) BenchmarkRepository {
	return &benchmarkRepository{db: db}
}

// NewSuggestionRepository 创建 SuggestionRepository 实例
func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *useCaseRepository) List(ctx context.Context) ([]*model.UseCase, error) {
	list := []*model.UseCase{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *useCaseRepository) GetBySlug(ctx context.Context, slug string) (*model.UseCase, error) {
	var uc model.UseCase
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&uc).Error; err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *useCaseRepository) Create(ctx context.Context, uc *model.UseCase) error {
	return r.db.WithContext(ctx).Create(uc).Error
}

func (r *useCaseRepository) Update(ctx context.Context, uc *model.UseCase) error {
	return updateByID(r.db.WithContext(ctx), &model.UseCase{}, uc.ID, map[string]interface{}{
		"name": uc.Name,
		"slug": uc.Slug,
	})
}

func (r *useCaseRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(r.db.WithContext(ctx), &model.UseCase{}, id)
}

func (r *benchmarkRepository) List(ctx context.Context) ([]*model.Benchmark, error) {
	list := []*model.Benchmark{}
	if err := r.db.WithContext(ctx).Order("short_name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *benchmarkRepository) CountByIDs(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Benchmark{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *benchmarkRepository) Create(ctx context.Context, b *model.Benchmark) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *benchmarkRepository) Update(ctx context.Context, b *model.Benchmark) error {
	return updateByID(r.db.WithContext(ctx), &model.Benchmark{}, b.ID, map[string]interface{}{
		"name":        b.Name,
		"short_name":  b.ShortName,
		"description": b.Description,
		"source_url":  b.SourceURL,
	})
}

func (r *benchmarkRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(r.db.WithContext(ctx), &model.Benchmark{}, id)
}

func (r *suggestionRepository) Create(ctx context.Context, s *model.Suggestion) error {
	if s.Status == "" {
		s.Status = model.SuggestionPending
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *suggestionRepository) List(ctx context.Context) ([]*model.Suggestion, error) {
	list := []*model.Suggestion{}
	if err := r.db.WithContext(ctx).Order("submitted_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *suggestionRepository) UpdateStatus(ctx context.Context, id uint64, status model.SuggestionStatus) error {
	return updateByID(r.db.WithContext(ctx), &model.Suggestion{}, id, map[string]interface{}{"status": status})
}

// updateByID 未命中任何行时返回 gorm.ErrRecordNotFound
func updateByID(db *gorm.DB, table interface{}, id uint64, values map[string]interface{}) error {
	res := db.Model(table).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteByID(db *gorm.DB, table interface{}, id uint64) error {
	res := db.Delete(table, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
