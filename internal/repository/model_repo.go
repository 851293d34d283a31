package repository

import (
	"context"
	"time"

	"ModelBoard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreChange 编辑模型时对单个基准分数的修改，Score 为 nil 表示删除
type ScoreChange struct {
	BenchmarkID uint64
	Score       *float64
	ScoreLink   *string
}

// ModelRepository 模型查询与维护
type ModelRepository interface {
	// ListModels 按搜索/排序/分页查询模型，并 LEFT JOIN 指定用例的投票聚合
	ListModels(ctx context.Context, q ListQuery) ([]*ModelRow, error)
	// CountModels 符合搜索条件的模型总数（与用例无关）
	CountModels(ctx context.Context, search string) (int64, error)
	// ScoresForModels 批量查询模型的基准分数，按 model_id 分组
	ScoresForModels(ctx context.Context, modelIDs []uint64) (map[uint64][]ScoreView, error)
	GetByID(ctx context.Context, id uint64) (*model.LanguageModel, error)
	ListAll(ctx context.Context) ([]*model.LanguageModel, error)
	// CreateWithScores 在一个事务内新建模型并写入分数，分数失败时模型也不落库
	CreateWithScores(ctx context.Context, m *model.LanguageModel, scores []ScoreChange) error
	// UpdateWithScores 在一个事务内更新模型字段并 upsert/删除分数
	UpdateWithScores(ctx context.Context, m *model.LanguageModel, scores []ScoreChange) error
	Delete(ctx context.Context, id uint64) error
}

type modelRepository struct {
	db *gorm.DB
}

// NewModelRepository 创建 ModelRepository 实例
func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

const listColumns = `m.id, m.name, m.provider, m.huggingface_link, m.knowledge_cutoff,
	m.is_open_source, m.availability, m.formats, m.last_updated,
	COALESCE(v.upvotes, 0) AS upvotes, COALESCE(v.downvotes, 0) AS downvotes`

func (r *modelRepository) ListModels(ctx context.Context, q ListQuery) ([]*ModelRow, error) {
	p := likePattern(q.Search)
	rows := make([]*ModelRow, 0, q.Limit)
	err := r.db.WithContext(ctx).
		Table("models AS m").
		Select(listColumns).
		Joins("LEFT JOIN votes v ON v.model_id = m.id AND v.use_case_id = ?", q.UseCaseID).
		Where(searchClause, p, p, p).
		Order(orderClause(q.SortBy, q.Order)).
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *modelRepository) CountModels(ctx context.Context, search string) (int64, error) {
	p := likePattern(search)
	var total int64
	if err := r.db.WithContext(ctx).
		Table("models AS m").
		Where(searchClause, p, p, p).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *modelRepository) ScoresForModels(ctx context.Context, modelIDs []uint64) (map[uint64][]ScoreView, error) {
	grouped := make(map[uint64][]ScoreView, len(modelIDs))
	if len(modelIDs) == 0 {
		return grouped, nil
	}
	var rows []ScoreView
	if err := r.db.WithContext(ctx).
		Table("benchmark_scores AS bs").
		Select(`bs.model_id, bs.score, bs.score_link,
			b.id AS benchmark_id, b.short_name AS benchmark_short_name,
			b.name AS benchmark_name, b.source_url AS benchmark_source_url`).
		Joins("JOIN benchmarks b ON b.id = bs.benchmark_id").
		Where("bs.model_id IN ?", modelIDs).
		Order("bs.model_id, b.short_name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.ModelID] = append(grouped[row.ModelID], row)
	}
	return grouped, nil
}

func (r *modelRepository) GetByID(ctx context.Context, id uint64) (*model.LanguageModel, error) {
	var m model.LanguageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *modelRepository) ListAll(ctx context.Context) ([]*model.LanguageModel, error) {
	list := []*model.LanguageModel{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *modelRepository) CreateWithScores(ctx context.Context, m *model.LanguageModel, scores []ScoreChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return applyScores(tx, m.ID, scores)
	})
}

func (r *modelRepository) UpdateWithScores(ctx context.Context, m *model.LanguageModel, scores []ScoreChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m.LastUpdated = time.Now()
		res := tx.Model(&model.LanguageModel{ID: m.ID}).
			Select("name", "provider", "huggingface_link", "knowledge_cutoff", "is_open_source", "availability", "formats", "last_updated").
			Updates(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return applyScores(tx, m.ID, scores)
	})
}

// applyScores upsert 分数，Score 为 nil 的删除，须在事务内调用
func applyScores(tx *gorm.DB, modelID uint64, scores []ScoreChange) error {
	for _, s := range scores {
		if s.Score == nil {
			if err := tx.Where("model_id = ? AND benchmark_id = ?", modelID, s.BenchmarkID).
				Delete(&model.BenchmarkScore{}).Error; err != nil {
				return err
			}
			continue
		}
		row := &model.BenchmarkScore{ModelID: modelID, BenchmarkID: s.BenchmarkID, Score: s.Score, ScoreLink: s.ScoreLink}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model_id"}, {Name: "benchmark_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "score_link"}),
		}).Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *modelRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.LanguageModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
