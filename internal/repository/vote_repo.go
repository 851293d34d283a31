package repository

import (
	"context"
	"fmt"

	"ModelBoard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository 投票聚合（账本）
type VoteRepository interface {
	// ApplyVote 在一个事务内：确保聚合行存在、锁行、按 delta 修改计数器（下限 0）、读回最新值
	ApplyVote(ctx context.Context, modelID, useCaseID uint64, delta model.VoteDelta) (*model.Vote, error)
	// Get 读取聚合，不存在时返回 0/0
	Get(ctx context.Context, modelID, useCaseID uint64) (*model.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository 创建 VoteRepository 实例
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) ApplyVote(ctx context.Context, modelID, useCaseID uint64, delta model.VoteDelta) (*model.Vote, error) {
	var result model.Vote
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 首次投票时创建 0/0 记录（幂等）
		row := &model.Vote{ModelID: modelID, UseCaseID: useCaseID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return fmt.Errorf("初始化投票记录失败: %w", err)
		}

		// 2. 行锁，同一 (模型, 用例) 的并发投票在此串行（sqlite 由单连接保证）
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("model_id = ? AND use_case_id = ?", modelID, useCaseID).
			First(&result).Error; err != nil {
			return fmt.Errorf("锁定投票记录失败: %w", err)
		}

		// 3. 计数器修改，单条 UPDATE 内完成读改写
		updates := map[string]interface{}{}
		addCounter(updates, "upvotes", delta.Upvotes)
		addCounter(updates, "downvotes", delta.Downvotes)
		if len(updates) > 0 {
			if err := tx.Model(&model.Vote{}).
				Where("model_id = ? AND use_case_id = ?", modelID, useCaseID).
				Updates(updates).Error; err != nil {
				return fmt.Errorf("更新投票计数失败: %w", err)
			}
		}

		// 4. 读回提交前的最终值
		if err := tx.Where("model_id = ? AND use_case_id = ?", modelID, useCaseID).First(&result).Error; err != nil {
			return fmt.Errorf("读取投票计数失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// column 只会是 upvotes / downvotes
func addCounter(updates map[string]interface{}, column string, n int) {
	switch {
	case n > 0:
		updates[column] = gorm.Expr(column+" + ?", n)
	case n < 0:
		updates[column] = gorm.Expr("CASE WHEN "+column+" > ? THEN "+column+" - ? ELSE 0 END", -n, -n)
	}
}

func (r *voteRepository) Get(ctx context.Context, modelID, useCaseID uint64) (*model.Vote, error) {
	var v model.Vote
	if err := r.db.WithContext(ctx).
		Where("model_id = ? AND use_case_id = ?", modelID, useCaseID).
		Limit(1).Find(&v).Error; err != nil {
		return nil, err
	}
	v.ModelID, v.UseCaseID = modelID, useCaseID
	return &v, nil
}
