package service

import (
	"context"

	"ModelBoard/internal/metrics"
	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"
	"ModelBoard/internal/session"

	"github.com/sirupsen/logrus"
)

// VoteService 投票：先校验存在性，再提交账本事务，成功后才更新会话状态
type VoteService struct {
	useCases repository.UseCaseRepository
	models   repository.ModelRepository
	votes    repository.VoteRepository
	logger   *logrus.Logger
}

// NewVoteService 创建 VoteService
func NewVoteService(useCases repository.UseCaseRepository, models repository.ModelRepository, votes repository.VoteRepository, logger *logrus.Logger) *VoteService {
	return &VoteService{
		useCases: useCases,
		models:   models,
		votes:    votes,
		logger:   logger,
	}
}

// VoteResult 投票返回，计数为事务提交时的值
type VoteResult struct {
	Success       bool             `json:"success"`
	ModelID       uint64           `json:"modelId"`
	UseCase       string           `json:"useCase"`
	NewVoteStatus model.VoteStatus `json:"newVoteStatus"`
	Upvotes       int64            `json:"upvotes"`
	Downvotes     int64            `json:"downvotes"`
}

// Vote 对 (模型, 用例) 投 up/down；与会话里上次方向相同则撤销
func (s *VoteService) Vote(ctx context.Context, modelID uint64, useCaseSlug, direction string, tracker session.Tracker) (*VoteResult, error) {
	dir, ok := model.ParseDirection(direction)
	if !ok {
		return nil, invalid("Invalid vote direction")
	}

	// 1. 存在性校验，失败时不触碰计数
	useCase, err := s.useCases.GetBySlug(ctx, useCaseSlug)
	if err != nil {
		return nil, lookupErr("Use case", "查询用例失败", err)
	}
	if _, err := s.models.GetByID(ctx, modelID); err != nil {
		return nil, lookupErr("Model", "查询模型失败", err)
	}

	// 2. 计算切换结果并提交
	prior := tracker.Get(useCaseSlug, modelID)
	next, delta, action := model.ResolveVote(dir, prior)
	vote, err := s.votes.ApplyVote(ctx, modelID, useCase.ID, delta)
	if err != nil {
		metrics.VoteFailures.Inc()
		return nil, storageErr("投票事务失败", err)
	}
	metrics.VotesTotal.WithLabelValues(string(dir), string(action)).Inc()

	// 3. 事务已提交，再写会话；会话保存失败只记录日志
	if err := tracker.Set(useCaseSlug, modelID, next); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"model_id": modelID,
			"use_case": useCaseSlug,
		}).Warn("保存会话投票状态失败")
	}

	s.logger.WithFields(logrus.Fields{
		"model_id":  modelID,
		"use_case":  useCaseSlug,
		"direction": dir,
		"action":    action,
	}).Debug("vote applied")

	return &VoteResult{
		Success:       true,
		ModelID:       modelID,
		UseCase:       useCaseSlug,
		NewVoteStatus: next,
		Upvotes:       vote.Upvotes,
		Downvotes:     vote.Downvotes,
	}, nil
}
