package service

import (
	"context"
	"errors"
	"testing"

	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"
	"ModelBoard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) *AdminService {
	return NewAdminService(
		repository.NewUseCaseRepository(db),
		repository.NewBenchmarkRepository(db),
		repository.NewModelRepository(db),
		repository.NewSuggestionRepository(db),
		testutil.Logger(),
	)
}

func ptr[T any](v T) *T { return &v }

func TestAdmin_UseCaseCRUD(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	uc, err := svc.CreateUseCase(ctx, UseCaseInput{Name: " Agents ", Slug: "Agents"})
	require.NoError(t, err)
	assert.Equal(t, "Agents", uc.Name)
	assert.Equal(t, "agents", uc.Slug)

	_, err = svc.CreateUseCase(ctx, UseCaseInput{Name: "Another RAG", Slug: "rag"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Use case already exists", ve.Message)

	_, err = svc.CreateUseCase(ctx, UseCaseInput{Name: "Bad", Slug: "a/b"})
	require.ErrorAs(t, err, &ve)

	updated, err := svc.UpdateUseCase(ctx, uc.ID, UseCaseInput{Name: "Agentic Workflows", Slug: "agents"})
	require.NoError(t, err)
	assert.Equal(t, "Agentic Workflows", updated.Name)

	_, err = svc.UpdateUseCase(ctx, 999, UseCaseInput{Name: "x", Slug: "x"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	// 删除用例时级联删除投票
	testutil.SetVotes(t, db, 1, uc.ID, 3, 1)
	require.NoError(t, svc.DeleteUseCase(ctx, uc.ID))
	up, down := testutil.GetVotes(t, db, 1, uc.ID)
	assert.Zero(t, up)
	assert.Zero(t, down)

	require.ErrorAs(t, svc.DeleteUseCase(ctx, uc.ID), &nf)
}

func TestAdmin_BenchmarkCRUD(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	b, err := svc.CreateBenchmark(ctx, BenchmarkInput{Name: "SWE-bench Verified", ShortName: "SWE-bench", SourceURL: ptr("https://www.swebench.com")})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	_, err = svc.CreateBenchmark(ctx, BenchmarkInput{Name: "Duplicate", ShortName: "LCB"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.UpdateBenchmark(ctx, b.ID, BenchmarkInput{Name: "SWE-bench Verified", ShortName: "SWE-V", Description: ptr("  ")})
	require.NoError(t, err)
	var stored model.Benchmark
	require.NoError(t, db.First(&stored, b.ID).Error)
	assert.Equal(t, "SWE-V", stored.ShortName)
	assert.Nil(t, stored.Description)
	assert.Nil(t, stored.SourceURL)

	require.NoError(t, svc.DeleteBenchmark(ctx, b.ID))
	var nf *NotFoundError
	require.ErrorAs(t, svc.DeleteBenchmark(ctx, b.ID), &nf)
}

func TestAdmin_CreateModelWithScores(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	detail, err := svc.CreateModel(ctx, ModelInput{
		Name:         "Qwen 2 72B",
		Provider:     ptr("Alibaba"),
		IsOpenSource: true,
		Formats:      ptr("Original,GGUF"),
		Scores: []ScoreInput{
			{BenchmarkID: 1, Score: ptr(64.4)},
			{BenchmarkID: 3, Score: ptr(42.4), ScoreLink: ptr("https://example.com/gpqa")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Qwen 2 72B", detail.Name)
	require.Len(t, detail.Scores, 2)

	_, err = svc.CreateModel(ctx, ModelInput{Name: "GPT-4 Turbo"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Model already exists", ve.Message)
}

func TestAdmin_CreateModelScoreFailureLeavesNoModel(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	// 分数写入失败：模型行必须一起回滚
	const hook = "test:fail_benchmark_scores"
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(hook, func(tx *gorm.DB) {
		if tx.Statement.Table == "benchmark_scores" {
			_ = tx.AddError(errors.New("score write failed"))
		}
	}))
	in := ModelInput{
		Name:   "Phi-3 Medium",
		Scores: []ScoreInput{{BenchmarkID: 1, Score: ptr(55.0)}},
	}
	_, err := svc.CreateModel(ctx, in)
	var se *StorageError
	require.ErrorAs(t, err, &se)

	var count int64
	require.NoError(t, db.Model(&model.LanguageModel{}).Where("name = ?", "Phi-3 Medium").Count(&count).Error)
	assert.Zero(t, count)

	// 去掉故障后重试成功，不会报 already exists
	require.NoError(t, db.Callback().Create().Remove(hook))
	detail, err := svc.CreateModel(ctx, in)
	require.NoError(t, err)
	require.Len(t, detail.Scores, 1)
}

func TestAdmin_UpdateModelScores(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	before, err := svc.GetModel(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, before.Scores)

	// null 分数删除，其他 upsert
	detail, err := svc.UpdateModel(ctx, 1, ModelInput{
		Name:     "GPT-4 Turbo",
		Provider: ptr("OpenAI"),
		Scores: []ScoreInput{
			{BenchmarkID: before.Scores[0].BenchmarkID, Score: nil},
			{BenchmarkID: 6, Score: ptr(1250.0)},
		},
	})
	require.NoError(t, err)
	require.Len(t, detail.Scores, 1)
	assert.Equal(t, uint64(6), detail.Scores[0].BenchmarkID)
	require.NotNil(t, detail.Scores[0].Score)
	assert.InDelta(t, 1250, *detail.Scores[0].Score, 0.001)
	assert.NotNil(t, detail.Scores)
}

func TestAdmin_UpdateModelUnknownBenchmarkLeavesModelUntouched(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	_, err := svc.UpdateModel(ctx, 2, ModelInput{
		Name:   "Renamed",
		Scores: []ScoreInput{{BenchmarkID: 999, Score: ptr(1.0)}},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Benchmark not found", nf.Error())

	m, err := svc.GetModel(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Claude 3 Opus", m.Name)

	_, err = svc.UpdateModel(ctx, 999, ModelInput{Name: "Ghost"})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Model not found", nf.Error())
}

func TestAdmin_DeleteModel(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	testutil.SetVotes(t, db, 7, 1, 1, 1)
	require.NoError(t, svc.DeleteModel(ctx, 7))

	_, err := svc.GetModel(ctx, 7)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.ErrorAs(t, svc.DeleteModel(ctx, 7), &nf)
}

func TestAdmin_SuggestionReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAdminService(db)
	catalog := newCatalogService(db)
	ctx := context.Background()

	sg, err := catalog.SubmitSuggestion(ctx, SuggestionInput{Type: "use_case", Name: "Agents", Details: "Tool use"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSuggestionStatus(ctx, sg.ID, "Approved"))
	list, err := svc.ListSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.SuggestionApproved, list[0].Status)

	var ve *ValidationError
	require.ErrorAs(t, svc.UpdateSuggestionStatus(ctx, sg.ID, "merged"), &ve)
	var nf *NotFoundError
	require.ErrorAs(t, svc.UpdateSuggestionStatus(ctx, 999, "rejected"), &nf)
}
