package seed

import (
	"context"
	"fmt"

	"ModelBoard/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func str(s string) *string { return &s }

// UseCases 初始用例
var UseCases = []model.UseCase{
	{Name: "RAG", Slug: "rag"},
	{Name: "Web Dev", Slug: "web-dev"},
	{Name: "General Coding", Slug: "general-coding"},
	{Name: "Reasoning", Slug: "reasoning"},
	{Name: "Knowledge Q&A", Slug: "knowledge-qa"},
}

// Benchmarks 初始基准
var Benchmarks = []model.Benchmark{
	{Name: "MMLU Pro", ShortName: "MMLU Pro", Description: str("Expert-level multi-task accuracy benchmark"), SourceURL: str("https://arxiv.org/abs/2406.01574")},
	{Name: "LiveCodeBench", ShortName: "LCB", Description: str("Holistic and Contamination Free Evaluation of Large Language Models for Code"), SourceURL: str("https://livecodebench.github.io/leaderboard.html")},
	{Name: "GPQA Diamond", ShortName: "GPQA", Description: str("Graduate-Level Google-Proof Q&A Benchmark"), SourceURL: str("https://github.com/idavidrein/gpqa")},
	{Name: "HumanEval+", ShortName: "HumanEval+", Description: str("Code generation benchmark (extended)"), SourceURL: str("https://github.com/evalplus/evalplus")},
	{Name: "LiveBench QA", ShortName: "LiveBench", Description: str("Real-time, evolving question answering"), SourceURL: str("https://github.com/livebench/livebench")},
	{Name: "Arena Elo", ShortName: "Arena Elo", Description: str("Chatbot Arena Elo rating based on human preference"), SourceURL: str("https://chat.lmsys.org/")},
}

// Models 初始模型，顺序决定自增 ID
var Models = []model.LanguageModel{
	{Name: "GPT-4 Turbo", Provider: str("OpenAI"), KnowledgeCutoff: str("2023-12"), Availability: str("API")},
	{Name: "Claude 3 Opus", Provider: str("Anthropic"), KnowledgeCutoff: str("2023-08"), Availability: str("API")},
	{Name: "Gemini 1.5 Pro", Provider: str("Google"), KnowledgeCutoff: str("2023-11"), Availability: str("API")},
	{Name: "Llama 3 70B Instruct", Provider: str("Meta"), HuggingfaceLink: str("https://huggingface.co/meta-llama/Meta-Llama-3-70B-Instruct"), KnowledgeCutoff: str("2023-03"), IsOpenSource: true, Availability: str("Download, API Providers"), Formats: str("Original,GGUF,AWQ,GPTQ")},
	{Name: "Mixtral 8x7B Instruct", Provider: str("Mistral AI"), HuggingfaceLink: str("https://huggingface.co/mistralai/Mixtral-8x7B-Instruct-v0.1"), KnowledgeCutoff: str("Early 2023"), IsOpenSource: true, Availability: str("Download, API"), Formats: str("Original,GGUF,AWQ")},
	{Name: "Command R+", Provider: str("Cohere"), KnowledgeCutoff: str("2023-08"), Availability: str("API")},
	{Name: "DBRX Instruct", Provider: str("Databricks"), HuggingfaceLink: str("https://huggingface.co/databricks/dbrx-instruct"), KnowledgeCutoff: str("2023-12"), IsOpenSource: true, Availability: str("Download"), Formats: str("Original,GGUF")},
}

// Run 幂等写入初始数据：已存在（唯一键冲突）的记录跳过
func Run(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Session 让每次 Create 使用新的 Statement，避免表名沿用到下一张表
		ignore := tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})
		for i := range UseCases {
			uc := UseCases[i]
			if err := ignore.Create(&uc).Error; err != nil {
				return fmt.Errorf("写入用例失败 %s: %w", uc.Slug, err)
			}
		}
		logger.Info("Use cases seeded")

		for i := range Benchmarks {
			b := Benchmarks[i]
			if err := ignore.Create(&b).Error; err != nil {
				return fmt.Errorf("写入基准失败 %s: %w", b.ShortName, err)
			}
		}
		logger.Info("Benchmarks seeded")

		for i := range Models {
			m := Models[i]
			if err := ignore.Create(&m).Error; err != nil {
				return fmt.Errorf("写入模型失败 %s: %w", m.Name, err)
			}
		}
		logger.Info("Models seeded")

		return seedScores(tx, logger)
	})
}

func seedScores(tx *gorm.DB, logger *logrus.Logger) error {
	scores := []struct {
		model, bench string
		score        float64
	}{
		{"GPT-4 Turbo", "MMLU Pro", 86.9},
	}
	for _, s := range scores {
		var m model.LanguageModel
		var b model.Benchmark
		if err := tx.Where("name = ?", s.model).First(&m).Error; err != nil {
			logger.WithField("model", s.model).Warn("跳过分数初始化：模型不存在")
			continue
		}
		if err := tx.Where("short_name = ?", s.bench).First(&b).Error; err != nil {
			logger.WithField("benchmark", s.bench).Warn("跳过分数初始化：基准不存在")
			continue
		}
		score := s.score
		row := &model.BenchmarkScore{ModelID: m.ID, BenchmarkID: b.ID, Score: &score}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return fmt.Errorf("写入分数失败: %w", err)
		}
	}
	logger.Info("Benchmark scores seeded")
	return nil
}
