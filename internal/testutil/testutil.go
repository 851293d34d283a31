package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"ModelBoard/internal/config"
	"ModelBoard/internal/database"
	"ModelBoard/internal/model"
	"ModelBoard/internal/seed"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// Logger 测试用日志器，输出丢弃
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetupTestDB 创建独立的内存 sqlite 库并完成迁移
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := database.Open(config.DatabaseConfig{Driver: database.DriverSQLite, DSN: dsn}, Logger())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SetupSeededDB 迁移并写入初始数据（use case "rag" 的 id 为 1，"Llama 3 70B Instruct" 的 id 为 4）
func SetupSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := SetupTestDB(t)
	if err := seed.Run(context.Background(), db, Logger()); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}

// CreateTestModel 写入一个模型
func CreateTestModel(t *testing.T, db *gorm.DB, name, provider, formats string) *model.LanguageModel {
	t.Helper()
	m := &model.LanguageModel{Name: name}
	if provider != "" {
		m.Provider = &provider
	}
	if formats != "" {
		m.Formats = &formats
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to create model %s: %v", name, err)
	}
	return m
}

// CreateTestUseCase 写入一个用例
func CreateTestUseCase(t *testing.T, db *gorm.DB, name, slug string) *model.UseCase {
	t.Helper()
	uc := &model.UseCase{Name: name, Slug: slug}
	if err := db.Create(uc).Error; err != nil {
		t.Fatalf("Failed to create use case %s: %v", slug, err)
	}
	return uc
}

// SetVotes 直接写入投票聚合
func SetVotes(t *testing.T, db *gorm.DB, modelID, useCaseID uint64, up, down int64) {
	t.Helper()
	v := &model.Vote{ModelID: modelID, UseCaseID: useCaseID, Upvotes: up, Downvotes: down}
	if err := db.Save(v).Error; err != nil {
		t.Fatalf("Failed to set votes: %v", err)
	}
}

// GetVotes 读取投票聚合，不存在返回 (0, 0)
func GetVotes(t *testing.T, db *gorm.DB, modelID, useCaseID uint64) (int64, int64) {
	t.Helper()
	var v model.Vote
	err := db.Where("model_id = ? AND use_case_id = ?", modelID, useCaseID).Limit(1).Find(&v).Error
	if err != nil {
		t.Fatalf("Failed to read votes: %v", err)
	}
	return v.Upvotes, v.Downvotes
}
