package repository

import (
	"strings"
	"time"
)

// SortField 可排序字段（封闭枚举），每个值对应一段固定的 ORDER BY 表达式
type SortField string

const (
	SortByName            SortField = "name"
	SortByProvider        SortField = "provider"
	SortByKnowledgeCutoff SortField = "knowledge_cutoff"
	SortByIsOpenSource    SortField = "is_open_source"
	SortByAvailability    SortField = "availability"
	SortByScoreDiff       SortField = "score_diff"
	SortByLastUpdated     SortField = "last_updated"
)

// 文本字段按小写排序；score_diff 对没有投票记录的模型按 0 处理
var sortExpressions = map[SortField]string{
	SortByName:            "LOWER(m.name)",
	SortByProvider:        "LOWER(m.provider)",
	SortByKnowledgeCutoff: "LOWER(m.knowledge_cutoff)",
	SortByIsOpenSource:    "m.is_open_source",
	SortByAvailability:    "LOWER(m.availability)",
	SortByScoreDiff:       "(COALESCE(v.upvotes, 0) - COALESCE(v.downvotes, 0))",
	SortByLastUpdated:     "m.last_updated",
}

// ParseSortField 不在白名单内的值回退到 score_diff
func ParseSortField(s string) SortField {
	if _, ok := sortExpressions[SortField(s)]; ok {
		return SortField(s)
	}
	return SortByScoreDiff
}

// SortOrder 排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder 只识别 asc（不区分大小写），其余一律 desc
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, "asc") {
		return SortAsc
	}
	return SortDesc
}

// orderClause 固定片段拼接，不包含任何调用方传入的字符串；名称升序兜底保证结果稳定
func orderClause(field SortField, order SortOrder) string {
	expr, ok := sortExpressions[field]
	if !ok {
		expr = sortExpressions[SortByScoreDiff]
	}
	if order != SortAsc {
		order = SortDesc
	}
	return expr + " " + string(order) + ", m.name ASC"
}

// ListQuery 模型列表查询条件
type ListQuery struct {
	UseCaseID uint64
	Search    string
	SortBy    SortField
	Order     SortOrder
	Limit     int
	Offset    int
}

// ModelRow 列表中的一行：模型字段 + 指定用例下的投票聚合
type ModelRow struct {
	ID              uint64    `gorm:"column:id"`
	Name            string    `gorm:"column:name"`
	Provider        *string   `gorm:"column:provider"`
	HuggingfaceLink *string   `gorm:"column:huggingface_link"`
	KnowledgeCutoff *string   `gorm:"column:knowledge_cutoff"`
	IsOpenSource    bool      `gorm:"column:is_open_source"`
	Availability    *string   `gorm:"column:availability"`
	Formats         *string   `gorm:"column:formats"`
	LastUpdated     time.Time `gorm:"column:last_updated"`
	Upvotes         int64     `gorm:"column:upvotes"`
	Downvotes       int64     `gorm:"column:downvotes"`
}

// ScoreView 某模型的一条基准分数，带基准名称和来源
type ScoreView struct {
	ModelID            uint64   `gorm:"column:model_id" json:"-"`
	BenchmarkID        uint64   `gorm:"column:benchmark_id" json:"benchmark_id"`
	BenchmarkShortName string   `gorm:"column:benchmark_short_name" json:"benchmark_short_name"`
	BenchmarkName      string   `gorm:"column:benchmark_name" json:"benchmark_name"`
	BenchmarkSourceURL *string  `gorm:"column:benchmark_source_url" json:"benchmark_source_url"`
	Score              *float64 `gorm:"column:score" json:"score"`
	ScoreLink          *string  `gorm:"column:score_link" json:"score_link"`
}

// likePattern 小写并转义 LIKE 通配符，按子串匹配
func likePattern(term string) string {
	esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + esc.Replace(strings.ToLower(term)) + "%"
}

const searchClause = `(LOWER(m.name) LIKE ? ESCAPE '\' OR LOWER(m.provider) LIKE ? ESCAPE '\' OR LOWER(m.formats) LIKE ? ESCAPE '\')`
