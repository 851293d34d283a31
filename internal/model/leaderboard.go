package model

import "time"

// LanguageModel 对应 models 表，榜单上的一个语言模型
type LanguageModel struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Name            string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null;comment:模型名称" json:"name"`
	Provider        *string   `gorm:"column:provider;type:varchar(255);comment:提供方" json:"provider"`
	HuggingfaceLink *string   `gorm:"column:huggingface_link;type:varchar(512);comment:外部链接" json:"huggingface_link"`
	KnowledgeCutoff *string   `gorm:"column:knowledge_cutoff;type:varchar(64);comment:知识截止时间" json:"knowledge_cutoff"`
	IsOpenSource    bool      `gorm:"column:is_open_source;default:false;comment:是否开源" json:"is_open_source"`
	Availability    *string   `gorm:"column:availability;type:varchar(255);comment:获取方式，如 API, Download" json:"availability"`
	Formats         *string   `gorm:"column:formats;type:varchar(255);comment:逗号分隔的格式，如 GGUF,AWQ" json:"formats"`
	LastUpdated     time.Time `gorm:"column:last_updated;autoUpdateTime;comment:最后修改时间" json:"last_updated"`
}

// UseCase 对应 use_cases 表，slug 用作 URL 中的外部键
type UseCase struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"column:slug;type:varchar(128);uniqueIndex;not null" json:"slug"`
}

// Benchmark 对应 benchmarks 表
type Benchmark struct {
	ID          uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"column:name;type:varchar(255);uniqueIndex;not null;comment:完整名称" json:"name"`
	ShortName   string  `gorm:"column:short_name;type:varchar(64);uniqueIndex;not null;comment:表头展示名" json:"short_name"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	SourceURL   *string `gorm:"column:source_url;type:varchar(512)" json:"source_url"`
}

// BenchmarkScore 模型在某个基准上的分数，(model_id, benchmark_id) 唯一
type BenchmarkScore struct {
	ModelID     uint64   `gorm:"column:model_id;primaryKey;autoIncrement:false" json:"model_id"`
	BenchmarkID uint64   `gorm:"column:benchmark_id;primaryKey;autoIncrement:false" json:"benchmark_id"`
	Score       *float64 `gorm:"column:score" json:"score"`
	ScoreLink   *string  `gorm:"column:score_link;type:varchar(512);comment:该分数的来源链接" json:"score_link"`

	LanguageModel *LanguageModel `gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE" json:"-"`
	Benchmark     *Benchmark     `gorm:"foreignKey:BenchmarkID;constraint:OnDelete:CASCADE" json:"-"`
}

// Vote 每个 (模型, 用例) 一条的投票聚合，首次投票时才创建
type Vote struct {
	ModelID   uint64 `gorm:"column:model_id;primaryKey;autoIncrement:false" json:"model_id"`
	UseCaseID uint64 `gorm:"column:use_case_id;primaryKey;autoIncrement:false" json:"use_case_id"`
	Upvotes   int64  `gorm:"column:upvotes;not null;default:0" json:"upvotes"`
	Downvotes int64  `gorm:"column:downvotes;not null;default:0" json:"downvotes"`

	LanguageModel *LanguageModel `gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE" json:"-"`
	UseCase       *UseCase       `gorm:"foreignKey:UseCaseID;constraint:OnDelete:CASCADE" json:"-"`
}

// SuggestionType 建议类型
type SuggestionType string

const (
	SuggestionModel   SuggestionType = "model"
	SuggestionUseCase SuggestionType = "use_case"
)

// Valid 是否为合法的建议类型
func (t SuggestionType) Valid() bool {
	return t == SuggestionModel || t == SuggestionUseCase
}

// SuggestionStatus 建议审核状态
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Valid 是否为合法的审核状态
func (s SuggestionStatus) Valid() bool {
	switch s {
	case SuggestionPending, SuggestionApproved, SuggestionRejected:
		return true
	}
	return false
}

// Suggestion 访客提交的新模型/新用例建议
type Suggestion struct {
	ID          uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Type        SuggestionType   `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Name        string           `gorm:"column:name;type:varchar(255)" json:"name"`
	Details     string           `gorm:"column:details;type:text" json:"details"`
	SubmittedAt time.Time        `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
	Status      SuggestionStatus `gorm:"column:status;type:varchar(16);default:pending" json:"status"`
}

func (LanguageModel) TableName() string  { return "models" }
func (UseCase) TableName() string        { return "use_cases" }
func (Benchmark) TableName() string      { return "benchmarks" }
func (BenchmarkScore) TableName() string { return "benchmark_scores" }
func (Vote) TableName() string           { return "votes" }
func (Suggestion) TableName() string     { return "suggestions" }

// AllTables 按依赖顺序返回需要迁移的表
func AllTables() []interface{} {
	return []interface{}{
		&LanguageModel{},
		&UseCase{},
		&Benchmark{},
		&BenchmarkScore{},
		&Vote{},
		&Suggestion{},
	}
}
