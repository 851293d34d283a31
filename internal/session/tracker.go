package session

import (
	"net/http"
	"strconv"
	"sync"

	"ModelBoard/internal/config"
	"ModelBoard/internal/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
)

// Tracker 单个会话内的投票状态：(用例, 模型) -> up/down/未投票。
// 只用于撤销判断和列表展示，计数以数据库为准。
type Tracker interface {
	Get(useCaseSlug string, modelID uint64) model.VoteStatus
	// Set 写入新状态，VoteNone 表示删除
	Set(useCaseSlug string, modelID uint64, status model.VoteStatus) error
}

func voteKey(useCaseSlug string, modelID uint64) string {
	return "vote:" + useCaseSlug + ":" + strconv.FormatUint(modelID, 10)
}

// Middleware 注册服务端内存会话，cookie 只携带签名后的会话 ID，过期时间取 cfg.MaxAge。
// 投票条目随投票数增长，不能放进 cookie（4KB 上限）。
func Middleware(cfg config.SessionConfig) gin.HandlerFunc {
	store := memstore.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.CookieName, store)
}

// Store 基于 gin-contrib/sessions 的 Tracker，需要先挂载 Middleware
type Store struct {
	sess sessions.Session
}

// FromContext 取当前请求的会话
func FromContext(c *gin.Context) *Store {
	return &Store{sess: sessions.Default(c)}
}

func (s *Store) Get(useCaseSlug string, modelID uint64) model.VoteStatus {
	v, _ := s.sess.Get(voteKey(useCaseSlug, modelID)).(string)
	return model.ParseVoteStatus(v)
}

func (s *Store) Set(useCaseSlug string, modelID uint64, status model.VoteStatus) error {
	key := voteKey(useCaseSlug, modelID)
	if status == model.VoteNone {
		s.sess.Delete(key)
	} else {
		s.sess.Set(key, string(status))
	}
	return s.sess.Save()
}

// MemoryTracker 进程内 Tracker，供非 HTTP 调用方和测试使用
type MemoryTracker struct {
	mu    sync.RWMutex
	votes map[string]model.VoteStatus
}

// NewMemoryTracker 创建空的 MemoryTracker
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{votes: make(map[string]model.VoteStatus)}
}

func (m *MemoryTracker) Get(useCaseSlug string, modelID uint64) model.VoteStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.votes[voteKey(useCaseSlug, modelID)]
}

func (m *MemoryTracker) Set(useCaseSlug string, modelID uint64, status model.VoteStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := voteKey(useCaseSlug, modelID)
	if status == model.VoteNone {
		delete(m.votes, key)
		return nil
	}
	m.votes[key] = status
	return nil
}
