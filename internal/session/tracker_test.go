package session

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"ModelBoard/internal/config"
	"ModelBoard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker(t *testing.T) {
	tr := NewMemoryTracker()
	assert.Equal(t, model.VoteNone, tr.Get("rag", 4))

	require.NoError(t, tr.Set("rag", 4, model.VoteUp))
	assert.Equal(t, model.VoteUp, tr.Get("rag", 4))
	assert.Equal(t, model.VoteNone, tr.Get("web-dev", 4))
	assert.Equal(t, model.VoteNone, tr.Get("rag", 5))

	require.NoError(t, tr.Set("rag", 4, model.VoteNone))
	assert.Equal(t, model.VoteNone, tr.Get("rag", 4))
}

func newSessionEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(config.SessionConfig{
		Secret:     "test-secret",
		CookieName: "test_session",
		MaxAge:     24 * time.Hour,
	}))
	r.POST("/set/:status", func(c *gin.Context) {
		if err := FromContext(c).Set("rag", 4, model.ParseVoteStatus(c.Param("status"))); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		c.String(http.StatusOK, string(FromContext(c).Get("rag", 4)))
	})
	return r
}

func TestStore_PersistsAcrossRequests(t *testing.T) {
	r := newSessionEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/set/down", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "down", w.Body.String())

	// 其他会话看不到
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get", nil))
	assert.Equal(t, "", w.Body.String())
}

func TestStore_NoneRemovesEntry(t *testing.T) {
	r := newSessionEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/set/up", nil))
	cookies := w.Result().Cookies()

	req := httptest.NewRequest(http.MethodPost, "/set/none", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	cookies = w.Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "", w.Body.String())
}

func TestStore_ManyVotesKeepCookieSmall(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(config.SessionConfig{Secret: "test-secret", CookieName: "test_session", MaxAge: time.Hour}))
	r.POST("/vote/:slug/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		if err := FromContext(c).Set(c.Param("slug"), id, model.VoteUp); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/get/:slug/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		c.String(http.StatusOK, string(FromContext(c).Get(c.Param("slug"), id)))
	})

	var cookies []*http.Cookie
	send := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if cks := w.Result().Cookies(); len(cks) > 0 {
			cookies = cks
		}
		return w
	}

	for _, slug := range []string{"rag", "web-dev", "general-coding", "reasoning", "knowledge-qa"} {
		for id := 1; id <= 40; id++ {
			w := send(http.MethodPost, "/vote/"+slug+"/"+strconv.Itoa(id))
			require.Equal(t, http.StatusNoContent, w.Code, "%s/%d", slug, id)
		}
	}
	require.NotEmpty(t, cookies)
	for _, ck := range cookies {
		assert.Less(t, len(ck.String()), 512)
	}

	assert.Equal(t, "up", send(http.MethodGet, "/get/rag/1").Body.String())
	assert.Equal(t, "up", send(http.MethodGet, "/get/knowledge-qa/40").Body.String())
}
