package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"ModelBoard/internal/config"
	"ModelBoard/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminDo(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth("admin", "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdmin_RequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/models", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/models", nil)
	req.SetBasicAuth("admin", "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = adminDo(t, r, http.MethodGet, "/admin/api/models", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_DisabledWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Admin = config.AdminConfig{}
	r := NewRouter(testutil.SetupSeededDB(t), testutil.Logger(), cfg)

	w := adminDo(t, r, http.MethodGet, "/admin/api/models", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_UseCaseLifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	w := adminDo(t, r, http.MethodPost, "/admin/api/usecases", `{"name":"Agents","slug":"agents"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"]

	w = adminDo(t, r, http.MethodPost, "/admin/api/usecases", `{"name":"RAG again","slug":"rag"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Use case already exists", decode(t, w)["error"])

	w = adminDo(t, r, http.MethodPost, "/admin/api/usecases", `{"name":"No slug"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "slug is required", decode(t, w)["error"])

	// 新用例立即可用于列表和投票
	c := &client{r: r}
	w = c.do(t, http.MethodPost, "/api/vote/2/agents/up", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = adminDo(t, r, http.MethodDelete, "/admin/api/usecases/"+jsonID(id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(t, http.MethodGet, "/api/models?use_case_slug=agents", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = adminDo(t, r, http.MethodDelete, "/admin/api/usecases/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_ModelUpdateWithScores(t *testing.T) {
	r, _ := setupRouter(t)

	body := `{
		"name": "Llama 3 70B Instruct",
		"provider": "Meta",
		"is_open_source": true,
		"formats": "Original,GGUF,AWQ,GPTQ,EXL2",
		"scores": [
			{"benchmark_id": 1, "score": 82.0, "score_link": "https://example.com/mmlu"},
			{"benchmark_id": 2, "score": 33.1}
		]
	}`
	w := adminDo(t, r, http.MethodPut, "/admin/api/models/4", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := decode(t, w)
	assert.Equal(t, "Original,GGUF,AWQ,GPTQ,EXL2", detail["formats"])
	require.Len(t, detail["scores"], 2)

	// null 删除一个分数
	w = adminDo(t, r, http.MethodPut, "/admin/api/models/4", `{"name":"Llama 3 70B Instruct","scores":[{"benchmark_id":2,"score":null}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode(t, w)["scores"], 1)

	w = adminDo(t, r, http.MethodPut, "/admin/api/models/4", `{"name":"Llama 3 70B Instruct","scores":[{"benchmark_id":404,"score":1}]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = adminDo(t, r, http.MethodPut, "/admin/api/models/4", `{"name":"x","huggingface_link":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = adminDo(t, r, http.MethodGet, "/admin/api/models/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_SuggestionStatus(t *testing.T) {
	r, _ := setupRouter(t)
	c := &client{r: r}

	w := c.do(t, http.MethodPost, "/api/suggestions", `{"type":"use_case","name":"Agents","details":"Tool calling"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := jsonID(decode(t, w)["id"])

	w = adminDo(t, r, http.MethodPatch, "/admin/api/suggestions/"+id, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = adminDo(t, r, http.MethodPatch, "/admin/api/suggestions/"+id, `{"status":"merged"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = adminDo(t, r, http.MethodGet, "/admin/api/suggestions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
}

// jsonID JSON 数字转路径参数
func jsonID(v interface{}) string {
	f, _ := v.(float64)
	return strconv.FormatUint(uint64(f), 10)
}
