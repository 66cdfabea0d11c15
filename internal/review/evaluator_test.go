package review

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wint11/SmartRead-sub001/config"
)

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"空内容", "", 2},
		{"只有空白", "   \n\t  ", 2},
		{"99字符", strings.Repeat("a", 99), 2},
		{"100字符", strings.Repeat("a", 100), 4},
		{"150字符", strings.Repeat("a", 150), 4},
		{"200字符", strings.Repeat("a", 200), 5},
		{"400字符", strings.Repeat("a", 400), 6},
		{"800字符", strings.Repeat("a", 800), 7},
		{"2000字符", strings.Repeat("a", 2000), 8},
		{"3000字符", strings.Repeat("a", 3000), 8},
		{"5000字符", strings.Repeat("a", 5000), 9},
		{"中文按字符数而非字节数", strings.Repeat("章", 400), 6},
		{"首尾空白不计入", "  " + strings.Repeat("a", 399) + "  ", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HeuristicScore(tt.content))
		})
	}
}

func TestEvaluate_Heuristic(t *testing.T) {
	e := NewEvaluator(config.AIReviewConfig{})

	// 150 字符：4 分，不及格
	short := e.Evaluate(context.Background(), EvalInput{Content: strings.Repeat("a", 150)})
	assert.False(t, short.Pass)
	assert.Equal(t, 4, short.QualityScore)
	assert.NotEmpty(t, short.RawJSON)

	// 3000 字符：8 分，及格
	long := e.Evaluate(context.Background(), EvalInput{Content: strings.Repeat("a", 3000)})
	assert.True(t, long.Pass)
	assert.Equal(t, 8, long.QualityScore)

	// 及格线恰好 400 字符 → 6 分
	edge := e.Evaluate(context.Background(), EvalInput{Content: strings.Repeat("a", 400)})
	assert.True(t, edge.Pass)
	assert.Equal(t, 6, edge.QualityScore)
}

func TestEvaluate_RemoteNormalization(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantPass  bool
		wantScore int
	}{
		{"标准布尔与整数", `{"pass": true, "qualityScore": 8}`, true, 8},
		{"布尔否定", `{"pass": false, "qualityScore": 3}`, false, 3},
		{"字符串肯定与字符串数字", `{"approved": "yes", "score": "12"}`, true, 10},
		{"中文字段与中文肯定", `{"通过": "通过", "评分": 7}`, true, 7},
		{"中文否定", `{"pass": "不通过", "score": 5}`, false, 5},
		{"数字形式的判定", `{"passed": 1, "rating": 6.9}`, true, 6},
		{"数字零为否定", `{"passed": 0, "score": 2}`, false, 2},
		{"pass 字段优先于 approved", `{"approved": true, "pass": false, "score": 9}`, false, 9},
		{"qualityScore 优先于 score", `{"pass": true, "qualityScore": 7, "score": 2}`, true, 7},
		{"不可判定字符串跳过后默认否", `{"pass": "maybe", "score": 8}`, false, 8},
		{"负分截断为 0", `{"pass": true, "score": -3}`, true, 0},
		{"缺失字段全部默认", `{"verdict": "ok"}`, false, 0},
		{"评分字符串不可解析归 0", `{"pass": true, "score": "high"}`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			e := NewEvaluator(config.AIReviewConfig{Endpoint: srv.URL, APIKey: "test-key"})
			result := e.Evaluate(context.Background(), EvalInput{Title: "第一章", Content: "正文"})

			assert.Equal(t, tt.wantPass, result.Pass)
			assert.Equal(t, tt.wantScore, result.QualityScore)
			assert.Equal(t, tt.response, result.RawJSON)
		})
	}
}

func TestEvaluate_RemoteFailures(t *testing.T) {
	t.Run("上游非2xx归一为不通过", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway"))
		}))
		defer srv.Close()

		e := NewEvaluator(config.AIReviewConfig{Endpoint: srv.URL})
		result := e.Evaluate(context.Background(), EvalInput{Content: "正文"})

		assert.False(t, result.Pass)
		assert.Equal(t, 0, result.QualityScore)
		assert.Contains(t, result.RawJSON, "upstream_status")
	})

	t.Run("响应非JSON归一为不通过", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		e := NewEvaluator(config.AIReviewConfig{Endpoint: srv.URL})
		result := e.Evaluate(context.Background(), EvalInput{Content: "正文"})

		assert.False(t, result.Pass)
		assert.Equal(t, 0, result.QualityScore)
		assert.Contains(t, result.RawJSON, "invalid_json")
	})

	t.Run("网络错误归一为不通过", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // 立即关闭，制造连接失败

		e := NewEvaluator(config.AIReviewConfig{Endpoint: srv.URL})
		result := e.Evaluate(context.Background(), EvalInput{Content: "正文"})

		assert.False(t, result.Pass)
		assert.Equal(t, 0, result.QualityScore)
		assert.Contains(t, result.RawJSON, "request_failed")
	})
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"正常值", 7.0, 7},
		{"小数截断", 6.9, 6},
		{"超上限", 15, 10},
		{"负值", -2, 0},
		{"零", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, clampScore(tt.in))
		})
	}
}
