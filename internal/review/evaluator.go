// Package review 内容预审与发布工作流
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wint11/SmartRead-sub001/config"
)

// 预审通过分数线
const passThreshold = 6

// 评分取值范围 [0, 10]
const (
	minScore = 0
	maxScore = 10
)

// EvalInput 预审输入
type EvalInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// EvalResult 预审结果
// 远端失败（非 2xx、响应非 JSON、网络错误）统一归一为 Pass=false, QualityScore=0，
// 不向调用方抛错；RawJSON 保留原始响应或错误标记，便于排查
type EvalResult struct {
	Pass         bool   `json:"pass"`
	QualityScore int    `json:"quality_score"`
	RawJSON      string `json:"raw_json"`
}

// Evaluator 章节预审评估器
// 配置了远端 endpoint 时走 HTTP 评审，否则使用本地长度启发式
type Evaluator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewEvaluator(conf config.AIReviewConfig) *Evaluator {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Evaluator{
		endpoint: conf.Endpoint,
		apiKey:   conf.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Evaluate 执行预审
func (e *Evaluator) Evaluate(ctx context.Context, in EvalInput) EvalResult {
	if e.endpoint == "" {
		return heuristicEvaluate(in.Content)
	}
	return e.remoteEvaluate(ctx, in)
}

// HeuristicScore 按正文去除首尾空白后的字符数打分
// 阶梯函数，长度越长分数越高（单调不减）
func HeuristicScore(content string) int {
	length := len([]rune(strings.TrimSpace(content)))
	switch {
	case length >= 5000:
		return 9
	case length >= 2000:
		return 8
	case length >= 800:
		return 7
	case length >= 400:
		return 6
	case length >= 200:
		return 5
	case length >= 100:
		return 4
	default:
		return 2
	}
}

func heuristicEvaluate(content string) EvalResult {
	score := HeuristicScore(content)
	raw, _ := json.Marshal(map[string]any{
		"source": "heuristic",
		"score":  score,
	})
	return EvalResult{
		Pass:         score >= passThreshold,
		QualityScore: score,
		RawJSON:      string(raw),
	}
}

// remoteEvaluate 调用外部评审接口并归一化任意形状的 JSON 响应
func (e *Evaluator) remoteEvaluate(ctx context.Context, in EvalInput) EvalResult {
	payload, _ := json.Marshal(map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"content":     in.Content,
		"responseFormat": map[string]string{
			"pass":         "boolean",
			"qualityScore": "integer 0-10",
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failResult("request_build_failed", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return failResult("request_failed", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return failResult("read_body_failed", err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := json.Marshal(map[string]any{
			"error":  "upstream_status",
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return EvalResult{Pass: false, QualityScore: minScore, RawJSON: string(raw)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return failResult("invalid_json", string(body))
	}

	return EvalResult{
		Pass:         normalizePass(fields),
		QualityScore: normalizeScore(fields),
		RawJSON:      string(body),
	}
}

func failResult(tag, detail string) EvalResult {
	raw, _ := json.Marshal(map[string]string{
		"error":  tag,
		"detail": detail,
	})
	return EvalResult{Pass: false, QualityScore: minScore, RawJSON: string(raw)}
}

// passFieldAliases 通过与否字段的别名，按优先级排序，取第一个可判定的字段
var passFieldAliases = []string{"pass", "passed", "approved", "通过"}

// scoreFieldAliases 评分字段的别名，按优先级排序
var scoreFieldAliases = []string{"qualityScore", "quality_score", "score", "rating", "评分"}

// 肯定/否定字符串（统一按小写比较）
var (
	affirmativeTokens = map[string]bool{
		"true": true, "yes": true, "pass": true, "y": true, "1": true, "通过": true,
	}
	negativeTokens = map[string]bool{
		"false": true, "no": true, "fail": true, "n": true, "0": true,
		"不通过": true, "未通过": true,
	}
)

// normalizePass 按别名优先级找第一个可判定的字段
// 布尔按原值；数字 >0 为真；字符串在固定肯定/否定集合内才算判定；
// 没有可判定字段时默认不通过
func normalizePass(fields map[string]json.RawMessage) bool {
	for _, key := range passFieldAliases {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if verdict, decisive := decidePass(raw); decisive {
			return verdict
		}
	}
	return false
}

// decidePass 判定单个字段值，第二个返回值表示是否可判定
func decidePass(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f > 0, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		token := strings.ToLower(strings.TrimSpace(s))
		if affirmativeTokens[token] {
			return true, true
		}
		if negativeTokens[token] {
			return false, true
		}
	}

	return false, false
}

// normalizeScore 按别名优先级读取评分，强转整数并截断到 [0, 10]
// 缺失或不可解析（含 NaN/Inf）归 0
func normalizeScore(fields map[string]json.RawMessage) int {
	for _, key := range scoreFieldAliases {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if score, decisive := decideScore(raw); decisive {
			return score
		}
	}
	return minScore
}

func decideScore(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return clampScore(f), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return minScore, true
		}
		return clampScore(parsed), true
	}

	return minScore, false
}

func clampScore(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return minScore
	}
	score := int(f)
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// String 便于日志输出
func (r EvalResult) String() string {
	return fmt.Sprintf("pass=%v score=%d", r.Pass, r.QualityScore)
}
