package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"google.golang.org/genai"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/llm"
	"github.com/Harshini-A12/Stylesense/internal/metrics"
	"github.com/Harshini-A12/Stylesense/internal/usage"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrInvalidModel 는 모델이 지정되지 않았을 때 반환된다.
	ErrInvalidModel = errors.New("invalid model")
)

// Request 는 Gemini 요청 데이터다.
type Request struct {
	Prompt       string
	SystemPrompt string
	History      []llm.HistoryEntry
	Model        string
	Task         string
}

// Client 는 Gemini 호출을 담당한다.
// 여러 API 키를 라운드로빈으로 돌리고 키별 genai 클라이언트를 재사용한다.
type Client struct {
	cfg           *config.Config
	metrics       *metrics.Store
	usageRecorder *usage.Recorder
	mu            sync.Mutex
	clients       map[string]*genai.Client
	apiKeys       []string
	apiKeyIdx     int
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, usageRecorder *usage.Recorder) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:           cfg,
		metrics:       metricsStore,
		usageRecorder: usageRecorder,
		clients:       make(map[string]*genai.Client),
		apiKeys:       cfg.Gemini.APIKeys,
	}, nil
}

// Chat 은 텍스트만 필요한 호출 경로다.
func (c *Client) Chat(ctx context.Context, req Request) (string, string, error) {
	result, model, err := c.ChatWithUsage(ctx, req)
	if err != nil {
		return "", model, err
	}
	return result.Text, model, nil
}

// ChatWithUsage 는 텍스트 응답과 사용량을 함께 반환한다.
func (c *Client) ChatWithUsage(ctx context.Context, req Request) (llm.ChatResult, string, error) {
	start := time.Now()
	response, model, err := c.generate(ctx, req, "", nil)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return llm.ChatResult{}, model, err
	}

	texts, thoughts := extractParts(response)
	usage := extractUsage(response)
	c.observe(ctx, start, usage)

	reasoning := strings.Join(thoughts, "\n")
	return llm.ChatResult{
		Text:         strings.Join(texts, ""),
		Usage:        usage,
		Reasoning:    reasoning,
		HasReasoning: reasoning != "",
	}, model, nil
}

// Structured 는 JSON 스키마 기반 응답을 반환한다.
// 스키마를 강제해도 일부 모델이 코드 펜스를 붙이므로 파싱 전에 제거한다.
func (c *Client) Structured(ctx context.Context, req Request, schema map[string]any) (map[string]any, string, error) {
	start := time.Now()
	response, model, err := c.generate(ctx, req, "application/json", schema)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return nil, model, err
	}
	c.observe(ctx, start, extractUsage(response))

	payload := stripCodeFences(response.Text())
	if payload == "" {
		return nil, model, errors.New("empty structured response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, model, fmt.Errorf("decode structured response: %w", err)
	}
	return parsed, model, nil
}

// observe 는 성공 호출의 지표와 사용량 적재를 한 곳에서 처리한다.
func (c *Client) observe(ctx context.Context, start time.Time, usage llm.Usage) {
	c.metrics.RecordSuccess(time.Since(start), usage)
	if c.usageRecorder != nil {
		c.usageRecorder.Record(ctx, int64(usage.InputTokens), int64(usage.OutputTokens), int64(usage.ReasoningTokens))
	}
}

func (c *Client) generate(
	ctx context.Context,
	req Request,
	responseMimeType string,
	responseSchema map[string]any,
) (*genai.GenerateContentResponse, string, error) {
	model, err := c.resolveModel(req.Model, req.Task)
	if err != nil {
		return nil, model, err
	}

	client, err := c.leaseClient(ctx)
	if err != nil {
		return nil, model, err
	}

	contents := buildContents(req.Prompt, req.History)
	generateCfg := c.buildGenerateConfig(req.SystemPrompt, model, responseMimeType, responseSchema)
	response, err := client.Models.GenerateContent(ctx, model, contents, generateCfg)
	if err != nil {
		return nil, model, fmt.Errorf("generate content: %w", err)
	}
	return response, model, nil
}

// leaseClient 는 다음 키를 골라 genai 클라이언트를 돌려준다. 키별로 한 번만 만든다.
func (c *Client) leaseClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, err := c.nextKeyLocked()
	if err != nil {
		return nil, err
	}
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) nextKeyLocked() (string, error) {
	if len(c.apiKeys) == 0 {
		return "", ErrMissingAPIKey
	}
	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	return key, nil
}

func (c *Client) resolveModel(modelOverride string, task string) (string, error) {
	model := modelOverride
	if model == "" {
		model = c.cfg.Gemini.ModelForTask(task)
	}
	if model == "" {
		return "", ErrInvalidModel
	}
	return model, nil
}

func (c *Client) buildGenerateConfig(
	systemPrompt string,
	model string,
	responseMimeType string,
	responseSchema map[string]any,
) *genai.GenerateContentConfig {
	generateCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Gemini.TemperatureForModel(model))),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}

	if systemPrompt != "" {
		generateCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if responseMimeType != "" {
		generateCfg.ResponseMIMEType = responseMimeType
	}
	if responseSchema != nil {
		generateCfg.ResponseJsonSchema = responseSchema
	}

	c.applyThinking(generateCfg, model)
	return generateCfg
}

// applyThinking 은 Gemini 3 계열에만 thinking 설정을 붙인다.
func (c *Client) applyThinking(generateCfg *genai.GenerateContentConfig, model string) {
	if !isGemini3(model) {
		return
	}
	level, ok := normalizeThinkingLevel(c.cfg.Gemini.ThinkingLevel)
	if !ok {
		return
	}
	generateCfg.ThinkingConfig = &genai.ThinkingConfig{
		IncludeThoughts: true,
		ThinkingLevel:   level,
	}
}
