package styling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Harshini-A12/Stylesense/internal/config"
	stylingdomain "github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/gemini"
	"github.com/Harshini-A12/Stylesense/internal/guard"
	"github.com/Harshini-A12/Stylesense/internal/history"
	"github.com/Harshini-A12/Stylesense/internal/httperror"
	"github.com/Harshini-A12/Stylesense/internal/llm"
	"github.com/Harshini-A12/Stylesense/internal/metrics"
	"github.com/Harshini-A12/Stylesense/internal/session"
	"github.com/Harshini-A12/Stylesense/internal/skintone"
	"github.com/Harshini-A12/Stylesense/internal/toon"
	"github.com/Harshini-A12/Stylesense/internal/upload"
)

// Service: 스타일링 추천/후속 채팅 비즈니스 로직 구현체입니다.
type Service struct {
	cfg      *config.Config
	client   gemini.LLM
	guard    guard.Guard
	store    session.Storage
	catalog  *stylingdomain.Catalog
	prompts  *stylingdomain.Prompts
	detector *skintone.Detector
	saver    *upload.Saver
	history  *history.Repository
	metrics  *metrics.Store
	logger   *slog.Logger
}

// New: 스타일링 Service 인스턴스를 생성합니다.
func New(
	cfg *config.Config,
	client gemini.LLM,
	injectionGuard guard.Guard,
	store session.Storage,
	catalog *stylingdomain.Catalog,
	prompts *stylingdomain.Prompts,
	detector *skintone.Detector,
	saver *upload.Saver,
	historyRepo *history.Repository,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metricsStore == nil {
		metricsStore = metrics.NewStore()
	}
	return &Service{
		cfg:      cfg,
		client:   client,
		guard:    injectionGuard,
		store:    store,
		catalog:  catalog,
		prompts:  prompts,
		detector: detector,
		saver:    saver,
		history:  historyRepo,
		metrics:  metricsStore,
		logger:   logger,
	}
}

type GenerateRequest struct {
	Email           string
	SessionID       string
	Gender          string
	Age             string
	Occasion        string
	CustomOccasion  string
	Budget          string
	PreferredColors string
	Image           *multipart.FileHeader
}

type GenerateResult struct {
	SkinTone  stylingdomain.SkinTone
	Result    stylingdomain.Recommendation
	ImageName string
	Fallback  bool
}

func (s *Service) Generate(ctx context.Context, requestID string, req GenerateRequest) (GenerateResult, error) {
	if s == nil || s.guard == nil || s.client == nil || s.catalog == nil || s.prompts == nil ||
		s.detector == nil || s.saver == nil || s.cfg == nil {
		return GenerateResult{}, httperror.NewInternalError("service not configured")
	}

	gender := strings.TrimSpace(req.Gender)
	age := strings.TrimSpace(req.Age)
	occasion := strings.TrimSpace(req.Occasion)
	budget := strings.TrimSpace(req.Budget)
	if gender == "" || age == "" || occasion == "" || budget == "" {
		return GenerateResult{}, httperror.NewInvalidInput("gender, age, occasion, budget required")
	}

	// 자유 입력 필드만 가드를 거친다. 고정 선택지는 검사하지 않는다.
	customOccasion := strings.TrimSpace(req.CustomOccasion)
	if occasion == "Custom" && customOccasion != "" {
		if err := s.ensureSafe(customOccasion); err != nil {
			s.logError("styling_occasion_guard_failed", err)
			return GenerateResult{}, fmt.Errorf("guard custom occasion: %w", err)
		}
		occasion = customOccasion
	}

	preferredColors := strings.TrimSpace(req.PreferredColors)
	if err := s.ensureSafe(preferredColors); err != nil {
		s.logError("styling_colors_guard_failed", err)
		return GenerateResult{}, fmt.Errorf("guard preferred colors: %w", err)
	}

	imageName, err := s.saver.Save(req.Image)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("save upload: %w", err)
	}

	tone := s.detectTone(imageName)

	profile := stylingdomain.Profile{
		Gender:          gender,
		Age:             age,
		Occasion:        occasion,
		Budget:          budget,
		PreferredColors: preferredColors,
		SkinTone:        tone,
	}

	rec, usedFallback := s.recommend(ctx, profile, occasion)

	// 폴백 경로는 큐레이션 키워드를 쓰므로 보정이 일어나지 않는다.
	if repaired := s.catalog.RepairKeywords(rec, occasion, gender); repaired > 0 {
		s.metrics.RecordRepairedPlatforms(repaired)
		s.logInfo("styling_keywords_repaired", "request_id", requestID, "platforms", repaired)
	}

	s.metrics.RecordStyling()

	if s.history != nil {
		if err := s.history.Save(ctx, req.Email, profile, *rec); err != nil {
			s.logError("history_save_failed", err)
		}
	}

	if req.SessionID != "" && s.store != nil {
		last := stylingdomain.LastStyling{UserData: profile, Result: *rec}
		if err := s.store.SetLastStyling(ctx, req.SessionID, last); err != nil {
			s.logError("session_last_styling_failed", err)
		}
	}

	s.logInfo(
		"styling_generated",
		"request_id", requestID,
		"occasion", occasion,
		"skin_tone", string(tone),
		"fallback", usedFallback,
	)

	return GenerateResult{
		SkinTone:  tone,
		Result:    *rec,
		ImageName: imageName,
		Fallback:  usedFallback,
	}, nil
}

type ChatRequest struct {
	SessionID string
	Message   string
}

type ChatResult struct {
	Reply        string
	MessageCount int
}

func (s *Service) Chat(ctx context.Context, requestID string, req ChatRequest) (ChatResult, error) {
	if s == nil || s.guard == nil || s.client == nil || s.store == nil || s.prompts == nil || s.cfg == nil {
		return ChatResult{}, httperror.NewInternalError("service not configured")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResult{}, httperror.NewInvalidInput("message required")
	}
	if req.SessionID == "" {
		return ChatResult{}, httperror.NewInvalidInput("session required")
	}

	if err := s.ensureSafe(message); err != nil {
		s.logError("chat_guard_failed", err)
		return ChatResult{}, fmt.Errorf("guard message: %w", err)
	}

	meta, err := s.store.GetSession(ctx, req.SessionID)
	if err != nil {
		return ChatResult{}, fmt.Errorf("load session: %w", err)
	}

	chatHistory, err := s.store.GetHistory(ctx, req.SessionID)
	if err != nil {
		s.logError("session_history_failed", err)
		chatHistory = nil
	}

	system, err := s.chatSystemPrompt(ctx, req.SessionID)
	if err != nil {
		s.logError("chat_system_prompt_failed", err)
		return ChatResult{}, httperror.NewInternalError("load chat system prompt failed")
	}

	result, _, err := s.client.ChatWithUsage(ctx, gemini.Request{
		Prompt:       message,
		SystemPrompt: system,
		History:      chatHistory,
		Task:         "chat",
	})
	if err != nil {
		return ChatResult{}, fmt.Errorf("chat: %w", err)
	}

	reply := strings.TrimSpace(result.Text)
	if result.HasReasoning {
		s.logger.Debug("chat_reasoning_present", "chars", len(result.Reasoning))
	}

	if err := s.store.AppendHistory(
		ctx,
		req.SessionID,
		llm.HistoryEntry{Role: llm.RoleUser, Content: message},
		llm.HistoryEntry{Role: llm.RoleAssistant, Content: reply},
	); err != nil {
		s.logError("chat_append_history_failed", err)
	}

	meta.MessageCount += 2
	meta.UpdatedAt = time.Now()
	if err := s.store.UpdateSession(ctx, *meta); err != nil {
		s.logError("session_update_failed", err)
	}

	s.metrics.RecordChatTurn()

	s.logInfo(
		"chat_answered",
		"request_id", requestID,
		"session_id", req.SessionID,
		"history_entries", len(chatHistory),
	)

	return ChatResult{Reply: reply, MessageCount: meta.MessageCount}, nil
}

// LastStyling: 세션에 보관된 마지막 스타일링 결과를 조회합니다.
func (s *Service) LastStyling(ctx context.Context, sessionID string) (*stylingdomain.LastStyling, error) {
	if s == nil || s.store == nil {
		return nil, httperror.NewInternalError("service not configured")
	}
	return s.store.GetLastStyling(ctx, sessionID)
}

// History: 이메일 기준 최근 스타일링 이력을 조회합니다.
func (s *Service) History(ctx context.Context, email string, limit int) ([]history.Record, error) {
	if s == nil || s.history == nil {
		return nil, httperror.NewInternalError("service not configured")
	}
	return s.history.Recent(ctx, email, limit)
}

// recommend 는 LLM 추천을 시도하고 실패하면 정적 폴백 코디로 대체한다.
func (s *Service) recommend(ctx context.Context, profile stylingdomain.Profile, occasion string) (*stylingdomain.Recommendation, bool) {
	rec, err := s.recommendLLM(ctx, profile, occasion)
	if err != nil {
		s.logError("styling_llm_failed", err)
		s.metrics.RecordFallback()
		return s.catalog.Fallback(occasion, profile.Gender), true
	}
	return rec, false
}

func (s *Service) recommendLLM(ctx context.Context, profile stylingdomain.Profile, occasion string) (*stylingdomain.Recommendation, error) {
	guidance, err := s.catalog.Guidance(occasion, profile.Gender)
	if err != nil {
		return nil, fmt.Errorf("occasion guidance: %w", err)
	}

	system, err := s.prompts.StylingSystem(occasion)
	if err != nil {
		return nil, fmt.Errorf("styling system prompt: %w", err)
	}
	userContent, err := s.prompts.StylingUser(profile, guidance)
	if err != nil {
		return nil, fmt.Errorf("styling user prompt: %w", err)
	}

	payload, _, err := s.client.Structured(ctx, gemini.Request{
		Prompt:       userContent,
		SystemPrompt: system,
		Task:         "styling",
	}, stylingdomain.RecommendationSchema())
	if err != nil {
		return nil, fmt.Errorf("styling structured: %w", err)
	}

	rec, err := stylingdomain.DecodeRecommendation(payload)
	if err != nil {
		s.metrics.RecordParseFailure()
		return nil, err
	}
	if rec.Outfit == (stylingdomain.Outfit{}) {
		s.metrics.RecordParseFailure()
		return nil, errors.New("empty outfit in model response")
	}
	return rec, nil
}

// chatSystemPrompt 는 세션에 마지막 추천이 있으면 TOON 컨텍스트로 붙인다.
func (s *Service) chatSystemPrompt(ctx context.Context, sessionID string) (string, error) {
	last, err := s.store.GetLastStyling(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNoLastStyling) {
			s.logError("session_last_styling_load_failed", err)
		}
		return s.prompts.ChatSystem()
	}

	encoded := toon.EncodeRecommendation(
		string(last.UserData.SkinTone),
		last.UserData.Occasion,
		recommendationMap(last.Result),
	)
	return s.prompts.ChatSystemWithRecommendation(encoded)
}

func (s *Service) detectTone(imageName string) stylingdomain.SkinTone {
	file, err := os.Open(s.saver.Path(imageName))
	if err != nil {
		s.logError("styling_image_open_failed", err)
		s.metrics.RecordToneDefault()
		return stylingdomain.SkinToneMedium
	}
	defer file.Close()
	return s.detector.Detect(file)
}

func (s *Service) ensureSafe(input string) error {
	if input == "" {
		return nil
	}
	if err := s.guard.EnsureSafe(input); err != nil {
		s.metrics.RecordGuardBlock()
		return err
	}
	return nil
}

// recommendationMap 은 추천 구조체를 TOON 인코딩용 맵으로 변환한다.
func recommendationMap(rec stylingdomain.Recommendation) map[string]any {
	raw, err := json.Marshal(rec)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func (s *Service) logError(event string, err error) {
	if s == nil || s.logger == nil || err == nil {
		return
	}
	s.logger.Warn(event, "err", err)
}

func (s *Service) logInfo(event string, fields ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Info(event, fields...)
}
