package guard

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Harshini-A12/Stylesense/internal/cache"
	"github.com/Harshini-A12/Stylesense/internal/config"
)

// 설정과 룰팩 어디에도 임계값이 없을 때 쓰는 값
const defaultThreshold = 0.7

// InjectionGuard 는 프롬프트 주입 시도를 룰팩 기반으로 걸러낸다.
// 같은 입력의 반복 평가는 TTL 캐시와 singleflight 로 한 번만 계산한다.
type InjectionGuard struct {
	cfg    *config.Config
	logger *slog.Logger
	packs  []compiledPack
	cache  *cache.TTLCache[string, Evaluation]
	group  singleflight.Group
}

// NewGuard 는 룰팩을 읽어 가드를 만든다. 비활성이면 룰팩 없이 모든 입력을 통과시킨다.
func NewGuard(cfg *config.Config, logger *slog.Logger) (*InjectionGuard, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	cacheTTL := time.Duration(cfg.Guard.CacheTTLSeconds) * time.Second
	guard := &InjectionGuard{
		cfg:    cfg,
		logger: logger,
		cache:  cache.NewTTLCache[string, Evaluation](cfg.Guard.CacheMaxSize, cacheTTL),
	}

	if cfg.Guard.Enabled {
		guard.loadPacks()
	}

	return guard, nil
}

// Evaluate 는 입력을 평가한다. 가드가 꺼져 있으면 무한대 임계값으로 항상 통과한다.
func (g *InjectionGuard) Evaluate(input string) Evaluation {
	if g == nil || g.cfg == nil || !g.cfg.Guard.Enabled {
		return Evaluation{Threshold: math.Inf(1)}
	}

	if cached, ok := g.cache.Get(input); ok {
		return cached
	}

	value, _, _ := g.group.Do(input, func() (any, error) {
		result := g.evaluate(input)
		g.cache.Set(input, result)
		return result, nil
	})

	if evaluation, ok := value.(Evaluation); ok {
		return evaluation
	}
	return Evaluation{Threshold: g.threshold()}
}

// EnsureSafe 는 위험 입력에 *BlockedError 를 돌려준다.
func (g *InjectionGuard) EnsureSafe(input string) error {
	evaluation := g.Evaluate(input)
	if evaluation.Malicious() {
		return &BlockedError{Score: evaluation.Score, Threshold: evaluation.Threshold}
	}
	return nil
}

// IsMalicious 는 입력이 임계값을 넘는지 여부다.
func (g *InjectionGuard) IsMalicious(input string) bool {
	return g.Evaluate(input).Malicious()
}

func (g *InjectionGuard) loadPacks() {
	g.packs = loadRulepacks(g.rulepacksDir(), g.logger)
	if g.logger != nil {
		g.logger.Info("guard_ready", "packs", len(g.packs), "threshold", g.threshold())
	}
}

// rulepacksDir 는 설정 경로에 룰팩 파일이 없으면 실행 파일 옆 rulepacks 디렉터리를 대신 쓴다.
func (g *InjectionGuard) rulepacksDir() string {
	dir := g.cfg.Guard.RulepacksDir
	if dir == "" {
		dir = "rulepacks"
	}
	if len(findRulepackFiles(dir)) > 0 {
		return dir
	}

	executable, err := os.Executable()
	if err != nil {
		return dir
	}
	fallback := filepath.Join(filepath.Dir(executable), "rulepacks")
	if len(findRulepackFiles(fallback)) > 0 {
		return fallback
	}
	return dir
}

// threshold 는 설정값을 우선하고, 없으면 로드된 팩 중 가장 높은 임계값을 쓴다.
func (g *InjectionGuard) threshold() float64 {
	if g.cfg != nil && g.cfg.Guard.Threshold > 0 {
		return g.cfg.Guard.Threshold
	}

	highest := 0.0
	for _, pack := range g.packs {
		if pack.Threshold > highest {
			highest = pack.Threshold
		}
	}
	if highest > 0 {
		return highest
	}
	return defaultThreshold
}

func (g *InjectionGuard) evaluate(input string) Evaluation {
	// 난독화 우회 차단: 자모만으로 쓴 입력, 이모지, base64 페이로드는
	// 정규화를 건너뛰고 즉시 임계값 점수로 막는다.
	switch {
	case isJamoOnly(input):
		return g.block("jamo_only", input)
	case containsEmoji(input):
		return g.block("emoji_detected", input)
	case isPureBase64(input) || containsSuspiciousBase64(input):
		return g.block("base64_payload", input)
	}

	// 자모 시퀀스를 완성형으로 조합한 뒤 homoglyph/NFKC 정규화를 거쳐 규칙을 돌린다.
	normalized := normalizeText(composeJamoSequences(input))
	score, hits := g.evaluatePacks(normalized)
	return Evaluation{Score: score, Hits: hits, Threshold: g.threshold()}
}

func (g *InjectionGuard) block(ruleID string, input string) Evaluation {
	threshold := g.threshold()
	if g.logger != nil {
		g.logger.Warn("guard_blocked", "rule", ruleID, "input", trimForLog(input))
	}
	return Evaluation{
		Score:     threshold,
		Hits:      []Match{{ID: ruleID, Weight: threshold}},
		Threshold: threshold,
	}
}

func (g *InjectionGuard) evaluatePacks(text string) (float64, []Match) {
	card := &scorecard{hits: make([]Match, 0)}
	lower := strings.ToLower(text)
	for _, pack := range g.packs {
		pack.score(text, lower, card)
	}
	return card.total, card.hits
}

func trimForLog(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 50 {
		return value
	}
	return value[:50]
}
