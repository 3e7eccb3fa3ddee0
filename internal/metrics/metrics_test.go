package metrics

import (
	"testing"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/llm"
)

func TestStoreRecordsMetrics(t *testing.T) {
	store := NewStore()
	store.RecordSuccess(120*time.Millisecond, llm.Usage{InputTokens: 4, OutputTokens: 3, ReasoningTokens: 1, CachedTokens: 2})
	store.RecordError(50 * time.Millisecond)

	usage := store.UsageTotals()
	if usage.InputTokens != 4 || usage.OutputTokens != 3 || usage.ReasoningTokens != 1 {
		t.Fatalf("unexpected usage totals: %+v", usage)
	}
	if usage.CachedTokens != 2 {
		t.Fatalf("expected cached tokens 2, got %d", usage.CachedTokens)
	}

	snapshot := store.Snapshot()
	if snapshot["total_calls"] != 2 {
		t.Fatalf("expected total_calls 2, got %v", snapshot["total_calls"])
	}
	if snapshot["total_errors"] != 1 {
		t.Fatalf("expected total_errors 1, got %v", snapshot["total_errors"])
	}
	if snapshot["cache_hit_ratio"] != 0.5 {
		t.Fatalf("expected cache_hit_ratio 0.5, got %v", snapshot["cache_hit_ratio"])
	}
}

func TestStoreRecordsPipelineCounters(t *testing.T) {
	store := NewStore()
	store.RecordStyling()
	store.RecordChatTurn()
	store.RecordFallback()
	store.RecordFallback()
	store.RecordParseFailure()
	store.RecordRepairedPlatforms(3)
	store.RecordRepairedPlatforms(0)
	store.RecordGuardBlock()
	store.RecordToneDefault()

	snapshot := store.Snapshot()
	if snapshot["total_styling"] != 1 {
		t.Fatalf("expected total_styling 1, got %v", snapshot["total_styling"])
	}
	if snapshot["total_chat_turns"] != 1 {
		t.Fatalf("expected total_chat_turns 1, got %v", snapshot["total_chat_turns"])
	}
	if snapshot["total_fallbacks"] != 2 {
		t.Fatalf("expected total_fallbacks 2, got %v", snapshot["total_fallbacks"])
	}
	if snapshot["total_parse_failures"] != 1 {
		t.Fatalf("expected total_parse_failures 1, got %v", snapshot["total_parse_failures"])
	}
	if snapshot["total_repaired_platform"] != 3 {
		t.Fatalf("expected total_repaired_platform 3, got %v", snapshot["total_repaired_platform"])
	}
	if snapshot["total_guard_blocks"] != 1 {
		t.Fatalf("expected total_guard_blocks 1, got %v", snapshot["total_guard_blocks"])
	}
	if snapshot["total_tone_defaults"] != 1 {
		t.Fatalf("expected total_tone_defaults 1, got %v", snapshot["total_tone_defaults"])
	}
}
