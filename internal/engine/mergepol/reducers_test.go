package mergepol

import (
	"testing"
	"time"
)

func TestFirstNonEmptyRemark(t *testing.T) {
	if got := FirstNonEmptyRemark([]string{"", "   ", "ok", "richer note"}); got != "ok" {
		t.Fatalf("expected first non-empty remark, got %q", got)
	}
	if got := FirstNonEmptyRemark([]string{"", "  "}); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if got := FirstNonEmptyRemark(nil); got != "" {
		t.Fatalf("expected empty result for nil input, got %q", got)
	}
}

func TestFirstValidDate(t *testing.T) {
	var zero time.Time
	d1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 7)

	if got := FirstValidDate([]*time.Time{nil, &zero, &d1, &d2}); got == nil || !got.Equal(d1) {
		t.Fatalf("expected %v got %v", d1, got)
	}
	if got := FirstValidDate([]*time.Time{nil, &zero}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestFirstSubmissionOrder(t *testing.T) {
	three := 3
	seven := 7
	if got := FirstSubmissionOrder([]*int{nil, &three, &seven}); got == nil || *got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := FirstSubmissionOrder([]*int{nil, nil}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
