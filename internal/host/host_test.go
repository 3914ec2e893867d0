package host

import "testing"

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusSuccess, "success"},
		{StatusFail, "fail"},
		{StatusNotAvailable, "not_available"},
		{Status(9), "status(9)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestRangeEnd(t *testing.T) {
	r := Range{Start: 100, Length: 50}
	if r.End() != 150 {
		t.Fatalf("End() = %d, want 150", r.End())
	}
}

func TestEffectOptionsHas(t *testing.T) {
	if !EffectOnly.Has(EffectOnly) {
		t.Fatal("expected EffectOnly to contain itself")
	}
	if EffectOptions(0).Has(EffectOnly) {
		t.Fatal("expected zero options to lack EffectOnly")
	}
}
