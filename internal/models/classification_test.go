package models

import "testing"

func TestSeverityFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
	}{
		{0.0, SeverityLow},
		{0.29, SeverityLow},
		{0.3, SeverityMedium},
		{0.5, SeverityMedium},
		{0.59, SeverityMedium},
		{0.6, SeverityHigh},
		{0.95, SeverityHigh},
		{1.0, SeverityHigh},
	}

	for _, tt := range tests {
		if got := SeverityFromScore(tt.score); got != tt.want {
			t.Errorf("SeverityFromScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

// The flag threshold sits below the High tier boundary: a score of 0.57 is
// flagged harassment but still tiered Medium.
func TestFlagThresholdBelowHighBoundary(t *testing.T) {
	if IsHarassment(0.5) {
		t.Error("score 0.5 should not be flagged")
	}
	if !IsHarassment(0.55) {
		t.Error("score 0.55 should be flagged")
	}
	if got := SeverityFromScore(0.57); got != SeverityMedium {
		t.Errorf("score 0.57 tier = %v, want Medium", got)
	}
	if !IsHarassment(0.57) {
		t.Error("score 0.57 should be flagged")
	}
}

func TestMaxSeverity(t *testing.T) {
	tests := []struct {
		a, b, want Severity
	}{
		{SeverityLow, SeverityHigh, SeverityHigh},
		{SeverityHigh, SeverityLow, SeverityHigh},
		{SeverityMedium, SeverityMedium, SeverityMedium},
		{SeverityLow, SeverityMedium, SeverityMedium},
		{Severity("garbage"), SeverityLow, SeverityLow},
	}
	for _, tt := range tests {
		if got := MaxSeverity(tt.a, tt.b); got != tt.want {
			t.Errorf("MaxSeverity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if got := ParseSeverity("High"); got != SeverityHigh {
		t.Errorf("ParseSeverity(High) = %v", got)
	}
	if got := ParseSeverity("Medium"); got != SeverityMedium {
		t.Errorf("ParseSeverity(Medium) = %v", got)
	}
	if got := ParseSeverity(""); got != SeverityLow {
		t.Errorf("ParseSeverity(empty) = %v, want Low", got)
	}
	if got := ParseSeverity("nonsense"); got != SeverityLow {
		t.Errorf("ParseSeverity(nonsense) = %v, want Low", got)
	}
}
