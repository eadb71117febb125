package core

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		artifacts []time.Time
		newest    time.Time
		want      bool
	}{
		{
			name:   "no artifacts",
			newest: base,
			want:   false,
		},
		{
			name:      "both newer",
			artifacts: []time.Time{base.Add(time.Second), base.Add(2 * time.Second)},
			newest:    base,
			want:      true,
		},
		{
			name:      "one older",
			artifacts: []time.Time{base.Add(time.Second), base.Add(-time.Second)},
			newest:    base,
			want:      false,
		},
		{
			name:      "equal time is stale",
			artifacts: []time.Time{base, base.Add(time.Second)},
			newest:    base,
			want:      false,
		},
		{
			name:      "no scripts uses epoch",
			artifacts: []time.Time{base, base},
			newest:    time.Unix(0, 0),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(tt.artifacts, tt.newest); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsSourceScript(t *testing.T) {
	tests := map[string]bool{
		"main.js":      true,
		"lib.util.js":  true,
		"data.json":    false,
		"style.css":    false,
		"module.mjs":   false,
		"README":       false,
		"figure-1.png": false,
	}
	for name, want := range tests {
		if got := IsSourceScript(name); got != want {
			t.Errorf("IsSourceScript(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDecideGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input GenerateDecisionInput
		want  GenerateAction
	}{
		{name: "cache hit", input: GenerateDecisionInput{CacheEnabled: true, UpToDate: true}, want: ActionUseCache},
		{name: "stale", input: GenerateDecisionInput{CacheEnabled: true, UpToDate: false}, want: ActionCapture},
		{name: "cache disabled", input: GenerateDecisionInput{CacheEnabled: false, UpToDate: true}, want: ActionCapture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideGenerate(tt.input); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}

	if ShouldCheckFreshness(false) {
		t.Error("Expected no freshness check with caching disabled")
	}
}
