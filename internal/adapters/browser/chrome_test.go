package browser

import (
	"testing"
)

func TestIDSelector(t *testing.T) {
	tests := map[string]string{
		"defaultCanvas0": `[id="defaultCanvas0"]`,
		`a"b`:            `[id="a\"b"]`,
		`a\b`:            `[id="a\\b"]`,
	}
	for in, want := range tests {
		if got := idSelector(in); got != want {
			t.Errorf("idSelector(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewChromeLauncherDefaults(t *testing.T) {
	l := NewChromeLauncher(Config{}, nil)
	if l.config.WindowWidth != 1280 || l.config.WindowHeight != 1024 {
		t.Errorf("Expected 1280x1024 window, got %dx%d", l.config.WindowWidth, l.config.WindowHeight)
	}
	if actions := l.metricsOverride(); len(actions) != 0 {
		t.Errorf("Expected no metrics override by default, got %d actions", len(actions))
	}

	scaled := NewChromeLauncher(Config{ScaleFactor: 2}, nil)
	if actions := scaled.metricsOverride(); len(actions) != 1 {
		t.Errorf("Expected one metrics override, got %d", len(actions))
	}
}

func TestZeroConfigIsHeadless(t *testing.T) {
	if got, want := len(NewChromeLauncher(Config{}, nil).allocatorOptions()), len(NewChromeLauncher(DefaultConfig(), nil).allocatorOptions()); got != want {
		t.Errorf("Expected a zero config to match the headless default, got %d vs %d options", got, want)
	}
}

func TestAllocatorOptions(t *testing.T) {
	base := NewChromeLauncher(DefaultConfig(), nil).allocatorOptions()
	custom := NewChromeLauncher(Config{ExecPath: "/usr/bin/chromium", ShowWindow: true}, nil).allocatorOptions()

	if len(custom) != len(base)+2 {
		t.Errorf("Expected exec path and headed flags to be added, got %d vs %d options", len(custom), len(base))
	}
}
