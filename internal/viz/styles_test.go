package viz

import (
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.7, 10},
		{-0.2, 0},
	}

	for _, tt := range tests {
		bar := ProgressBar(tt.percent, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("percent %v: expected %d filled cells, got %d", tt.percent, tt.filled, got)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("percent %v: expected width 10, got %d", tt.percent, got)
		}
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty input: got %q", got)
	}

	out := SparklineChart([]float64{0, 1, 2, 3}, 4)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("expected lowest and highest bars, got %q", out)
	}

	flat := SparklineChart([]float64{2, 2, 2}, 3)
	if strings.Count(flat, "▁") != 3 {
		t.Errorf("flat series should stay at the bottom, got %q", flat)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes) || names[0] != "classic" {
		t.Errorf("unexpected theme names %v", names)
	}
	if GetTheme("missing").Name != "classic" {
		t.Error("unknown theme should fall back to classic")
	}
}
