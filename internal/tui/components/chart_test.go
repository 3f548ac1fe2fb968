package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/loanscope/internal/cli"
)

func TestGroupedBarsLines(t *testing.T) {
	out := GroupedBars(
		[]string{"Male", "Female"},
		[]string{"Y", "N"},
		[][]int{{339, 150}, {75, 37}},
		60,
	)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 { // legend + 2 groups x 2 outcomes
		t.Fatalf("lines = %d, want 5:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Male") || !strings.Contains(lines[1], "339") {
		t.Errorf("first bar line = %q", lines[1])
	}
	if !strings.Contains(lines[0], "Approved") || !strings.Contains(lines[0], "Rejected") {
		t.Errorf("legend = %q", lines[0])
	}
	for i, l := range lines[1:] {
		if w := lipgloss.Width(l); w > 60 {
			t.Errorf("line %d width %d exceeds 60", i+1, w)
		}
	}
}

func TestGroupedBarsEmpty(t *testing.T) {
	if GroupedBars(nil, []string{"Y"}, nil, 40) != "" {
		t.Error("expected empty output for no groups")
	}
}

func TestBoxPlotsAxis(t *testing.T) {
	out := BoxPlots([]BoxRow{
		{Label: "Approved", Code: "Y", Min: 1000, Max: 81000, Box: cli.BoxGeometry{LowerWhisker: 1000, Q1: 3800, Median: 5000, Q3: 7500, UpperWhisker: 12000, Outliers: []float64{81000}}},
		{Label: "Rejected", Code: "N", Min: 1500, Max: 20000, Box: cli.BoxGeometry{LowerWhisker: 1500, Q1: 3500, Median: 5200, Q3: 7600, UpperWhisker: 13000}},
	}, 60)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "1k") || !strings.Contains(lines[2], "81k") {
		t.Errorf("axis = %q", lines[2])
	}
}

func TestAxisLabel(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		0.5:     "0.50",
		1500:    "1.5k",
		81000:   "81k",
		2500000: "2.5M",
	}
	for in, want := range tests {
		if got := axisLabel(in); got != want {
			t.Errorf("axisLabel(%v) = %q, want %q", in, got, want)
		}
	}
}
