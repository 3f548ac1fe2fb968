package tui

import (
	"strings"
	"testing"

	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/insights"
)

func TestOutcomeTallyAcceptsLabels(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
	}{
		{"codes", []string{"Y", "N", "Y", ""}},
		{"labels", []string{"Approved", "Rejected", "Approved", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := [][]string{{"Loan_Status"}}
			for _, s := range tt.statuses {
				records = append(records, []string{s})
			}
			ds, err := dataset.FromRecords(records, "test.csv")
			if err != nil {
				t.Fatalf("FromRecords: %v", err)
			}
			approved, rejected, labeled := outcomeTally(ds)
			if approved != 2 || rejected != 1 || labeled != 3 {
				t.Errorf("tally = %d/%d/%d, want 2/1/3", approved, rejected, labeled)
			}
		})
	}
}

func TestApprovalRatesWithLabeledOutcomes(t *testing.T) {
	groups := []insights.Group{{Key: "Urban", Counts: []int{1, 3}}}
	out := renderApprovalRates([]string{"Rejected", "Approved"}, groups, "", 60)
	if out == "" {
		t.Fatal("approval rates should render for Approved/Rejected outcomes")
	}
	if !strings.Contains(out, "75.0%") {
		t.Errorf("expected 75.0%% approval share, got:\n%s", out)
	}
}
