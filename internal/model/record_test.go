package model

import "testing"

func TestOutcomeStatus(t *testing.T) {
	tests := []struct {
		status             string
		approved, rejected bool
	}{
		{"Y", true, false},
		{"Approved", true, false},
		{" approved ", true, false},
		{"N", false, true},
		{"Rejected", false, true},
		{"rejected", false, true},
		{"Pending", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := IsApproved(tt.status); got != tt.approved {
			t.Errorf("IsApproved(%q) = %v, want %v", tt.status, got, tt.approved)
		}
		if got := IsRejected(tt.status); got != tt.rejected {
			t.Errorf("IsRejected(%q) = %v, want %v", tt.status, got, tt.rejected)
		}
	}
}

func TestApprovedIndex(t *testing.T) {
	if got := ApprovedIndex([]string{"N", "Y"}); got != 1 {
		t.Errorf("coded outcomes: got %d, want 1", got)
	}
	if got := ApprovedIndex([]string{"Rejected", "Approved"}); got != 1 {
		t.Errorf("labeled outcomes: got %d, want 1", got)
	}
	if got := ApprovedIndex([]string{"Pending"}); got != -1 {
		t.Errorf("no approved outcome: got %d, want -1", got)
	}
}
