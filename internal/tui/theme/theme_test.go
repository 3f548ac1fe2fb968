package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("catppuccin-mocha"); got.Name != "catppuccin-mocha" {
		t.Errorf("ByName = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("unknown theme = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestOutcomeColor(t *testing.T) {
	th := Terminal
	if th.OutcomeColor("Y", 5) != th.Approved {
		t.Error("Y should use the approved color")
	}
	if th.OutcomeColor("N", 0) != th.Rejected {
		t.Error("N should use the rejected color")
	}
	if th.OutcomeColor("Approved", 2) != th.Approved || th.OutcomeColor("Rejected", 3) != th.Rejected {
		t.Error("spelled-out outcomes should use the approved/rejected colors")
	}
	if th.OutcomeColor("Pending", 4) != th.Series[1] {
		t.Error("other outcomes should cycle through Series")
	}
}
