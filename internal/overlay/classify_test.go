package overlay

import "testing"

func TestClassifyOutput(t *testing.T) {
	cases := []struct {
		raw     string
		blocked bool
	}{
		{"", false},
		{"mkoverlay: wrote 42 chunks", false},
		{"error: open failed with C0000229", true},
		{"ah_result=denied", true},
		{"some unrelated failure", false},
	}

	for _, tc := range cases {
		got := ClassifyOutput(tc.raw)
		if got.Blocked != tc.blocked {
			t.Fatalf("ClassifyOutput(%q).Blocked = %v, want %v", tc.raw, got.Blocked, tc.blocked)
		}
		if tc.blocked && got.Signature == "" {
			t.Fatalf("blocked verdict for %q should carry its signature", tc.raw)
		}
	}
}

func TestBlockedExitCode(t *testing.T) {
	if !BlockedExitCode(-1073741511) || !BlockedExitCode(-1073740791) {
		t.Fatal("signed NTSTATUS forms should classify as blocked")
	}
	// Unsigned forms of the same statuses, as reported on Windows.
	if !BlockedExitCode(3221225785) || !BlockedExitCode(3221226505) {
		t.Fatal("unsigned NTSTATUS forms should classify as blocked")
	}
	if BlockedExitCode(0) || BlockedExitCode(1) || BlockedExitCode(-1) {
		t.Fatal("ordinary exit codes must not classify as blocked")
	}
}
