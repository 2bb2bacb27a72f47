package overlay

import "strings"

// The anti-tamper driver shipping with the game refuses overlay operations
// with recognizable fingerprints: an NTSTATUS code in the tool's error text,
// or one of two process exit statuses. Keeping the signature list in one
// place lets it evolve without touching the retry or spawn control flow.

// blockSignatures are substrings of tool output that identify a
// protection-driver refusal.
var blockSignatures = []string{
	"C0000229",
	"ah_result",
}

// blockExitStatuses are NTSTATUS values (as signed 32-bit) the overlay
// process dies with when the driver blocks injection.
var blockExitStatuses = []int32{
	-1073741511, // STATUS_ENTRYPOINT_NOT_FOUND (C0000139 family)
	-1073740791, // STATUS_STACK_BUFFER_OVERRUN (C0000409 family)
}

// Classification is the verdict for a single piece of tool output.
type Classification struct {
	Blocked   bool
	Signature string
}

// ClassifyOutput inspects raw tool output for protection-driver fingerprints.
func ClassifyOutput(raw string) Classification {
	for _, sig := range blockSignatures {
		if strings.Contains(raw, sig) {
			return Classification{Blocked: true, Signature: sig}
		}
	}
	return Classification{}
}

// BlockedExitCode reports whether a process exit code indicates a
// protection-driver refusal. Both the signed and the raw unsigned form of the
// NTSTATUS are recognized, since platforms disagree on the representation.
func BlockedExitCode(code int) bool {
	c := int32(code)
	for _, status := range blockExitStatuses {
		if c == status {
			return true
		}
	}
	return false
}
