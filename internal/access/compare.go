package access

// Outcome is the verdict for one entry attempt.
type Outcome struct {
	accepted bool
	index    int
}

// Rejected is the outcome when no credential matches.
var Rejected = Outcome{index: -1}

// Accepted returns the outcome for a match at registry index i.
func Accepted(i int) Outcome {
	return Outcome{accepted: true, index: i}
}

// IsAccepted reports whether the attempt matched a credential.
func (o Outcome) IsAccepted() bool {
	return o.accepted
}

// Index returns the matching registry index, or -1 when rejected.
func (o Outcome) Index() int {
	return o.index
}

// String returns "accepted" or "rejected".
func (o Outcome) String() string {
	if o.accepted {
		return "accepted"
	}
	return "rejected"
}

// Compare checks input against every credential in order.
// A partially typed input never matches because registered codes have no
// empty slots.
//
// Parameters:
//   - r: Registry of credentials, searched in registration order
//   - input: Code as typed, empty slots included
//
// Returns:
//   - Outcome: Accepted with the first matching index, or Rejected
func Compare(r *Registry, input Code) Outcome {
	for i := range r.credentials {
		if matches(&r.credentials[i].Code, &input) {
			return Accepted(i)
		}
	}
	return Rejected
}

func matches(want, got *Code) bool {
	for pos := 0; pos < CodeLength; pos++ {
		if want[pos] != got[pos] {
			return false
		}
	}
	return true
}
