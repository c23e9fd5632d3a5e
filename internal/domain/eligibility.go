package domain

// EligibilityResult is the caller facing outcome of a registration check.
type EligibilityResult struct {
	Eligible bool   `json:"eligible"`
	Reason   Reason `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

func Eligible() EligibilityResult {
	return EligibilityResult{Eligible: true}
}

func Ineligible(reason Reason, message string) EligibilityResult {
	return EligibilityResult{Eligible: false, Reason: reason, Message: message}
}
