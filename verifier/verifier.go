package verifier

import (
	"context"

	"github.com/onramp-pay/onramp/model"
)

// Result is the outcome of checking a candidate payload against the PSP.
// OK false means the provider rejected the credentials; Reason and Field feed
// form-level validation in the portal. Transport-level failures are returned
// as errors by Verify, never folded into Result, so the caller can tell "bad
// credentials" apart from "could not check credentials".
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
}

// Verifier checks candidate onboarding payloads against the real PSP before
// they are persisted as usable.
type Verifier interface {
	Provider() string
	Verify(ctx context.Context, payload model.TaskPayload) (*Result, error)
}

func accepted() *Result {
	return &Result{OK: true}
}
