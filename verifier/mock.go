package verifier

import (
	"context"

	"github.com/onramp-pay/onramp/model"
)

// Mock is a configurable verifier for tests and sandbox environments.
type Mock struct {
	ProviderName string
	ShouldFail   bool
	Reason       string
	Field        string
	Err          error
	Calls        int
}

func NewMock(provider string) *Mock {
	return &Mock{ProviderName: provider}
}

func (m *Mock) Provider() string {
	return m.ProviderName
}

func (m *Mock) Verify(_ context.Context, _ model.TaskPayload) (*Result, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.ShouldFail {
		return &Result{OK: false, Reason: m.Reason, Field: m.Field}, nil
	}
	return accepted(), nil
}
