package onboarding

import (
	"fmt"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

// Engine computes derived task state for a credential. It is a pure function
// of its inputs: no side effects, no storage access. Callers re-run it against
// freshly loaded data whenever a gating decision is made.
type Engine struct {
	registries map[string]*Registry
}

// NewEngine builds the engine with the closed set of provider registries.
func NewEngine() *Engine {
	e := &Engine{registries: make(map[string]*Registry)}
	for _, r := range []*Registry{worldpayRegistry(), stripeRegistry(), sandboxRegistry()} {
		e.registries[r.Provider()] = r
	}
	return e
}

// KnownProvider reports whether the provider has a registry entry, including
// providers that require no onboarding.
func (e *Engine) KnownProvider(provider string) bool {
	_, ok := e.registries[provider]
	return ok
}

// RequiresOnboarding reports whether the provider has any onboarding tasks.
func (e *Engine) RequiresOnboarding(provider string) bool {
	r, ok := e.registries[provider]
	return ok && len(r.tasks) > 0
}

// Tasks returns the applicable tasks for the credential in registry order with
// per-task completion, derived from the credential's current data. A provider
// with a registered empty task list yields an empty slice; an unknown provider
// is a configuration error.
func (e *Engine) Tasks(account *model.GatewayAccount, credential *model.Credential, mode Mode) ([]model.Task, error) {
	registry, ok := e.registries[credential.Provider]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrConfiguration,
			fmt.Sprintf("no onboarding task definitions for provider '%s'", credential.Provider), nil)
	}

	tasks := make([]model.Task, 0, len(registry.tasks))
	for _, definition := range registry.tasks {
		if definition.AppliesWhen != nil && !definition.AppliesWhen(mode, account, credential) {
			continue
		}
		tasks = append(tasks, model.Task{
			Name:       definition.Name,
			Complete:   definition.Complete(account, credential),
			Applicable: true,
		})
	}
	return tasks, nil
}

// HasIncompleteTasks is true iff any applicable task is incomplete.
func (e *Engine) HasIncompleteTasks(account *model.GatewayAccount, credential *model.Credential, mode Mode) (bool, error) {
	tasks, err := e.Tasks(account, credential, mode)
	if err != nil {
		return false, err
	}
	for _, task := range tasks {
		if !task.Complete {
			return true, nil
		}
	}
	return false, nil
}
