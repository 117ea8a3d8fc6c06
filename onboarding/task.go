package onboarding

import (
	"github.com/onramp-pay/onramp/model"
)

// Mode distinguishes first-time onboarding from a provider switch. Switching
// adds a mandatory live verification-payment task that first-time onboarding
// does not require.
type Mode string

const (
	ModeCreating  Mode = "CREATING"
	ModeSwitching Mode = "SWITCHING"
)

// TaskDefinition is one entry in a provider's ordered onboarding checklist.
// Complete is a pure predicate over account and credential data; AppliesWhen
// guards whether the task is part of the checklist at all (nil means always).
type TaskDefinition struct {
	Name        string
	Complete    func(*model.GatewayAccount, *model.Credential) bool
	AppliesWhen func(Mode, *model.GatewayAccount, *model.Credential) bool
}

// Registry is the closed, per-provider task list. Registries are resolved once
// at engine construction; registry order is display order and the recommended
// completion order.
type Registry struct {
	provider string
	tasks    []TaskDefinition
}

func (r *Registry) Provider() string {
	return r.provider
}

func (r *Registry) Tasks() []TaskDefinition {
	return r.tasks
}

// verificationPaymentTask gates a provider switch on a confirmed live test
// payment. It is shared by every provider registry and applies only in
// SWITCHING mode.
func verificationPaymentTask() TaskDefinition {
	return TaskDefinition{
		Name: model.TaskVerificationPayment,
		Complete: func(_ *model.GatewayAccount, credential *model.Credential) bool {
			return credential.VerificationPaymentComplete()
		},
		AppliesWhen: func(mode Mode, _ *model.GatewayAccount, _ *model.Credential) bool {
			return mode == ModeSwitching
		},
	}
}
