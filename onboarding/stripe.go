package onboarding

import (
	"github.com/onramp-pay/onramp/model"
)

// stripeRegistry describes Stripe Connect onboarding. Each task's completion
// marker is a boolean written once Stripe has accepted the corresponding
// account mutation.
func stripeRegistry() *Registry {
	marker := func(read func(*model.StripeSetup) bool) func(*model.GatewayAccount, *model.Credential) bool {
		return func(_ *model.GatewayAccount, credential *model.Credential) bool {
			return credential.Stripe != nil && read(credential.Stripe)
		}
	}

	return &Registry{
		provider: model.ProviderStripe,
		tasks: []TaskDefinition{
			{Name: model.TaskBankDetails, Complete: marker(func(s *model.StripeSetup) bool { return s.BankDetails })},
			{Name: model.TaskResponsiblePerson, Complete: marker(func(s *model.StripeSetup) bool { return s.ResponsiblePerson })},
			{Name: model.TaskDirector, Complete: marker(func(s *model.StripeSetup) bool { return s.Director })},
			{Name: model.TaskVATNumber, Complete: marker(func(s *model.StripeSetup) bool { return s.VATNumber })},
			{Name: model.TaskCompanyNumber, Complete: marker(func(s *model.StripeSetup) bool { return s.CompanyNumber })},
			{Name: model.TaskGovernmentEntityDocument, Complete: marker(func(s *model.StripeSetup) bool { return s.GovernmentEntityDocument })},
			{Name: model.TaskOrganisationDetails, Complete: marker(func(s *model.StripeSetup) bool { return s.OrganisationDetails })},
			verificationPaymentTask(),
		},
	}
}

// sandboxRegistry is the sanctioned no-onboarding provider: the task list is
// empty and a sandbox credential can activate straight from CREATED.
func sandboxRegistry() *Registry {
	return &Registry{provider: model.ProviderSandbox}
}
