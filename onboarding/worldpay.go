package onboarding

import (
	"github.com/onramp-pay/onramp/model"
)

// worldpayRegistry describes Worldpay onboarding. Accounts configured for
// recurring payments link separate CIT and MIT merchant codes instead of the
// single one-off merchant code; live accounts must also configure 3DS Flex.
func worldpayRegistry() *Registry {
	return &Registry{
		provider: model.ProviderWorldpay,
		tasks: []TaskDefinition{
			{
				Name: model.TaskAccountCredentials,
				Complete: func(_ *model.GatewayAccount, credential *model.Credential) bool {
					return credential.Worldpay != nil && credential.Worldpay.OneOff.Complete()
				},
				AppliesWhen: func(_ Mode, account *model.GatewayAccount, _ *model.Credential) bool {
					return !account.RecurringEnabled
				},
			},
			{
				Name: model.TaskRecurringCIT,
				Complete: func(_ *model.GatewayAccount, credential *model.Credential) bool {
					return credential.Worldpay != nil && credential.Worldpay.RecurringCIT.Complete()
				},
				AppliesWhen: func(_ Mode, account *model.GatewayAccount, _ *model.Credential) bool {
					return account.RecurringEnabled
				},
			},
			{
				Name: model.TaskRecurringMIT,
				Complete: func(_ *model.GatewayAccount, credential *model.Credential) bool {
					return credential.Worldpay != nil && credential.Worldpay.RecurringMIT.Complete()
				},
				AppliesWhen: func(_ Mode, account *model.GatewayAccount, _ *model.Credential) bool {
					return account.RecurringEnabled
				},
			},
			{
				Name: model.TaskFlexCredentials,
				Complete: func(_ *model.GatewayAccount, credential *model.Credential) bool {
					return credential.Worldpay != nil && credential.Worldpay.Flex.Complete()
				},
				AppliesWhen: func(_ Mode, account *model.GatewayAccount, _ *model.Credential) bool {
					return account.IsLive()
				},
			},
			verificationPaymentTask(),
		},
	}
}
