/*
Copyright 2024 Onramp Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package onramp

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

// switchableAccount is a live Worldpay account with switching enabled and an
// ACTIVE credential in place.
func switchableAccount() *model.GatewayAccount {
	account := worldpayAccount(false)
	account.Type = model.AccountTypeLive
	account.ProviderSwitchEnabled = true
	account.Credentials[0].State = model.StateActive
	account.Credentials[0].Worldpay = &model.WorldpayCredentials{
		OneOff: &model.WorldpayMerchantDetails{MerchantCode: "MC1", Username: "u", Password: "p"},
		Flex:   &model.FlexCredentials{OrganisationalUnitID: "ou", Issuer: "iss", JWTMACKey: "key"},
	}
	return account
}

// completeStripeSetup has every Stripe onboarding marker set, leaving only
// the verification payment outstanding in a switch.
func completeStripeSetup() *model.StripeSetup {
	return &model.StripeSetup{
		ConnectAccountID:         "acct_stripe_1",
		BankDetails:              true,
		ResponsiblePerson:        true,
		Director:                 true,
		VATNumber:                true,
		CompanyNumber:            true,
		GovernmentEntityDocument: true,
		OrganisationDetails:      true,
	}
}

func addPendingStripe(account *model.GatewayAccount) *model.Credential {
	account.Credentials = append(account.Credentials, model.Credential{
		CredentialID:     "cred_2",
		ExternalID:       "ext_2",
		GatewayAccountID: account.AccountID,
		Provider:         model.ProviderStripe,
		State:            model.StateCreated,
	})
	return &account.Credentials[len(account.Credentials)-1]
}

func TestStartSwitch_CreatesPendingCredential(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)
	ds.On("CreateCredential", mock.Anything, mock.MatchedBy(func(c model.Credential) bool {
		return c.Provider == model.ProviderStripe && c.State == model.StateCreated
	})).Return(model.Credential{
		CredentialID: "cred_2",
		Provider:     model.ProviderStripe,
		State:        model.StateCreated,
	}, nil)

	credential, err := o.StartSwitch(context.Background(), "acct_1", model.ProviderStripe)
	assert.NoError(t, err)
	assert.Equal(t, model.StateCreated, credential.State)
	assert.Equal(t, model.ProviderStripe, credential.Provider)
	ds.AssertExpectations(t)
}

func TestStartSwitch_RequiresSwitchingEnabled(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	account.ProviderSwitchEnabled = false

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	_, err := o.StartSwitch(context.Background(), "acct_1", model.ProviderStripe)
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrBadRequest))
}

func TestStartSwitch_AlreadyInProgress(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	addPendingStripe(account)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	_, err := o.StartSwitch(context.Background(), "acct_1", model.ProviderStripe)
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrConflict))
	ds.AssertNotCalled(t, "CreateCredential", mock.Anything, mock.Anything)
}

func TestStartSwitch_UnknownProvider(t *testing.T) {
	o, _, _, _ := newTestOnramp()

	_, err := o.StartSwitch(context.Background(), "acct_1", "adyen")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrBadRequest))
}

func TestSwitchTasks_IncludesVerificationPayment(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	addPendingStripe(account)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	tasks, err := o.SwitchTasks(context.Background(), "acct_1")
	assert.NoError(t, err)

	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name
	}
	assert.Contains(t, names, model.TaskVerificationPayment)
	assert.Contains(t, names, model.TaskBankDetails)
}

func TestSwitchTasks_NoSwitchInProgress(t *testing.T) {
	o, ds, _, _ := newTestOnramp()

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(switchableAccount(), nil)

	_, err := o.SwitchTasks(context.Background(), "acct_1")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestSwitchTasks_FirstTimeOnboardingIsNotASwitch(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := worldpayAccount(false)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	_, err := o.SwitchTasks(context.Background(), "acct_1")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrConflict))
}

func TestSwitchTasks_TwoPendingCredentialsIsAmbiguous(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	addPendingStripe(account)
	account.Credentials = append(account.Credentials, model.Credential{
		CredentialID: "cred_3",
		Provider:     model.ProviderStripe,
		State:        model.StateEntered,
	})

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	_, err := o.SwitchTasks(context.Background(), "acct_1")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrAmbiguousState))
}

func TestRecordVerificationPayment_LastTaskAdvancesState(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	pending := addPendingStripe(account)
	pending.Stripe = completeStripeSetup()

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)
	ds.On("UpdateCredential", mock.Anything, mock.MatchedBy(func(c *model.Credential) bool {
		return c.CredentialID == "cred_2" &&
			c.VerificationPayment != nil &&
			c.VerificationPayment.Reference == "pay-ref-1" &&
			c.State == model.StateEntered
	})).Return(nil)

	payload := &model.VerificationPaymentPayload{
		Reference: "pay-ref-1",
		Amount:    decimal.NewFromInt(1),
	}
	credential, err := o.RecordVerificationPayment(context.Background(), "acct_1", payload)
	assert.NoError(t, err)
	assert.True(t, credential.VerificationPaymentComplete())
	ds.AssertExpectations(t)
}

func TestRecordVerificationPayment_OtherTasksOutstandingStaysCreated(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	addPendingStripe(account)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)
	ds.On("UpdateCredential", mock.Anything, mock.MatchedBy(func(c *model.Credential) bool {
		return c.CredentialID == "cred_2" && c.State == model.StateCreated
	})).Return(nil)

	payload := &model.VerificationPaymentPayload{
		Reference: "pay-ref-2",
		Amount:    decimal.NewFromInt(1),
	}
	credential, err := o.RecordVerificationPayment(context.Background(), "acct_1", payload)
	assert.NoError(t, err)
	assert.Equal(t, model.StateCreated, credential.State)
	assert.True(t, credential.VerificationPaymentComplete())
	ds.AssertExpectations(t)
}

func TestRecordVerificationPayment_NoActiveCredential(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := worldpayAccount(false)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	payload := &model.VerificationPaymentPayload{
		Reference: "pay-ref-3",
		Amount:    decimal.NewFromInt(1),
	}
	_, err := o.RecordVerificationPayment(context.Background(), "acct_1", payload)
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrConflict))
	ds.AssertNotCalled(t, "UpdateCredential", mock.Anything, mock.Anything)
}

func TestFinalizeSwitch_BlockedUntilTasksComplete(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	addPendingStripe(account)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)

	_, err := o.FinalizeSwitch(context.Background(), "acct_1")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrIncompleteOnboarding))
	ds.AssertNotCalled(t, "ActivateCredential", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeSwitch_ActivatesAndMovesProvider(t *testing.T) {
	o, ds, _, _ := newTestOnramp()
	account := switchableAccount()
	pending := addPendingStripe(account)
	pending.State = model.StateEntered
	pending.Stripe = completeStripeSetup()
	pending.VerificationPayment = &model.VerificationPayment{Reference: "ref", CompletedAt: time.Now()}

	activated := *pending
	activated.State = model.StateActive

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(account, nil)
	ds.On("ActivateCredential", mock.Anything, "acct_1", "cred_2").Return(nil)
	ds.On("GetCredential", mock.Anything, "acct_1", "cred_2").Return(&activated, nil)
	ds.On("UpdateGatewayAccount", mock.Anything, mock.MatchedBy(func(a *model.GatewayAccount) bool {
		return a.Provider == model.ProviderStripe
	})).Return(nil)

	credential, err := o.FinalizeSwitch(context.Background(), "acct_1")
	assert.NoError(t, err)
	assert.Equal(t, model.StateActive, credential.State)
	ds.AssertExpectations(t)
}
