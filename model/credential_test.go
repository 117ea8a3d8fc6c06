package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCredentialStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    CredentialState
		to      CredentialState
		allowed bool
	}{
		{"created to entered", StateCreated, StateEntered, true},
		{"created to active", StateCreated, StateActive, true},
		{"entered to active", StateEntered, StateActive, true},
		{"active to retired", StateActive, StateRetired, true},
		{"entered to created", StateEntered, StateCreated, false},
		{"active to entered", StateActive, StateEntered, false},
		{"retired to active", StateRetired, StateActive, false},
		{"retired to entered", StateRetired, StateEntered, false},
		{"same state resubmission", StateEntered, StateEntered, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRetiredIsTerminal(t *testing.T) {
	assert.True(t, StateRetired.Terminal())
	assert.False(t, StateCreated.Terminal())
	assert.False(t, StateEntered.Terminal())
	assert.False(t, StateActive.Terminal())
}

func TestWorldpayMerchantDetailsComplete(t *testing.T) {
	var nilDetails *WorldpayMerchantDetails
	assert.False(t, nilDetails.Complete())
	assert.False(t, (&WorldpayMerchantDetails{MerchantCode: "MERCHANT"}).Complete())
	assert.True(t, (&WorldpayMerchantDetails{
		MerchantCode: "MERCHANT",
		Username:     "ops-user",
		Password:     "s3cret",
	}).Complete())
}

func TestActiveCredentialAndPending(t *testing.T) {
	account := GatewayAccount{
		AccountID: "acct_1",
		Provider:  ProviderWorldpay,
		Credentials: []Credential{
			{CredentialID: "cred_old", State: StateRetired},
			{CredentialID: "cred_live", State: StateActive},
			{CredentialID: "cred_new", State: StateEntered},
		},
	}

	active := account.ActiveCredential()
	assert.NotNil(t, active)
	assert.Equal(t, "cred_live", active.CredentialID)

	pending := account.PendingCredentials()
	assert.Len(t, pending, 1)
	assert.Equal(t, "cred_new", pending[0].CredentialID)
}

func TestCredentialLookupByExternalID(t *testing.T) {
	account := GatewayAccount{
		Credentials: []Credential{
			{CredentialID: "cred_1", ExternalID: "ext_1"},
		},
	}
	assert.NotNil(t, account.Credential("cred_1"))
	assert.NotNil(t, account.Credential("ext_1"))
	assert.Nil(t, account.Credential("cred_missing"))
}

func TestWorldpayPayloadApply(t *testing.T) {
	credential := NewCredential("acct_1", ProviderWorldpay)
	payload := &WorldpayOneOffPayload{WorldpayMerchantDetails{
		MerchantCode: "MERCHANT",
		Username:     "ops-user",
		Password:     "s3cret",
	}}

	assert.NoError(t, payload.Validate())
	payload.Apply(&credential)

	assert.True(t, credential.Worldpay.OneOff.Complete())
	assert.Nil(t, credential.Worldpay.RecurringCIT)
}

func TestWorldpayPayloadValidation(t *testing.T) {
	payload := &WorldpayCITPayload{WorldpayMerchantDetails{MerchantCode: "MERCHANT"}}
	assert.Error(t, payload.Validate())
}

func TestStripePayloadApply(t *testing.T) {
	credential := NewCredential("acct_1", ProviderStripe)
	payload := &StripeTaskPayload{
		Task:           TaskBankDetails,
		ConnectAccount: "acct_stripe_123",
		Fields:         map[string]interface{}{"sort_code": "108800", "account_number": "00012345"},
	}

	assert.NoError(t, payload.Validate())
	payload.Apply(&credential)

	assert.True(t, credential.Stripe.BankDetails)
	assert.False(t, credential.Stripe.ResponsiblePerson)
	assert.Equal(t, "acct_stripe_123", credential.Stripe.ConnectAccountID)
}

func TestStripePayloadRejectsUnknownTask(t *testing.T) {
	payload := &StripeTaskPayload{
		Task:           "favourite_colour",
		ConnectAccount: "acct_stripe_123",
		Fields:         map[string]interface{}{"colour": "teal"},
	}
	assert.Error(t, payload.Validate())
}

func TestVerificationPaymentPayload(t *testing.T) {
	credential := NewCredential("acct_1", ProviderStripe)
	payload := &VerificationPaymentPayload{Reference: "ref_42", Amount: decimal.NewFromInt(2)}

	assert.NoError(t, payload.Validate())
	assert.False(t, credential.VerificationPaymentComplete())

	payload.Apply(&credential)
	assert.True(t, credential.VerificationPaymentComplete())
	assert.Equal(t, "ref_42", credential.VerificationPayment.Reference)
}

func TestVerificationPaymentPayloadRequiresPositiveAmount(t *testing.T) {
	payload := &VerificationPaymentPayload{Reference: "ref_42", Amount: decimal.Zero}
	assert.Error(t, payload.Validate())
}

func TestNewCredentialStartsCreated(t *testing.T) {
	credential := NewCredential("acct_1", ProviderWorldpay)
	assert.Equal(t, StateCreated, credential.State)
	assert.Equal(t, "acct_1", credential.GatewayAccountID)
	assert.Contains(t, credential.CredentialID, "cred_")
	assert.Contains(t, credential.ExternalID, "ext_")
	assert.True(t, credential.Pending())
}
