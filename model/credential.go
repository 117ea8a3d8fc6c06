package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CredentialState is the lifecycle state of a provider credential.
type CredentialState string

const (
	// StateCreated means the credential row exists but no secrets have been supplied yet.
	StateCreated CredentialState = "CREATED"
	// StateEntered means every required onboarding task has data, but the
	// credential has not been promoted to serving traffic.
	StateEntered CredentialState = "ENTERED"
	// StateActive means the credential is serving live or test traffic.
	StateActive CredentialState = "ACTIVE"
	// StateRetired is terminal; the credential was superseded by a later one.
	StateRetired CredentialState = "RETIRED"
)

// Payment providers known to the platform.
const (
	ProviderWorldpay = "worldpay"
	ProviderStripe   = "stripe"
	ProviderSandbox  = "sandbox"
)

// stateTransitions lists the valid forward transitions for each state.
// CREATED -> ACTIVE covers providers with no onboarding tasks, which never
// pass through ENTERED.
var stateTransitions = map[CredentialState][]CredentialState{
	StateCreated: {StateEntered, StateActive},
	StateEntered: {StateActive},
	StateActive:  {StateRetired},
	StateRetired: {},
}

// CanTransitionTo reports whether next is a valid transition from s.
// Re-entering the same state (resubmitting corrected data) is always allowed.
func (s CredentialState) CanTransitionTo(next CredentialState) bool {
	if s == next {
		return true
	}
	for _, allowed := range stateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s CredentialState) Terminal() bool {
	return len(stateTransitions[s]) == 0
}

// WorldpayMerchantDetails is one Worldpay merchant login used to process
// payments under a specific merchant code.
type WorldpayMerchantDetails struct {
	MerchantCode string `json:"merchant_code"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

func (d *WorldpayMerchantDetails) Complete() bool {
	return d != nil && d.MerchantCode != "" && d.Username != "" && d.Password != ""
}

// FlexCredentials are the Worldpay 3DS Flex issuer details.
type FlexCredentials struct {
	OrganisationalUnitID string `json:"organisational_unit_id"`
	Issuer               string `json:"issuer"`
	JWTMACKey            string `json:"jwt_mac_key"`
}

func (f *FlexCredentials) Complete() bool {
	return f != nil && f.OrganisationalUnitID != "" && f.Issuer != "" && f.JWTMACKey != ""
}

// WorldpayCredentials is the provider-specific secret payload for a Worldpay
// credential. Task completion is derived from which fragments are populated.
type WorldpayCredentials struct {
	OneOff       *WorldpayMerchantDetails `json:"one_off_customer_initiated,omitempty"`
	RecurringCIT *WorldpayMerchantDetails `json:"recurring_customer_initiated,omitempty"`
	RecurringMIT *WorldpayMerchantDetails `json:"recurring_merchant_initiated,omitempty"`
	Flex         *FlexCredentials         `json:"flex,omitempty"`
}

// StripeSetup records which Stripe onboarding fragments have been accepted by
// Stripe. The underlying data lives on the connected Stripe account; only the
// completion markers are persisted here.
type StripeSetup struct {
	ConnectAccountID         string `json:"connect_account_id,omitempty"`
	BankDetails              bool   `json:"bank_details"`
	ResponsiblePerson        bool   `json:"responsible_person"`
	Director                 bool   `json:"director"`
	VATNumber                bool   `json:"vat_number"`
	CompanyNumber            bool   `json:"company_number"`
	GovernmentEntityDocument bool   `json:"government_entity_document"`
	OrganisationDetails      bool   `json:"organisation_details"`
}

// VerificationPayment is the record of the live test payment that gates a
// provider switch. It is written by the asynchronous confirmation callback.
type VerificationPayment struct {
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	CompletedAt time.Time       `json:"completed_at"`
}

// Credential is one provider-credential attempt tied to a gateway account.
type Credential struct {
	CredentialID        string               `json:"credential_id"`
	ExternalID          string               `json:"external_id"`
	GatewayAccountID    string               `json:"gateway_account_id"`
	Provider            string               `json:"provider"`
	State               CredentialState      `json:"state"`
	Worldpay            *WorldpayCredentials `json:"worldpay,omitempty"`
	Stripe              *StripeSetup         `json:"stripe,omitempty"`
	VerificationPayment *VerificationPayment `json:"verification_payment,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// Pending reports whether the credential is in flight: created or entered,
// not yet serving and not retired.
func (c *Credential) Pending() bool {
	return c.State == StateCreated || c.State == StateEntered
}

// EnsureWorldpay returns the Worldpay payload, initialising it if absent.
func (c *Credential) EnsureWorldpay() *WorldpayCredentials {
	if c.Worldpay == nil {
		c.Worldpay = &WorldpayCredentials{}
	}
	return c.Worldpay
}

// EnsureStripe returns the Stripe setup markers, initialising them if absent.
func (c *Credential) EnsureStripe() *StripeSetup {
	if c.Stripe == nil {
		c.Stripe = &StripeSetup{}
	}
	return c.Stripe
}

// VerificationPaymentComplete reports whether the switch test payment has
// been confirmed for this credential.
func (c *Credential) VerificationPaymentComplete() bool {
	return c.VerificationPayment != nil && !c.VerificationPayment.CompletedAt.IsZero()
}

// NewCredential creates a credential in CREATED for the given account.
func NewCredential(gatewayAccountID, provider string) Credential {
	return Credential{
		CredentialID:     GenerateUUIDWithSuffix("cred"),
		ExternalID:       GenerateUUIDWithSuffix("ext"),
		GatewayAccountID: gatewayAccountID,
		Provider:         provider,
		State:            StateCreated,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}
