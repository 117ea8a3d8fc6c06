package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// TaskPayload is one submitted fragment of onboarding data. A payload is
// validated for shape, checked against the PSP by a verifier, and only then
// applied to the credential.
type TaskPayload interface {
	TaskName() string
	Validate() error
	Apply(credential *Credential)
}

// WorldpayOneOffPayload carries the one-off merchant details for the
// account-credentials task.
type WorldpayOneOffPayload struct {
	WorldpayMerchantDetails
}

func (p *WorldpayOneOffPayload) TaskName() string { return TaskAccountCredentials }

func (p *WorldpayOneOffPayload) Validate() error {
	return validateMerchantDetails(&p.WorldpayMerchantDetails)
}

func (p *WorldpayOneOffPayload) Apply(credential *Credential) {
	details := p.WorldpayMerchantDetails
	credential.EnsureWorldpay().OneOff = &details
}

// WorldpayCITPayload carries the customer-initiated recurring merchant details.
type WorldpayCITPayload struct {
	WorldpayMerchantDetails
}

func (p *WorldpayCITPayload) TaskName() string { return TaskRecurringCIT }

func (p *WorldpayCITPayload) Validate() error {
	return validateMerchantDetails(&p.WorldpayMerchantDetails)
}

func (p *WorldpayCITPayload) Apply(credential *Credential) {
	details := p.WorldpayMerchantDetails
	credential.EnsureWorldpay().RecurringCIT = &details
}

// WorldpayMITPayload carries the merchant-initiated recurring merchant details.
type WorldpayMITPayload struct {
	WorldpayMerchantDetails
}

func (p *WorldpayMITPayload) TaskName() string { return TaskRecurringMIT }

func (p *WorldpayMITPayload) Validate() error {
	return validateMerchantDetails(&p.WorldpayMerchantDetails)
}

func (p *WorldpayMITPayload) Apply(credential *Credential) {
	details := p.WorldpayMerchantDetails
	credential.EnsureWorldpay().RecurringMIT = &details
}

func validateMerchantDetails(d *WorldpayMerchantDetails) error {
	return validation.ValidateStruct(d,
		validation.Field(&d.MerchantCode, validation.Required),
		validation.Field(&d.Username, validation.Required),
		validation.Field(&d.Password, validation.Required),
	)
}

// FlexPayload carries the Worldpay 3DS Flex issuer credentials.
type FlexPayload struct {
	FlexCredentials
}

func (p *FlexPayload) TaskName() string { return TaskFlexCredentials }

func (p *FlexPayload) Validate() error {
	return validation.ValidateStruct(&p.FlexCredentials,
		validation.Field(&p.OrganisationalUnitID, validation.Required),
		validation.Field(&p.Issuer, validation.Required),
		validation.Field(&p.JWTMACKey, validation.Required),
	)
}

func (p *FlexPayload) Apply(credential *Credential) {
	flex := p.FlexCredentials
	credential.EnsureWorldpay().Flex = &flex
}

// stripeTasks are the Stripe onboarding fragments a StripeTaskPayload may fill.
var stripeTasks = []interface{}{
	TaskBankDetails,
	TaskResponsiblePerson,
	TaskDirector,
	TaskVATNumber,
	TaskCompanyNumber,
	TaskGovernmentEntityDocument,
	TaskOrganisationDetails,
}

// StripeTaskPayload forwards one Stripe onboarding fragment to the connected
// Stripe account. Only the completion marker is kept locally; Stripe owns the
// data itself.
type StripeTaskPayload struct {
	Task           string                 `json:"task"`
	ConnectAccount string                 `json:"connect_account"`
	Fields         map[string]interface{} `json:"fields"`
}

func (p *StripeTaskPayload) TaskName() string { return p.Task }

func (p *StripeTaskPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Task, validation.Required, validation.In(stripeTasks...)),
		validation.Field(&p.ConnectAccount, validation.Required),
		validation.Field(&p.Fields, validation.Required),
	)
}

func (p *StripeTaskPayload) Apply(credential *Credential) {
	setup := credential.EnsureStripe()
	setup.ConnectAccountID = p.ConnectAccount
	switch p.Task {
	case TaskBankDetails:
		setup.BankDetails = true
	case TaskResponsiblePerson:
		setup.ResponsiblePerson = true
	case TaskDirector:
		setup.Director = true
	case TaskVATNumber:
		setup.VATNumber = true
	case TaskCompanyNumber:
		setup.CompanyNumber = true
	case TaskGovernmentEntityDocument:
		setup.GovernmentEntityDocument = true
	case TaskOrganisationDetails:
		setup.OrganisationDetails = true
	}
}

// VerificationPaymentPayload records the confirmed live test payment that
// gates a provider switch. It arrives on the asynchronous confirmation
// callback; the round-trip payment is its own proof, so it never goes through
// a verifier.
type VerificationPaymentPayload struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
}

func (p *VerificationPaymentPayload) TaskName() string { return TaskVerificationPayment }

func (p *VerificationPaymentPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Reference, validation.Required),
		validation.Field(&p.Amount, validation.By(func(interface{}) error {
			if !p.Amount.IsPositive() {
				return validation.NewError("validation_amount", "amount must be greater than zero")
			}
			return nil
		})),
	)
}

func (p *VerificationPaymentPayload) Apply(credential *Credential) {
	credential.VerificationPayment = &VerificationPayment{
		Reference:   p.Reference,
		Amount:      p.Amount,
		CompletedAt: time.Now(),
	}
}
