package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/onramp-pay/onramp/model"
)

// CreateGatewayAccount is the request body for creating a gateway account.
type CreateGatewayAccount struct {
	Type                  string                 `json:"type"`
	Provider              string                 `json:"provider"`
	ProviderSwitchEnabled bool                   `json:"provider_switch_enabled"`
	RecurringEnabled      bool                   `json:"recurring_enabled"`
	MetaData              map[string]interface{} `json:"meta_data"`
}

func (r *CreateGatewayAccount) ValidateCreateGatewayAccount() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Provider, validation.Required),
		validation.Field(&r.Type, validation.In("live", "test")),
	)
}

func (r *CreateGatewayAccount) ToGatewayAccount() model.GatewayAccount {
	return model.GatewayAccount{
		Type:                  r.Type,
		Provider:              r.Provider,
		ProviderSwitchEnabled: r.ProviderSwitchEnabled,
		RecurringEnabled:      r.RecurringEnabled,
		MetaData:              r.MetaData,
	}
}

// UpdateGatewayAccount is the request body for updating account settings.
type UpdateGatewayAccount struct {
	ProviderSwitchEnabled *bool                  `json:"provider_switch_enabled"`
	RecurringEnabled      *bool                  `json:"recurring_enabled"`
	MetaData              map[string]interface{} `json:"meta_data"`
}

// ApplyTo copies the set fields onto the account.
func (r *UpdateGatewayAccount) ApplyTo(account *model.GatewayAccount) {
	if r.ProviderSwitchEnabled != nil {
		account.ProviderSwitchEnabled = *r.ProviderSwitchEnabled
	}
	if r.RecurringEnabled != nil {
		account.RecurringEnabled = *r.RecurringEnabled
	}
	if r.MetaData != nil {
		account.MetaData = r.MetaData
	}
}

// StartSwitch is the request body for beginning a provider switch.
type StartSwitch struct {
	Provider string `json:"provider"`
}

func (r *StartSwitch) ValidateStartSwitch() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Provider, validation.Required),
	)
}

// TaskData is the request body for submitting onboarding task data. Task
// selects which fields are read; the rest are ignored.
type TaskData struct {
	Task string `json:"task"`

	// Worldpay merchant details
	MerchantCode string `json:"merchant_code"`
	Username     string `json:"username"`
	Password     string `json:"password"`

	// Worldpay 3DS Flex
	OrganisationalUnitID string `json:"organisational_unit_id"`
	Issuer               string `json:"issuer"`
	JWTMACKey            string `json:"jwt_mac_key"`

	// Stripe
	ConnectAccount string                 `json:"connect_account"`
	Fields         map[string]interface{} `json:"fields"`
}

func (r *TaskData) ValidateTaskData() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Task, validation.Required),
	)
}

func (r *TaskData) merchantDetails() model.WorldpayMerchantDetails {
	return model.WorldpayMerchantDetails{
		MerchantCode: r.MerchantCode,
		Username:     r.Username,
		Password:     r.Password,
	}
}

// ToPayload builds the typed task payload the submitted task name calls for.
func (r *TaskData) ToPayload() (model.TaskPayload, error) {
	switch r.Task {
	case model.TaskAccountCredentials:
		return &model.WorldpayOneOffPayload{WorldpayMerchantDetails: r.merchantDetails()}, nil
	case model.TaskRecurringCIT:
		return &model.WorldpayCITPayload{WorldpayMerchantDetails: r.merchantDetails()}, nil
	case model.TaskRecurringMIT:
		return &model.WorldpayMITPayload{WorldpayMerchantDetails: r.merchantDetails()}, nil
	case model.TaskFlexCredentials:
		return &model.FlexPayload{FlexCredentials: model.FlexCredentials{
			OrganisationalUnitID: r.OrganisationalUnitID,
			Issuer:               r.Issuer,
			JWTMACKey:            r.JWTMACKey,
		}}, nil
	case model.TaskBankDetails, model.TaskResponsiblePerson, model.TaskDirector,
		model.TaskVATNumber, model.TaskCompanyNumber, model.TaskGovernmentEntityDocument,
		model.TaskOrganisationDetails:
		return &model.StripeTaskPayload{
			Task:           r.Task,
			ConnectAccount: r.ConnectAccount,
			Fields:         r.Fields,
		}, nil
	default:
		return nil, fmt.Errorf("unknown onboarding task '%s'", r.Task)
	}
}

// VerificationPaymentRequest is the confirmation callback body for the switch
// test payment.
type VerificationPaymentRequest struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r *VerificationPaymentRequest) ValidateVerificationPayment() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reference, validation.Required),
	)
}

func (r *VerificationPaymentRequest) ToPayload() *model.VerificationPaymentPayload {
	return &model.VerificationPaymentPayload{
		Reference: r.Reference,
		Amount:    r.Amount,
	}
}
