package onramp

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

// candidate returns the single pending credential a switch is being prepared
// on. Two pending credentials on one account means earlier writes raced; the
// state is surfaced rather than guessed at.
func (o *Onramp) candidate(account *model.GatewayAccount) (*model.Credential, error) {
	if account.ActiveCredential() == nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("account '%s' has no active credential; nothing is being switched away from", account.AccountID), nil)
	}
	pending := account.PendingCredentials()
	switch len(pending) {
	case 0:
		return nil, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("no provider switch in progress on account '%s'", account.AccountID), nil)
	case 1:
		return pending[0], nil
	default:
		ids := make([]string, len(pending))
		for i, c := range pending {
			ids[i] = c.CredentialID
		}
		return nil, apierror.NewAPIError(apierror.ErrAmbiguousState,
			fmt.Sprintf("account '%s' has %d pending credentials, expected one", account.AccountID, len(pending)),
			map[string][]string{"pending_credentials": ids})
	}
}

// CanStartSwitch reports whether a provider switch may begin on the account.
// A nil error means yes; otherwise the error explains what blocks it.
func (o *Onramp) CanStartSwitch(ctx context.Context, accountID string) error {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return err
	}
	return o.canStartSwitch(account)
}

func (o *Onramp) canStartSwitch(account *model.GatewayAccount) error {
	if !account.ProviderSwitchEnabled {
		return apierror.NewAPIError(apierror.ErrBadRequest,
			fmt.Sprintf("provider switching is not enabled on account '%s'", account.AccountID), nil)
	}
	if account.ActiveCredential() == nil {
		return apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("account '%s' has no active credential to switch away from", account.AccountID), nil)
	}
	pending := account.PendingCredentials()
	if len(pending) > 1 {
		return apierror.NewAPIError(apierror.ErrAmbiguousState,
			fmt.Sprintf("account '%s' has %d pending credentials, expected none", account.AccountID, len(pending)), nil)
	}
	if len(pending) == 1 {
		return apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("a provider switch is already in progress on account '%s'", account.AccountID), nil)
	}
	return nil
}

// StartSwitch begins a provider switch by creating a fresh credential for the
// target provider alongside the one currently serving payments.
func (o *Onramp) StartSwitch(ctx context.Context, accountID, provider string) (*model.Credential, error) {
	if !o.engine.KnownProvider(provider) {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest,
			fmt.Sprintf("unsupported payment provider '%s'", provider), nil)
	}

	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := o.canStartSwitch(account); err != nil {
		return nil, err
	}

	credential, err := o.datasource.CreateCredential(ctx, model.NewCredential(accountID, provider))
	if err != nil {
		return nil, err
	}
	o.invalidateAccount(ctx, accountID)

	logrus.WithFields(logrus.Fields{
		"account_id":    accountID,
		"credential_id": credential.CredentialID,
		"from_provider": account.Provider,
		"to_provider":   provider,
	}).Info("provider switch started")

	return &credential, nil
}

// SwitchTasks returns the onboarding tasks the in-flight switch credential
// must complete, including the live verification payment.
func (o *Onramp) SwitchTasks(ctx context.Context, accountID string) ([]model.Task, error) {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	credential, err := o.candidate(account)
	if err != nil {
		return nil, err
	}
	return o.engine.Tasks(account, credential, o.modeFor(account, credential))
}

// RecordVerificationPayment marks the live verification payment of an
// in-flight switch as completed. The payment itself was made through the new
// provider, so there is no further remote check to run here.
func (o *Onramp) RecordVerificationPayment(ctx context.Context, accountID string, payload *model.VerificationPaymentPayload) (*model.Credential, error) {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	credential, err := o.candidate(account)
	if err != nil {
		return nil, err
	}

	if err := payload.Validate(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), nil)
	}

	payload.Apply(credential)
	if err := o.advanceIfComplete(account, credential); err != nil {
		return nil, err
	}

	if err := o.datasource.UpdateCredential(ctx, credential); err != nil {
		return nil, err
	}
	o.invalidateAccount(ctx, accountID)

	logrus.WithFields(logrus.Fields{
		"account_id":    accountID,
		"credential_id": credential.CredentialID,
		"reference":     payload.Reference,
	}).Info("verification payment recorded")

	return credential, nil
}

// FinalizeSwitch activates the switch credential, retiring the one it
// replaces, and moves the account onto the new provider. Task completeness is
// re-checked server side before anything changes.
func (o *Onramp) FinalizeSwitch(ctx context.Context, accountID string) (*model.Credential, error) {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	credential, err := o.candidate(account)
	if err != nil {
		return nil, err
	}

	activated, err := o.Activate(ctx, accountID, credential.CredentialID)
	if err != nil {
		return nil, err
	}

	if account.Provider != activated.Provider {
		account.Provider = activated.Provider
		if err := o.datasource.UpdateGatewayAccount(ctx, account); err != nil {
			return nil, err
		}
	}
	o.invalidateAccount(ctx, accountID)

	logrus.WithFields(logrus.Fields{
		"account_id":    accountID,
		"credential_id": activated.CredentialID,
		"provider":      activated.Provider,
	}).Info("provider switch finalized")

	return activated, nil
}
