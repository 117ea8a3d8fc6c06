package onramp

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/internal/traces"
	"github.com/onramp-pay/onramp/model"
	"github.com/onramp-pay/onramp/onboarding"
)

var tracer = traces.Tracer("onramp.credential")

// GetCredential retrieves a single credential by internal or external ID.
func (o *Onramp) GetCredential(ctx context.Context, accountID, credentialID string) (*model.Credential, error) {
	return o.datasource.GetCredential(ctx, accountID, credentialID)
}

// CreateCredential opens a fresh credential in CREATED for the account's
// current provider. Accounts normally get their first credential at creation
// time; this covers re-onboarding after the previous credential was retired.
func (o *Onramp) CreateCredential(ctx context.Context, accountID string) (*model.Credential, error) {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if pending := account.PendingCredentials(); len(pending) > 0 {
		return nil, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("account '%s' already has a credential being onboarded", accountID), nil)
	}
	credential, err := o.datasource.CreateCredential(ctx, model.NewCredential(account.AccountID, account.Provider))
	if err != nil {
		return nil, err
	}
	o.invalidateAccount(ctx, account.AccountID)

	logrus.WithFields(logrus.Fields{
		"account_id":    account.AccountID,
		"credential_id": credential.CredentialID,
		"provider":      account.Provider,
	}).Info("credential created")
	return &credential, nil
}

// modeFor derives the onboarding mode for a credential. A credential is part
// of a provider switch when the account already has a different ACTIVE
// credential serving payments.
func (o *Onramp) modeFor(account *model.GatewayAccount, credential *model.Credential) onboarding.Mode {
	active := account.ActiveCredential()
	if active != nil && active.CredentialID != credential.CredentialID {
		return onboarding.ModeSwitching
	}
	return onboarding.ModeCreating
}

// Tasks returns the onboarding task list for a credential, with completion
// derived from the data held against it.
func (o *Onramp) Tasks(ctx context.Context, accountID, credentialID string) ([]model.Task, error) {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	credential := account.Credential(credentialID)
	if credential == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("credential '%s' not found on account '%s'", credentialID, accountID), nil)
	}
	return o.engine.Tasks(account, credential, o.modeFor(account, credential))
}

// HasIncompleteTasks reports whether any onboarding task for the credential
// is still outstanding.
func (o *Onramp) HasIncompleteTasks(ctx context.Context, accountID, credentialID string) (bool, error) {
	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	credential := account.Credential(credentialID)
	if credential == nil {
		return false, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("credential '%s' not found on account '%s'", credentialID, accountID), nil)
	}
	return o.engine.HasIncompleteTasks(account, credential, o.modeFor(account, credential))
}

// UpdateTaskData records task data against a credential. The payload is
// validated locally, then checked with the provider before anything is
// persisted, so a rejected or unverifiable submission leaves the credential
// untouched. Resubmitting the same data is allowed and simply overwrites.
func (o *Onramp) UpdateTaskData(ctx context.Context, accountID, credentialID string, payload model.TaskPayload) (*model.Credential, error) {
	ctx, span := tracer.Start(ctx, "credential.update_task_data")
	defer span.End()

	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	credential := account.Credential(credentialID)
	if credential == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("credential '%s' not found on account '%s'", credentialID, accountID), nil)
	}
	if credential.State == model.StateRetired {
		return nil, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("credential '%s' is retired", credentialID), nil)
	}

	if err := payload.Validate(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), nil)
	}
	if err := o.checkTaskApplies(account, credential, payload.TaskName()); err != nil {
		return nil, err
	}

	v, err := o.verifierFor(credential.Provider)
	if err != nil {
		return nil, err
	}
	result, err := v.Verify(ctx, payload)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"account_id": accountID,
			"provider":   credential.Provider,
			"task":       payload.TaskName(),
		}).Error("provider verification unavailable")
		return nil, apierror.NewAPIError(apierror.ErrVerifierUnavailable,
			fmt.Sprintf("could not reach %s to verify '%s'", credential.Provider, payload.TaskName()), nil)
	}
	if !result.OK {
		return nil, apierror.NewAPIError(apierror.ErrVerificationFailed,
			fmt.Sprintf("%s rejected '%s' data", credential.Provider, payload.TaskName()),
			map[string]string{"reason": result.Reason, "field": result.Field})
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
		"task":          payload.TaskName(),
		"state":         credential.State,
	}).Info("task data recorded")

	return credential, nil
}

// checkTaskApplies rejects data for a task that is not part of the
// credential's onboarding, so a payload meant for another provider cannot
// land on the wrong credential row.
func (o *Onramp) checkTaskApplies(account *model.GatewayAccount, credential *model.Credential, taskName string) error {
	tasks, err := o.engine.Tasks(account, credential, o.modeFor(account, credential))
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if task.Name == taskName {
			return nil
		}
	}
	return apierror.NewAPIError(apierror.ErrBadRequest,
		fmt.Sprintf("task '%s' does not apply to this %s credential", taskName, credential.Provider), nil)
}

// advanceIfComplete moves a CREATED credential to ENTERED once the last
// required task's data is in place. Saving data for an earlier task leaves
// the state alone.
func (o *Onramp) advanceIfComplete(account *model.GatewayAccount, credential *model.Credential) error {
	if credential.State != model.StateCreated {
		return nil
	}
	incomplete, err := o.engine.HasIncompleteTasks(account, credential, o.modeFor(account, credential))
	if err != nil {
		return err
	}
	if !incomplete {
		credential.State = model.StateEntered
	}
	return nil
}

// Activate promotes a credential to ACTIVE, retiring any credential it
// replaces. Onboarding completeness is re-checked here regardless of what the
// caller has already seen, and the swap itself happens in a single database
// transaction. Transient conflicts with a concurrent activation are retried.
func (o *Onramp) Activate(ctx context.Context, accountID, credentialID string) (*model.Credential, error) {
	ctx, span := tracer.Start(ctx, "credential.activate")
	defer span.End()

	account, err := o.datasource.GetGatewayAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	credential := account.Credential(credentialID)
	if credential == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("credential '%s' not found on account '%s'", credentialID, accountID), nil)
	}

	incomplete, err := o.incompleteTaskNames(account, credential)
	if err != nil {
		return nil, err
	}
	if len(incomplete) > 0 {
		return nil, apierror.NewAPIError(apierror.ErrIncompleteOnboarding,
			fmt.Sprintf("credential '%s' has incomplete onboarding tasks", credential.CredentialID),
			map[string][]string{"incomplete_tasks": incomplete})
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond)), 3), ctx)
	err = backoff.Retry(func() error {
		activateErr := o.datasource.ActivateCredential(ctx, accountID, credential.CredentialID)
		if activateErr == nil {
			return nil
		}
		// Conflicts may be a concurrent activation losing a race; anything
		// else will not improve on retry.
		if apierror.Is(activateErr, apierror.ErrConflict) {
			return activateErr
		}
		return backoff.Permanent(activateErr)
	}, policy)
	if err != nil {
		return nil, err
	}
	o.invalidateAccount(ctx, accountID)

	logrus.WithFields(logrus.Fields{
		"account_id":    accountID,
		"credential_id": credential.CredentialID,
		"provider":      credential.Provider,
	}).Info("credential activated")

	return o.datasource.GetCredential(ctx, accountID, credential.CredentialID)
}

func (o *Onramp) incompleteTaskNames(account *model.GatewayAccount, credential *model.Credential) ([]string, error) {
	tasks, err := o.engine.Tasks(account, credential, o.modeFor(account, credential))
	if err != nil {
		return nil, err
	}
	var incomplete []string
	for _, task := range tasks {
		if !task.Complete {
			incomplete = append(incomplete, task.Name)
		}
	}
	return incomplete, nil
}
