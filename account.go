package onramp

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

const accountCacheTTL = 5 * time.Minute

func accountCacheKey(id string) string {
	return fmt.Sprintf("account:%s", id)
}

// CreateGatewayAccount creates a gateway account together with its first
// credential. Accounts always carry at least one credential, so callers never
// observe an account without one.
func (o *Onramp) CreateGatewayAccount(ctx context.Context, account model.GatewayAccount) (model.GatewayAccount, error) {
	if !o.engine.KnownProvider(account.Provider) {
		return account, apierror.NewAPIError(apierror.ErrBadRequest,
			fmt.Sprintf("unsupported payment provider '%s'", account.Provider), nil)
	}
	if account.Type == "" {
		account.Type = model.AccountTypeTest
	}
	if account.Type != model.AccountTypeLive && account.Type != model.AccountTypeTest {
		return account, apierror.NewAPIError(apierror.ErrBadRequest,
			fmt.Sprintf("account type must be 'live' or 'test', got '%s'", account.Type), nil)
	}

	created, err := o.datasource.CreateGatewayAccount(ctx, account)
	if err != nil {
		return account, err
	}

	credential := model.NewCredential(created.AccountID, created.Provider)
	if !o.engine.RequiresOnboarding(created.Provider) {
		// Providers with no onboarding tasks go straight into service.
		credential.State = model.StateActive
	}
	credential, err = o.datasource.CreateCredential(ctx, credential)
	if err != nil {
		return created, err
	}
	created.Credentials = []model.Credential{credential}

	logrus.WithFields(logrus.Fields{
		"account_id": created.AccountID,
		"provider":   created.Provider,
		"type":       created.Type,
	}).Info("gateway account created")

	return created, nil
}

// GetGatewayAccount retrieves an account, serving from cache when possible.
func (o *Onramp) GetGatewayAccount(ctx context.Context, id string) (*model.GatewayAccount, error) {
	var account model.GatewayAccount
	if o.cache != nil {
		if err := o.cache.Get(ctx, accountCacheKey(id), &account); err == nil && account.AccountID != "" {
			return &account, nil
		}
	}

	fetched, err := o.datasource.GetGatewayAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, accountCacheKey(id), fetched, accountCacheTTL); err != nil {
			logrus.WithError(err).Warn("failed to cache gateway account")
		}
	}
	return fetched, nil
}

// UpdateGatewayAccount persists changed account settings and drops the cached
// copy.
func (o *Onramp) UpdateGatewayAccount(ctx context.Context, account *model.GatewayAccount) error {
	if err := o.datasource.UpdateGatewayAccount(ctx, account); err != nil {
		return err
	}
	o.invalidateAccount(ctx, account.AccountID)
	return nil
}

func (o *Onramp) invalidateAccount(ctx context.Context, id string) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Delete(ctx, accountCacheKey(id)); err != nil {
		logrus.WithError(err).WithField("account_id", id).Warn("failed to invalidate account cache")
	}
}
