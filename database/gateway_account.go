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

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

// CreateGatewayAccount inserts a new gateway account.
// The account ID and creation timestamp are assigned here.
func (d Datasource) CreateGatewayAccount(ctx context.Context, account model.GatewayAccount) (model.GatewayAccount, error) {
	metaDataJSON, err := json.Marshal(account.MetaData)
	if err != nil {
		return account, err
	}

	account.AccountID = model.GenerateUUIDWithSuffix("acct")
	account.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO onramp.gateway_accounts (account_id, type, provider, provider_switch_enabled, recurring_enabled, created_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, account.AccountID, account.Type, account.Provider, account.ProviderSwitchEnabled, account.RecurringEnabled, account.CreatedAt, metaDataJSON)

	return account, err
}

// GetGatewayAccount retrieves an account by ID together with all of its
// credentials, newest first. The credential subsystem treats the result as a
// refresh-on-demand aggregate.
func (d Datasource) GetGatewayAccount(ctx context.Context, id string) (*model.GatewayAccount, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT account_id, type, provider, provider_switch_enabled, recurring_enabled, created_at, meta_data
		FROM onramp.gateway_accounts WHERE account_id = $1
	`, id)

	account := &model.GatewayAccount{}
	var metaDataJSON []byte

	err := row.Scan(&account.AccountID, &account.Type, &account.Provider,
		&account.ProviderSwitchEnabled, &account.RecurringEnabled, &account.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound,
				fmt.Sprintf("gateway account with ID '%s' not found", id), nil)
		}
		return nil, err
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &account.MetaData); err != nil {
			return nil, err
		}
	}

	credentials, err := d.GetCredentialsByAccount(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}
	account.Credentials = credentials

	return account, nil
}

// UpdateGatewayAccount updates an account's mutable settings.
func (d Datasource) UpdateGatewayAccount(ctx context.Context, account *model.GatewayAccount) error {
	metaDataJSON, err := json.Marshal(account.MetaData)
	if err != nil {
		return err
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE onramp.gateway_accounts
		SET provider = $2, provider_switch_enabled = $3, recurring_enabled = $4, meta_data = $5
		WHERE account_id = $1
	`, account.AccountID, account.Provider, account.ProviderSwitchEnabled, account.RecurringEnabled, metaDataJSON)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("gateway account with ID '%s' not found", account.AccountID), nil)
	}
	return nil
}
