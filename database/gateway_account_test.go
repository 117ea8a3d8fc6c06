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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

func TestCreateGatewayAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	account := model.GatewayAccount{
		Type:             model.AccountTypeLive,
		Provider:         model.ProviderWorldpay,
		RecurringEnabled: true,
		MetaData: map[string]interface{}{
			"service_name": gofakeit.Company(),
		},
	}

	mock.ExpectExec("INSERT INTO onramp.gateway_accounts").
		WithArgs(sqlmock.AnyArg(), account.Type, account.Provider, account.ProviderSwitchEnabled, account.RecurringEnabled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateGatewayAccount(context.Background(), account)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.AccountID)
	assert.Contains(t, created.AccountID, "acct_")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestGetGatewayAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	accountID := "acct_" + "test"
	now := time.Now()

	mock.ExpectQuery("SELECT account_id, type, provider, provider_switch_enabled, recurring_enabled, created_at, meta_data FROM onramp.gateway_accounts").
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "type", "provider", "provider_switch_enabled", "recurring_enabled", "created_at", "meta_data"}).
			AddRow(accountID, "live", "worldpay", true, false, now, []byte(`{"service_name":"Parking permits"}`)))

	mock.ExpectQuery("SELECT credential_id, external_id, gateway_account_id, provider, state, worldpay, stripe, verification_payment, created_at, updated_at FROM onramp.credentials").
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"credential_id", "external_id", "gateway_account_id", "provider", "state", "worldpay", "stripe", "verification_payment", "created_at", "updated_at"}).
			AddRow("cred_1", "ext_1", accountID, "worldpay", "ACTIVE", []byte(`{"one_off_customer_initiated":{"merchant_code":"MC1","username":"u","password":"p"}}`), nil, nil, now, now))

	account, err := ds.GetGatewayAccount(context.Background(), accountID)
	assert.NoError(t, err)
	assert.Equal(t, accountID, account.AccountID)
	assert.True(t, account.ProviderSwitchEnabled)
	assert.Equal(t, "Parking permits", account.MetaData["service_name"])
	assert.Len(t, account.Credentials, 1)
	assert.Equal(t, model.StateActive, account.Credentials[0].State)
	assert.Equal(t, "MC1", account.Credentials[0].Worldpay.OneOff.MerchantCode)
}

func TestGetGatewayAccount_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT account_id, type, provider").
		WithArgs("acct_missing").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "type", "provider", "provider_switch_enabled", "recurring_enabled", "created_at", "meta_data"}))

	_, err = ds.GetGatewayAccount(context.Background(), "acct_missing")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestUpdateGatewayAccount_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	account := &model.GatewayAccount{
		AccountID: "acct_missing",
		Provider:  model.ProviderStripe,
	}

	mock.ExpectExec("UPDATE onramp.gateway_accounts").
		WithArgs(account.AccountID, account.Provider, account.ProviderSwitchEnabled, account.RecurringEnabled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateGatewayAccount(context.Background(), account)
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}
