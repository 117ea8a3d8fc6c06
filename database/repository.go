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

	"github.com/onramp-pay/onramp/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	gatewayAccount
	credential
}

// gatewayAccount defines methods for handling gateway accounts.
type gatewayAccount interface {
	CreateGatewayAccount(ctx context.Context, account model.GatewayAccount) (model.GatewayAccount, error)
	GetGatewayAccount(ctx context.Context, id string) (*model.GatewayAccount, error) // Retrieves an account with its credentials
	UpdateGatewayAccount(ctx context.Context, account *model.GatewayAccount) error
}

// credential defines methods for handling provider credentials.
type credential interface {
	CreateCredential(ctx context.Context, credential model.Credential) (model.Credential, error)
	GetCredential(ctx context.Context, accountID, credentialID string) (*model.Credential, error)
	GetCredentialsByAccount(ctx context.Context, accountID string) ([]model.Credential, error)
	UpdateCredential(ctx context.Context, credential *model.Credential) error // Persists payloads and derived state
	ActivateCredential(ctx context.Context, accountID, credentialID string) error
}
