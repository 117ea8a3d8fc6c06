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
package mocks

import (
	"context"

	"github.com/onramp-pay/onramp/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Gateway account methods

func (m *MockDataSource) CreateGatewayAccount(ctx context.Context, account model.GatewayAccount) (model.GatewayAccount, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.GatewayAccount), args.Error(1)
}

func (m *MockDataSource) GetGatewayAccount(ctx context.Context, id string) (*model.GatewayAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayAccount), args.Error(1)
}

func (m *MockDataSource) UpdateGatewayAccount(ctx context.Context, account *model.GatewayAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// Credential methods

func (m *MockDataSource) CreateCredential(ctx context.Context, credential model.Credential) (model.Credential, error) {
	args := m.Called(ctx, credential)
	return args.Get(0).(model.Credential), args.Error(1)
}

func (m *MockDataSource) GetCredential(ctx context.Context, accountID, credentialID string) (*model.Credential, error) {
	args := m.Called(ctx, accountID, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *MockDataSource) GetCredentialsByAccount(ctx context.Context, accountID string) ([]model.Credential, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Credential), args.Error(1)
}

func (m *MockDataSource) UpdateCredential(ctx context.Context, credential *model.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockDataSource) ActivateCredential(ctx context.Context, accountID, credentialID string) error {
	args := m.Called(ctx, accountID, credentialID)
	return args.Error(0)
}
