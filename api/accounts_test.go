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

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/onramp-pay/onramp"
	"github.com/onramp-pay/onramp/config"
	"github.com/onramp-pay/onramp/database/mocks"
	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
	"github.com/onramp-pay/onramp/verifier"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response != nil {
		if err := json.NewDecoder(resp.Body).Decode(&s.Response); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func setupRouter() (*gin.Engine, *mocks.MockDataSource, *verifier.Mock) {
	config.MockConfig(&config.Configuration{
		Redis:      config.RedisConfig{Dns: "localhost:6379"},
		DataSource: config.DataSourceConfig{Dns: "postgres://postgres:@localhost:5432/onramp?sslmode=disable"},
	})

	ds := new(mocks.MockDataSource)
	wp := verifier.NewMock(model.ProviderWorldpay)
	service := onramp.NewOnrampWithDeps(ds, nil)
	service.RegisterVerifier(wp)
	service.RegisterVerifier(verifier.NewMock(model.ProviderStripe))

	router := NewAPI(service).Router()
	return router, ds, wp
}

func TestCreateGatewayAccountEndpoint(t *testing.T) {
	router, ds, _ := setupRouter()

	ds.On("CreateGatewayAccount", mock.Anything, mock.Anything).Return(model.GatewayAccount{
		AccountID: "acct_1",
		Type:      model.AccountTypeLive,
		Provider:  model.ProviderWorldpay,
	}, nil)
	ds.On("CreateCredential", mock.Anything, mock.Anything).Return(model.Credential{
		CredentialID: "cred_1",
		State:        model.StateCreated,
	}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"type":     "live",
		"provider": "worldpay",
	})

	var response model.GatewayAccount
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/accounts",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "acct_1", response.AccountID)
	assert.Len(t, response.Credentials, 1)
}

func TestCreateGatewayAccountEndpoint_MissingProvider(t *testing.T) {
	router, _, _ := setupRouter()

	body, _ := json.Marshal(map[string]interface{}{"type": "live"})

	resp, err := SetUpTestRequest(TestRequest{
		Payload: bytes.NewBuffer(body),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/accounts",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetGatewayAccountEndpoint_NotFound(t *testing.T) {
	router, ds, _ := setupRouter()

	ds.On("GetGatewayAccount", mock.Anything, "acct_missing").Return(nil,
		apierror.NewAPIError(apierror.ErrNotFound, "gateway account with ID 'acct_missing' not found", nil))

	resp, err := SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/accounts/acct_missing",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSecretKeyAuth(t *testing.T) {
	config.MockConfig(&config.Configuration{
		Server:     config.ServerConfig{Secure: true, SecretKey: "portal-secret"},
		Redis:      config.RedisConfig{Dns: "localhost:6379"},
		DataSource: config.DataSourceConfig{Dns: "postgres://postgres:@localhost:5432/onramp?sslmode=disable"},
	})

	ds := new(mocks.MockDataSource)
	service := onramp.NewOnrampWithDeps(ds, nil)
	router := NewAPI(service).Router()

	resp, err := SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/accounts/acct_1",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	ds.On("GetGatewayAccount", mock.Anything, "acct_1").Return(&model.GatewayAccount{AccountID: "acct_1"}, nil)

	resp, err = SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/accounts/acct_1",
		Header: map[string]string{"X-Onramp-Key": "portal-secret"},
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
}
