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

package onramp

import (
	"embed"
	"fmt"

	"github.com/onramp-pay/onramp/cache"
	"github.com/onramp-pay/onramp/database"
	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/onboarding"
	"github.com/onramp-pay/onramp/verifier"
)

//go:embed sql/*.sql
var SQLFiles embed.FS

// Onramp is the service layer for gateway accounts, their payment provider
// credentials, and the onboarding tasks that gate credential activation.
type Onramp struct {
	datasource database.IDataSource
	engine     *onboarding.Engine
	verifiers  map[string]verifier.Verifier
	cache      cache.Cache
}

// NewOnramp initializes the service with the provided datasource. The remote
// verifiers for each supported provider are registered here; sandbox accounts
// have no remote side and need none.
func NewOnramp(db database.IDataSource) (*Onramp, error) {
	c, err := cache.NewCache()
	if err != nil {
		return nil, err
	}

	o := NewOnrampWithDeps(db, c)
	o.RegisterVerifier(verifier.NewWorldpay())
	o.RegisterVerifier(verifier.NewStripe())
	return o, nil
}

// NewOnrampWithDeps wires the service over explicit dependencies. A nil cache
// disables caching. No verifiers are registered; callers add their own.
func NewOnrampWithDeps(db database.IDataSource, c cache.Cache) *Onramp {
	return &Onramp{
		datasource: db,
		engine:     onboarding.NewEngine(),
		verifiers:  make(map[string]verifier.Verifier),
		cache:      c,
	}
}

// RegisterVerifier installs or replaces the verifier for a provider.
func (o *Onramp) RegisterVerifier(v verifier.Verifier) {
	o.verifiers[v.Provider()] = v
}

func (o *Onramp) verifierFor(provider string) (verifier.Verifier, error) {
	v, ok := o.verifiers[provider]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrConfiguration,
			fmt.Sprintf("no verifier registered for provider '%s'", provider), nil)
	}
	return v, nil
}
