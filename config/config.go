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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "4005"

	defaultWorldpayTimeoutSeconds = 10
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"ONRAMP_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"ONRAMP_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"ONRAMP_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"ONRAMP_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"ONRAMP_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"ONRAMP_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"ONRAMP_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"ONRAMP_REDIS_DNS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"ONRAMP_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"ONRAMP_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"ONRAMP_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

// WorldpayConfig points the credential verifier at the Worldpay gateway used
// for authenticated no-op checks.
type WorldpayConfig struct {
	URL            string `json:"url" envconfig:"ONRAMP_WORLDPAY_URL"`
	TimeoutSeconds int    `json:"timeout_seconds" envconfig:"ONRAMP_WORLDPAY_TIMEOUT_SECONDS"`
}

// StripeConfig points the credential verifier at the Stripe API.
type StripeConfig struct {
	URL       string `json:"url" envconfig:"ONRAMP_STRIPE_URL"`
	SecretKey string `json:"secret_key" envconfig:"ONRAMP_STRIPE_SECRET_KEY"`
}

type OtelConfig struct {
	Enabled  bool   `json:"enabled" envconfig:"ONRAMP_OTEL_ENABLED"`
	Endpoint string `json:"endpoint" envconfig:"ONRAMP_OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"ONRAMP_PROJECT_NAME"`
	Server      ServerConfig     `json:"server"`
	DataSource  DataSourceConfig `json:"data_source"`
	Redis       RedisConfig      `json:"redis"`
	RateLimit   RateLimitConfig  `json:"rate_limit"`
	Worldpay    WorldpayConfig   `json:"worldpay"`
	Stripe      StripeConfig     `json:"stripe"`
	Otel        OtelConfig       `json:"otel"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("onramp", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called onramp.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Onramp Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Worldpay.URL = strings.TrimSpace(cnf.Worldpay.URL)
	cnf.Stripe.URL = strings.TrimSpace(cnf.Stripe.URL)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Worldpay.TimeoutSeconds <= 0 {
		cnf.Worldpay.TimeoutSeconds = defaultWorldpayTimeoutSeconds
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
