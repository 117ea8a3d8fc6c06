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

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/onramp-pay/onramp"
	"github.com/onramp-pay/onramp/config"
	"github.com/onramp-pay/onramp/database"
)

type onrampCli struct {
	cmd *cobra.Command
}

// onrampInstance holds the service instance and its configuration for the
// lifetime of a CLI invocation.
type onrampInstance struct {
	onramp *onramp.Onramp
	cnf    *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and builds the service before any subcommand
// runs.
func preRun(app *onrampInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("onramp.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupOnramp(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.onramp = service
		app.cnf = cnf

		return nil
	}
}

func setupOnramp(cfg *config.Configuration) (*onramp.Onramp, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := onramp.NewOnramp(db)
	if err != nil {
		return nil, fmt.Errorf("error creating onramp service: %v", err)
	}
	return service, nil
}

func NewCLI() *onrampCli {
	var configFile string
	o := &onrampInstance{}

	var rootCmd = &cobra.Command{
		Use:   "onramp",
		Short: "payment provider onboarding service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./onramp.json", "Configuration file for the onramp server")
	rootCmd.PersistentPreRunE = preRun(o)

	rootCmd.AddCommand(serverCommands(o))
	rootCmd.AddCommand(migrateCommands(o))

	return &onrampCli{cmd: rootCmd}
}

func (c onrampCli) executeCli() error {
	return c.cmd.Execute()
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	if err := cli.executeCli(); err != nil {
		log.Fatal(err)
	}
}
