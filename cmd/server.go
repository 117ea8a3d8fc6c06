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
	"context"
	"log"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/onramp-pay/onramp/api"
	"github.com/onramp-pay/onramp/config"
	"github.com/onramp-pay/onramp/internal/traces"
)

// serveTLS starts an HTTPS server with certificates managed by CertMagic.
// With no domain configured it falls back to localhost.
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start HTTPS server: %v", err)
	}

	return nil
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	if cfg.SSL {
		return serveTLS(router, cfg)
	}
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

func serverCommands(o *onrampInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start onramp server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			router := api.NewAPI(o.onramp).Router()

			cfg, err := config.Fetch()
			if err != nil {
				log.Fatal(err)
			}

			if cfg.Otel.Enabled {
				shutdown, err := traces.SetupTracing(ctx, cfg.Otel.Endpoint)
				if err != nil {
					log.Fatal(err)
				}
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Printf("Error during tracing shutdown: %v", err)
					}
				}()
			}

			if err := startServer(router, cfg.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
