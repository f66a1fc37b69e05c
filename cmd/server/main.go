/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	syscontext "github.com/wso2/identity-reconciliation-service/internal/system/context"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/provider"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
	"github.com/wso2/identity-reconciliation-service/internal/system/managers"
	"github.com/wso2/identity-reconciliation-service/internal/system/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	serviceHome := getServiceHome()

	envFiles, err := config.LoadEnvFiles(serviceHome)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env files: %v\n", err)
		os.Exit(1)
	}

	// Load the configuration file
	serviceConfig, err := config.LoadConfig(serviceHome, constants.DeploymentConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(serviceHome, serviceConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(serviceConfig.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()
	logger.Info("Configuration loaded", log.String("service_home", serviceHome), log.Int("env_files", len(envFiles)))

	initDatabase(serviceHome, serviceConfig)

	serverAddr := fmt.Sprintf("%s:%d", serviceConfig.Addr.Host, serviceConfig.Addr.Port)
	handler := syscontext.TraceMiddleware(utils.EnableCORS(serviceConfig.Auth.CORSAllowedOrigins, initMultiplexer()))

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.String("address", serverAddr), log.Error(err))
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Identity reconciliation service started", log.String("address", serverAddr))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve requests", log.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down identity reconciliation service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
	if err := provider.Close(); err != nil {
		logger.Error("Failed to close database connections", log.Error(err))
	}
}

// initDatabase applies the configured schema file when the postgres store is in use.
func initDatabase(serviceHome string, serviceConfig *config.Config) {

	logger := log.GetLogger()
	dataSource := serviceConfig.DataSource
	if dataSource.Type == constants.DataSourceMemory {
		logger.Warn("Using the in-memory contact store; contacts are lost on restart")
		return
	}
	if dataSource.Hostname == "" || dataSource.Port == 0 || dataSource.Username == "" || dataSource.Name == "" {
		logger.Fatal("One or more PostgreSQL configuration values are missing")
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", log.Error(err))
	}
	if dataSource.SchemaFile != "" {
		if err := dbClient.InitDatabase(serviceHome, dataSource.SchemaFile); err != nil {
			logger.Fatal("Failed to initialize database schema", log.Error(err))
		}
	}
	logger.Info("PostgreSQL datasource initialized", log.String("host", dataSource.Hostname),
		log.String("database", dataSource.Name))
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

func getServiceHome() string {

	// Parse project directory from command line arguments.
	homeFlag := flag.String("home", "", "Path to identity reconciliation service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
