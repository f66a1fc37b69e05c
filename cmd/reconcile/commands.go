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
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
	contactprovider "github.com/wso2/identity-reconciliation-service/internal/contact/provider"
	"github.com/wso2/identity-reconciliation-service/internal/contact/service"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

const maxLineBytes = 1 << 20

type cli struct {
	home            string
	continueOnError bool
	email           string
	phoneNumber     string

	service service.ContactServiceInterface
}

func newRootCommand(c *cli) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile contact observations outside the HTTP server",
		Long: `reconcile runs the contact reconciliation engine against the configured store.

It reads the same repository/conf/deployment.yaml as the server, so batch imports and
one-off corrections link contacts exactly as POST /identify would.`,
		PersistentPreRunE: c.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.PersistentFlags().StringVar(&c.home, "home", "", "service home directory (default is the working directory)")

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Reconcile every identify request in a JSON lines file",
		Long: `Reads one identify request per line, for example {"email":"a@x.com","phoneNumber":"123"},
and prints the resulting contact group for each line. Use "-" to read from standard input.`,
		Example: `  reconcile file contacts.jsonl
  cat contacts.jsonl | reconcile file - --continue-on-error`,
		Args: cobra.ExactArgs(1),
		RunE: c.runFile,
	}
	fileCmd.Flags().BoolVar(&c.continueOnError, "continue-on-error", false, "report failing lines and keep going")

	oneCmd := &cobra.Command{
		Use:     "one",
		Short:   "Reconcile a single observation",
		Example: `  reconcile one --email doc@hillvalley.edu --phone 123456`,
		Args:    cobra.NoArgs,
		RunE:    c.runOne,
	}
	oneCmd.Flags().StringVar(&c.email, "email", "", "email address")
	oneCmd.Flags().StringVar(&c.phoneNumber, "phone", "", "phone number")

	rootCmd.AddCommand(fileCmd, oneCmd)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {

	if c.service != nil {
		return nil
	}
	home := c.home
	if home == "" {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		home = dir
	}

	if _, err := config.LoadEnvFiles(home); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	conf, err := config.LoadConfig(home, constants.DeploymentConfigFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := config.InitializeRuntime(home, conf); err != nil {
		return fmt.Errorf("initializing runtime: %w", err)
	}
	if err := log.InitWithWriter(conf.Log.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}

	contactService, err := contactprovider.NewContactServiceFromConfig(*conf)
	if err != nil {
		return fmt.Errorf("building contact service: %w", err)
	}
	c.service = contactService
	return nil
}

func (c *cli) runOne(cmd *cobra.Command, _ []string) error {

	request := model.IdentifyRequest{Email: &c.email, PhoneNumber: model.PhoneNumber(c.phoneNumber)}
	response, err := c.reconcile(cmd, request)
	if err != nil {
		return err
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(response)
}

func (c *cli) runFile(cmd *cobra.Command, args []string) error {

	var input io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}

	logger := log.GetLogger()
	out := json.NewEncoder(cmd.OutOrStdout())
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo, reconciled, failed := 0, 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		response, err := c.reconcileLine(cmd, line)
		if err != nil {
			if !c.continueOnError {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", lineNo, err)
			continue
		}
		if err := out.Encode(response); err != nil {
			return err
		}
		reconciled++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	logger.Info("Batch reconciliation finished", log.Int("reconciled", reconciled), log.Int("failed", failed))
	return nil
}

func (c *cli) reconcileLine(cmd *cobra.Command, line string) (*model.IdentifyResponse, error) {

	decoder := json.NewDecoder(strings.NewReader(line))
	decoder.DisallowUnknownFields()
	var request model.IdentifyRequest
	if err := decoder.Decode(&request); err != nil {
		return nil, fmt.Errorf("invalid identify request: %w", err)
	}
	return c.reconcile(cmd, request)
}

// reconcile applies the same trimming and limits as POST /identify before calling the engine.
func (c *cli) reconcile(cmd *cobra.Command, request model.IdentifyRequest) (*model.IdentifyResponse, error) {

	if err := request.Validate(); err != nil {
		return nil, describe(err)
	}
	response, err := c.service.Reconcile(cmd.Context(), request.EmailValue(), string(request.PhoneNumber))
	if err != nil {
		return nil, describe(err)
	}
	return response, nil
}

func describe(err error) error {

	var clientErr *errors2.ClientError
	if errors.As(err, &clientErr) && clientErr.Description != "" {
		return fmt.Errorf("%w: %s", err, clientErr.Description)
	}
	return err
}
