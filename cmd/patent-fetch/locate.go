// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/locate"
)

var locateCmd = &cobra.Command{
	Use:   "locate <application-number>",
	Short: "Search for one application number and print the first PDF link",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg := runConfig()
	query := locate.BuildQuery(args[0])
	fmt.Fprintf(cmd.ErrOrStderr(), "Searching for: %s\n", query)

	session, err := chromeSessionFactory(cfg)(cmd.Context())
	if err != nil {
		return fmt.Errorf("opening browser session: %w", err)
	}
	defer session.Close()

	pdfURL, err := locate.Locate(cmd.Context(), session, query)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), pdfURL)
	return nil
}
