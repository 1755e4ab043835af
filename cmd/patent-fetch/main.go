// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the patent-fetch CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the patent-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "patent-fetch",
	Short: "Find and download patent application PDFs listed in a spreadsheet",
	Long: `patent-fetch reads application numbers from a spreadsheet, searches the web
for a PDF of each one through a browser, downloads the first PDF link it
finds, and writes a report of failures and a report of successes.

Use "run" for a whole spreadsheet, or "locate" and "download" to try a
single application number or URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./patent-fetch.yaml or ~/.config/patent-fetch/patent-fetch.yaml)")
	pf.Bool("headless", false, "run the browser without a window")
	pf.String("chrome-path", "", "path to the Chrome binary (default: auto-detect)")
	pf.String("remote-browser", "", "DevTools websocket URL of a running browser")
	pf.String("search-url", "", "search engine home page (default https://www.google.com)")
	pf.String("search-input", "", "form field name of the search box (default q)")
	pf.String("results-selector", "", "CSS selector that marks rendered results (default #search)")
	pf.Duration("results-timeout", 0, "how long to wait for search results (default 15s)")
	pf.Duration("timeout", 0, "HTTP download timeout (default 60s)")
	pf.String("user-agent", "", "User-Agent sent with downloads (default: desktop Chrome)")

	for key, flag := range map[string]string{
		"browser.headless":         "headless",
		"browser.exec_path":        "chrome-path",
		"browser.remote_url":       "remote-browser",
		"browser.search_url":       "search-url",
		"browser.input_name":       "search-input",
		"browser.results_selector": "results-selector",
		"browser.results_timeout":  "results-timeout",
		"timeout":                  "timeout",
		"user_agent":               "user-agent",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("patent-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "patent-fetch"))
		}
	}

	viper.SetEnvPrefix("PATENT_FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
