// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// secretBrowserURL names the .secrets/ file that may hold a remote browser
// URL. Hosted browsers usually embed an access token in it.
const secretBrowserURL = "browser-ws-url"

// httpConfig assembles HTTP settings from flags, env, and the config file.
func httpConfig() types.HTTPConfig {
	cfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = types.DefaultHTTPTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	return cfg
}

// browserConfig assembles browser settings from flags, env, the config
// file, and .secrets/.
func browserConfig() types.BrowserConfig {
	return types.BrowserConfig{
		Headless:        viper.GetBool("browser.headless"),
		ExecPath:        viper.GetString("browser.exec_path"),
		RemoteURL:       loadedSecrets.Lookup(secretBrowserURL, viper.GetString("browser.remote_url")),
		SearchURL:       viper.GetString("browser.search_url"),
		InputName:       viper.GetString("browser.input_name"),
		ResultsSelector: viper.GetString("browser.results_selector"),
		ResultsTimeout:  viper.GetDuration("browser.results_timeout"),
	}.WithDefaults()
}

// runConfig assembles the full batch configuration.
func runConfig() types.RunConfig {
	return types.RunConfig{
		HTTPConfig:       httpConfig(),
		Browser:          browserConfig(),
		InputFile:        viper.GetString("input"),
		IdentifierColumn: viper.GetString("identifier_column"),
		OutputFolder:     viper.GetString("output_folder"),
		FailureReport:    viper.GetString("failure_report"),
		SuccessReport:    viper.GetString("success_report"),
		MinDelay:         viper.GetDuration("min_delay"),
		MaxDelay:         viper.GetDuration("max_delay"),
		LedgerPath:       viper.GetString("ledger"),
	}.WithDefaults()
}
