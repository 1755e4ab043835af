// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults applied by the CLI when a setting is left empty.
const (
	DefaultIdentifierColumn = "APPLICATION_NUMBER"
	DefaultOutputFolder     = "./downloaded_pdfs"
	DefaultFailureReport    = "./Failed_Patent_Numbers.xlsx"
	DefaultSuccessReport    = "./Successful_Patent_Downloads.xlsx"
	DefaultSearchURL        = "https://www.google.com"
	DefaultInputName        = "q"
	DefaultResultsSelector  = "#search"
	DefaultResultsTimeout   = 15 * time.Second
	DefaultMinDelay         = 2 * time.Second
	DefaultMaxDelay         = 6 * time.Second
	DefaultHTTPTimeout      = 60 * time.Second

	// DefaultUserAgent is a desktop Chrome string. Some patent offices refuse
	// requests that do not look like a browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every download request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BrowserConfig holds settings for the browser session that drives the
// search engine.
type BrowserConfig struct {
	// Headless runs Chrome without a visible window.
	Headless bool `json:"headless" yaml:"headless"`

	// ExecPath overrides the Chrome binary. Empty uses chromedp's lookup.
	ExecPath string `json:"exec_path,omitempty" yaml:"exec_path,omitempty"`

	// RemoteURL is a DevTools websocket URL of an already running browser.
	// When set, no local browser is started.
	RemoteURL string `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`

	// SearchURL is the search engine home page.
	SearchURL string `json:"search_url" yaml:"search_url"`

	// InputName is the form field name of the primary search input.
	InputName string `json:"input_name" yaml:"input_name"`

	// ResultsSelector matches the container that holds rendered results.
	ResultsSelector string `json:"results_selector" yaml:"results_selector"`

	// ResultsTimeout bounds the wait for ResultsSelector to become visible.
	ResultsTimeout time.Duration `json:"results_timeout" yaml:"results_timeout"`
}

// RunConfig holds settings for one batch run.
type RunConfig struct {
	HTTPConfig `yaml:",inline"`

	Browser BrowserConfig `json:"browser" yaml:"browser"`

	// InputFile is the spreadsheet (.xlsx or .csv) holding the identifiers.
	InputFile string `json:"input_file" yaml:"input_file"`

	// IdentifierColumn is the header of the column holding application numbers.
	IdentifierColumn string `json:"identifier_column" yaml:"identifier_column"`

	// OutputFolder receives one <identifier>.pdf per successful download.
	OutputFolder string `json:"output_folder" yaml:"output_folder"`

	// FailureReport and SuccessReport are the report paths. The extension
	// selects the format (.xlsx or .csv).
	FailureReport string `json:"failure_report" yaml:"failure_report"`
	SuccessReport string `json:"success_report" yaml:"success_report"`

	// MinDelay and MaxDelay bound the random pause after each row. The pause
	// is a whole number of seconds.
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`

	// LedgerPath is the SQLite run history database. Empty disables it.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}

// WithDefaults returns a copy of cfg with every empty setting filled in.
func (cfg RunConfig) WithDefaults() RunConfig {
	if cfg.IdentifierColumn == "" {
		cfg.IdentifierColumn = DefaultIdentifierColumn
	}
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = DefaultOutputFolder
	}
	if cfg.FailureReport == "" {
		cfg.FailureReport = DefaultFailureReport
	}
	if cfg.SuccessReport == "" {
		cfg.SuccessReport = DefaultSuccessReport
	}
	if cfg.MinDelay == 0 && cfg.MaxDelay == 0 {
		cfg.MinDelay, cfg.MaxDelay = DefaultMinDelay, DefaultMaxDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	cfg.Browser = cfg.Browser.WithDefaults()
	return cfg
}

// WithDefaults returns a copy of cfg with every empty setting filled in.
func (cfg BrowserConfig) WithDefaults() BrowserConfig {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.InputName == "" {
		cfg.InputName = DefaultInputName
	}
	if cfg.ResultsSelector == "" {
		cfg.ResultsSelector = DefaultResultsSelector
	}
	if cfg.ResultsTimeout <= 0 {
		cfg.ResultsTimeout = DefaultResultsTimeout
	}
	return cfg
}
