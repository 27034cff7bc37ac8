// Package config handles loading and parsing the nutmunch configuration file.
//
// # Overview
//
// The config file tells the client where the storefront lives, where to keep
// the session handle, how to log, and which shipping and tax rules to use for
// the cart totals it shows. The server reprices every order at checkout, so
// the pricing section only affects what the shopper sees before paying.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/nutmunch/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_url = "http://localhost:8000"
//	session_file = "~/.local/share/nutmunch/session"
//	request_timeout = "5s"
//	requests_per_second = 0
//
//	[pricing]
//	free_shipping_threshold = "50"
//	flat_shipping_fee = "15"
//	tax_rate = "0.08"
//
//	[log]
//	level = "info"
//	format = "json"
//	output = "~/.local/share/nutmunch/nutmunch.log"
//
// Every field is optional. Money and rates are quoted strings so they parse
// exactly into decimal values. Log output may be "stdout", "stderr" or a file
// path; the TUI owns the terminal, so the default is a file.
//
// # Path Expansion
//
// session_file and log.output accept tilde paths and relative paths; both are
// expanded to absolute paths at load time.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Values that parse but make no sense: a non-positive timeout, a negative
//     rate limit, a tax rate outside [0, 1]
//
// Errors name the offending key.
package config
