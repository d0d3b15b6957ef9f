package config

import (
	"fmt"
	"net/url"
)

// validateURL requires an absolute http(s) URL. key is the dotted yaml path
// reported in errors, e.g. "provider.redirect_url".
func validateURL(value, key string) error {
	if value == "" {
		return fmt.Errorf("%s is required", key)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use the http or https scheme, got %q", key, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}

	return nil
}
