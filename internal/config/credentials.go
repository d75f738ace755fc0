package config

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// googleCredentialsEnv holds the full service-account JSON in hosted
// environments; local setups use a key file instead.
const googleCredentialsEnv = "GOOGLE_CREDENTIALS"

// ResolveGoogleCredentials resolves Google service-account credentials once
// at startup and returns an opaque client option to inject into the sheets
// client. Resolution order: GOOGLE_CREDENTIALS env JSON, then the
// configured key file.
func ResolveGoogleCredentials(ctx context.Context, cfg *Config) (option.ClientOption, error) {
	if raw := os.Getenv(googleCredentialsEnv); raw != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(raw), sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", googleCredentialsEnv, err)
		}
		return option.WithCredentials(creds), nil
	}

	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("credentials file %s: %w", cfg.CredentialsFile, err)
		}
		return option.WithCredentialsFile(cfg.CredentialsFile), nil
	}

	return nil, fmt.Errorf("no Google credentials: set %s or credentialsFile in %s", googleCredentialsEnv, configFileName)
}
