package usecase

import (
	"strings"

	"github.com/AzielCF/az-autopost/core/config"
	domainSession "github.com/AzielCF/az-autopost/domains/session"
)

// Prompter is the operator's terminal.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	// ReadSecret reads without echo when the input is a terminal.
	ReadSecret(prompt string) (string, error)
	Println(a ...any)
}

// ResolveCredentials fills missing credentials from the prompter. An empty username
// is accepted while a saved session exists; without one, both values are asked for again.
func ResolveCredentials(cfg config.CredentialsConfig, prompter Prompter, sessionExists bool) (domainSession.Credentials, error) {
	creds := domainSession.Credentials{
		Username: strings.TrimSpace(cfg.Username),
		Password: strings.TrimSpace(cfg.Password),
	}
	if prompter == nil {
		return creds, nil
	}

	if creds.Username == "" {
		answer, err := prompter.ReadLine("Enter your Instagram username (or press Enter if you rely on saved session): ")
		if err != nil {
			return creds, err
		}
		creds.Username = strings.TrimSpace(answer)
	}
	if creds.Username != "" && creds.Password == "" {
		answer, err := prompter.ReadSecret("Enter your Instagram password (hidden): ")
		if err != nil {
			return creds, err
		}
		creds.Password = strings.TrimSpace(answer)
	}

	if sessionExists {
		return creds, nil
	}

	if creds.Username == "" {
		answer, err := prompter.ReadLine("Enter your Instagram username: ")
		if err != nil {
			return creds, err
		}
		creds.Username = strings.TrimSpace(answer)
	}
	if creds.Username != "" && creds.Password == "" {
		answer, err := prompter.ReadSecret("Enter your Instagram password (hidden): ")
		if err != nil {
			return creds, err
		}
		creds.Password = strings.TrimSpace(answer)
	}
	return creds, nil
}
