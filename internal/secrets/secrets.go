// Package secrets resolves credentials without ever putting them in the
// YAML config: environment first (cron and CI friendly), OS keychain as the
// durable fallback.
package secrets

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "leadhunter"

// Lookup returns the first non-empty value of the env var or the keychain
// account. A missing credential is not an error to act on loudly; callers
// disable the dependent source instead.
func Lookup(envVar, keyringAccount string) (string, bool) {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, true
	}
	if strings.TrimSpace(keyringAccount) != "" {
		v, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// TwitterAccount is the keychain account under which the API bearer token
// lives.
const TwitterAccount = "leadhunter:twitter:bearer"

// IMAPAccount names the keychain entry for a mailbox credential.
func IMAPAccount(username, host string) string {
	return "leadhunter:imap:" + username + "@" + host
}
