//go:build !darwin

package credentials

import "fmt"

// loadFromKeychain is only implemented on macOS
func loadFromKeychain() (*OAuthCredentials, error) {
	return nil, fmt.Errorf("keychain lookup of %q is macOS-only", keychainService)
}
