// Package environment maps Sokosumi environment identifiers to their
// API base URLs. The set of environments is fixed at compile time; an
// identifier outside the set is a configuration error and must be
// rejected before any network activity happens.
package environment

import "fmt"

// Environment identifies one Sokosumi deployment target.
type Environment string

const (
	// Preprod is the pre-production environment.
	Preprod Environment = "preprod"
	// Mainnet is the production environment.
	Mainnet Environment = "mainnet"
)

// baseURLs is the static registry of environment base URLs.
var baseURLs = map[Environment]string{
	Preprod: "https://preprod.sokosumi.com",
	Mainnet: "https://app.sokosumi.com",
}

// UnknownEnvironmentError reports an environment identifier outside
// the registry.
type UnknownEnvironmentError struct {
	ID string
}

func (e *UnknownEnvironmentError) Error() string {
	return fmt.Sprintf("unknown environment %q (valid: %s, %s)", e.ID, Preprod, Mainnet)
}

// Resolve returns the base URL for the given environment identifier.
func Resolve(id string) (string, error) {
	url, ok := baseURLs[Environment(id)]
	if !ok {
		return "", &UnknownEnvironmentError{ID: id}
	}
	return url, nil
}

// All returns every registered environment in a stable order.
func All() []Environment {
	return []Environment{Preprod, Mainnet}
}

// BaseURLs returns a copy of the full registry, keyed by identifier.
// Used by the informational tools; callers must not rely on map order.
func BaseURLs() map[string]string {
	out := make(map[string]string, len(baseURLs))
	for env, url := range baseURLs {
		out[string(env)] = url
	}
	return out
}
