// Package identity manages the bearer credential of the session.
//
// The credential is opaque: it is stored, attached to persistence service
// calls and discarded, never validated here.
package identity

import (
	"net/url"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// DefaultCredentialParam is the query parameter carrying the redirect credential.
const DefaultCredentialParam = "token"

// Store is the durable key holding the credential.
type Store interface {
	Load() (string, error) // "" when absent
	Save(credential string) error
	Clear() error
}

// Location is the addressable location of the page being loaded.
type Location interface {
	Current() *url.URL
	Replace(u *url.URL)
}

// Navigator sends the browser somewhere else.
type Navigator interface {
	Navigate(target string)
}

// Config holds identity configuration.
type Config struct {
	AuthBaseURL     string // Base URL of the login service
	CredentialParam string // Query parameter carrying the redirect credential
}

// Identity is the process-wide session credential holder.
type Identity struct {
	mu         sync.RWMutex
	store      Store
	config     Config
	credential string
}

// New creates an identity backed by store. Call Init before use.
func New(store Store, cfg Config) *Identity {
	if cfg.CredentialParam == "" {
		cfg.CredentialParam = DefaultCredentialParam
	}
	return &Identity{store: store, config: cfg}
}

// Init loads a previously persisted credential.
func (i *Identity) Init() error {
	credential, err := i.store.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load credential")
	}

	i.mu.Lock()
	i.credential = strings.TrimSpace(credential)
	authenticated := i.credential != ""
	i.mu.Unlock()

	zlog.Info().Msgf("identity: initialized: authenticated=%t", authenticated)
	return nil
}

// Token returns the credential, "" when logged out.
func (i *Identity) Token() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.credential
}

// Authenticated reports whether a credential is held.
func (i *Identity) Authenticated() bool {
	return i.Token() != ""
}

// LoginURL returns the external login endpoint.
func (i *Identity) LoginURL() string {
	return strings.TrimRight(i.config.AuthBaseURL, "/") + "/auth/google"
}

// BeginLogin navigates to the external login endpoint.
func (i *Identity) BeginLogin(nav Navigator) {
	nav.Navigate(i.LoginURL())
}

// ConsumeRedirectCredential stores the one-time credential carried by the
// location, if any, and strips it from the location. It reports whether a
// new credential was stored. Blank credentials are stripped and ignored.
func (i *Identity) ConsumeRedirectCredential(loc Location) (bool, error) {
	current := loc.Current()
	if current == nil {
		return false, nil
	}

	query := current.Query()
	if !query.Has(i.config.CredentialParam) {
		return false, nil
	}
	credential := strings.TrimSpace(query.Get(i.config.CredentialParam))

	stripped := *current
	query.Del(i.config.CredentialParam)
	stripped.RawQuery = query.Encode()
	loc.Replace(&stripped)

	if credential == "" {
		zlog.Debug().Msg("identity: ignored blank redirect credential")
		return false, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if credential == i.credential {
		return false, nil
	}
	if err := i.store.Save(credential); err != nil {
		return false, errors.Wrap(err, "failed to save credential")
	}
	i.credential = credential

	zlog.Info().Msg("identity: credential consumed from redirect")
	return true, nil
}

// Logout clears the persisted credential and the session.
func (i *Identity) Logout() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.store.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear credential")
	}
	i.credential = ""

	zlog.Info().Msg("identity: logged out")
	return nil
}
