package graphstore

import (
	"fmt"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
)

// Datastore is the top-level handle spec §4.4 describes: account
// management plus the ability to open a Transaction scoped to one account.
// A Datastore is safe for concurrent use; every method takes the lock the
// underlying store requires for its own operation.
type Datastore struct {
	store *store
}

// Option configures a Datastore at construction time.
type Option func(*Datastore)

// WithDefaultAccount seeds the new Datastore with one account at
// gmodel.NilUUID holding the given secret, matching scenario S1's fixed
// "default account" fixture so callers that don't need multi-tenant
// accounts can skip CreateAccount entirely.
func WithDefaultAccount(secret string) Option {
	return func(d *Datastore) {
		d.store.accounts[gmodel.NilUUID] = secret
	}
}

// NewDatastore returns an empty Datastore, applying every given Option.
func NewDatastore(opts ...Option) *Datastore {
	d := &Datastore{store: newStore()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HasAccount reports whether id is a known account.
func (d *Datastore) HasAccount(id gmodel.UUID) bool {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	_, ok := d.store.accounts[id]
	return ok
}

// CreateAccount provisions a new account with a fresh id and a freshly
// generated secret, returning both. The secret is returned exactly once,
// here — it is never retrievable again (invariant I3).
func (d *Datastore) CreateAccount() (gmodel.Account, error) {
	id := gmodel.NewParentUUID()
	secret := gmodel.GenerateRandomSecret()

	d.store.mu.Lock()
	d.store.accounts[id] = secret
	d.store.mu.Unlock()

	return gmodel.Account{ID: id, Secret: secret}, nil
}

// DeleteAccount removes an account. It does not cascade to the account's
// metadata, vertices, or edges — matching spec's recorded lifecycle choice
// that account deletion cascades nothing in this core. A caller that wants
// a fully cascading delete must first delete the account's vertices (and,
// per invariant I1, their incident edges) itself.
func (d *Datastore) DeleteAccount(id gmodel.UUID) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	if _, ok := d.store.accounts[id]; !ok {
		return fmt.Errorf("graphstore: delete account %s: %w", id, ErrAccountNotFound)
	}
	delete(d.store.accounts, id)
	return nil
}

// Auth checks whether secret matches the stored secret for account id.
func (d *Datastore) Auth(id gmodel.UUID, secret string) error {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	stored, ok := d.store.accounts[id]
	if !ok {
		return fmt.Errorf("graphstore: auth %s: %w", id, ErrAccountNotFound)
	}
	if stored != secret {
		return fmt.Errorf("graphstore: auth %s: %w", id, ErrUnauthorized)
	}
	return nil
}

// Transaction returns a Transaction scoped to account id. The account must
// already exist; callers typically call Auth first.
func (d *Datastore) Transaction(accountID gmodel.UUID) (*Transaction, error) {
	if !d.HasAccount(accountID) {
		return nil, fmt.Errorf("graphstore: open transaction for %s: %w", accountID, ErrAccountNotFound)
	}
	return &Transaction{accountID: accountID, store: d.store}, nil
}
