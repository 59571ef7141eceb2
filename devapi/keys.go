package devapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/stores"
)

// Role is the kind of credential a request was made with
type Role int

const (
	RoleAnonymous Role = iota // empty authorization header
	RoleGuest                 // the configured guest key
	RoleOwner                 // a secret issued by login
	RoleStore                 // a store's public key
)

func (r Role) String() string {
	switch r {
	case RoleAnonymous:
		return "anonymous"
	case RoleGuest:
		return "guest"
	case RoleOwner:
		return "owner"
	case RoleStore:
		return "store"
	default:
		return "unknown"
	}
}

// Principal is who a request acts as
type Principal struct {
	Role    Role
	OwnerID string // set for RoleOwner
	StoreID string // set for RoleStore
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal of the request, anonymous when none was attached
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{Role: RoleAnonymous}
}

type issuedSecret struct {
	ownerID string
	expires time.Time
}

// Keyring resolves bearer tokens to principals
type Keyring struct {
	guestKey string
	stores   stores.Repo
	ttl      time.Duration
	nowTime  func() time.Time

	lock    sync.RWMutex
	secrets map[string]issuedSecret
}

func NewKeyring(guestKey string, storeRepo stores.Repo, ttl time.Duration, nowTime func() time.Time) *Keyring {
	if nowTime == nil {
		nowTime = time.Now
	}
	return &Keyring{
		guestKey: guestKey,
		stores:   storeRepo,
		ttl:      ttl,
		nowTime:  nowTime,
		secrets:  make(map[string]issuedSecret),
	}
}

// Issue creates a new secret for the owner and returns it with its expiry
func (k *Keyring) Issue(ownerID string) (string, time.Time) {
	secret := uuid.New().String()
	expires := k.nowTime().Add(k.ttl)

	k.lock.Lock()
	defer k.lock.Unlock()
	k.secrets[secret] = issuedSecret{ownerID: ownerID, expires: expires}
	return secret, expires
}

// Lookup resolves a non-empty token. Expired secrets are forgotten.
func (k *Keyring) Lookup(token string) (Principal, bool) {
	if token == "" {
		return Principal{}, false
	}
	if k.guestKey != "" && token == k.guestKey {
		return Principal{Role: RoleGuest}, true
	}

	k.lock.RLock()
	issued, ok := k.secrets[token]
	k.lock.RUnlock()
	if ok {
		if k.nowTime().After(issued.expires) {
			k.lock.Lock()
			delete(k.secrets, token)
			k.lock.Unlock()
			return Principal{}, false
		}
		return Principal{Role: RoleOwner, OwnerID: issued.ownerID}, true
	}

	if store, err := k.stores.GetByPublicKey(token); err == nil {
		return Principal{Role: RoleStore, StoreID: store.ID}, true
	}
	return Principal{}, false
}

func (k *Keyring) now() time.Time {
	return k.nowTime()
}
