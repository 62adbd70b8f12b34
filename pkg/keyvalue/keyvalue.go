package keyvalue

import "context"

// Store is the minimal persistence contract used across the toolkit.
// Implementations must be safe for concurrent use and must return ErrNotFound
// from Get when the key is absent. Delete of an absent key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Tier identifies the trust level of a storage slot.
type Tier int

const (
	// TierPlain holds low-sensitivity values such as activity markers and
	// the cached device fingerprint.
	TierPlain Tier = iota
	// TierSecure holds the session record itself.
	TierSecure
)

// String returns the tier name used in logs.
func (t Tier) String() string {
	switch t {
	case TierSecure:
		return "secure"
	case TierPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// Tiered binds one Store per trust tier.
type Tiered struct {
	secure Store
	plain  Store
}

// NewTiered returns a Tiered pair. Both stores are required; panics on nil to
// fail fast on wiring mistakes, the same way a misconfigured manager would.
func NewTiered(secure, plain Store) Tiered {
	if secure == nil || plain == nil {
		panic("keyvalue: both tiers require a store")
	}
	return Tiered{secure: secure, plain: plain}
}

// SingleTier backs both tiers with the same store. Useful when the deployment
// has only one storage medium and secrecy is handled elsewhere.
func SingleTier(s Store) Tiered {
	return NewTiered(s, s)
}

// Tier returns the store bound to the given trust tier. Unknown tiers fall
// back to the plain store.
func (t Tiered) Tier(tier Tier) Store {
	if tier == TierSecure {
		return t.secure
	}
	return t.plain
}
