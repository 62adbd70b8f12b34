// Package keyvalue provides the persistent key-value capability the session
// toolkit stores its state in. A single small Store interface (Get, Set,
// Delete) is offered in two trust tiers — a secure tier for the session
// record itself and a plain tier for low-sensitivity markers — so callers can
// back each tier with whatever their platform offers (OS keychain wrapper,
// encrypted file, Redis, Postgres, Mongo, S3) without the session manager
// knowing the difference.
//
// # Architecture
//
//   - Store – minimal persistence contract; values are opaque byte slices.
//   - Tiered – binds one Store per trust tier and selects by Tier.
//   - Memory, File – embedded back-ends for tests, CLIs and single-host use.
//   - Encrypted – AES-256-GCM envelope over any Store; the portable secure
//     tier for platforms without a keychain.
//   - Redis, Postgres, Mongo, S3 – networked back-ends for agents that keep
//     session state off-device.
//
// # Usage
//
//	secure, _ := keyvalue.NewEncrypted(keyvalue.NewMemory(), appKey, deviceKey)
//	tiers := keyvalue.NewTiered(secure, keyvalue.NewMemory())
//
//	store := tiers.Tier(keyvalue.TierSecure)
//	_ = store.Set(ctx, "session_info", payload)
//
// All back-ends return ErrNotFound for absent keys and treat Delete of an
// absent key as a no-op, so callers can stay back-end agnostic.
package keyvalue
