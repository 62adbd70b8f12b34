// Package fingerprint derives a deterministic device fingerprint from the
// attributes collected by the deviceinfo package.
//
// The non-empty attributes are joined in a fixed order and fed into a
// SHA-256 hash; the first 16 bytes are returned as a 32-character
// hexadecimal string. Identical devices always produce the identical hash,
// which is what lets a session be bound to the device it was created on.
//
// # Architecture
//
//   - Compute – pure function producing a Fingerprint from deviceinfo.Info.
//   - Match – constant-time comparison of two hashes.
//   - Provider – generates the fingerprint once per install, keeps it in
//     memory, and persists it to a keyvalue.Store so every later run of the
//     process reports the same identity.
//
// # Usage
//
//	provider := fingerprint.NewProvider(source, tiers.Tier(keyvalue.TierPlain))
//	fp, err := provider.Fingerprint(ctx)
//	if err != nil {
//	    return err
//	}
//	log.Printf("device fingerprint: %s", fp.Hash)
//
// The stored fingerprint wins over a freshly computed one, so OS upgrades or
// renamed hosts do not silently change the device identity mid-install. Call
// Reset to discard it and start over.
package fingerprint
