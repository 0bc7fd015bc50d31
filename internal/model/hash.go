package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints. The version suffix allows the
// encoding to change without colliding with recorded fingerprints.
const (
	DomainState = "navsplit/state/v1"
	DomainStep  = "navsplit/step/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable digest of v's canonical encoding under the
// state domain. Equal states always produce equal fingerprints.
func Fingerprint(v any) (string, error) {
	return FingerprintIn(DomainState, v)
}

// FingerprintIn is Fingerprint with an explicit domain.
func FingerprintIn(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when v is known to be encodable.
func MustFingerprint(v any) string {
	fp, err := Fingerprint(v)
	if err != nil {
		panic(err)
	}
	return fp
}
