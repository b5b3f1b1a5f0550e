package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for filter fingerprints. The version suffix leaves room
// for a different encoding later.
const DomainFilter = "ndbq/filter/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a filter compiled for a table. canonical is the
// filter in canonical text form, so two spellings of the same condition
// share a fingerprint. Parameter values are not part of it.
func Fingerprint(table, canonical string) (string, error) {
	obj := IRObject{
		"table":  IRString(table),
		"filter": IRString(canonical),
	}

	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFilter, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(table, canonical string) string {
	fp, err := Fingerprint(table, canonical)
	if err != nil {
		panic(err)
	}
	return fp
}
