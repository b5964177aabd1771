// Package hashing computes the script hash Cardano derives from a
// flat-encoded UPLC program: blake2b-224 over the encoded bytes prefixed by
// a one-byte script-language tag.
package hashing

import "golang.org/x/crypto/blake2b"

// Provider is the narrow script-hashing interface. The program cache does
// not hash anything itself; its keys are supplied by the caller.
// Implementations may swap in alternate digest algorithms for testing
// without the caller depending on golang.org/x/crypto directly.
type Provider interface {
	ScriptHash(language byte, flatBytes []byte) ([28]byte, error)
}

// Blake2b224Provider computes script hashes the way the Cardano ledger
// does: blake2b-224 (28-byte digest) over a one-byte language tag followed
// by the script's flat-encoded bytes.
type Blake2b224Provider struct{}

// ScriptHash returns the blake2b-224 digest of language followed by
// flatBytes.
func (Blake2b224Provider) ScriptHash(language byte, flatBytes []byte) ([28]byte, error) {
	h, err := blake2b.New(28, nil)
	if err != nil {
		return [28]byte{}, err
	}
	if _, err := h.Write([]byte{language}); err != nil {
		return [28]byte{}, err
	}
	if _, err := h.Write(flatBytes); err != nil {
		return [28]byte{}, err
	}
	var out [28]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// PlutusV2 and PlutusV3 are the script-language tags the ledger prefixes
// onto a script's bytes before hashing. This package does not decide which
// language a program targets; callers supply the tag.
const (
	PlutusV2 byte = 0x02
	PlutusV3 byte = 0x03
)
