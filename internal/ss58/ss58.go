// Package ss58 implements decoding and validation of ss58-encoded account
// addresses as used by Substrate-based networks.
package ss58

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

// checksumPreimage is prepended to the payload before hashing, per the ss58
// registry specification.
const checksumPreimage = "SS58PRE"

const (
	accountIDLen = 32
	checksumLen  = 2
)

// Decode parses an ss58 address and returns the 32-byte account ID after
// verifying the blake2b checksum. One- and two-byte network prefixes are
// supported.
func Decode(address string) ([]byte, error) {
	raw := base58.Decode(address)
	if len(raw) == 0 {
		return nil, fmt.Errorf("ss58: not base58: %q", address)
	}

	var prefixLen int
	switch {
	case raw[0] < 64:
		prefixLen = 1
	case raw[0] < 128:
		prefixLen = 2
	default:
		return nil, fmt.Errorf("ss58: reserved address format")
	}

	if len(raw) != prefixLen+accountIDLen+checksumLen {
		return nil, fmt.Errorf("ss58: invalid length %d", len(raw))
	}

	payload := raw[:len(raw)-checksumLen]
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	h.Write([]byte(checksumPreimage))
	h.Write(payload)
	sum := h.Sum(nil)

	if !bytes.Equal(sum[:checksumLen], raw[len(raw)-checksumLen:]) {
		return nil, fmt.Errorf("ss58: checksum mismatch")
	}
	return raw[prefixLen : len(raw)-checksumLen], nil
}

// Valid reports whether address is a well-formed ss58 account address.
func Valid(address string) bool {
	_, err := Decode(address)
	return err == nil
}
