package domain

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AddressLength is the size in bytes of any account, token or pair
// identifier.
const AddressLength = 32

var (
	// ZeroAddress is the null identifier. Shares credited to it are locked
	// forever.
	ZeroAddress Address

	pairAddressPrefix  = []byte("gem/pair")
	namedAddressPrefix = []byte("gem/name")
)

// Address identifies accounts, tokens and pairs. Addresses are totally
// ordered by their raw bytes.
type Address [AddressLength]byte

// ParseAddress decodes a 32-byte hex string, optionally 0x prefixed.
func ParseAddress(s string) (Address, error) {
	var a Address
	buf, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return a, fmt.Errorf("%w: %s", ErrMalformedAddress, err)
	}
	if len(buf) != AddressLength {
		return a, fmt.Errorf(
			"%w: expected %d bytes, got %d", ErrMalformedAddress, AddressLength, len(buf),
		)
	}
	copy(a[:], buf)
	return a, nil
}

// NamedAddress deterministically derives an address from a human readable
// label, handy to refer to accounts and tokens from the command line.
func NamedAddress(name string) Address {
	return keccak(namedAddressPrefix, []byte(name))
}

// PairAddress returns the address of the pair made of the given canonically
// ordered tokens.
func PairAddress(token0, token1 Address) Address {
	return keccak(pairAddressPrefix, token0[:], token1[:])
}

// SortTokens returns the given tokens in canonical order.
func SortTokens(tokenA, tokenB Address) (Address, Address, error) {
	if tokenA == tokenB {
		return ZeroAddress, ZeroAddress, ErrIdenticalTokens
	}
	if tokenA.IsZero() || tokenB.IsZero() {
		return ZeroAddress, ZeroAddress, ErrZeroToken
	}
	if tokenB.Less(tokenA) {
		return tokenB, tokenA, nil
	}
	return tokenA, tokenB, nil
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func keccak(chunks ...[]byte) Address {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var a Address
	copy(a[:], h.Sum(nil))
	return a
}
