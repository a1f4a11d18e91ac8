package ecc

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/sha3"
)

// HashFunc constructs a fresh hash state. Schemes call it once per message.
type HashFunc func() hash.Hash

var hashes = map[string]HashFunc{
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-512": sha3.New512,
}

// HashByName returns the hash constructor registered under name.
func HashByName(name string) (HashFunc, error) {
	h, ok := hashes[name]
	if !ok {
		return nil, fmt.Errorf("ecc: unknown hash %q", name)
	}
	return h, nil
}

// HashNames lists the registered hash names in sorted order.
func HashNames() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
