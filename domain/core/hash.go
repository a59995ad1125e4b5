package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashFile hashes the contents of a file on disk
func HashFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Domain-specific hash types
type (
	PlanHash     Hash
	DataHash     Hash
	ArtifactHash Hash
)

// Constructors
func NewPlanHash(data []byte) PlanHash { return PlanHash(NewHash(data)) }
func NewDataHash(data []byte) DataHash { return DataHash(NewHash(data)) }

// String conversions
func (h PlanHash) String() string     { return Hash(h).String() }
func (h DataHash) String() string     { return Hash(h).String() }
func (h ArtifactHash) String() string { return Hash(h).String() }

// ComputeArtifactSetHash folds a set of named artifact hashes into one
// hash, independent of map iteration order.
func ComputeArtifactSetHash(artifacts map[string]ArtifactHash) Hash {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	var data strings.Builder
	for _, name := range names {
		data.WriteString(name)
		data.WriteString(artifacts[name].String())
	}
	return NewHash([]byte(data.String()))
}
