package cache

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/crytic/solsim/utils"
	"github.com/ethereum/go-ethereum/crypto"
	"go.etcd.io/bbolt"
)

// ArtifactCacheFileName is the name of the database file created inside the cache directory.
const ArtifactCacheFileName = "artifacts.db"

// artifactBucket is the bbolt bucket holding compiler outputs.
var artifactBucket = []byte("artifacts")

// ArtifactCache persists raw compiler output keyed by a digest of everything that determines it (compiler version
// and compiler input), so unchanged sources are not recompiled across runs.
type ArtifactCache struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the artifact cache stored in directory.
func Open(directory string) (*ArtifactCache, error) {
	if err := utils.MakeDirectory(directory); err != nil {
		return nil, fmt.Errorf("failed to create artifact cache directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(directory, ArtifactCacheFileName), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open artifact cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(artifactBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ArtifactCache{db: db}, nil
}

// Key derives the cache key for a compiler identity and its input.
func Key(compilerVersion string, input []byte) []byte {
	return crypto.Keccak256([]byte(compilerVersion), []byte{0}, input)
}

// Get returns the output stored under key, and whether it was found.
func (c *ArtifactCache) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(artifactBucket).Get(key)
		if data != nil {
			// bbolt values are only valid for the life of the transaction.
			value = append([]byte{}, data...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("could not read artifact cache: %w", err)
	}
	return value, value != nil, nil
}

// Put stores value under key, replacing any existing entry.
func (c *ArtifactCache) Put(key []byte, value []byte) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(artifactBucket).Put(key, value)
	})
}

// Close releases the underlying database.
func (c *ArtifactCache) Close() error {
	return c.db.Close()
}
