package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File permission constants for cache operations.
const (
	cacheDirPerm  = 0o750 // Directory permissions: rwxr-x---
	cacheFilePerm = 0o600 // File permissions: rw-------
)

// Minimum length for creating subdirectory structure in cache keys.
const minKeyLengthForSubdir = 4

// FileCache implements Cache using file system storage.
// It stores cache entries as JSON files in a directory structure.
type FileCache struct {
	baseDir string
}

// cacheEntry is the on-disk format for cached values.
type cacheEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFileCache creates a new file-based cache rooted at baseDir.
func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, cacheDirPerm); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &FileCache{
		baseDir: baseDir,
	}, nil
}

// Get retrieves a value from the cache. Unreadable or expired entries are
// treated as misses and removed.
func (f *FileCache) Get(_ context.Context, key string) ([]byte, bool) {
	path := f.keyToPath(key)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Value, true
}

// Set stores a value in the cache with the given TTL. Failures are ignored;
// the cache is best effort.
func (f *FileCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	path := f.keyToPath(key)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, cacheDirPerm); err != nil {
		return
	}

	now := time.Now()
	data, err := json.Marshal(cacheEntry{
		Value:     value,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return
	}

	// Write atomically using temp file
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, cacheFilePerm); err != nil {
		return
	}

	_ = os.Rename(tempFile, path)
}

// Delete removes a value from the cache.
func (f *FileCache) Delete(_ context.Context, key string) {
	_ = os.Remove(f.keyToPath(key))
}

// keyToPath converts a cache key to a file path under a two-level
// directory fan-out taken from the hash part of the key, after any prefix.
func (f *FileCache) keyToPath(key string) string {
	safeKey := sanitizeKey(key)

	hash := key
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		hash = key[i+1:]
	}
	hash = sanitizeKey(hash)

	if len(hash) >= minKeyLengthForSubdir {
		subDir := filepath.Join(f.baseDir, hash[:2], hash[2:4])
		return filepath.Join(subDir, safeKey+".json")
	}

	return filepath.Join(f.baseDir, safeKey+".json")
}

// sanitizeKey makes a key safe for use as a filename.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(key)
}

// Ensure FileCache implements Cache interface.
var _ Cache = (*FileCache)(nil)
