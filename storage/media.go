// Package storage keeps uploaded game media behind a blob bucket. Production
// uses a directory-backed bucket; tests swap in an in-memory one.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// MediaStore writes uploaded files under per-game key prefixes and removes
// whole folders by prefix.
type MediaStore struct {
	bucket *blob.Bucket
}

func NewMediaStore(bucket *blob.Bucket) *MediaStore {
	return &MediaStore{bucket: bucket}
}

// OpenLocalBucket opens a bucket rooted at dir, creating the directory if it
// does not exist yet.
func OpenLocalBucket(dir string) (*blob.Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", dir, err)
	}
	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open media bucket %s: %w", dir, err)
	}
	return bucket, nil
}

// Upload stores the file content under prefix and returns the storage key.
func (m *MediaStore) Upload(ctx context.Context, prefix, filename string, content io.Reader) (string, error) {
	key := path.Join(prefix, filename)

	w, err := m.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("open writer for %s: %w", key, err)
	}
	if _, err := io.Copy(w, content); err != nil {
		w.Close()
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("commit %s: %w", key, err)
	}

	return key, nil
}

// RemoveFolder deletes every object stored under prefix.
func (m *MediaStore) RemoveFolder(ctx context.Context, prefix string) error {
	iter := m.bucket.List(&blob.ListOptions{Prefix: prefix + "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		if err := m.bucket.Delete(ctx, obj.Key); err != nil {
			return fmt.Errorf("delete %s: %w", obj.Key, err)
		}
	}
}

// Remove deletes a single object by key.
func (m *MediaStore) Remove(ctx context.Context, key string) error {
	if err := m.bucket.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Has reports whether an object is stored under key.
func (m *MediaStore) Has(ctx context.Context, key string) (bool, error) {
	return m.bucket.Exists(ctx, key)
}

// Exists reports whether any object is stored under prefix.
func (m *MediaStore) Exists(ctx context.Context, prefix string) (bool, error) {
	iter := m.bucket.List(&blob.ListOptions{Prefix: prefix + "/"})
	_, err := iter.Next(ctx)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *MediaStore) Close() error {
	return m.bucket.Close()
}
