package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const s3Scheme = "s3"

// Open returns the object store for a location, which is either a local
// directory or a url of the form s3://bucket/prefix. The bucket of an s3
// location is created if it does not exist.
func Open(ctx context.Context, location string, cfg S3ClientConfig) (ObjectStore, error) {
	if !strings.HasPrefix(location, s3Scheme+"://") {
		return NewLocalObjectStore(location)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 location '%s': %w", location, err)
	}

	store, err := NewS3ObjectStore(u.Host, u.Path, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.CreateBucket(ctx); err != nil {
		return nil, err
	}

	return store, nil
}
