package clippy

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
)

// MetadataResolver maps a cargo package id to the workspace root the
// package was built in. The root becomes the base dir for path
// normalization, so diagnostics end up with repository relative paths.
type MetadataResolver interface {
	WorkspaceRoot(packageID string) (string, error)
}

// CargoMetadata resolves workspace roots from a cargo metadata document
// (cargo metadata --format-version 1).
type CargoMetadata struct {
	workspaceRoot string
	packages      map[string]struct{}
}

func ParseCargoMetadata(r io.Reader) (*CargoMetadata, error) {
	var doc struct {
		Packages []struct {
			ID string `json:"id"`
		} `json:"packages"`
		WorkspaceRoot string `json:"workspace_root"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "could not parse cargo metadata")
	}
	if doc.WorkspaceRoot == "" {
		return nil, fmt.Errorf("cargo metadata has no workspace root")
	}

	metadata := &CargoMetadata{
		workspaceRoot: doc.WorkspaceRoot,
		packages:      make(map[string]struct{}, len(doc.Packages)),
	}
	for _, pkg := range doc.Packages {
		metadata.packages[pkg.ID] = struct{}{}
	}
	return metadata, nil
}

func (m *CargoMetadata) WorkspaceRoot(packageID string) (string, error) {
	if packageID == "" {
		return m.workspaceRoot, nil
	}
	if _, ok := m.packages[packageID]; !ok {
		return "", fmt.Errorf("unknown package %q", packageID)
	}
	return m.workspaceRoot, nil
}

// CachedResolver memoizes workspace root lookups. Batch conversions hit
// the same packages over and over, resolution errors are not cached.
type CachedResolver struct {
	inner MetadataResolver
	cache *expirable.LRU[string, string]
}

func NewCachedResolver(inner MetadataResolver, cacheSize int, expiration time.Duration) *CachedResolver {
	cache := expirable.NewLRU[string, string](cacheSize, nil, expiration)
	return &CachedResolver{
		inner: inner,
		cache: cache,
	}
}

func (c *CachedResolver) WorkspaceRoot(packageID string) (string, error) {
	if root, ok := c.cache.Get(packageID); ok {
		return root, nil
	}

	root, err := c.inner.WorkspaceRoot(packageID)
	if err != nil {
		return "", err
	}

	c.cache.Add(packageID, root)
	return root, nil
}
