package app

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/ports"
)

// namespaceSeparator joins the user ID and the logical key into one
// opaque store key. The ASCII unit separator cannot collide with any
// key name used by the engine and is rejected in user IDs, so distinct
// (user, key) pairs always map to distinct store keys.
const namespaceSeparator = "\x1f"

// NamespacedCache wraps a KeyValueStore with per-user key prefixing.
// It is the only component enforcing multi-tenant isolation at the
// key-value layer: every operation requires a user ID and fails fast
// when it is missing, rather than silently degrading to a shared key.
type NamespacedCache struct {
	store ports.KeyValueStore
}

// NewNamespacedCache creates a cache over the given key-value store.
func NewNamespacedCache(store ports.KeyValueStore) *NamespacedCache {
	return &NamespacedCache{store: store}
}

// Set JSON-encodes value and stores it under the user's namespaced key.
func (c *NamespacedCache) Set(ctx context.Context, userID, key string, value any) error {
	nsKey, err := namespacedKey(userID, key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return domain.NewStorageError("encode cache value", err)
	}

	if err := c.store.Set(ctx, nsKey, data); err != nil {
		return domain.NewStorageError("set cache value", err)
	}

	return nil
}

// Get loads and decodes the value stored under the user's namespaced
// key into dest. Returns domain.ErrNotFound when the key is absent;
// absence is not treated as a storage failure here, the engine decides
// what absence means per operation.
func (c *NamespacedCache) Get(ctx context.Context, userID, key string, dest any) error {
	nsKey, err := namespacedKey(userID, key)
	if err != nil {
		return err
	}

	data, err := c.store.Get(ctx, nsKey)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}

		return domain.NewStorageError("get cache value", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return domain.NewStorageError("decode cache value", err)
	}

	return nil
}

// Remove deletes the user's namespaced key. Removing an absent key is
// not an error.
func (c *NamespacedCache) Remove(ctx context.Context, userID, key string) error {
	nsKey, err := namespacedKey(userID, key)
	if err != nil {
		return err
	}

	if err := c.store.Delete(ctx, nsKey); err != nil {
		return domain.NewStorageError("delete cache value", err)
	}

	return nil
}

// namespacedKey derives the opaque store key for a (user, key) pair.
func namespacedKey(userID, key string) (string, error) {
	if userID == "" {
		return "", domain.NewNamespaceError(key, "user ID is required")
	}

	if strings.Contains(userID, namespaceSeparator) {
		return "", domain.NewNamespaceError(key, "user ID contains reserved separator")
	}

	if key == "" {
		return "", domain.NewNamespaceError(key, "cache key is required")
	}

	return userID + namespaceSeparator + key, nil
}
