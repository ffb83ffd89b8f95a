package cache

import (
	"strconv"
	"strings"
)

// Cache keys live in a single flat namespace:
//
//	products:<offset>:<limit>
//	products:id:<id>
//	orders:<userID>:<status|*>:<offset>:<limit>
//
// Keys are built centrally so the write side can invalidate by owner/entity
// prefix without knowing which filter combinations were ever cached.

// wildcard marks an optional filter that was not supplied. Escaping below
// guarantees a real filter value can never collide with it.
const wildcard = "*"

// keySeparator joins key segments. Values are escaped so a segment can never
// smuggle a separator (or wildcard) and collide with a different scope.
const keySeparator = ":"

// escapeSegment makes a filter value safe to embed in a key. Percent is
// escaped first so the encoding stays reversible and collision-free.
func escapeSegment(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, keySeparator, "%3A")
	s = strings.ReplaceAll(s, wildcard, "%2A")
	return s
}

// BuildKey constructs a deterministic cache key from an entity kind and its
// filter segments. Identical inputs always yield identical keys; any
// differing segment yields a different key.
func BuildKey(kind string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, kind)
	for _, seg := range segments {
		parts = append(parts, escapeSegment(seg))
	}
	return strings.Join(parts, keySeparator)
}

// optional renders an optional filter: absent values become the wildcard
// marker, which escaping keeps distinct from any real value.
func optional(s string) string {
	if s == "" {
		return wildcard
	}
	return escapeSegment(s)
}

// ProductListKey is the cache key for a page of the product catalog.
func ProductListKey(offset, limit int) string {
	return BuildKey("products", strconv.Itoa(offset), strconv.Itoa(limit))
}

// ProductKey is the cache key for a single product.
func ProductKey(id int64) string {
	return BuildKey("products", "id", strconv.FormatInt(id, 10))
}

// OrderListKey is the cache key for a page of one user's orders, optionally
// filtered by status. An absent status is encoded as a wildcard so it cannot
// collide with any real status value.
func OrderListKey(userID int64, status string, offset, limit int) string {
	return strings.Join([]string{
		"orders",
		strconv.FormatInt(userID, 10),
		optional(status),
		strconv.Itoa(offset),
		strconv.Itoa(limit),
	}, keySeparator)
}

// ProductPattern matches every cached product page and entity. Product writes
// invalidate the whole catalog prefix: pagination combinations are unbounded,
// so invalidation is coarse by design.
func ProductPattern() string {
	return "products" + keySeparator
}

// OrderOwnerPattern matches every cached order page belonging to one user.
func OrderOwnerPattern(userID int64) string {
	return "orders" + keySeparator + strconv.FormatInt(userID, 10) + keySeparator
}
