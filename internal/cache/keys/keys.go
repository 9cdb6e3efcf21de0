package keys

import (
	"fmt"
	"net/url"

	"github.com/cespare/xxhash/v2"
)

const (
	searchPrefix = "search:v1:"
	bodyPrefix   = "search:v1:body:"
)

// SearchKey derives the cache key for a provider query. url.Values.Encode
// sorts by key, so parameter order never changes the key. Only the hash is
// kept; no filter text ends up in Redis key space.
func SearchKey(params url.Values) string {
	return fmt.Sprintf("%s%016x", searchPrefix, xxhash.Sum64String(canonical(params)))
}

// Hash is the short filter fingerprint attached to search events
func Hash(params url.Values) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical(params)))
}

// BodyKey is SearchKey for a JSON-encoded POST search body.
func BodyKey(body []byte) string {
	return fmt.Sprintf("%s%016x", bodyPrefix, xxhash.Sum64(body))
}

// canonical is the exact query the provider receives, so two keys match
// only when the upstream requests would.
func canonical(params url.Values) string {
	return params.Encode()
}
