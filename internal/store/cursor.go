package store

import (
	"encoding/base64"
	"encoding/json"
)

// EncodeCursor serializes a resume key into an opaque, URL-safe token. The
// token is meaningless to clients beyond round-tripping it back into the
// next list request.
func EncodeCursor(key Key) string {
	if len(key) == 0 {
		return ""
	}
	data, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor reverses EncodeCursor. Pagination is best-effort: any
// malformed token (bad encoding, corrupt structure, non-object payload)
// returns nil, which callers treat as "start from the first page" rather
// than an error. Entries with empty values are dropped after decoding, and
// an empty surviving key is also nil, since an empty-but-present resume key
// behaves ambiguously across store implementations.
func DecodeCursor(token string) Key {
	if token == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Tolerate padded tokens from older clients.
		if data, err = base64.URLEncoding.DecodeString(token); err != nil {
			return nil
		}
	}
	var key Key
	if err := json.Unmarshal(data, &key); err != nil {
		return nil
	}
	for k, v := range key {
		if v == "" {
			delete(key, k)
		}
	}
	if len(key) == 0 {
		return nil
	}
	return key
}
