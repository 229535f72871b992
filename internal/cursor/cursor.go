// Package cursor turns a store's last-evaluated key into an opaque,
// URL-safe pagination token and back. The codec is purely structural: it
// does not know which index produced the key.
package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// ErrMalformed reports a token that is not valid base64 or does not decode
// to a key mapping. Callers must drop their pagination state and restart.
var ErrMalformed = errors.New("cursor: malformed token")

// json sorts map keys so the same key mapping always encodes to the same
// token, which keeps client-side retries idempotent.
var json = jsoniter.Config{SortMapKeys: true}.Froze()

// Value is one key attribute. Exactly one of S and N is set, preserving
// the store's string/number distinction across the round trip.
type Value struct {
	S string `json:"s,omitempty"`
	N string `json:"n,omitempty"`
}

// Encode serializes a key mapping into a URL-safe token. Deterministic for
// identical input.
func Encode(key map[string]Value) string {
	raw, err := json.Marshal(key)
	if err != nil {
		// A map of plain structs cannot fail to marshal.
		panic(fmt.Sprintf("cursor: encode: %v", err))
	}
	return base64.URLEncoding.EncodeToString(raw)
}

// Decode reverses Encode. Tokens that are not base64 or decode to anything
// other than an object fail with ErrMalformed.
func Decode(token string) (map[string]Value, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var key map[string]Value
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if key == nil {
		// JSON null unmarshals into a nil map without error.
		return nil, fmt.Errorf("%w: token is not an object", ErrMalformed)
	}
	return key, nil
}
