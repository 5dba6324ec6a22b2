package snapshot

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v4"

	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

var ErrEmptySnapshot = fmt.Errorf("empty disease snapshot")

// Encode serializes a disease snapshot for the cache object.
func Encode(s *schema.DiseaseSnapshot) ([]byte, error) {
	if s == nil {
		return nil, ErrEmptySnapshot
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf).UseCompactEncoding(true)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode is the inverse of Encode.
func Decode(data []byte) (*schema.DiseaseSnapshot, error) {
	if len(data) == 0 {
		return nil, ErrEmptySnapshot
	}

	var s schema.DiseaseSnapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
