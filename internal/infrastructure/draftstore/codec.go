// Package draftstore keeps wizard drafts between requests, in process memory or
// in Redis. Drafts are stored as JSON; payloads above a threshold are zstd
// compressed.
package draftstore

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"dormdesk/internal/domain/registration"
)

// Payload markers (first byte of a stored value).
const (
	markerJSON byte = 'j'
	markerZstd byte = 'z'
)

// DefaultCompressThreshold is used when no threshold is configured.
const DefaultCompressThreshold = 8 * 1024

// Codec serializes drafts.
type Codec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewCodec creates a codec compressing payloads larger than threshold bytes.
// A threshold <= 0 uses DefaultCompressThreshold.
func NewCodec(threshold int) (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &Codec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// Encode marshals d, compressing it when it is large.
func (c *Codec) Encode(d *registration.Draft) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	if len(raw) > c.threshold {
		return c.encoder.EncodeAll(raw, []byte{markerZstd}), nil
	}
	return append([]byte{markerJSON}, raw...), nil
}

// Decode reverses Encode.
func (c *Codec) Decode(data []byte) (*registration.Draft, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode draft: empty payload")
	}

	raw := data[1:]
	switch data[0] {
	case markerJSON:
	case markerZstd:
		decompressed, err := c.decoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress draft: %w", err)
		}
		raw = decompressed
	default:
		return nil, fmt.Errorf("decode draft: unknown marker %q", data[0])
	}

	var d registration.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

// Compressed reports whether an encoded payload is compressed.
func Compressed(data []byte) bool {
	return len(data) > 0 && data[0] == markerZstd
}
