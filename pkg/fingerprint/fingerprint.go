// Package fingerprint produces content-derived digests for evidence
// files. Files are streamed through SHA-256 in fixed-size chunks so a
// multi-hundred-megabyte video never has to be held in memory, and
// callers can observe fractional progress as bytes are consumed.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/casetrail/evidence-api/pkg/errors"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 2 * 1024 * 1024

// StorageExtension is appended to a digest to form the content-addressed
// storage key. Identical bytes always map to the same stored object.
const StorageExtension = ".mp4"

// ProgressFunc receives fractional progress in [0,1] as chunks are
// consumed. When the total size is unknown (<= 0) it receives -1.
type ProgressFunc func(fraction float64)

// Generator computes streaming digests.
type Generator struct {
	chunkSize int
}

// Option configures a Generator.
type Option func(*Generator)

// WithChunkSize overrides the read chunk size.
func WithChunkSize(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.chunkSize = size
		}
	}
}

// NewGenerator creates a digest generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Sum streams r through SHA-256 and returns the lowercase hex digest.
// totalSize is used only for progress reporting; pass 0 when unknown.
// A read failure returns a READ_ERROR and no digest: partial progress
// is never reported as a completed fingerprint. A fresh hasher is used
// per call, so the generator is restartable across files.
func (g *Generator) Sum(ctx context.Context, r io.Reader, totalSize int64, progress ProgressFunc) (string, error) {
	hasher := sha256.New()
	buf := make([]byte, g.chunkSize)

	var consumed int64
	for {
		if err := ctx.Err(); err != nil {
			return "", errors.ReadError(err)
		}

		n, err := r.Read(buf)
		if n > 0 {
			// hash.Hash writes never fail
			hasher.Write(buf[:n])
			consumed += int64(n)
			if progress != nil {
				if totalSize > 0 {
					f := float64(consumed) / float64(totalSize)
					if f > 1 {
						f = 1
					}
					progress(f)
				} else {
					progress(-1)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.ReadError(err)
		}
	}

	if progress != nil && totalSize > 0 {
		progress(1)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// StorageKey derives the content-addressed storage key for a digest.
func StorageKey(digest string) string {
	return digest + StorageExtension
}
