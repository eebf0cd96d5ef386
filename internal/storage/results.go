package storage

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/blake2b"

	"bugbear/internal/engine"
)

// payloadVersion guards the msgpack layout inside the compressed blob.
const payloadVersion uint16 = 1

type payload struct {
	Version     uint16              `msgpack:"v"`
	Diagnostics []engine.Diagnostic `msgpack:"d"`
}

// The zstd encoder and decoder are safe for concurrent EncodeAll/DecodeAll.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

func encodePayload(ds []engine.Diagnostic) ([]byte, error) {
	raw, err := msgpack.Marshal(payload{Version: payloadVersion, Diagnostics: ds})
	if err != nil {
		return nil, fmt.Errorf("encode diagnostics: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

func decodePayload(blob []byte) ([]engine.Diagnostic, error) {
	raw, err := zstdDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress diagnostics: %w", err)
	}
	var p payload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode diagnostics: %w", err)
	}
	if p.Version != payloadVersion {
		return nil, fmt.Errorf("payload version %d, want %d", p.Version, payloadVersion)
	}
	return p.Diagnostics, nil
}

// Key derives the cache key of a file from its content and the fingerprint
// of everything else that influences the result (tool version, settings).
func Key(fingerprint string, source []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Results caches the diagnostics of analysed files.
type Results struct {
	db *DB
}

// NewResults creates a result cache on db.
func NewResults(db *DB) *Results {
	return &Results{db: db}
}

// Get returns the cached diagnostics for key. A payload that cannot be
// decoded is treated as a miss and removed.
func (r *Results) Get(ctx context.Context, key string) ([]engine.Diagnostic, bool, error) {
	var blob []byte
	err := r.db.conn.QueryRowContext(ctx, "SELECT payload FROM results WHERE key = ?", key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("result cache lookup failed: %w", err)
	}

	ds, err := decodePayload(blob)
	if err != nil {
		r.db.logger.Warn("Dropping unreadable cache entry", "key", key, "error", err)
		if _, delErr := r.db.conn.ExecContext(ctx, "DELETE FROM results WHERE key = ?", key); delErr != nil {
			return nil, false, fmt.Errorf("result cache cleanup failed: %w", delErr)
		}
		return nil, false, nil
	}
	return ds, true, nil
}

// Put stores the diagnostics of path under key, replacing any previous row.
func (r *Results) Put(ctx context.Context, key, path string, ds []engine.Diagnostic) error {
	blob, err := encodePayload(ds)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO results (key, path, diagnostics, payload, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, key, path, len(ds), blob, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("result cache store failed: %w", err)
		}
		return nil
	})
}

// Clear removes every cached result and returns how many were removed.
func (r *Results) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.conn.ExecContext(ctx, "DELETE FROM results")
	if err != nil {
		return 0, fmt.Errorf("result cache clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarises the cache contents.
type Stats struct {
	Path         string `json:"path" yaml:"path"`
	Entries      int64  `json:"entries" yaml:"entries"`
	Files        int64  `json:"files" yaml:"files"`
	Diagnostics  int64  `json:"diagnostics" yaml:"diagnostics"`
	PayloadBytes int64  `json:"payloadBytes" yaml:"payload_bytes"`
}

// Stats returns entry, distinct file, diagnostic and payload byte counts.
func (r *Results) Stats(ctx context.Context) (Stats, error) {
	s := Stats{Path: r.db.Path()}
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT path),
		       COALESCE(SUM(diagnostics), 0), COALESCE(SUM(LENGTH(payload)), 0)
		FROM results
	`).Scan(&s.Entries, &s.Files, &s.Diagnostics, &s.PayloadBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("result cache stats failed: %w", err)
	}
	return s, nil
}
