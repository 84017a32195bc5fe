package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CacheExtraction stores an extraction result keyed by document content hash.
// The key includes sector, provider, and model so a cached extraction is only
// reused for the exact same analysis setup.
func (db *DB) CacheExtraction(ctx context.Context, contentHash, sector, provider, model string, extraction any) error {
	jsonBytes, err := json.Marshal(extraction)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO extraction_cache (content_hash, sector, provider, model, extraction)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (content_hash, sector, provider, model)
		 DO UPDATE SET extraction = $5, created_at = NOW()`,
		contentHash, sector, provider, model, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to cache extraction: %w", err)
	}
	return nil
}

// LookupExtraction retrieves a cached extraction, nil when absent
func (db *DB) LookupExtraction(ctx context.Context, contentHash, sector, provider, model string) ([]byte, error) {
	var extraction []byte
	err := db.pool.QueryRow(ctx,
		`SELECT extraction FROM extraction_cache
		 WHERE content_hash = $1 AND sector = $2 AND provider = $3 AND model = $4`,
		contentHash, sector, provider, model,
	).Scan(&extraction)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up extraction: %w", err)
	}
	return extraction, nil
}
