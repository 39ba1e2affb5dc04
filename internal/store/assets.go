package store

import (
	"context"
	"database/sql"
	"fmt"

	"mediaspawner/internal/spawn"
)

// GetAssets returns the full asset collection in stored order.
func (s *Store) GetAssets(ctx context.Context) ([]spawn.MediaAsset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, path, is_url, type FROM assets ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []spawn.MediaAsset
	for rows.Next() {
		var (
			asset spawn.MediaAsset
			isURL int
			kind  string
		)
		if err := rows.Scan(&asset.ID, &asset.Name, &asset.Path, &isURL, &kind); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		asset.IsURL = isURL != 0
		asset.Type = spawn.AssetType(kind)
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

// SaveAssets replaces the full asset collection.
func (s *Store) SaveAssets(ctx context.Context, assets []spawn.MediaAsset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assets tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceAssetsTx(ctx, tx, assets); err != nil {
		return err
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assets: %w", err)
	}
	s.noteChange()
	return nil
}

func replaceAssetsTx(ctx context.Context, tx *sql.Tx, assets []spawn.MediaAsset) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM assets"); err != nil {
		return fmt.Errorf("clear assets: %w", err)
	}
	for position, asset := range assets {
		isURL := 0
		if asset.IsURL {
			isURL = 1
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO assets (id, name, path, is_url, type, position) VALUES (?, ?, ?, ?, ?, ?)",
			asset.ID, asset.Name, asset.Path, isURL, string(asset.Type), position,
		)
		if err != nil {
			return fmt.Errorf("insert asset %q: %w", asset.ID, err)
		}
	}
	return nil
}
