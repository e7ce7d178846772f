package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/slug"
)

// DefaultFolder is where assets go when no folder is given.
const DefaultFolder = "general"

// Asset is the record of an uploaded file. The file itself lives at URL.
type Asset struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType,omitempty"`
	Size      int64     `json:"size"`
	Folder    string    `json:"folder"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAsset is the input to CreateAsset.
type NewAsset struct {
	OwnerID  string
	Name     string
	URL      string
	MimeType string
	Size     int64
	Folder   string
}

// CreateAsset records an uploaded file for its owner.
func (s *Store) CreateAsset(ctx context.Context, in NewAsset) (*Asset, error) {
	a, err := buildAsset(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := insertAsset(ctx, s.db, a); err != nil {
		return nil, err
	}
	return a, nil
}

func buildAsset(in NewAsset, now time.Time) (*Asset, error) {
	if in.OwnerID == "" {
		return nil, ErrOwnerRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrAssetNameRequired
	}
	if in.URL == "" {
		return nil, ErrAssetURLRequired
	}
	folder := in.Folder
	if folder == "" {
		folder = DefaultFolder
	}

	return &Asset{
		ID:        uuid.NewString(),
		OwnerID:   in.OwnerID,
		Name:      name,
		Slug:      slug.File(name),
		URL:       in.URL,
		MimeType:  in.MimeType,
		Size:      in.Size,
		Folder:    folder,
		CreatedAt: fromMillis(toMillis(now)),
	}, nil
}

func insertAsset(ctx context.Context, q querier, a *Asset) error {
	_, err := q.ExecContext(ctx, `INSERT INTO assets
		(id, owner_id, name, slug, url, mime_type, size, folder, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Name, a.Slug, a.URL, a.MimeType, a.Size, a.Folder, toMillis(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("store: insert asset: %w", err)
	}
	return nil
}

// ListAssets returns the owner's assets, newest first.
func (s *Store) ListAssets(ctx context.Context, ownerID string) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, owner_id, name, slug, url, mime_type, size, folder, created_at
		FROM assets WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: list assets: %w", err)
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var (
			a       Asset
			created int64
		)
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Slug, &a.URL, &a.MimeType, &a.Size, &a.Folder, &created); err != nil {
			return nil, fmt.Errorf("store: scan asset: %w", err)
		}
		a.CreatedAt = fromMillis(created)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list assets: %w", err)
	}
	return out, nil
}

// DeleteAsset removes one of owner's assets. Another owner's asset is
// reported as ErrNotFound.
func (s *Store) DeleteAsset(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("store: delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete asset: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RenderAssets converts records into the renderer's asset type. Records are
// matched by their original name, the name authors write after assets/.
func RenderAssets(assets []Asset) []campuskit.Asset {
	out := make([]campuskit.Asset, len(assets))
	for i, a := range assets {
		out[i] = campuskit.Asset{Name: a.Name, URL: a.URL, CreatedAt: a.CreatedAt}
	}
	return out
}
