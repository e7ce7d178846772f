package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/slug"
)

// Fallback slugs for titles and subjects with no ASCII letters or digits.
const (
	untitledSlug = "untitled"
	generalSlug  = "general"
)

// Content is a published or draft item.
type Content struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Subject     string                `json:"subject"`
	Slug        string                `json:"slug"`
	SubjectSlug string                `json:"subjectSlug"`
	Type        campuskit.ContentType `json:"type"`
	Markup      string                `json:"markup,omitempty"`
	Styles      string                `json:"styles,omitempty"`
	Script      string                `json:"script,omitempty"`
	FileURL     string                `json:"fileUrl,omitempty"`
	FileName    string                `json:"fileName,omitempty"`
	MimeType    string                `json:"mimeType,omitempty"`
	PageCount   int                   `json:"pageCount,omitempty"`
	Published   bool                  `json:"published"`
	Views       int64                 `json:"views"`
	OwnerID     string                `json:"ownerId"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// Bundle returns the three author buffers.
func (c *Content) Bundle() campuskit.SourceBundle {
	return campuskit.SourceBundle{Markup: c.Markup, Styles: c.Styles, Script: c.Script}
}

// Path returns the public route of the content.
func (c *Content) Path() string {
	return "/" + c.SubjectSlug + "/" + c.Slug
}

// NewContent is the input to CreateContent. An empty Type means CODE.
type NewContent struct {
	Title     string
	Subject   string
	OwnerID   string
	Type      campuskit.ContentType
	Bundle    campuskit.SourceBundle
	FileURL   string
	FileName  string
	MimeType  string
	PageCount int
	Published bool
}

// ContentUpdate holds the fields UpdateContent changes. Nil fields are kept.
type ContentUpdate struct {
	Title     *string
	Subject   *string
	Markup    *string
	Styles    *string
	Script    *string
	Published *bool
}

const contentColumns = `id, title, subject, slug, subject_slug, type, markup, styles, script,
	file_url, file_name, mime_type, page_count, published, views, owner_id, created_at, updated_at`

// CreateContent validates and stores a new item. The slug is derived from
// the title; if the subject already has that slug, a millisecond timestamp
// is appended.
func (s *Store) CreateContent(ctx context.Context, in NewContent) (*Content, error) {
	c, err := s.buildContent(ctx, s.db, in)
	if err != nil {
		return nil, err
	}
	if err := insertContent(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateContentWithAssets stores an item together with the assets it
// references. Everything is validated first and written in one transaction,
// so a rejected item leaves no asset rows behind.
func (s *Store) CreateContentWithAssets(ctx context.Context, in NewContent, assets []NewAsset) (*Content, []Asset, error) {
	now := s.now()
	records := make([]Asset, 0, len(assets))
	for _, na := range assets {
		a, err := buildAsset(na, now)
		if err != nil {
			return nil, nil, fmt.Errorf("asset %s: %w", na.Name, err)
		}
		records = append(records, *a)
	}

	var c *Content
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if c, err = s.buildContent(ctx, tx, in); err != nil {
			return err
		}
		if err := insertContent(ctx, tx, c); err != nil {
			return err
		}
		for i := range records {
			if err := insertAsset(ctx, tx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return c, records, nil
}

// buildContent validates in and derives its slugs against q.
func (s *Store) buildContent(ctx context.Context, q querier, in NewContent) (*Content, error) {
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	if in.OwnerID == "" {
		return nil, ErrOwnerRequired
	}

	ctype := in.Type
	if ctype == "" {
		ctype = campuskit.ContentCode
	}
	ctype, err := campuskit.ParseContentType(string(ctype))
	if err != nil {
		return nil, err
	}
	if ctype.IsFile() && in.FileURL == "" {
		return nil, ErrFileRequired
	}

	now := fromMillis(toMillis(s.now()))
	subjectSlug := orSlug(slug.Make(subject), generalSlug)
	titleSlug, err := uniqueSlug(ctx, q, subjectSlug, orSlug(slug.Make(title), untitledSlug), "", now)
	if err != nil {
		return nil, err
	}

	return &Content{
		ID:          uuid.NewString(),
		Title:       title,
		Subject:     subject,
		Slug:        titleSlug,
		SubjectSlug: subjectSlug,
		Type:        ctype,
		Markup:      in.Bundle.Markup,
		Styles:      in.Bundle.Styles,
		Script:      in.Bundle.Script,
		FileURL:     in.FileURL,
		FileName:    in.FileName,
		MimeType:    in.MimeType,
		PageCount:   in.PageCount,
		Published:   in.Published,
		OwnerID:     in.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func insertContent(ctx context.Context, q querier, c *Content) error {
	_, err := q.ExecContext(ctx, `INSERT INTO contents (`+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Subject, c.Slug, c.SubjectSlug, string(c.Type),
		c.Markup, c.Styles, c.Script, c.FileURL, c.FileName, c.MimeType,
		c.PageCount, c.Published, c.Views, c.OwnerID, toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: insert content: %w", err)
	}
	return nil
}

// UpdateContent applies upd to the item with id. A new title or subject
// re-derives the slugs.
func (s *Store) UpdateContent(ctx context.Context, id string, upd ContentUpdate) (*Content, error) {
	c, err := s.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reslug := false
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return nil, ErrTitleRequired
		}
		reslug = reslug || t != c.Title
		c.Title = t
	}
	if upd.Subject != nil {
		sub := strings.TrimSpace(*upd.Subject)
		if sub == "" {
			return nil, ErrSubjectRequired
		}
		reslug = reslug || sub != c.Subject
		c.Subject = sub
	}
	if reslug {
		c.SubjectSlug = orSlug(slug.Make(c.Subject), generalSlug)
		c.Slug, err = uniqueSlug(ctx, s.db, c.SubjectSlug, orSlug(slug.Make(c.Title), untitledSlug), c.ID, now)
		if err != nil {
			return nil, err
		}
	}
	if upd.Markup != nil {
		c.Markup = *upd.Markup
	}
	if upd.Styles != nil {
		c.Styles = *upd.Styles
	}
	if upd.Script != nil {
		c.Script = *upd.Script
	}
	if upd.Published != nil {
		c.Published = *upd.Published
	}
	c.UpdatedAt = fromMillis(toMillis(now))

	_, err = s.db.ExecContext(ctx, `UPDATE contents SET title = ?, subject = ?, slug = ?, subject_slug = ?,
		markup = ?, styles = ?, script = ?, published = ?, updated_at = ? WHERE id = ?`,
		c.Title, c.Subject, c.Slug, c.SubjectSlug, c.Markup, c.Styles, c.Script,
		c.Published, toMillis(now), c.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update content: %w", err)
	}
	return c, nil
}

// GetContent returns the item with id, published or not.
func (s *Store) GetContent(ctx context.Context, id string) (*Content, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)
	return scanContent(row)
}

// GetPublished returns the published item at /subjectSlug/slug.
// Drafts are reported as ErrNotFound.
func (s *Store) GetPublished(ctx context.Context, subjectSlug, titleSlug string) (*Content, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents
		WHERE subject_slug = ? AND slug = ? AND published = 1`, subjectSlug, titleSlug)
	return scanContent(row)
}

// IncrementViews adds one view and returns the new count.
func (s *Store) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE contents SET views = views + 1 WHERE id = ? RETURNING views`, id).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("store: increment views: %w", err)
	}
	return views, nil
}

// ListPublished returns published items newest first, optionally limited to
// one subject.
func (s *Store) ListPublished(ctx context.Context, subjectSlug string) ([]Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE published = 1`
	var args []any
	if subjectSlug != "" {
		query += ` AND subject_slug = ?`
		args = append(args, subjectSlug)
	}
	query += ` ORDER BY created_at DESC, id`
	return s.queryContents(ctx, query, args...)
}

// ListByOwner returns every item of owner, drafts included, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Content, error) {
	return s.queryContents(ctx, `SELECT `+contentColumns+` FROM contents
		WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
}

func (s *Store) queryContents(ctx context.Context, query string, args ...any) ([]Content, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list contents: %w", err)
	}
	defer rows.Close()

	var out []Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list contents: %w", err)
	}
	return out, nil
}

// uniqueSlug returns base, or base with a millisecond suffix when another
// item in the subject already uses it. selfID is excluded from the check.
func uniqueSlug(ctx context.Context, q querier, subjectSlug, base, selfID string, now time.Time) (string, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contents WHERE subject_slug = ? AND slug = ? AND id != ?`,
		subjectSlug, base, selfID).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("store: check slug: %w", err)
	}
	return slug.Unique(base, n > 0, now), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (*Content, error) {
	var (
		c                Content
		ctype            string
		created, updated int64
	)
	err := row.Scan(&c.ID, &c.Title, &c.Subject, &c.Slug, &c.SubjectSlug, &ctype,
		&c.Markup, &c.Styles, &c.Script, &c.FileURL, &c.FileName, &c.MimeType,
		&c.PageCount, &c.Published, &c.Views, &c.OwnerID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan content: %w", err)
	}

	// Rows written by an older build may hold an unknown type; show them as code.
	c.Type, err = campuskit.ParseContentType(ctype)
	if err != nil {
		c.Type = campuskit.ContentCode
	}
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	return &c, nil
}

func orSlug(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
