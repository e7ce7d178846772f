package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/fileutil"
	"github.com/campuskit/campuskit/internal/hints"
	"github.com/campuskit/campuskit/internal/store"
)

// importSettings holds what every project of an import shares.
type importSettings struct {
	owner   string
	baseURL string
	subject string
	publish bool
}

// runImport stores project directories as content items.
func runImport(ctx context.Context, args []string, env *Environment) error {
	flags, dirs, err := parseImportFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return ErrNoInput
	}

	envCfg := loadEnvConfig()
	settings := importSettings{
		owner:   flags.owner,
		baseURL: flags.baseURL,
		subject: flags.subject,
		publish: flags.publish,
	}
	if settings.owner == "" {
		settings.owner = envCfg.Owner
	}
	if settings.owner == "" {
		return fmt.Errorf("%w: --owner or CAMPUSKIT_OWNER is required", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, envCfg, env.Config)
	if err != nil {
		return err
	}
	if settings.baseURL == "" {
		settings.baseURL = cfg.Server.BaseURL
	}
	dbPath := flags.db
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	st, err := openStore(ctx, dbPath, env)
	if err != nil {
		return err
	}
	defer st.Close()

	var failed int
	for _, dir := range dirs {
		c, err := importProject(ctx, st, dir, settings)
		if err != nil {
			if len(dirs) == 1 {
				return err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", dir, err)
			failed++
			continue
		}
		if !flags.common.quiet {
			state := "draft"
			if c.Published {
				state = "published"
			}
			fmt.Fprintf(env.Stdout, "Imported %s -> %s (%s)\n", dir, c.Path(), state)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d import(s) failed", failed)
	}
	return nil
}

// openStore opens the database, creating its directory when needed.
func openStore(ctx context.Context, path string, env *Environment) (*store.Store, error) {
	st, err := store.Open(ctx, path, store.WithMkdirAll(), store.WithClock(env.Now))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v%s", ErrOpenStore, path, err, hints.ForDatabase(path))
	}
	return st, nil
}

// importProject stores the project's content item and registers its assets.
// Both are written together, so a rejected item records no assets.
func importProject(ctx context.Context, st *store.Store, dir string, s importSettings) (*store.Content, error) {
	p, err := loadProject(dir)
	if err != nil {
		return nil, err
	}

	in := store.NewContent{
		Title:     p.Title(),
		Subject:   p.Manifest.Subject,
		OwnerID:   s.owner,
		Type:      p.Type,
		Published: s.publish,
	}
	if in.Subject == "" {
		in.Subject = s.subject
	}
	if !s.publish && p.Manifest.Published != nil {
		in.Published = *p.Manifest.Published
	}

	if p.Type.IsFile() {
		if err := fillFile(&in, p, s.baseURL); err != nil {
			return nil, err
		}
	} else {
		in.Bundle = p.Bundle
	}

	assets := make([]store.NewAsset, 0, len(p.Assets))
	for _, a := range p.Assets {
		assets = append(assets, store.NewAsset{
			OwnerID:  s.owner,
			Name:     a.Name,
			URL:      assetURL(s.baseURL, a.Name, a.Path),
			MimeType: mimeType(a.Name),
			Size:     a.Size,
			Folder:   assetFolder(a.Name),
		})
	}

	c, _, err := st.CreateContentWithAssets(ctx, in, assets)
	return c, err
}

// fillFile sets the file fields of a PDF, DOCUMENT or IMAGE item. Local
// files are published under baseURL like assets; PDFs get a page count.
func fillFile(in *store.NewContent, p *project, baseURL string) error {
	ref := p.Manifest.File
	in.FileName = path.Base(filepath.ToSlash(ref))
	in.MimeType = mimeType(ref)

	if fileutil.IsURL(ref) {
		in.FileURL = ref
		return nil
	}

	local := ref
	if !filepath.IsAbs(local) {
		local = filepath.Join(p.Dir, filepath.FromSlash(ref))
	}
	if _, err := statProjectFile(local); err != nil {
		return err
	}
	rel, err := filepath.Rel(p.Dir, local)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(local)
	}
	in.FileURL = assetURL(baseURL, filepath.ToSlash(rel), local)

	if p.Type == campuskit.ContentPDF {
		f, err := os.Open(local) // #nosec G304 -- path comes from the project manifest
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadProject, err)
		}
		defer f.Close()
		n, err := store.PDFPageCount(f)
		if err != nil {
			return err
		}
		in.PageCount = n
	}
	return nil
}

// mimeType guesses from the extension, defaulting to octet-stream.
func mimeType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// assetFolder is the first directory of a nested asset name.
func assetFolder(name string) string {
	if i := strings.IndexByte(name, '/'); i > 0 {
		return name[:i]
	}
	return store.DefaultFolder
}
