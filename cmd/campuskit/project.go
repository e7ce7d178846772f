package main

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/fileutil"
	"github.com/campuskit/campuskit/internal/yamlutil"
)

// Files of a project directory.
const (
	markupFile   = "index.html"
	stylesFile   = "style.css"
	scriptFile   = "script.js"
	assetsDir    = "assets"
	manifestFile = "campuskit.yaml"
)

// manifest is the optional campuskit.yaml of a project.
type manifest struct {
	Title     string `yaml:"title"`
	Subject   string `yaml:"subject"`
	Type      string `yaml:"type"`      // CODE (default), PDF, DOCUMENT, IMAGE
	File      string `yaml:"file"`      // File types: path inside the project or URL
	Published *bool  `yaml:"published"` // nil = leave to --publish
}

// project is a directory loaded from disk.
type project struct {
	Dir      string // Absolute
	Name     string
	Manifest manifest
	Type     campuskit.ContentType
	Bundle   campuskit.SourceBundle
	Assets   []localAsset
}

// localAsset is a file under assets/.
type localAsset struct {
	Name    string // Path below assets/, slash-separated
	Path    string // Absolute
	Size    int64
	ModTime time.Time
}

// loadProject reads a project directory. Missing buffers are empty; a code
// project with no buffer at all is not a project.
func loadProject(dir string) (*project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadProject, err)
	}
	if !fileutil.DirExists(abs) {
		return nil, fmt.Errorf("%w: %s", ErrNotProject, dir)
	}

	p := &project{Dir: abs, Name: filepath.Base(abs), Type: campuskit.ContentCode}

	raw, err := fileutil.ReadOptional(filepath.Join(abs, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadProject, err)
	}
	if strings.TrimSpace(raw) != "" {
		if err := yamlutil.DecodeStrict([]byte(raw), &p.Manifest); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrManifest, filepath.Join(dir, manifestFile), err)
		}
	}
	if p.Manifest.Type != "" {
		if p.Type, err = campuskit.ParseContentType(strings.ToUpper(p.Manifest.Type)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManifest, err)
		}
	}

	if p.Type.IsFile() {
		if p.Manifest.File == "" {
			return nil, fmt.Errorf("%w: %s projects need a file entry", ErrManifest, p.Type)
		}
	} else {
		buffers := []struct {
			name string
			dst  *string
		}{
			{markupFile, &p.Bundle.Markup},
			{stylesFile, &p.Bundle.Styles},
			{scriptFile, &p.Bundle.Script},
		}
		for _, b := range buffers {
			if *b.dst, err = fileutil.ReadOptional(filepath.Join(abs, b.name)); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrReadProject, err)
			}
		}
		if p.Bundle.IsEmpty() && raw == "" {
			return nil, fmt.Errorf("%w: %s has no %s, %s or %s", ErrNotProject, dir, markupFile, stylesFile, scriptFile)
		}
	}

	if p.Assets, err = scanAssets(filepath.Join(abs, assetsDir)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadProject, err)
	}
	return p, nil
}

// scanAssets lists regular files below root, skipping dotfiles.
func scanAssets(root string) ([]localAsset, error) {
	if !fileutil.DirExists(root) {
		return nil, nil
	}

	var out []localAsset
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, localAsset{
			Name:    filepath.ToSlash(rel),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Title returns the manifest title, else the document's <title> or first
// <h1>, else the directory name.
func (p *project) Title() string {
	if p.Manifest.Title != "" {
		return p.Manifest.Title
	}
	if t := extractTitle(p.Bundle.Markup); t != "" {
		return t
	}
	return p.Name
}

// rendererAssets maps local assets to URLs: under baseURL when given,
// otherwise file:// URLs of the files themselves.
func (p *project) rendererAssets(baseURL string) []campuskit.Asset {
	out := make([]campuskit.Asset, len(p.Assets))
	for i, a := range p.Assets {
		out[i] = campuskit.Asset{
			Name:      a.Name,
			URL:       assetURL(baseURL, a.Name, a.Path),
			CreatedAt: a.ModTime,
		}
	}
	return out
}

// assetURL joins baseURL and the slash-separated name, escaping each segment.
// Without baseURL the absolute path becomes a file:// URL.
func assetURL(baseURL, name, absPath string) string {
	if baseURL == "" {
		return fileutil.ToFileURL(absPath)
	}
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(segments, "/")
}

// extractTitle returns the text of the first <title>, or failing that the
// first <h1>, of markup.
func extractTitle(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	for _, a := range []atom.Atom{atom.Title, atom.H1} {
		if n := findElement(doc, a); n != nil {
			if t := textContent(n); t != "" {
				return t
			}
		}
	}
	return ""
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// statProjectFile is os.Stat wrapped in ErrReadProject.
func statProjectFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadProject, err)
	}
	return info, nil
}
