package pipeline

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// AssetRef is the resolver's view of an uploaded file: the name authors write
// after assets/ and the absolute URL it stands for.
type AssetRef struct {
	Name      string
	URL       string
	CreatedAt time.Time
}

// assetPrefix matches the three spellings authors use: assets/, /assets/ and
// ./assets/.
const assetPrefix = `\.?/?assets/`

// ResolveAssets replaces every reference to a known asset in code with that
// asset's URL. References to unknown names are left untouched.
//
// Names are tried longest first so that "logo.png.bak" is never cut short by
// "logo.png". All names are matched in a single pass over code, which means
// text inserted by one substitution is never rewritten again.
func ResolveAssets(code string, assets []AssetRef) string {
	if code == "" || len(assets) == 0 {
		return code
	}

	byName := DedupeAssets(assets)
	if len(byName) == 0 {
		return code
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sortLongestFirst(names)

	alternatives := make([]string, len(names))
	for i, name := range names {
		alternatives[i] = regexp.QuoteMeta(name)
	}
	pattern := regexp.MustCompile(assetPrefix + `(?:` + strings.Join(alternatives, "|") + `)`)

	return pattern.ReplaceAllStringFunc(code, func(match string) string {
		name := match[strings.Index(match, "assets/")+len("assets/"):]
		return byName[name].URL
	})
}

// DedupeAssets indexes assets by name. When two assets share a name the one
// created most recently wins; on equal timestamps the later entry wins.
// Assets with an empty name are dropped.
func DedupeAssets(assets []AssetRef) map[string]AssetRef {
	out := make(map[string]AssetRef, len(assets))
	for _, a := range assets {
		if a.Name == "" {
			continue
		}
		if prev, ok := out[a.Name]; ok && a.CreatedAt.Before(prev.CreatedAt) {
			continue
		}
		out[a.Name] = a
	}
	return out
}

// sortLongestFirst orders names by descending length, alphabetically on ties
// so the compiled pattern is deterministic.
func sortLongestFirst(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
}
