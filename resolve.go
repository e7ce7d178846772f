package campuskit

import "github.com/campuskit/campuskit/internal/pipeline"

// ResolveAssets rewrites assets/<name>, /assets/<name> and ./assets/<name>
// in code to the matching asset's URL. Unknown names are left as written.
func ResolveAssets(code string, assets []Asset) string {
	return pipeline.ResolveAssets(code, toAssetRefs(assets))
}

// ResolveBundle resolves all three buffers against the same asset set.
func ResolveBundle(b SourceBundle, assets []Asset) SourceBundle {
	if len(assets) == 0 {
		return b
	}
	refs := toAssetRefs(assets)
	return SourceBundle{
		Markup: pipeline.ResolveAssets(b.Markup, refs),
		Styles: pipeline.ResolveAssets(b.Styles, refs),
		Script: pipeline.ResolveAssets(b.Script, refs),
	}
}

func toAssetRefs(assets []Asset) []pipeline.AssetRef {
	refs := make([]pipeline.AssetRef, len(assets))
	for i, a := range assets {
		refs[i] = pipeline.AssetRef{Name: a.Name, URL: a.URL, CreatedAt: a.CreatedAt}
	}
	return refs
}
