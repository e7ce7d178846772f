// Package campuskit turns author projects into standalone HTML documents for
// sandboxed display, and optionally into PDF or PNG snapshots.
//
// # Quick Start
//
// Assemble a published page from the three author buffers and the owner's
// uploaded assets:
//
//	r, err := campuskit.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	result, err := r.Render(ctx, campuskit.Input{
//	    Bundle: campuskit.SourceBundle{
//	        Markup: `<img src="assets/pic.png">`,
//	    },
//	    Assets: []campuskit.Asset{
//	        {Name: "pic.png", URL: "https://cdn.example/pic.png"},
//	    },
//	    Mode: campuskit.ModePublished,
//	})
//
// # Rendering Pipeline
//
//  1. Wrapper stripping: pasted <!DOCTYPE>, <html>, <head> and <body> tags
//     are removed from the markup
//  2. Asset resolution: assets/<name>, /assets/<name> and ./assets/<name>
//     become the asset's URL, longest name first
//  3. Card overlay (ModeCard only): half-scale styles and a click guard
//  4. Assembly: one document with the styles in the head and the script at
//     the end of the body
//
// Rendering is pure and never touches a browser. Export sends a rendered
// document through headless Chrome (go-rod) to produce a PDF or PNG.
//
// # Trust Boundary
//
// Author markup, styles and script are inserted without escaping. The
// document is only safe to show inside an iframe whose sandbox attribute
// comes from SandboxFor. Only the title, which the host supplies, is escaped.
//
// # Parallel Processing
//
// Render is safe for concurrent use. Export drives one browser per Renderer
// and is not; use RendererPool to export concurrently:
//
//	pool := campuskit.NewRendererPool(campuskit.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//	pdf, err := r.Export(ctx, result.HTML, campuskit.ExportOptions{Format: campuskit.FormatPDF})
package campuskit
