package campuskit_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuskit/campuskit"
)

// Example resolves an asset reference and assembles a published page.
func Example() {
	r, err := campuskit.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	result, err := r.Render(context.Background(), campuskit.Input{
		Bundle: campuskit.SourceBundle{Markup: `<img src="assets/pic.png">`},
		Assets: []campuskit.Asset{{Name: "pic.png", URL: "https://cdn.example/pic.png"}},
		Mode:   campuskit.ModePublished,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), `<img src="https://cdn.example/pic.png">`) {
		fmt.Println("asset resolved")
	}
	// Output: asset resolved
}

// ExampleResolveAssets shows that the longest matching name wins.
func ExampleResolveAssets() {
	out := campuskit.ResolveAssets(
		`<a href="./assets/logo.png.bak">old</a> <img src="/assets/logo.png">`,
		[]campuskit.Asset{
			{Name: "logo.png", URL: "https://cdn/logo.png"},
			{Name: "logo.png.bak", URL: "https://cdn/logo-old.png"},
		},
	)
	fmt.Println(out)
	// Output: <a href="https://cdn/logo-old.png">old</a> <img src="https://cdn/logo.png">
}

// ExampleSandboxFor prints the iframe sandbox attribute for each mode.
func ExampleSandboxFor() {
	for _, m := range []campuskit.Mode{campuskit.ModePreview, campuskit.ModeCard, campuskit.ModePublished} {
		fmt.Printf("%s: %s\n", m, campuskit.SandboxFor(m))
	}
	// Output:
	// preview: allow-scripts
	// card: allow-scripts
	// published: allow-scripts allow-same-origin allow-modals allow-forms allow-popups
}
