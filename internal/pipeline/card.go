package pipeline

// Listing cards show a half-scale, non-interactive thumbnail of a page.

const (
	cardBaseCSS  = "body { margin: 0; overflow: hidden; background: white; }\n"
	cardScaleCSS = "\nbody { transform: scale(0.5); transform-origin: top left; width: 200%; height: 200%; }"

	// cardGuardJS cancels clicks and submits in the capture phase, before any
	// author handler runs.
	cardGuardJS = "document.addEventListener('click', e => e.preventDefault(), true);\n" +
		"document.addEventListener('submit', e => e.preventDefault(), true);\n"
)

// CardParts wraps already-resolved parts with the thumbnail overlay.
func CardParts(p DocumentParts) DocumentParts {
	p.Styles = cardBaseCSS + p.Styles + cardScaleCSS
	p.Script = cardGuardJS + p.Script
	return p
}
