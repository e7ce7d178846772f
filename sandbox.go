package campuskit

// Built-in iframe sandbox attributes.
const (
	SandboxPreview   = "allow-scripts"
	SandboxCard      = "allow-scripts"
	SandboxPublished = "allow-scripts allow-same-origin allow-modals allow-forms allow-popups"
)

// SandboxPolicy holds the sandbox attribute to use for each mode.
// Empty fields fall back to the built-in values.
type SandboxPolicy struct {
	Preview   string
	Card      string
	Published string
}

// For returns the sandbox attribute for mode. Unknown modes get the preview
// policy, the most restrictive one.
func (p SandboxPolicy) For(mode Mode) string {
	switch mode {
	case ModePublished:
		return orDefault(p.Published, SandboxPublished)
	case ModeCard:
		return orDefault(p.Card, SandboxCard)
	case ModePreview:
		return orDefault(p.Preview, SandboxPreview)
	}
	return orDefault(p.Preview, SandboxPreview)
}

// SandboxFor returns the built-in sandbox attribute for mode.
func SandboxFor(mode Mode) string {
	return SandboxPolicy{}.For(mode)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
