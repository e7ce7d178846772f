package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool { return f.Type != flagBool }

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	TakesDirs bool // accepts project directories
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"mode": {Values: []string{"preview", "published", "card"}},

	"config":   {FileGlob: "*.yaml,*.yml"},
	"db":       {FileGlob: "*.db,*.sqlite"},
	"env-file": {FileGlob: "*.env,.env"},

	"output": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	sort.Slice(flags, func(i, j int) bool { return flags[i].Long < flags[j].Long })
	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	renderFS, _ := newRenderFlagSet(io.Discard)
	importFS, _ := newImportFlagSet(io.Discard)
	serveFS, _ := newServeFlagSet(io.Discard)

	return []commandDef{
		{Name: "render", Desc: "Assemble project directories", Flags: extractFlagsFromFlagSet(renderFS), TakesDirs: true},
		{Name: "import", Desc: "Store project directories", Flags: extractFlagsFromFlagSet(importFS), TakesDirs: true},
		{Name: "serve", Desc: "Run the rendering host", Flags: extractFlagsFromFlagSet(serveFS)},
		{Name: "doctor", Desc: "Check the system", Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(getCommands())
	case ShellZsh:
		script = zshScript(getCommands())
	case ShellFish:
		script = fishScript(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// flagPattern is the bash case pattern matching a flag's spellings.
func flagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for campuskit\n")
	b.WriteString("_campuskit_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		switch {
		case c.Name == "help":
			fmt.Fprintf(&b, "    help)\n        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n        ;;\n", commandNames(cmds))
			continue
		case c.Name == "completion":
			b.WriteString("    completion)\n        COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\"))\n        ;;\n")
			continue
		case len(c.Flags) == 0:
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"$prev\" in\n")
		for _, f := range c.Flags {
			if !f.takesValue() {
				continue
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;\n", flagPattern(f), strings.Join(f.Values, " "))
			case flagDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", flagPattern(f))
			case flagFile:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", flagPattern(f))
			default:
				fmt.Fprintf(&b, "        %s) return ;;\n", flagPattern(f))
			}
		}
		b.WriteString("        esac\n")
		b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", flagWords(c.Flags))
		if c.TakesDirs {
			b.WriteString("        else\n")
			b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		}
		b.WriteString("        fi\n")
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _campuskit_completions campuskit\n")
	return b.String()
}

// zshEscape escapes characters _arguments treats specially in descriptions.
func zshEscape(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]", ":", "\\:", "'", "'\\''").Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		return ":directory:_files -/"
	case flagFile:
		return ":file:_files"
	case flagBool:
		return ""
	}
	return ":value: "
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef campuskit\n\n")
	b.WriteString("_campuskit() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n")
		for _, f := range c.Flags {
			desc := zshEscape(f.Desc)
			action := zshAction(f)
			if f.Short != "" {
				fmt.Fprintf(&b, "            '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
			} else {
				fmt.Fprintf(&b, "            '--%s[%s]%s' \\\n", f.Long, desc, action)
			}
		}
		if c.TakesDirs {
			b.WriteString("            '*:project:_files -/'\n")
		} else {
			b.WriteString("            '*::'\n")
		}
		b.WriteString("        ;;\n")
	}
	b.WriteString("    completion)\n        _values 'shell' bash zsh fish\n        ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _campuskit campuskit\n")
	return b.String()
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for campuskit\n")
	b.WriteString("function __fish_campuskit_needs_command\n")
	b.WriteString("    test (count (commandline -opc)) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_campuskit_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c campuskit -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c campuskit -n __fish_campuskit_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := "'__fish_campuskit_using_command " + c.Name + "'"
		if c.TakesDirs {
			fmt.Fprintf(&b, "complete -c campuskit -n %s -a '(__fish_complete_directories)'\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c campuskit -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			case flagString, flagInt:
				line += " -x"
			}
			line += " -d '" + fishEscape(f.Desc) + "'"
			b.WriteString(line + "\n")
		}
	}
	fmt.Fprintf(&b, "complete -c campuskit -n '__fish_campuskit_using_command completion' -x -a 'bash zsh fish'\n")
	return b.String()
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: campuskit completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(campuskit completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(campuskit completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    campuskit completion fish > ~/.config/fish/completions/campuskit.fish")
}
