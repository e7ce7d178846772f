package main

// Notes:
// - GenerateCompletion: we test that scripts carry the expected markers and
//   the flags registered on each command's FlagSet. Running the scripts in
//   real shells is out of scope.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion_SupportedShells
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell        Shell
		wantContains []string
	}{
		{ShellBash, []string{"_campuskit_completions", "complete -F", "render import serve", "--base-url", "preview published card", "compgen -d"}},
		{ShellZsh, []string{"#compdef campuskit", "_arguments", "_describe", "'--owner[", ":value:(preview published card)"}},
		{ShellFish, []string{"complete -c campuskit", "__fish_campuskit_needs_command", "-l env-file", "-l mode -s m -x -a 'preview published card'"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, "tcsh")
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Registry matches the dispatcher
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	seen := make(map[string]commandDef)
	for _, c := range cmds {
		seen[c.Name] = c
	}
	for _, name := range commands {
		if _, ok := seen[name]; !ok {
			t.Errorf("command %q missing from completion registry", name)
		}
	}

	var mode *flagDef
	for i, f := range seen["render"].Flags {
		if f.Long == "mode" {
			mode = &seen["render"].Flags[i]
		}
	}
	if mode == nil || mode.Type != flagEnum || mode.Short != "m" {
		t.Errorf("render --mode = %+v, want enum flag with -m", mode)
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	env, stdout, _, _ := testEnv(t)
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("runCompletion(nil): %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage: campuskit completion <shell>") {
		t.Errorf("stdout = %q, want usage", stdout.String())
	}

	err := runCompletion([]string{"tcsh"}, env)
	if !errors.Is(err, ErrUsage) || !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUsage and ErrUnsupportedShell", err)
	}
}
