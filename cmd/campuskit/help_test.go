package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args       []string
		wantStdout string
		wantStderr string
	}{
		{nil, "Commands:", ""},
		{[]string{"render"}, "--watch", ""},
		{[]string{"import"}, "--owner", ""},
		{[]string{"serve"}, "--env-file", ""},
		{[]string{"doctor"}, "--json", ""},
		{[]string{"version"}, "campuskit version", ""},
		{[]string{"help"}, "campuskit help [command]", ""},
		{[]string{"convert"}, "", "Unknown command: convert"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr, _ := testEnv(t)
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
