package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig writes a config pointing every directory into base and
// clears the credential environment fallbacks so stages stay offline.
func writeTestConfig(t *testing.T, base string) string {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("FB_PAGE_TOKEN", "")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
workspace_dir = %q
log_dir = %q
static_dir = %q

[history]
enabled = true
path = %q
`,
		filepath.Join(base, "workspace"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "static"),
		filepath.Join(base, "logs", "history.db"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
