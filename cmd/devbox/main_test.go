package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/devbox/pkg/config"
	"github.com/jaspreet-dot-casa/devbox/pkg/consent"
	"github.com/jaspreet-dot-casa/devbox/pkg/history"
	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/report"
	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

const testManifest = `version: 1
items:
  - name: alpha
    description: First tool
    detect:
      commands: [alpha]
    install:
      - shell: install-alpha
  - name: beta
    description: Second tool
    detect:
      commands: [beta]
    install:
      - shell: install-beta
  - name: gamma
    description: Needs beta
    depends_on: [beta]
    detect:
      commands: [gamma]
    install:
      - shell: install-gamma
`

// fakeHost is a MockExecutor whose PATH grows as "install-<name>" scripts
// succeed. Scripts listed in broken fail.
func fakeHost(installed []string, broken ...string) *system.MockExecutor {
	onPath := make(map[string]bool)
	for _, name := range installed {
		onPath[name] = true
	}
	failing := make(map[string]bool)
	for _, name := range broken {
		failing[name] = true
	}

	return &system.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if onPath[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
		CombinedOutputFunc: func(name string, args ...string) ([]byte, error) {
			if name != "sh" || len(args) != 2 {
				return nil, errors.New("unexpected command")
			}
			tool := strings.TrimPrefix(args[1], "install-")
			if failing[tool] {
				return []byte("E: Unable to locate package " + tool), errors.New("exit status 100")
			}
			onPath[tool] = true
			return nil, nil
		},
	}
}

// setupEnv points config and state at temp dirs, writes the test manifest,
// and swaps in exec. It returns the manifest path and the state dir.
func setupEnv(t *testing.T, exec system.CommandExecutor) (string, string) {
	t.Helper()

	tmp := t.TempDir()
	stateDir := filepath.Join(tmp, "state")
	t.Setenv(config.EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(config.EnvStateDir, stateDir)

	manifest := filepath.Join(tmp, "catalog.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0644))

	original := newExecutor
	newExecutor = func() system.CommandExecutor { return exec }
	t.Cleanup(func() { newExecutor = original })

	return manifest, stateDir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCmd()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs(args)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestNewRootCmd(t *testing.T) {
	rootCmd := newRootCmd()

	assert.Equal(t, "devbox", rootCmd.Use)
	assert.Equal(t, "Development machine setup tool", rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmdHelp(t *testing.T) {
	output, err := execute(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "devbox")
	assert.Contains(t, output, "install")
	assert.Contains(t, output, "check")
	assert.Contains(t, output, "list")
	assert.Contains(t, output, "validate")
	assert.Contains(t, output, "history")
	assert.Contains(t, output, "init")
	assert.Contains(t, output, "shell-init")
}

func TestRootCmdVersion(t *testing.T) {
	output, err := execute(t, "", "--version")
	require.NoError(t, err)

	assert.Contains(t, output, "devbox version")
}

func TestInstallCmd_UnknownFlag(t *testing.T) {
	setupEnv(t, fakeHost(nil))

	_, err := execute(t, "", "install", "--frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Equal(t, 1, exitCode(err))
}

func TestInstallCmd_UnknownItem(t *testing.T) {
	manifest, _ := setupEnv(t, fakeHost(nil))

	_, err := execute(t, "", "install", "--catalog", manifest, "--yes", "nope")
	assert.EqualError(t, err, `unknown item "nope"`)
}

func TestInstallCmd_AutoApprove(t *testing.T) {
	host := fakeHost(nil, "beta")
	manifest, stateDir := setupEnv(t, host)
	summary := filepath.Join(t.TempDir(), "out", "summary.md")

	output, err := execute(t, "", "install", "--catalog", manifest, "--yes", "--summary", summary)

	var failed *report.FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, []string{"beta"}, failed.Items)
	assert.Equal(t, 1, exitCode(err))

	assert.Contains(t, output, "alpha")
	assert.Contains(t, output, "beta")
	assert.Contains(t, output, "prerequisite beta")
	assert.NotContains(t, host.Calls, "sh -c install-gamma")

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alpha")

	run, ok, err := history.NewStore(stateDir, 0).Latest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, run.Mode.AutoApprove)

	outcome, ok := run.Report().Outcome("alpha")
	require.True(t, ok)
	assert.Equal(t, installer.Installed, outcome.Kind)

	outcome, ok = run.Report().Outcome("gamma")
	require.True(t, ok)
	assert.Equal(t, installer.SkippedNoConsent, outcome.Kind)
}

func TestInstallCmd_Prompts(t *testing.T) {
	host := fakeHost([]string{"alpha"})
	manifest, _ := setupEnv(t, host)

	// alpha is present; decline beta, which also skips gamma.
	output, err := execute(t, "n\n", "install", "--catalog", manifest, "--no-history")
	require.NoError(t, err)

	assert.Contains(t, output, "[y/n]")
	assert.Empty(t, host.Calls)
	assert.Contains(t, output, "declined")
}

func TestInstallCmd_InvalidAnswerReprompts(t *testing.T) {
	host := fakeHost([]string{"alpha"})
	manifest, stateDir := setupEnv(t, host)

	output, err := execute(t, "maybe\ny\n", "install", "--catalog", manifest, "--no-history", "beta")
	require.NoError(t, err)

	assert.Contains(t, output, "Please answer y or n.")
	assert.Equal(t, []string{"sh -c install-beta"}, host.Calls)

	_, statErr := os.Stat(filepath.Join(stateDir, history.FileName))
	assert.True(t, os.IsNotExist(statErr), "--no-history skips recording")
}

func TestInstallCmd_DisabledItems(t *testing.T) {
	host := fakeHost(nil)
	manifest, _ := setupEnv(t, host)

	cfg := config.NewConfig()
	cfg.Disabled = []string{"beta"}
	require.NoError(t, cfg.Save())

	_, err := execute(t, "", "install", "--catalog", manifest, "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"sh -c install-alpha"}, host.Calls, "disabled items and their dependents are left out")
}

func TestCheckCmd(t *testing.T) {
	manifest, _ := setupEnv(t, fakeHost([]string{"alpha"}))

	output, err := execute(t, "", "check", "--catalog", manifest)
	require.NoError(t, err)

	assert.Contains(t, output, "1.0.0")
	assert.Contains(t, output, "not installed")
	assert.Contains(t, output, "1 of 3 installed")
}

func TestListCmd(t *testing.T) {
	manifest, _ := setupEnv(t, fakeHost(nil))

	output, err := execute(t, "", "list", "--catalog", manifest)
	require.NoError(t, err)

	assert.Contains(t, output, "Found 3 items")
	assert.Contains(t, output, "CLI Tools:")
	assert.Contains(t, output, "  - gamma: Needs beta (needs beta)")
}

func TestListCmd_BuiltIn(t *testing.T) {
	setupEnv(t, fakeHost(nil))

	output, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "gemini-cli")
}

func TestValidateCmd(t *testing.T) {
	setupEnv(t, fakeHost(nil))

	output, err := execute(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, output, "Catalog is valid")
}

func TestValidateCmd_Errors(t *testing.T) {
	setupEnv(t, fakeHost(nil))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`items:
  - name: a
    depends_on: [b]
    install:
      - shell: echo a
  - name: b
    install:
      - shell: echo b
`), 0644))

	output, err := execute(t, "", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, output, "[ERROR] a:")
	assert.Contains(t, output, "[WARNING] b:")
}

func TestHistoryCmd(t *testing.T) {
	manifest, _ := setupEnv(t, fakeHost(nil))

	output, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, output, "No runs recorded yet.")

	_, err = execute(t, "", "install", "--catalog", manifest, "--yes", "alpha")
	require.NoError(t, err)

	output, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, output, "1 item: 1 installed")

	output, err = execute(t, "", "history", "--last")
	require.NoError(t, err)
	assert.Contains(t, output, "alpha")

	output, err = execute(t, "", "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, output, "History cleared.")

	output, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, output, "No runs recorded yet.")
}

func TestInitCmd(t *testing.T) {
	setupEnv(t, fakeHost(nil))

	output, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, output, config.Path())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.History)

	_, err = execute(t, "", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "init", "--force")
	assert.NoError(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 130, exitCode(context.Canceled))
	assert.Equal(t, 130, exitCode(consent.ErrInterrupted))
	assert.Equal(t, 1, exitCode(&report.FailedError{Items: []string{"x"}}))
}

const shellInitManifest = `version: 1
items:
  - name: alpha
    description: First tool
    detect:
      commands: [alpha]
    install:
      - shell: install-alpha
    shell_init:
      bash: 'eval "$(alpha init bash)"'
  - name: beta
    description: Second tool
    detect:
      commands: [beta]
    install:
      - shell: install-beta
    shell_init:
      bash: 'source ~/.beta.bash'
`

func TestShellInitCmd(t *testing.T) {
	setupEnv(t, fakeHost([]string{"alpha"}))

	dir := t.TempDir()
	manifest := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(shellInitManifest), 0644))

	rcPath := filepath.Join(dir, ".bashrc")
	cfg := config.NewConfig()
	cfg.RCFile = rcPath
	require.NoError(t, cfg.Save())

	output, err := execute(t, "", "check", "--catalog", manifest)
	require.NoError(t, err)
	assert.Contains(t, output, "(shell integration missing)")

	output, err = execute(t, "", "shell-init", "--catalog", manifest)
	require.NoError(t, err)
	assert.Contains(t, output, "alpha written")
	assert.Contains(t, output, "beta not installed")

	data, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# >>> devbox:alpha >>>\neval \"$(alpha init bash)\"\n# <<< devbox:alpha <<<\n")
	assert.NotContains(t, string(data), "devbox:beta")

	output, err = execute(t, "", "check", "--catalog", manifest)
	require.NoError(t, err)
	assert.Contains(t, output, "(shell integration ok)")

	output, err = execute(t, "", "shell-init", "--catalog", manifest)
	require.NoError(t, err)
	assert.Contains(t, output, "alpha up to date")
	assert.Contains(t, output, "0 block(s) changed")

	output, err = execute(t, "", "shell-init", "--catalog", manifest, "--remove")
	require.NoError(t, err)
	assert.Contains(t, output, "alpha removed")

	data, err = os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "devbox:alpha")
}

func TestShellInitCmd_Outdated(t *testing.T) {
	setupEnv(t, fakeHost([]string{"alpha"}))

	dir := t.TempDir()
	manifest := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(shellInitManifest), 0644))

	rcPath := filepath.Join(dir, ".bashrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("# >>> devbox:alpha >>>\nold line\n# <<< devbox:alpha <<<\n"), 0644))
	cfg := config.NewConfig()
	cfg.RCFile = rcPath
	require.NoError(t, cfg.Save())

	output, err := execute(t, "", "check", "--catalog", manifest, "alpha")
	require.NoError(t, err)
	assert.Contains(t, output, "(shell integration outdated)")
}
