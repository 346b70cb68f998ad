package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// shellCompletion describes where one shell looks for completion scripts.
type shellCompletion struct {
	generate func(root *cobra.Command, w io.Writer) error
	// systemPath is used when running as root, userPath (under the home
	// directory) otherwise.
	systemPath string
	userPath   string
	hint       string
}

var shells = map[string]shellCompletion{
	"bash": {
		generate:   func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		systemPath: "/etc/bash_completion.d/graphselect",
		userPath:   filepath.Join(".bash_completion.d", "graphselect"),
		hint: `Add to your ~/.bashrc if not already present:
  for f in ~/.bash_completion.d/*; do source "$f"; done`,
	},
	"zsh": {
		generate:   func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		systemPath: "/usr/local/share/zsh/site-functions/_graphselect",
		userPath:   filepath.Join(".zsh", "completions", "_graphselect"),
		hint: `Add to your ~/.zshrc if not already present:
  fpath=(~/.zsh/completions $fpath)
  autoload -Uz compinit && compinit`,
	},
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate or install shell completion scripts",
		Long: `Generate or install shell completion scripts for graphselect.

Subcommands:
  bash      Print bash completion script to stdout
  zsh       Print zsh completion script to stdout
  install   Auto-detect shell and install completion script`,
	}

	for _, name := range []string{"bash", "zsh"} {
		cmd.AddCommand(newCompletionShellCmd(name))
	}
	cmd.AddCommand(newCompletionInstallCmd())

	return cmd
}

func newCompletionShellCmd(name string) *cobra.Command {
	sh := shells[name]
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Generate %s completion script", name),
		Long: fmt.Sprintf(`Generate %[1]s completion script for graphselect.

To load completions in your current shell session:
  source <(graphselect completion %[1]s)

To install permanently, use:
  graphselect completion install`, name),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sh.generate(cmd.Root(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to generate %s completion: %w", name, err)
			}
			return nil
		},
	}
}

func newCompletionInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Auto-detect shell and install completion script",
		Long: `Auto-detect your shell and install the completion script.

If running with sudo/root, installs system-wide:
  - Bash: /etc/bash_completion.d/graphselect
  - Zsh: /usr/local/share/zsh/site-functions/_graphselect

Otherwise, installs for current user:
  - Bash: ~/.bash_completion.d/graphselect (sources from ~/.bashrc)
  - Zsh: ~/.zsh/completions/_graphselect (add to fpath in ~/.zshrc)`,
		RunE: runCompletionInstall,
	}
}

func runCompletionInstall(cmd *cobra.Command, args []string) error {
	name := detectShell()
	if name == "" {
		return fmt.Errorf("could not detect shell (SHELL env not set)")
	}
	sh, ok := shells[name]
	if !ok {
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", name)
	}

	var script bytes.Buffer
	if err := sh.generate(cmd.Root(), &script); err != nil {
		return fmt.Errorf("failed to generate %s completion: %w", name, err)
	}

	path := sh.systemPath
	hint := "Completion will be available in new shells."
	if !isRunningAsRoot() {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, sh.userPath)
		hint = sh.hint
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, script.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write completion file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s completion to: %s\n\n%s\n", name, path, hint)
	return nil
}

func detectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return ""
	}
	base := filepath.Base(shell)
	switch {
	case strings.Contains(base, "bash"):
		return "bash"
	case strings.Contains(base, "zsh"):
		return "zsh"
	}
	return base
}

func isRunningAsRoot() bool {
	if os.Geteuid() == 0 || os.Getenv("SUDO_USER") != "" {
		return true
	}
	u, err := user.Current()
	return err == nil && u.Uid == "0"
}
