package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/zsh-sage/toggle-term/internal/config"
)

var flagInstall bool

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Print (or install) the tmux key binding",
	Long: `Print the tmux bind-key command for the configured key chord.

By default the command is printed so it can be added to tmux.conf.
With --install it is executed against the running tmux server instead,
taking effect immediately but not persisting across server restarts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBind(cmd)
	},
}

func init() {
	bindCmd.Flags().BoolVar(&flagInstall, "install", false,
		"apply the binding to the running tmux server instead of printing it")
	rootCmd.AddCommand(bindCmd)
}

func runBind(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		exe = "toggle-term"
	}

	chord := cfg.Binding()
	shellCmd := fmt.Sprintf("%s toggle", exe)

	if flagInstall {
		bind := exec.Command("tmux", "bind-key", "-n", chord, "run-shell", shellCmd)
		if out, err := bind.CombinedOutput(); err != nil {
			return fmt.Errorf("tmux bind-key: %w: %s", err, out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bound %s to toggle\n", chord)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "bind-key -n %s run-shell \"%s\"\n", chord, shellCmd)
	return nil
}
