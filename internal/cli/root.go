// Package cli implements the splitwise command tree. Commands are thin:
// they parse flags, call the coordinator, and render the snapshot it
// returns. All reconciliation logic lives below in the internal packages.
package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ujjwal0563/splitwise-cli/internal/api"
	"github.com/ujjwal0563/splitwise-cli/internal/config"
	"github.com/ujjwal0563/splitwise-cli/internal/coordinator"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string
	Yes        bool // skip confirmation prompts
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the splitwise CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "splitwise",
		Short: "Track shared expenses and settle up with friends",
		Long: "A client for the splitwise ledger service: log shared expenses,\n" +
			"see who owes whom, and settle up.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "" && !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Verbose {
				// Surface the coordinator's glog.V(1) action tracing.
				_ = flag.Set("v", "1")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $HOME/.splitwise.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "answer yes to confirmation prompts")

	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewSettlementsCommand(opts))
	cmd.AddCommand(NewFriendsCommand(opts))
	cmd.AddCommand(NewGroupsCommand(opts))
	cmd.AddCommand(NewExpenseCommand(opts))
	cmd.AddCommand(NewSettleCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// app bundles everything a command needs once config is loaded.
type app struct {
	cfg   *config.Config
	coord *coordinator.Coordinator
	out   *Formatter
}

// newApp loads config, opens the session, and wires the coordinator.
func (o *RootOptions) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	format := o.Format
	if format == "" {
		format = cfg.Format
	}

	session := config.NewSession(cfg)
	client := api.New(cfg.BaseURL, session.Token())

	var confirm coordinator.Confirmer
	if o.Yes {
		confirm = coordinator.AutoConfirm
	} else {
		confirm = promptConfirmer{cmd: cmd}
	}

	return &app{
		cfg:   cfg,
		coord: coordinator.New(client, session, confirm),
		out: &Formatter{
			Format:    format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}, nil
}

// promptConfirmer asks on the command's streams and accepts y/yes.
type promptConfirmer struct {
	cmd *cobra.Command
}

func (p promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(p.cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// actionError maps a coordinator failure onto exit semantics: the server's
// message is shown verbatim, a declined confirmation is not an error worth
// a stack of wrapping.
func actionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, coordinator.ErrAborted) {
		return NewExitError(ExitFailure, "aborted")
	}
	return NewExitError(ExitFailure, err.Error())
}
