package bg3compat

import (
	"fmt"

	"github.com/arthur-debert/bg3compat/internal/version"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template functions
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "bg3compat",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set custom usage template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.workspace, "workspace", "", MsgFlagWorkspace)
	flags.StringVar(&opts.lang, "lang", "", MsgFlagLang)
	flags.StringVar(&opts.color, "color", "auto", MsgFlagColor)

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{ID: "workspace", Title: "Workspace Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "patch", Title: "Patch Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "Misc Commands:"})

	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newRemoveCmd(opts))
	rootCmd.AddCommand(newClearCmd(opts))
	rootCmd.AddCommand(newRacesCmd(opts))
	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd(rootCmd))

	return rootCmd
}

// parseKind turns a command line argument into an ArchiveKind
func parseKind(s string) (types.ArchiveKind, error) {
	kind, err := types.ParseArchiveKind(s)
	if err != nil {
		return "", errors.Newf(errors.ErrInvalidInput, MsgErrNoSuchKind, s).WithDetail("kind", s)
	}
	return kind, nil
}

func kindCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{string(types.KindRace), string(types.KindAppearance)}, cobra.ShellCompDirectiveNoFileComp
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "import <race|appearance> FILE...",
		Short:   MsgImportShort,
		Example: MsgImportExample,
		GroupID: "workspace",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return a.importArchives(cmd.Context(), kind, args[1:])
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "list [race|appearance]",
		Aliases:           []string{"ls"},
		Short:             MsgListShort,
		GroupID:           "workspace",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []types.ArchiveKind{types.KindRace, types.KindAppearance}
			if len(args) == 1 {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []types.ArchiveKind{kind}
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return a.list(cmd.Context(), kinds, len(args) == 0)
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <race|appearance> NAME",
		Aliases:           []string{"rm"},
		Short:             MsgRemoveShort,
		GroupID:           "workspace",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.engine.Remove(kind, types.Stem(args[1])); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, MsgRemoved, kind, types.Stem(args[1]))
			return nil
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "clear <race|appearance>",
		Short:             MsgClearShort,
		GroupID:           "workspace",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errors.Newf(errors.ErrInvalidInput, MsgErrClearConfirm, kind)
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			n, err := a.engine.Clear(kind)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, MsgCleared, n, kind)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newRacesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "races",
		Short:   MsgRacesShort,
		GroupID: "patch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return a.races()
		},
	}
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	g := &generateOptions{}
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   MsgGenerateShort,
		Long:    MsgGenerateLong,
		Example: MsgGenerateExample,
		GroupID: "patch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return a.generate(cmd, g)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&g.races, "race", nil, MsgFlagRace)
	flags.StringArrayVar(&g.appearances, "appearance", nil, MsgFlagAppearance)
	flags.StringArrayVarP(&g.assign, "assign", "a", nil, MsgFlagAssign)
	flags.StringVar(&g.planFile, "plan", "", MsgFlagPlan)
	flags.StringVar(&g.savePlan, "save-plan", "", MsgFlagSavePlan)
	flags.StringVar(&g.name, "name", "", MsgFlagName)
	flags.StringVar(&g.author, "author", "", MsgFlagAuthor)
	flags.StringVar(&g.description, "description", "", MsgFlagDesc)
	flags.StringVar(&g.version, "version", "", MsgFlagVersion)
	flags.StringVar(&g.update, "update", "", MsgFlagUpdate)
	flags.BoolVar(&g.regenerateUUID, "regenerate-uuid", false, MsgFlagRegenUUID)
	flags.BoolVar(&g.keepIDs, "keep-ids", false, MsgFlagKeepIDs)
	flags.BoolVar(&g.diff, "diff", false, MsgFlagDiff)
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			copts, err := opts.configOptions(cmd)
			if err != nil {
				return err
			}
			if write {
				target := copts.Path
				if target == "" {
					target = copts.DefaultPath
				}
				if err := writeUserConfig(target); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
				return nil
			}
			return showConfig(cmd.OutOrStdout(), copts)
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "bg3compat version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:     "man [DIR]",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			header := &doc.GenManHeader{
				Title:   "BG3COMPAT",
				Section: "1",
				Source:  "bg3compat " + version.Version,
			}
			if err := doc.GenManTree(root, header, dir); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write man pages to %s", dir)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}
}
