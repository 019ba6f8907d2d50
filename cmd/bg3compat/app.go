package bg3compat

import (
	"io"
	"os"

	"github.com/arthur-debert/bg3compat/pkg/archive"
	"github.com/arthur-debert/bg3compat/pkg/assemble"
	"github.com/arthur-debert/bg3compat/pkg/config"
	"github.com/arthur-debert/bg3compat/pkg/i18n"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/pipeline"
	"github.com/arthur-debert/bg3compat/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	verbosity  int
	configFile string
	workspace  string
	lang       string
	color      string
}

// overrides turns the flags the user actually set into config overrides
func (o *rootOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	out := make(map[string]interface{})
	flags := cmd.Flags()
	if flags.Changed("workspace") {
		out["workspace.root"] = o.workspace
	}
	if flags.Changed("lang") {
		out["ui.language"] = o.lang
	}
	if flags.Changed("color") {
		out["ui.color"] = o.color
	}
	return out
}

// configOptions locates the config layers for this invocation
func (o *rootOptions) configOptions(cmd *cobra.Command) (config.Options, error) {
	p, err := paths.New(o.workspace)
	if err != nil {
		return config.Options{}, err
	}
	return config.Options{
		Path:        o.configFile,
		DefaultPath: p.ConfigFile(),
		Overrides:   o.overrides(cmd),
	}, nil
}

// app is the wired application for one command invocation
type app struct {
	cfg      *config.Config
	paths    *paths.Paths
	engine   *pipeline.Engine
	renderer style.Renderer
	lang     *i18n.Provider
	out      io.Writer
	errOut   io.Writer
	terminal bool
	logger   zerolog.Logger
}

// newApp loads the configuration and builds the engine
func (o *rootOptions) newApp(cmd *cobra.Command) (*app, error) {
	opts, err := o.configOptions(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(cfg.Workspace.Root)
	if err != nil {
		return nil, err
	}

	divine := archive.NewDivineCodec(cfg.Codec.DivinePath, cfg.Codec.Game)
	var packer archive.Codec
	switch cfg.Codec.Package {
	case config.PackagePak:
		packer = divine
	case config.PackageZip:
		packer = archive.ZipCodec{}
	}

	engine := pipeline.NewEngine(pipeline.Config{
		Paths:    p,
		Registry: archive.DefaultRegistry(divine),
		Assemble: assemble.Options{Codec: packer, PackageExt: cfg.PackageExt()},
	})

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	lang := cfg.UI.Language
	if lang == "" {
		lang = os.Getenv("LANG")
	}

	a := &app{
		cfg:    cfg,
		paths:  p,
		engine: engine,
		lang:   bundle.Provider(lang),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		logger: logging.GetLogger("cli"),
	}
	a.renderer, a.terminal = setupRenderer(cfg.UI.Color, a.out)

	a.logger.Debug().
		Str("workspace", p.Root()).
		Str("locale", a.lang.Locale()).
		Str("package", cfg.Codec.Package).
		Msg("Application configured")
	return a, nil
}

// setupRenderer picks the renderer for out. Writers that are not files
// (tests, pipes wrapped by cobra) get plain text unless color is forced.
func setupRenderer(color string, out io.Writer) (style.Renderer, bool) {
	format, err := style.ParseColorMode(color)
	if err != nil {
		format = style.FormatAuto
	}
	f, ok := out.(*os.File)
	if !ok {
		if format == style.FormatTerminal {
			return style.Setup(format, nil), false
		}
		return style.Setup(style.FormatText, nil), false
	}
	return style.Setup(format, f), style.IsTerminal(f)
}
