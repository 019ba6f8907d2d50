package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultDivinePath is looked up on PATH when no explicit path is configured
const DefaultDivinePath = "divine"

// DefaultGame is the divine game id for Baldur's Gate 3
const DefaultGame = "bg3"

// DivineCodec handles .pak packages by running LSLib's divine tool
type DivineCodec struct {
	// Path is the divine executable
	Path string
	// Game is passed as -g
	Game string

	logger zerolog.Logger
}

// NewDivineCodec returns a codec that runs the divine executable at path
func NewDivineCodec(path, game string) *DivineCodec {
	if path == "" {
		path = DefaultDivinePath
	}
	if game == "" {
		game = DefaultGame
	}
	return &DivineCodec{
		Path:   path,
		Game:   game,
		logger: logging.GetLogger("archive.divine"),
	}
}

// Extract runs divine extract-package
func (d *DivineCodec) Extract(ctx context.Context, archivePath, destDir string) error {
	return d.run(ctx, "extract-package", archivePath, destDir)
}

// Assemble runs divine create-package
func (d *DivineCodec) Assemble(ctx context.Context, srcDir, archivePath string) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(archivePath), err)
	}
	return d.run(ctx, "create-package", srcDir, archivePath)
}

// Args returns the divine command line for action
func (d *DivineCodec) Args(action, source, destination string) []string {
	return []string{"-g", d.Game, "-a", action, "-s", source, "-d", destination}
}

func (d *DivineCodec) run(ctx context.Context, action, source, destination string) error {
	args := d.Args(action, source, destination)
	logging.LogCommand(d.Path, args)

	cmd := exec.CommandContext(ctx, d.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stdout.Len() > 0 {
		d.logger.Debug().Str("action", action).Str("output", stdout.String()).Msg("divine stdout")
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return fmt.Errorf("divine %s: %w: %s", action, err, msg)
		}
		return fmt.Errorf("divine %s: %w", action, err)
	}
	return nil
}
