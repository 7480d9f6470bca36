// Command docblocks splits gallery example sources into text and code blocks.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/docblocks"
	"github.com/fwojciec/docblocks/bubbletea"
	"github.com/fwojciec/docblocks/chroma"
	"github.com/fwojciec/docblocks/clipboard"
	"github.com/fwojciec/docblocks/gallery"
	"github.com/fwojciec/docblocks/git"
	"github.com/fwojciec/docblocks/gitdiff"
	"github.com/fwojciec/docblocks/jsonl"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned by check when any file has problems.
var ErrCheckFailed = errors.New("check failed")

// ErrNoDocuments is returned by view when a dump holds no matching document.
var ErrNoDocuments = errors.New("no documents to view")

// App encapsulates the application dependencies for testing.
type App struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Registry docblocks.LexerRegistry
	Store    docblocks.DocumentStore
	Git      docblocks.GitRunner
	Diffs    docblocks.DiffParser

	// NewProcessor builds the batch splitter. Nil means gallery.NewProcessor
	// over Registry.
	NewProcessor func(cfg docblocks.Config, opts ...gallery.Option) docblocks.Processor

	// NewViewer builds the viewer for one document. lexer may be nil.
	NewViewer func(theme docblocks.Theme, lexer docblocks.Lexer) docblocks.Viewer
}

// globalOptions holds the persistent flags shared by all commands.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(app *App) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "docblocks",
		Short: "Split gallery example sources into text and code blocks",
		Long: `docblocks splits annotated example scripts into alternating text and
code blocks, using the comment syntax of each file's language. Comments
introduce text; "%%" markers start new sections; sphinx_gallery_* comments
carry per-file configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: ./docblocks.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: console, json")

	cmd.AddCommand(
		newSplitCmd(app, opts),
		newCheckCmd(app, opts),
		newViewCmd(app, opts),
		newInitCmd(app),
	)
	return cmd
}

func (a *App) processor(cfg docblocks.Config, opts ...gallery.Option) docblocks.Processor {
	if a.NewProcessor != nil {
		return a.NewProcessor(cfg, opts...)
	}
	return gallery.NewProcessor(cfg, a.Registry, opts...)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &App{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Registry: chroma.NewRegistry(),
		Store:    jsonl.NewStore(),
		Git:      git.NewRunner(),
		Diffs:    gitdiff.NewParser(),
		NewViewer: func(theme docblocks.Theme, lexer docblocks.Lexer) docblocks.Viewer {
			return bubbletea.NewViewer(bubbletea.WithModelOptions(
				bubbletea.WithTheme(theme),
				bubbletea.WithLexer(lexer),
				bubbletea.WithClipboard(clipboard.NewSystem()),
			))
		},
	}

	if err := NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
