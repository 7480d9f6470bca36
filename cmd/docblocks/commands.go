package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/docblocks"
	"github.com/fwojciec/docblocks/fs"
	"github.com/fwojciec/docblocks/gallery"
	"github.com/fwojciec/docblocks/lipgloss"
	"github.com/fwojciec/docblocks/viper"
	"github.com/fwojciec/docblocks/zerolog"
	zerologlib "github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newSplitCmd(app *App, opts *globalOptions) *cobra.Command {
	var clean bool
	var since string

	cmd := &cobra.Command{
		Use:   "split [paths...]",
		Short: "Split files and write one JSON document per line",
		Long: `Split every example file under the given paths (default: the current
directory) and write the documents to stdout as JSON lines.

Directories are searched with the include and exclude globs from the
configuration. Use --since to limit the run to files changed since a git
revision, and --clean to strip ignore regions and directive comments from
code blocks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup(app, opts)
			if err != nil {
				return err
			}

			paths, err := app.collect(ctx, cfg, args, since)
			if err != nil {
				return err
			}
			logger.Debug().Int("files", len(paths)).Msg("collected files")

			proc := app.processor(cfg,
				gallery.WithReporter(zerolog.NewReporter(logger)),
				gallery.WithClean(clean),
			)
			results, err := proc.Process(ctx, paths)
			if err != nil {
				return err
			}

			var docs []*docblocks.Document
			var failed int
			for _, r := range results {
				if r.Err != nil {
					failed++
					logger.Error().Err(r.Err).Str("path", r.Path).Msg("split failed")
					continue
				}
				docs = append(docs, r.Document)
			}

			if err := app.Store.Save(cmd.OutOrStdout(), docs); err != nil {
				return fmt.Errorf("failed to write documents: %w", err)
			}
			logger.Info().Int("files", len(docs)).Int("failed", failed).Msg("split complete")

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to split", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Remove ignore regions and directive comments from code blocks")
	cmd.Flags().StringVar(&since, "since", "", "Only process files changed since this git revision")
	return cmd
}

func newCheckCmd(app *App, opts *globalOptions) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report invalid directives and unbalanced ignore flags",
		Long: `Split every example file under the given paths and report problems:
directive values that do not parse, text dropped after "%%" markers and
ignore flags without a partner. Exits non-zero when any problem is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup(app, opts)
			if err != nil {
				return err
			}

			paths, err := app.collect(ctx, cfg, args, since)
			if err != nil {
				return err
			}

			results, err := app.processor(cfg, gallery.WithClean(true)).Process(ctx, paths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var problems, files int
			for _, r := range results {
				n := 0
				if r.Document != nil {
					for _, d := range r.Document.Diagnostics {
						fmt.Fprintf(out, "%s: %s\n", r.Path, d)
						n++
					}
				}
				if r.Err != nil {
					fmt.Fprintf(out, "%s: %v\n", r.Path, r.Err)
					n++
				}
				if n > 0 {
					problems += n
					files++
				}
			}
			logger.Info().Int("files", len(results)).Int("problems", problems).Msg("check complete")

			if problems > 0 {
				return fmt.Errorf("%w: %d problems in %d files", ErrCheckFailed, problems, files)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only check files changed since this git revision")
	return cmd
}

func newViewCmd(app *App, opts *globalOptions) *cobra.Command {
	var light, clean bool
	var docPath string

	cmd := &cobra.Command{
		Use:   "view <file|dump.jsonl>",
		Short: "Browse the blocks of a file interactively",
		Long: `Split a source file and browse its blocks. A .jsonl argument is read
as output of "docblocks split"; --path selects a document from it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(app, opts)
			if err != nil {
				return err
			}

			var doc *docblocks.Document
			if filepath.Ext(args[0]) == ".jsonl" {
				doc, err = app.loadDocument(args[0], docPath)
			} else {
				doc, err = app.splitDocument(args[0], cfg, clean)
			}
			if err != nil {
				return err
			}

			var theme docblocks.Theme = lipgloss.DefaultTheme()
			if light {
				theme = lipgloss.LightTheme()
			}
			return app.NewViewer(theme, app.Registry.Get(doc.Language)).View(cmd.Context(), doc)
		},
	}

	cmd.Flags().BoolVar(&light, "light", false, "Use colors for light terminal backgrounds")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove ignore regions and directive comments from code blocks")
	cmd.Flags().StringVar(&docPath, "path", "", "Document to show from a .jsonl dump (default: the first)")
	return cmd
}

func newInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.DefaultFile
			if len(args) > 0 {
				path = args[0]
			}
			if err := viper.Write(path, docblocks.DefaultConfig(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// setup loads the configuration and builds the logger, applying flag
// overrides on top of the file and environment.
func setup(app *App, opts *globalOptions) (docblocks.Config, zerologlib.Logger, error) {
	cfg, err := viper.Load(opts.configPath)
	if err != nil {
		return docblocks.Config{}, zerologlib.Logger{}, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	logger, err := zerolog.New(cfg.Log, app.Stderr)
	if err != nil {
		return docblocks.Config{}, zerologlib.Logger{}, err
	}
	return cfg, logger, nil
}

// collect expands args into the sorted list of files to process. Directories
// are searched with the configured globs; files are taken as given. With a
// non-empty since, only files changed since that revision are kept.
func (a *App) collect(ctx context.Context, cfg docblocks.Config, args []string, since string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	finder, err := fs.NewFinder(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, filepath.Clean(arg))
			continue
		}
		found, err := finder.Find(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	if since == "" {
		return paths, nil
	}

	diff, err := a.Git.Diff(ctx, ".", since)
	if err != nil {
		return nil, err
	}
	changed, err := a.Diffs.ChangedPaths(strings.NewReader(diff))
	if err != nil {
		return nil, err
	}
	// Changed paths are relative to the working directory.
	keep := make(map[string]bool, len(changed))
	for _, p := range changed {
		if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
			keep[abs] = true
		}
	}
	return slices.DeleteFunc(paths, func(p string) bool {
		abs, err := filepath.Abs(p)
		return err != nil || !keep[abs]
	}), nil
}

// loadDocument reads a JSONL dump and returns the document at path, or the
// first one when path is empty.
func (a *App) loadDocument(dump, path string) (*docblocks.Document, error) {
	f, err := os.Open(dump)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	docs, err := a.Store.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dump, err)
	}
	for _, doc := range docs {
		if path == "" || doc.Path == path {
			return doc, nil
		}
	}
	if path != "" {
		return nil, fmt.Errorf("%w: %s not in %s", ErrNoDocuments, path, dump)
	}
	return nil, fmt.Errorf("%w: %s is empty", ErrNoDocuments, dump)
}

// splitDocument splits a single source file.
func (a *App) splitDocument(path string, cfg docblocks.Config, clean bool) (*docblocks.Document, error) {
	parser, err := docblocks.NewParser(path, cfg, a.Registry)
	if err != nil {
		return nil, err
	}
	doc, err := parser.SplitFile(path)
	if err != nil {
		return nil, err
	}
	if clean {
		if err := parser.Clean(doc); err != nil {
			return nil, fmt.Errorf("clean %s: %w", path, err)
		}
	}
	return doc, nil
}
