package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docblocks"
	"github.com/fwojciec/docblocks/chroma"
	main "github.com/fwojciec/docblocks/cmd/docblocks"
	"github.com/fwojciec/docblocks/gallery"
	"github.com/fwojciec/docblocks/jsonl"
	"github.com/fwojciec/docblocks/lipgloss"
	"github.com/fwojciec/docblocks/mock"
	"github.com/fwojciec/docblocks/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleA = "# Title A\n" +
	"# =======\n" +
	"\n" +
	"x = 1\n" +
	"# sphinx_gallery_line_numbers = True\n"

const exampleB = "# Title B\n" +
	"\n" +
	"y = 2\n" +
	"\n" +
	"# %% Section\n" +
	"\n" +
	"z = 3\n"

// writeFiles creates files under a temporary directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newApp() *main.App {
	return &main.App{
		Stderr:   io.Discard,
		Registry: chroma.NewRegistry(),
		Store:    jsonl.NewStore(),
	}
}

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(app *main.App, args ...string) (string, error) {
	var out bytes.Buffer
	app.Stdout = &out
	cmd := main.NewRootCommand(app)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// captureStore records the documents passed to Save.
func captureStore(docs *[]*docblocks.Document) *mock.DocumentStore {
	return &mock.DocumentStore{
		SaveFn: func(w io.Writer, saved []*docblocks.Document) error {
			*docs = saved
			return nil
		},
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("splits matching files under a directory", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"plot_a.py":     exampleA,
			"sub/plot_b.py": exampleB,
			"helper.py":     "import os\n",
		})
		var docs []*docblocks.Document
		app := newApp()
		app.Store = captureStore(&docs)

		_, err := execute(app, "split", dir)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, filepath.Join(dir, "plot_a.py"), docs[0].Path)
		assert.Equal(t, filepath.Join(dir, "sub", "plot_b.py"), docs[1].Path)
		assert.Equal(t, docblocks.FileConfig{"line_numbers": true}, docs[0].Config)
		assert.Equal(t, "x = 1\n# sphinx_gallery_line_numbers = True", docs[0].Blocks[1].Content)
		assert.Len(t, docs[1].Blocks, 4)
	})

	t.Run("writes JSON lines", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_a.py": exampleA})

		out, err := execute(newApp(), "split", filepath.Join(dir, "plot_a.py"))

		require.NoError(t, err)
		docs, err := jsonl.NewStore().Load(bytes.NewBufferString(out))
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Python", docs[0].Language)
		assert.Equal(t, "Title A\n=======\n", docs[0].Blocks[0].Content)
	})

	t.Run("clean removes directive comments", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_a.py": exampleA})
		var docs []*docblocks.Document
		app := newApp()
		app.Store = captureStore(&docs)

		_, err := execute(app, "split", "--clean", dir)

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "x = 1\n", docs[0].Blocks[1].Content)
	})

	t.Run("since keeps only changed files", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"plot_a.py": exampleA,
			"plot_b.py": exampleB,
		})
		var docs []*docblocks.Document
		var gotRev string
		app := newApp()
		app.Store = captureStore(&docs)
		app.Git = &mock.GitRunner{
			DiffFn: func(ctx context.Context, repoPath, rev string) (string, error) {
				gotRev = rev
				return "diff --git a/plot_b.py b/plot_b.py\n", nil
			},
		}
		app.Diffs = &mock.DiffParser{
			ChangedPathsFn: func(r io.Reader) ([]string, error) {
				return []string{filepath.ToSlash(filepath.Join(dir, "plot_b.py"))}, nil
			},
		}

		_, err := execute(app, "split", "--since", "main", dir)

		require.NoError(t, err)
		assert.Equal(t, "main", gotRev)
		require.Len(t, docs, 1)
		assert.Equal(t, filepath.Join(dir, "plot_b.py"), docs[0].Path)
	})

	t.Run("git failure aborts", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_a.py": exampleA})
		app := newApp()
		app.Git = &mock.GitRunner{
			DiffFn: func(ctx context.Context, repoPath, rev string) (string, error) {
				return "", errors.New("unknown revision")
			},
		}

		_, err := execute(app, "split", "--since", "nope", dir)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown revision")
	})

	t.Run("reports files that cannot be split", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"plot_a.py":     exampleA,
			"notes.unknown": "hello\n",
		})
		var docs []*docblocks.Document
		app := newApp()
		app.Store = captureStore(&docs)

		_, err := execute(app, "split", filepath.Join(dir, "plot_a.py"), filepath.Join(dir, "notes.unknown"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 files failed")
		assert.Len(t, docs, 1)
	})

	t.Run("batch failure aborts before writing", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_a.py": exampleA})
		var gotPaths []string
		app := newApp()
		app.Store = &mock.DocumentStore{
			SaveFn: func(w io.Writer, docs []*docblocks.Document) error {
				t.Fatal("Save should not be called")
				return nil
			},
		}
		app.NewProcessor = func(cfg docblocks.Config, opts ...gallery.Option) docblocks.Processor {
			return &mock.Processor{
				ProcessFn: func(ctx context.Context, paths []string) ([]docblocks.FileResult, error) {
					gotPaths = paths
					return nil, context.Canceled
				},
			}
		}

		_, err := execute(app, "split", dir)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{filepath.Join(dir, "plot_a.py")}, gotPaths)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := execute(newApp(), "split", filepath.Join(t.TempDir(), "missing"))

		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"docblocks.yaml": "marker_text: sometimes\n"})

		_, err := execute(newApp(), "--config", filepath.Join(dir, "docblocks.yaml"), "split", dir)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "marker_text")
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()

		_, err := execute(newApp(), "--log-level", "loud", "split", t.TempDir())

		require.Error(t, err)
	})
}

func TestCheck(t *testing.T) {
	t.Parallel()

	t.Run("clean files pass", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_a.py": exampleA, "plot_b.py": exampleB})

		out, err := execute(newApp(), "check", dir)

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("reports invalid directives", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"plot_bad.py": "# Title\n\nx = 1\n# sphinx_gallery_thumbnail_number = oops\n",
		})

		out, err := execute(newApp(), "check", dir)

		require.ErrorIs(t, err, main.ErrCheckFailed)
		assert.Contains(t, out, "plot_bad.py: line 4: option thumbnail_number was passed invalid value \"oops\"")
	})

	t.Run("reports unbalanced ignore flags", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"plot_ignore.py": "# Title\n\nx = 1\n# sphinx_gallery_start_ignore\ny = 2\n",
		})

		out, err := execute(newApp(), "check", dir)

		require.ErrorIs(t, err, main.ErrCheckFailed)
		assert.Contains(t, out, "plot_ignore.py: code block at line 3")
		assert.Contains(t, out, "(found 1 start, 0 end)")
		assert.Contains(t, err.Error(), "1 problems in 1 files")
	})
}

func TestView(t *testing.T) {
	t.Parallel()

	// recordingViewer captures what the view command hands to the viewer.
	type viewed struct {
		doc   *docblocks.Document
		theme docblocks.Theme
		lexer docblocks.Lexer
	}
	recordingApp := func(got *viewed) *main.App {
		app := newApp()
		app.NewViewer = func(theme docblocks.Theme, lexer docblocks.Lexer) docblocks.Viewer {
			got.theme, got.lexer = theme, lexer
			return &mock.Viewer{ViewFn: func(ctx context.Context, doc *docblocks.Document) error {
				got.doc = doc
				return nil
			}}
		}
		return app
	}

	t.Run("splits a source file", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_b.py": exampleB})
		var got viewed

		_, err := execute(recordingApp(&got), "view", "--light", filepath.Join(dir, "plot_b.py"))

		require.NoError(t, err)
		require.NotNil(t, got.doc)
		assert.Len(t, got.doc.Blocks, 4)
		require.NotNil(t, got.lexer)
		assert.Equal(t, "Python", got.lexer.Name())
		assert.Equal(t, lipgloss.LightTheme().Styles(), got.theme.Styles())
	})

	t.Run("clean strips directives before viewing", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"plot_a.py": exampleA})
		var got viewed

		_, err := execute(recordingApp(&got), "view", "--clean", filepath.Join(dir, "plot_a.py"))

		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", got.doc.Blocks[1].Content)
	})

	t.Run("selects a document from a dump", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dump := filepath.Join(dir, "docs.jsonl")
		f, err := os.Create(dump)
		require.NoError(t, err)
		require.NoError(t, jsonl.NewStore().Save(f, []*docblocks.Document{
			{Path: "one.py", Language: "Python", Config: docblocks.FileConfig{}},
			{Path: "two.c", Language: "C", Config: docblocks.FileConfig{}},
		}))
		require.NoError(t, f.Close())
		var got viewed

		_, err = execute(recordingApp(&got), "view", "--path", "two.c", dump)

		require.NoError(t, err)
		assert.Equal(t, "two.c", got.doc.Path)
		require.NotNil(t, got.lexer)
		assert.Equal(t, "C", got.lexer.Name())
	})

	t.Run("unknown document in dump", func(t *testing.T) {
		t.Parallel()

		dump := filepath.Join(t.TempDir(), "empty.jsonl")
		require.NoError(t, os.WriteFile(dump, nil, 0o644))
		var got viewed

		_, err := execute(recordingApp(&got), "view", dump)

		require.ErrorIs(t, err, main.ErrNoDocuments)
		assert.Nil(t, got.doc)
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()

		var got viewed

		_, err := execute(recordingApp(&got), "view")

		require.Error(t, err)
	})
}

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("writes the default config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "docblocks.yaml")

		out, err := execute(newApp(), "init", path)

		require.NoError(t, err)
		assert.Equal(t, "wrote "+path+"\n", out)
		cfg, err := viper.Load(path)
		require.NoError(t, err)
		assert.Equal(t, docblocks.DefaultConfig().Include, cfg.Include)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "docblocks.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

		_, err := execute(newApp(), "init", path)
		require.ErrorIs(t, err, viper.ErrConfigExists)

		_, err = execute(newApp(), "init", "--force", path)
		require.NoError(t, err)
	})
}
