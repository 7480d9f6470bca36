package gitdiff_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docblocks/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ChangedPaths_EmptyInput(t *testing.T) {
	t.Parallel()

	p := gitdiff.NewParser()

	paths, err := p.ChangedPaths(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestParser_ChangedPaths_ModifiedAndAdded(t *testing.T) {
	t.Parallel()

	input := `diff --git a/sub/plot_b.py b/sub/plot_b.py
index 1234567..abcdefg 100644
--- a/sub/plot_b.py
+++ b/sub/plot_b.py
@@ -1 +1 @@
-old
+new
diff --git a/plot_a.py b/plot_a.py
new file mode 100644
index 0000000..1234567
--- /dev/null
+++ b/plot_a.py
@@ -0,0 +1 @@
+content
`

	p := gitdiff.NewParser()

	paths, err := p.ChangedPaths(strings.NewReader(input))

	require.NoError(t, err)
	// go-gitdiff strips a/ and b/ prefixes
	assert.Equal(t, []string{"plot_a.py", "sub/plot_b.py"}, paths)
}

func TestParser_ChangedPaths_SkipsDeletedFiles(t *testing.T) {
	t.Parallel()

	input := `diff --git a/old.py b/old.py
deleted file mode 100644
index 1234567..0000000
--- a/old.py
+++ /dev/null
@@ -1,2 +0,0 @@
-x = 1
-
`

	p := gitdiff.NewParser()

	paths, err := p.ChangedPaths(strings.NewReader(input))

	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestParser_ChangedPaths_RenamedFile(t *testing.T) {
	t.Parallel()

	input := `diff --git a/old.py b/new.py
similarity index 100%
rename from old.py
rename to new.py
`

	p := gitdiff.NewParser()

	paths, err := p.ChangedPaths(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"new.py"}, paths)
}

func TestParser_ChangedPaths_SkipsBinaryFiles(t *testing.T) {
	t.Parallel()

	input := `diff --git a/image.png b/image.png
new file mode 100644
index 0000000..1234567
Binary files /dev/null and b/image.png differ
`

	p := gitdiff.NewParser()

	paths, err := p.ChangedPaths(strings.NewReader(input))

	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestParser_ChangedPaths_MalformedInput(t *testing.T) {
	t.Parallel()

	// go-gitdiff returns error for malformed git headers
	input := `diff --git a/file.go
@@ -1,1 +1,1 @@ incomplete header
`

	p := gitdiff.NewParser()

	paths, err := p.ChangedPaths(strings.NewReader(input))

	require.Error(t, err)
	assert.Nil(t, paths)
}
