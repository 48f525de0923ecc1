package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<Defs/>"), 0o644))
}

func TestWalker_Walk(t *testing.T) {
	t.Run("yields xml files in lexicographic order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Defs", "b.xml"))
		writeFile(t, filepath.Join(dir, "Defs", "a.xml"))
		writeFile(t, filepath.Join(dir, "Patches", "p.xml"))

		var report domain.Report
		refs := New().Walk(context.Background(),
			[]domain.SourceRoot{{Label: "Core", Path: dir}}, &report)

		require.Len(t, refs, 3)
		assert.Equal(t, "Defs/a.xml", refs[0].RelPath)
		assert.Equal(t, "Defs/b.xml", refs[1].RelPath)
		assert.Equal(t, "Patches/p.xml", refs[2].RelPath)
		assert.Equal(t, "Core", refs[0].Source)
		assert.False(t, report.HasProblems())
	})

	t.Run("preserves root order across sources", func(t *testing.T) {
		core := t.TempDir()
		dlc := t.TempDir()
		writeFile(t, filepath.Join(core, "z.xml"))
		writeFile(t, filepath.Join(dlc, "a.xml"))

		refs := New().Walk(context.Background(), []domain.SourceRoot{
			{Label: "Core", Path: core},
			{Label: "Royalty", Path: dlc},
		}, nil)

		require.Len(t, refs, 2)
		assert.Equal(t, "Core", refs[0].Source)
		assert.Equal(t, "Royalty", refs[1].Source)
	})

	t.Run("ignores non-xml and hidden files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "keep.xml"))
		writeFile(t, filepath.Join(dir, "keep.XML"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.xml"), []byte("x"), 0o644))

		refs := New().Walk(context.Background(),
			[]domain.SourceRoot{{Label: "Core", Path: dir}}, nil)

		assert.Len(t, refs, 2)
	})

	t.Run("unreadable root is reported and skipped", func(t *testing.T) {
		good := t.TempDir()
		writeFile(t, filepath.Join(good, "a.xml"))

		var report domain.Report
		refs := New().Walk(context.Background(), []domain.SourceRoot{
			{Label: "Missing", Path: filepath.Join(good, "no-such-dir")},
			{Label: "Core", Path: good},
		}, &report)

		require.Len(t, refs, 1)
		assert.Equal(t, "Core", refs[0].Source)
		require.Len(t, report.RootErrors, 1)
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.xml"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		refs := New().Walk(ctx, []domain.SourceRoot{{Label: "Core", Path: dir}}, nil)
		assert.Empty(t, refs)
	})
}

func TestDiscoverRoots(t *testing.T) {
	t.Run("orders Core first then lexicographic", func(t *testing.T) {
		dataRoot := t.TempDir()
		for _, name := range []string{"Royalty", "Biotech", "Core", "Anomaly"} {
			require.NoError(t, os.Mkdir(filepath.Join(dataRoot, name), 0o755))
		}
		require.NoError(t, os.WriteFile(filepath.Join(dataRoot, "stray.xml"), []byte("x"), 0o644))

		roots, err := DiscoverRoots(dataRoot, nil)
		require.NoError(t, err)

		labels := make([]string, 0, len(roots))
		for _, r := range roots {
			labels = append(labels, r.Label)
		}
		assert.Equal(t, []string{"Core", "Anomaly", "Biotech", "Royalty"}, labels)
	})

	t.Run("honours exclusions", func(t *testing.T) {
		dataRoot := t.TempDir()
		for _, name := range []string{"Core", "Royalty"} {
			require.NoError(t, os.Mkdir(filepath.Join(dataRoot, name), 0o755))
		}

		roots, err := DiscoverRoots(dataRoot, []string{"Royalty"})
		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.Equal(t, "Core", roots[0].Label)
	})

	t.Run("missing data root returns error", func(t *testing.T) {
		_, err := DiscoverRoots(filepath.Join(t.TempDir(), "nope"), nil)
		assert.Error(t, err)
	})
}
