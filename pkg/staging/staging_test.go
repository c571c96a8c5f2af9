package staging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaLifecycle(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, "split")
	require.NoError(t, err)
	assert.Equal(t, root, filepath.Dir(a.Dir()))
	assert.True(t, strings.HasPrefix(filepath.Base(a.Dir()), "split-"))

	require.NoError(t, a.Write("2.csv", []byte("b")))
	f, err := a.Create("1.csv")
	require.NoError(t, err)
	_, err = io.WriteString(f, "a")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b, err := a.Bundle()
	require.NoError(t, err)
	assert.Equal(t, []string{"1.csv", "2.csv"}, b.Names())

	require.NoError(t, a.Remove())
	_, err = os.Stat(a.Dir())
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, a.Remove())
}

func TestAreasAreUnique(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, "")
	require.NoError(t, err)
	b, err := New(root, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Dir(), b.Dir())
	assert.True(t, strings.HasPrefix(filepath.Base(a.Dir()), "tabsplit-"))
}
