package showreel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadContentFile(t *testing.T) {
	path := writeFile(t, "content.yaml", `
scenes:
  - name: home
    blocks:
      - markup: "<h2>Hello</h2>"
        fade_in: fade-up
        fade_out: fade-quick
      - markup: "<p>World</p>"
  - name: gallery
    blocks: []
`)
	c, err := LoadContentFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gallery", "home"}, c.Names())

	blocks, ok := c.Blocks("home")
	require.True(t, ok)
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Markup: "<h2>Hello</h2>", FadeIn: "fade-up", FadeOut: "fade-quick"}, blocks[0])
	assert.Equal(t, "<p>World</p>", blocks[1].Markup)

	blocks, ok = c.Blocks("gallery")
	assert.True(t, ok)
	assert.Empty(t, blocks)

	_, ok = c.Blocks("missing")
	assert.False(t, ok)
}

func TestLoadContentFileJSON(t *testing.T) {
	path := writeFile(t, "content.json", `{"scenes": [{"name": "home", "blocks": [{"markup": "hi"}]}]}`)
	c, err := LoadContentFile(path)
	require.NoError(t, err)
	blocks, _ := c.Blocks("home")
	require.Len(t, blocks, 1)
	assert.Equal(t, "hi", blocks[0].Markup)
}

func TestLoadContentFileDuplicateKeepsLater(t *testing.T) {
	path := writeFile(t, "content.yaml", `
scenes:
  - name: home
    blocks: [{markup: first}]
  - name: home
    blocks: [{markup: second}]
`)
	c, err := LoadContentFile(path)
	require.NoError(t, err)
	blocks, _ := c.Blocks("home")
	require.Len(t, blocks, 1)
	assert.Equal(t, "second", blocks[0].Markup)
}

func TestLoadContentFileErrors(t *testing.T) {
	_, err := LoadContentFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	unnamed := writeFile(t, "content.yaml", `
scenes:
  - blocks: [{markup: orphan}]
`)
	_, err = LoadContentFile(unnamed)
	assert.ErrorContains(t, err, "no name")
}

func TestStaticContentBlocksIsCopy(t *testing.T) {
	c := StaticContent{"home": {{Markup: "a"}}}
	blocks, _ := c.Blocks("home")
	blocks[0].Markup = "changed"

	again, _ := c.Blocks("home")
	assert.Equal(t, "a", again[0].Markup)
}
