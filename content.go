package showreel

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/viper"
)

// Block is one narrative content block. Markup is a small HTML fragment; FadeIn
// and FadeOut name entries in DefaultTreatments.
type Block struct {
	Markup  string `mapstructure:"markup"`
	FadeIn  string `mapstructure:"fade_in"`
	FadeOut string `mapstructure:"fade_out"`
}

// ContentProvider supplies the ordered content blocks for a scene. A scene
// with no content reports false.
type ContentProvider interface {
	Blocks(name string) ([]Block, bool)
}

// StaticContent is an in-memory ContentProvider keyed by scene name.
type StaticContent map[string][]Block

// Blocks returns a copy of the blocks registered for name.
func (c StaticContent) Blocks(name string) ([]Block, bool) {
	b, ok := c[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(b), true
}

// Names returns the scene names with content, sorted.
func (c StaticContent) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

type contentFile struct {
	Scenes []struct {
		Name   string  `mapstructure:"name"`
		Blocks []Block `mapstructure:"blocks"`
	} `mapstructure:"scenes"`
}

// LoadContentFile reads a content file in any format viper understands,
// selected by extension:
//
//	scenes:
//	  - name: home
//	    blocks:
//	      - markup: "<h2>Hello</h2><p>World</p>"
//	        fade_in: fade-up
//	        fade_out: fade-quick
//
// A scene listed twice keeps the later entry.
func LoadContentFile(path string) (StaticContent, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}

	var f contentFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode content %s: %w", path, err)
	}

	out := make(StaticContent, len(f.Scenes))
	for i, s := range f.Scenes {
		if s.Name == "" {
			return nil, fmt.Errorf("content %s: scene %d has no name", path, i)
		}
		out[s.Name] = s.Blocks
	}
	return out, nil
}
