package showreel

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds stage configuration.
type Config struct {
	Window     WindowConfig     `mapstructure:"window"`
	Transition TransitionConfig `mapstructure:"transition"`
	Scroll     ScrollConfig     `mapstructure:"scroll"`
	Content    ContentConfig    `mapstructure:"content"`

	// Debug enables the HUD and debug-level logging.
	Debug bool `mapstructure:"debug"`
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// ContentConfig points at the narrative content file.
type ContentConfig struct {
	Path string `mapstructure:"path"`
}

// ConfigEnvPrefix prefixes environment overrides, e.g. SHOWREEL_WINDOW_WIDTH.
const ConfigEnvPrefix = "SHOWREEL"

const (
	defaultWindowTitle   = "showreel"
	defaultWindowWidth   = 1280
	defaultWindowHeight  = 720
	defaultScreenshotDir = "screenshots"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("window.title", defaultWindowTitle)
	v.SetDefault("window.width", defaultWindowWidth)
	v.SetDefault("window.height", defaultWindowHeight)
	v.SetDefault("transition.duration", 600*time.Millisecond)
	v.SetDefault("transition.margin", defaultFadeMargin)
	v.SetDefault("scroll.duration", defaultScrollDuration)
	v.SetDefault("scroll.touch_threshold", defaultTouchThreshold)
	v.SetDefault("scroll.initial_delay", defaultInitialDelay)
	v.SetDefault("content.path", "")
	v.SetDefault("debug", false)
	v.SetDefault("screenshot_dir", defaultScreenshotDir)
}

// withDefaults fills the window and screenshot settings a hand-built Config
// leaves empty. Transition and scroll zero values are meaningful and kept.
func (c Config) withDefaults() Config {
	if c.Window.Title == "" {
		c.Window.Title = defaultWindowTitle
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = defaultWindowWidth, defaultWindowHeight
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	return c
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	v := viper.New()
	setConfigDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return c
}

// LoadConfig reads configuration from path, or from the file named by
// SHOWREEL_CONFIG when path is empty, then applies SHOWREEL_ environment
// overrides. A missing file is not an error when neither is set; the format
// follows the file extension.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	if path == "" {
		path = os.Getenv(ConfigEnvPrefix + "_CONFIG")
	}

	v.SetEnvPrefix(ConfigEnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
