// Package config loads the user configuration of the slugline command from
// a YAML file, with environment variables as read-only overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/slugline/classify"
	"github.com/tsawler/slugline/layout"
)

// CurrentVersion is bumped when the file layout changes incompatibly.
const CurrentVersion = 1

type SegmentConfig struct {
	YGap      float64 `yaml:"y_gap"`
	IndentGap float64 `yaml:"indent_gap"`
}

type LinesConfig struct {
	EdgeMargin          float64 `yaml:"edge_margin"`
	AngleTolerance      float64 `yaml:"angle_tolerance"`
	MaxRunGap           float64 `yaml:"max_run_gap"`
	LineHeightTolerance float64 `yaml:"line_height_tolerance"`
}

type ClassifierConfig struct {
	Action          float64 `yaml:"action"`
	SceneNumbered   float64 `yaml:"scene_numbered"`
	SceneUnnumbered float64 `yaml:"scene_unnumbered"`
	Character       float64 `yaml:"character"`
	Parenthetical   float64 `yaml:"parenthetical"`
	Dialogue        float64 `yaml:"dialogue"`
	Tolerance       float64 `yaml:"tolerance"`
	TransitionX     float64 `yaml:"transition_x"`
	CenterX         float64 `yaml:"center_x"`
	CenterTolerance float64 `yaml:"center_tolerance"`

	// LabelsDir holds an optional labels.json
	LabelsDir string `yaml:"labels_dir"`
}

type OCRConfig struct {
	Language string `yaml:"language"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"` // "sqlite" | "postgres"
	SQLitePath string `yaml:"sqlite_path"`

	// PostgresDSN may omit the password; it is then looked up in the OS
	// keychain under the DSN's user.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Config is the user-editable configuration.
type Config struct {
	ConfigVersion int              `yaml:"config_version"`
	Workers       int              `yaml:"workers"`
	Segment       SegmentConfig    `yaml:"segment"`
	Lines         LinesConfig      `yaml:"lines"`
	Classifier    ClassifierConfig `yaml:"classifier"`
	OCR           OCRConfig        `yaml:"ocr"`
	Logging       LoggingConfig    `yaml:"logging"`
	Store         StoreConfig      `yaml:"store"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	lines := layout.DefaultLineConfig()
	seg := layout.DefaultSegmentConfig()
	b := classify.DefaultBands()

	return Config{
		ConfigVersion: CurrentVersion,
		Workers:       1,
		Segment:       SegmentConfig{YGap: seg.YGapThreshold, IndentGap: seg.IndentThreshold},
		Lines: LinesConfig{
			EdgeMargin:          lines.EdgeMargin,
			AngleTolerance:      lines.AngleTolerance,
			MaxRunGap:           lines.MaxRunGap,
			LineHeightTolerance: lines.LineHeightTolerance,
		},
		Classifier: ClassifierConfig{
			Action:          b.Action,
			SceneNumbered:   b.SceneNumbered,
			SceneUnnumbered: b.SceneUnnumbered,
			Character:       b.Character,
			Parenthetical:   b.Parenthetical,
			Dialogue:        b.Dialogue,
			Tolerance:       b.Tolerance,
			TransitionX:     b.TransitionX,
			CenterX:         b.CenterX,
			CenterTolerance: b.CenterTolerance,
		},
		OCR:     OCRConfig{Language: "eng"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Store:   StoreConfig{Driver: "sqlite", SQLitePath: "slugline.db"},
	}
}

// Env var names used as overrides.
const (
	EnvWorkers     = "SLUGLINE_WORKERS"
	EnvYGap        = "SLUGLINE_Y_GAP"
	EnvIndentGap   = "SLUGLINE_INDENT_GAP"
	EnvLabelsDir   = "SLUGLINE_LABELS_DIR"
	EnvOCRLanguage = "SLUGLINE_OCR_LANG"
	EnvLogLevel    = "SLUGLINE_LOG_LEVEL"
	EnvLogFormat   = "SLUGLINE_LOG_FORMAT"
	EnvLogFile     = "SLUGLINE_LOG_FILE"
	EnvStoreDriver = "SLUGLINE_STORE_DRIVER"
	EnvSQLitePath  = "SLUGLINE_SQLITE_PATH"
	EnvPostgresDSN = "SLUGLINE_POSTGRES_DSN"
)

// DefaultPath returns the per-user config file path.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(base, "slugline", "config.yaml"), nil
}

// Load reads the config file at path over the defaults and applies
// environment overrides. An empty path means DefaultPath. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		// Fields absent from the file keep their defaults
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), fmt.Errorf("failed to parse %s: %w", path, err)
		}
		normalize(&cfg)
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvYGap)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Segment.YGap = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvIndentGap)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Segment.IndentGap = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLabelsDir)); v != "" {
		cfg.Classifier.LabelsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOCRLanguage)); v != "" {
		cfg.OCR.Language = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	// store overrides
	if v := strings.TrimSpace(os.Getenv(EnvStoreDriver)); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSQLitePath)); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPostgresDSN)); v != "" {
		cfg.Store.PostgresDSN = v
	}
}

// EnvOverrideFor returns the env var name if the key is overridden by the
// environment.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"workers":               EnvWorkers,
		"segment.y_gap":         EnvYGap,
		"segment.indent_gap":    EnvIndentGap,
		"classifier.labels_dir": EnvLabelsDir,
		"ocr.language":          EnvOCRLanguage,
		"logging.level":         EnvLogLevel,
		"logging.format":        EnvLogFormat,
		"logging.file":          EnvLogFile,
		"store.driver":          EnvStoreDriver,
		"store.sqlite_path":     EnvSQLitePath,
		"store.postgres_dsn":    EnvPostgresDSN,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// Validate reports settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Segment.YGap <= 0 {
		errs = append(errs, fmt.Errorf("segment.y_gap must be positive, got %v", c.Segment.YGap))
	}
	if c.Segment.IndentGap <= 0 {
		errs = append(errs, fmt.Errorf("segment.indent_gap must be positive, got %v", c.Segment.IndentGap))
	}
	if c.Classifier.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("classifier.tolerance must not be negative, got %v", c.Classifier.Tolerance))
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
	}
	return errors.Join(errs...)
}

// LineConfig returns the line extraction settings.
func (c Config) LineConfig() layout.LineConfig {
	return layout.LineConfig{
		EdgeMargin:          c.Lines.EdgeMargin,
		AngleTolerance:      c.Lines.AngleTolerance,
		MaxRunGap:           c.Lines.MaxRunGap,
		LineHeightTolerance: c.Lines.LineHeightTolerance,
	}
}

// SegmentConfig returns the paragraph thresholds.
func (c Config) SegmentConfig() layout.SegmentConfig {
	return layout.SegmentConfig{
		YGapThreshold:   c.Segment.YGap,
		IndentThreshold: c.Segment.IndentGap,
	}
}

// Bands returns the classifier positions.
func (c Config) Bands() classify.Bands {
	k := c.Classifier
	return classify.Bands{
		Action:          k.Action,
		SceneNumbered:   k.SceneNumbered,
		SceneUnnumbered: k.SceneUnnumbered,
		Character:       k.Character,
		Parenthetical:   k.Parenthetical,
		Dialogue:        k.Dialogue,
		Tolerance:       k.Tolerance,
		TransitionX:     k.TransitionX,
		CenterX:         k.CenterX,
		CenterTolerance: k.CenterTolerance,
	}
}

// Labels loads the label index from the configured directory, or returns
// the taxonomy names when none is set.
func (c Config) Labels() (*classify.LabelIndex, error) {
	if c.Classifier.LabelsDir == "" {
		return classify.DefaultLabelIndex(), nil
	}
	return classify.LoadLabels(c.Classifier.LabelsDir)
}
