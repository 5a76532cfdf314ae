package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/tilemap/internal/fsutil"
	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/replay"
)

// DefaultConfigPath is the checked-in example configuration. Every key in
// it holds its default value.
const DefaultConfigPath = "config/tilemap.defaults.yaml"

// maxFileSize caps configuration files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// ErrUnsupportedFormat is returned for configuration files that are neither
// JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ReplayConfig holds the run parameters of a replay. Nil fields fall back
// to their defaults via the Get* methods, so partial files are safe.
// The same keys are accepted in JSON and YAML.
type ReplayConfig struct {
	// Grid geometry
	OriginX        *int     `json:"origin_x,omitempty" yaml:"origin_x,omitempty"`
	OriginY        *int     `json:"origin_y,omitempty" yaml:"origin_y,omitempty"`
	TileSizeCm     *float64 `json:"tile_size_cm,omitempty" yaml:"tile_size_cm,omitempty"`
	FieldOfViewDeg *float64 `json:"field_of_view_deg,omitempty" yaml:"field_of_view_deg,omitempty"`

	// Trusted reading window, exclusive at both ends
	MinRangeM *float64 `json:"min_range_m,omitempty" yaml:"min_range_m,omitempty"`
	MaxRangeM *float64 `json:"max_range_m,omitempty" yaml:"max_range_m,omitempty"`

	// Display
	MapWidthTiles  *int     `json:"map_width_tiles,omitempty" yaml:"map_width_tiles,omitempty"`
	MapHeightTiles *int     `json:"map_height_tiles,omitempty" yaml:"map_height_tiles,omitempty"`
	FPS            *float64 `json:"fps,omitempty" yaml:"fps,omitempty"`

	// Runtime
	Workers *int    `json:"workers,omitempty" yaml:"workers,omitempty"`
	Listen  *string `json:"listen,omitempty" yaml:"listen,omitempty"`
	LogPath *string `json:"log_path,omitempty" yaml:"log_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyReplayConfig returns a ReplayConfig with every field nil.
func EmptyReplayConfig() *ReplayConfig {
	return &ReplayConfig{}
}

// DefaultReplayConfig returns a ReplayConfig with every field set to its
// default.
func DefaultReplayConfig() *ReplayConfig {
	return &ReplayConfig{
		OriginX:        ptrInt(grid.DefaultOriginX),
		OriginY:        ptrInt(grid.DefaultOriginY),
		TileSizeCm:     ptrFloat64(grid.DefaultTileSizeCm),
		FieldOfViewDeg: ptrFloat64(grid.DefaultFieldOfViewDeg),
		MinRangeM:      ptrFloat64(grid.DefaultMinRangeM),
		MaxRangeM:      ptrFloat64(grid.DefaultMaxRangeM),
		MapWidthTiles:  ptrInt(150),
		MapHeightTiles: ptrInt(100),
		FPS:            ptrFloat64(10),
		Workers:        ptrInt(1),
		Listen:         ptrString(":8082"),
		LogPath:        ptrString(""),
	}
}

// LoadReplayConfig loads a ReplayConfig from a .json, .yaml or .yml file.
func LoadReplayConfig(path string) (*ReplayConfig, error) {
	return LoadReplayConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadReplayConfigFS is LoadReplayConfig over an arbitrary file system.
func LoadReplayConfigFS(fsys fsutil.FileSystem, path string) (*ReplayConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: config file must be .json, .yaml or .yml, got %q", ErrUnsupportedFormat, ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	f, err := fsys.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyReplayConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching upward from the
// working directory. It panics when the file cannot be loaded and is meant
// for test setup.
func MustLoadDefaultConfig() *ReplayConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	fsys := fsutil.OSFileSystem{}
	for _, path := range candidates {
		if !fsys.Exists(path) {
			continue
		}
		cfg, err := LoadReplayConfigFS(fsys, path)
		if err != nil {
			panic(fmt.Sprintf("load %s: %v", path, err))
		}
		return cfg
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set.
func (c *ReplayConfig) Validate() error {
	if c.TileSizeCm != nil && !positiveFinite(*c.TileSizeCm) {
		return fmt.Errorf("tile_size_cm must be positive, got %v", *c.TileSizeCm)
	}
	if c.FieldOfViewDeg != nil && !positiveFinite(*c.FieldOfViewDeg) {
		return fmt.Errorf("field_of_view_deg must be positive, got %v", *c.FieldOfViewDeg)
	}
	if c.GetMinRangeM() >= c.GetMaxRangeM() {
		return fmt.Errorf("min_range_m (%v) must be below max_range_m (%v)", c.GetMinRangeM(), c.GetMaxRangeM())
	}
	if c.MapWidthTiles != nil && *c.MapWidthTiles <= 0 {
		return fmt.Errorf("map_width_tiles must be positive, got %d", *c.MapWidthTiles)
	}
	if c.MapHeightTiles != nil && *c.MapHeightTiles <= 0 {
		return fmt.Errorf("map_height_tiles must be positive, got %d", *c.MapHeightTiles)
	}
	if c.FPS != nil {
		if err := replay.ValidateFPS(*c.FPS); err != nil {
			return fmt.Errorf("fps: %w", err)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// GetOriginX returns the origin_x value or the default.
func (c *ReplayConfig) GetOriginX() int {
	if c.OriginX == nil {
		return grid.DefaultOriginX
	}
	return *c.OriginX
}

// GetOriginY returns the origin_y value or the default.
func (c *ReplayConfig) GetOriginY() int {
	if c.OriginY == nil {
		return grid.DefaultOriginY
	}
	return *c.OriginY
}

// GetTileSizeCm returns the tile_size_cm value or the default.
func (c *ReplayConfig) GetTileSizeCm() float64 {
	if c.TileSizeCm == nil {
		return grid.DefaultTileSizeCm
	}
	return *c.TileSizeCm
}

// GetFieldOfViewDeg returns the field_of_view_deg value or the default.
func (c *ReplayConfig) GetFieldOfViewDeg() float64 {
	if c.FieldOfViewDeg == nil {
		return grid.DefaultFieldOfViewDeg
	}
	return *c.FieldOfViewDeg
}

// GetMinRangeM returns the min_range_m value or the default.
func (c *ReplayConfig) GetMinRangeM() float64 {
	if c.MinRangeM == nil {
		return grid.DefaultMinRangeM
	}
	return *c.MinRangeM
}

// GetMaxRangeM returns the max_range_m value or the default.
func (c *ReplayConfig) GetMaxRangeM() float64 {
	if c.MaxRangeM == nil {
		return grid.DefaultMaxRangeM
	}
	return *c.MaxRangeM
}

// GetMapWidthTiles returns the map_width_tiles value or the default.
func (c *ReplayConfig) GetMapWidthTiles() int {
	if c.MapWidthTiles == nil {
		return 150
	}
	return *c.MapWidthTiles
}

// GetMapHeightTiles returns the map_height_tiles value or the default.
func (c *ReplayConfig) GetMapHeightTiles() int {
	if c.MapHeightTiles == nil {
		return 100
	}
	return *c.MapHeightTiles
}

// GetFPS returns the fps value or the default.
func (c *ReplayConfig) GetFPS() float64 {
	if c.FPS == nil {
		return 10
	}
	return *c.FPS
}

// GetWorkers returns the workers value or the default.
func (c *ReplayConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetListen returns the listen address or the default.
func (c *ReplayConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8082"
	}
	return *c.Listen
}

// GetLogPath returns the log path, empty when unset.
func (c *ReplayConfig) GetLogPath() string {
	if c.LogPath == nil {
		return ""
	}
	return *c.LogPath
}

// MapSize returns the displayed map extent.
func (c *ReplayConfig) MapSize() grid.MapSize {
	return grid.MapSize{Width: c.GetMapWidthTiles(), Height: c.GetMapHeightTiles()}
}

// ToGridParams converts the configuration into frame-building parameters.
func (c *ReplayConfig) ToGridParams() grid.Params {
	return grid.Params{
		Origin:         grid.Origin{X: c.GetOriginX(), Y: c.GetOriginY()},
		TileSizeCm:     c.GetTileSizeCm(),
		FieldOfViewDeg: c.GetFieldOfViewDeg(),
		MinRangeM:      c.GetMinRangeM(),
		MaxRangeM:      c.GetMaxRangeM(),
		Workers:        c.GetWorkers(),
	}
}
