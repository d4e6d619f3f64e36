package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// TuningConfig holds the classification thresholds and the learned-model
// settings. Every field is optional: nil falls back to the stock default, so
// partial files and partial tool-argument overrides are both safe.
type TuningConfig struct {
	// Binarization and contour selection
	Threshold      *float64 `json:"threshold,omitempty"`
	MinContourArea *float64 `json:"min_contour_area,omitempty"`
	Tracer         *string  `json:"tracer,omitempty"` // "edge", "greedy" or "moore"

	// Decision thresholds
	CircularityThreshold *float64 `json:"circularity_threshold,omitempty"`
	TriangleCorners      *int     `json:"triangle_corners,omitempty"`
	TriangleSolidity     *float64 `json:"triangle_solidity,omitempty"`
	TriangleTolerance    *float64 `json:"triangle_tolerance,omitempty"`
	FallbackCornerLimit  *int     `json:"fallback_corner_limit,omitempty"`

	Debug *bool `json:"debug,omitempty"`

	// Learned-model service (optional)
	ModelURL     *string `json:"model_url,omitempty"`
	ModelTimeout *string `json:"model_timeout,omitempty"` // duration string like "10s"
}

const (
	maxFileSize         = 1 * 1024 * 1024 // 1MB
	defaultModelTimeout = 10 * time.Second
)

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every threshold set
// explicitly to the stock value.
func DefaultTuningConfig() *TuningConfig {
	d := detection.DefaultConfig()
	return &TuningConfig{
		Threshold:            ptrFloat64(d.Threshold),
		MinContourArea:       ptrFloat64(d.MinContourArea),
		Tracer:               ptrString(string(d.Tracer)),
		CircularityThreshold: ptrFloat64(d.CircularityThreshold),
		TriangleCorners:      ptrInt(d.TriangleCorners),
		TriangleSolidity:     ptrFloat64(d.TriangleSolidity),
		TriangleTolerance:    ptrFloat64(d.TriangleTolerance),
		FallbackCornerLimit:  ptrInt(d.FallbackCornerLimit),
		Debug:                ptrBool(false),
		ModelTimeout:         ptrString(defaultModelTimeout.String()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file stay nil and resolve to their defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that every set value is within range.
func (c *TuningConfig) Validate() error {
	if c.Threshold != nil && (*c.Threshold < 0 || *c.Threshold > 255) {
		return fmt.Errorf("threshold must be between 0 and 255, got %f", *c.Threshold)
	}

	if c.MinContourArea != nil && *c.MinContourArea < 0 {
		return fmt.Errorf("min_contour_area must be non-negative, got %f", *c.MinContourArea)
	}

	if c.Tracer != nil && !detection.Tracer(*c.Tracer).Valid() {
		return fmt.Errorf("tracer must be one of edge, greedy, moore, got %q", *c.Tracer)
	}

	if c.CircularityThreshold != nil && (*c.CircularityThreshold < 0 || *c.CircularityThreshold >= 1) {
		return fmt.Errorf("circularity_threshold must be in [0, 1), got %f", *c.CircularityThreshold)
	}

	if c.TriangleCorners != nil && *c.TriangleCorners < 2 {
		return fmt.Errorf("triangle_corners must be at least 2, got %d", *c.TriangleCorners)
	}

	if c.TriangleSolidity != nil && (*c.TriangleSolidity < 0 || *c.TriangleSolidity > 1) {
		return fmt.Errorf("triangle_solidity must be between 0 and 1, got %f", *c.TriangleSolidity)
	}

	if c.TriangleTolerance != nil && (*c.TriangleTolerance <= 0 || *c.TriangleTolerance > 1) {
		return fmt.Errorf("triangle_tolerance must be in (0, 1], got %f", *c.TriangleTolerance)
	}

	if c.FallbackCornerLimit != nil && *c.FallbackCornerLimit < 0 {
		return fmt.Errorf("fallback_corner_limit must be non-negative, got %d", *c.FallbackCornerLimit)
	}

	if c.ModelURL != nil && *c.ModelURL != "" {
		u, err := url.Parse(*c.ModelURL)
		if err != nil {
			return fmt.Errorf("invalid model_url '%s': %w", *c.ModelURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("model_url must use http or https, got %q", u.Scheme)
		}
	}

	if c.ModelTimeout != nil && *c.ModelTimeout != "" {
		d, err := time.ParseDuration(*c.ModelTimeout)
		if err != nil {
			return fmt.Errorf("invalid model_timeout '%s': %w", *c.ModelTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("model_timeout must be positive, got %s", d)
		}
	}

	return nil
}

// Merge returns a copy of c with every non-nil field of override applied on
// top. Neither input is modified.
func (c *TuningConfig) Merge(override *TuningConfig) *TuningConfig {
	out := *c
	if override == nil {
		return &out
	}

	if override.Threshold != nil {
		out.Threshold = override.Threshold
	}
	if override.MinContourArea != nil {
		out.MinContourArea = override.MinContourArea
	}
	if override.Tracer != nil {
		out.Tracer = override.Tracer
	}
	if override.CircularityThreshold != nil {
		out.CircularityThreshold = override.CircularityThreshold
	}
	if override.TriangleCorners != nil {
		out.TriangleCorners = override.TriangleCorners
	}
	if override.TriangleSolidity != nil {
		out.TriangleSolidity = override.TriangleSolidity
	}
	if override.TriangleTolerance != nil {
		out.TriangleTolerance = override.TriangleTolerance
	}
	if override.FallbackCornerLimit != nil {
		out.FallbackCornerLimit = override.FallbackCornerLimit
	}
	if override.Debug != nil {
		out.Debug = override.Debug
	}
	if override.ModelURL != nil {
		out.ModelURL = override.ModelURL
	}
	if override.ModelTimeout != nil {
		out.ModelTimeout = override.ModelTimeout
	}

	return &out
}

// Detection resolves the thresholds into the pipeline configuration.
func (c *TuningConfig) Detection() detection.Config {
	return detection.Config{
		Threshold:            c.GetThreshold(),
		MinContourArea:       c.GetMinContourArea(),
		CircularityThreshold: c.GetCircularityThreshold(),
		TriangleCorners:      c.GetTriangleCorners(),
		TriangleSolidity:     c.GetTriangleSolidity(),
		TriangleTolerance:    c.GetTriangleTolerance(),
		FallbackCornerLimit:  c.GetFallbackCornerLimit(),
		Tracer:               c.GetTracer(),
		Debug:                c.GetDebug(),
	}
}

// GetThreshold returns the threshold value or the default.
func (c *TuningConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return detection.DefaultConfig().Threshold
	}
	return *c.Threshold
}

// GetMinContourArea returns the min_contour_area value or the default.
func (c *TuningConfig) GetMinContourArea() float64 {
	if c.MinContourArea == nil {
		return detection.DefaultConfig().MinContourArea
	}
	return *c.MinContourArea
}

// GetTracer returns the tracer or the default. Unknown names fall back to
// the default as well.
func (c *TuningConfig) GetTracer() detection.Tracer {
	if c.Tracer == nil || !detection.Tracer(*c.Tracer).Valid() {
		return detection.DefaultConfig().Tracer
	}
	return detection.Tracer(*c.Tracer)
}

// GetCircularityThreshold returns the circularity_threshold value or the default.
func (c *TuningConfig) GetCircularityThreshold() float64 {
	if c.CircularityThreshold == nil {
		return detection.DefaultConfig().CircularityThreshold
	}
	return *c.CircularityThreshold
}

// GetTriangleCorners returns the triangle_corners value or the default.
func (c *TuningConfig) GetTriangleCorners() int {
	if c.TriangleCorners == nil {
		return detection.DefaultConfig().TriangleCorners
	}
	return *c.TriangleCorners
}

// GetTriangleSolidity returns the triangle_solidity value or the default.
func (c *TuningConfig) GetTriangleSolidity() float64 {
	if c.TriangleSolidity == nil {
		return detection.DefaultConfig().TriangleSolidity
	}
	return *c.TriangleSolidity
}

// GetTriangleTolerance returns the triangle_tolerance value or the default.
func (c *TuningConfig) GetTriangleTolerance() float64 {
	if c.TriangleTolerance == nil {
		return detection.DefaultConfig().TriangleTolerance
	}
	return *c.TriangleTolerance
}

// GetFallbackCornerLimit returns the fallback_corner_limit value or the default.
func (c *TuningConfig) GetFallbackCornerLimit() int {
	if c.FallbackCornerLimit == nil {
		return detection.DefaultConfig().FallbackCornerLimit
	}
	return *c.FallbackCornerLimit
}

// GetDebug returns the debug flag or false.
func (c *TuningConfig) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}

// GetModelURL returns the learned-model endpoint, or "" when none is set.
func (c *TuningConfig) GetModelURL() string {
	if c.ModelURL == nil {
		return ""
	}
	return *c.ModelURL
}

// GetModelTimeout parses and returns the ModelTimeout as a time.Duration.
func (c *TuningConfig) GetModelTimeout() time.Duration {
	if c.ModelTimeout == nil || *c.ModelTimeout == "" {
		return defaultModelTimeout
	}
	d, err := time.ParseDuration(*c.ModelTimeout)
	if err != nil || d <= 0 {
		return defaultModelTimeout
	}
	return d
}
