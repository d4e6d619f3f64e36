package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, 5.0, *cfg.Threshold)
	require.NotNil(t, cfg.Tracer)
	assert.Equal(t, "edge", *cfg.Tracer)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, detection.DefaultConfig(), cfg.Detection())
	assert.Equal(t, 10*time.Second, cfg.GetModelTimeout())
	assert.Empty(t, cfg.GetModelURL())
}

func TestEmptyTuningConfigResolvesToDefaults(t *testing.T) {
	assert.Equal(t, detection.DefaultConfig(), EmptyTuningConfig().Detection())
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
  "threshold": 40,
  "min_contour_area": 50,
  "tracer": "moore",
  "triangle_solidity": 0.9,
  "model_url": "http://localhost:5000/predict",
  "model_timeout": "3s"
}`)

	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	got := cfg.Detection()
	assert.Equal(t, 40.0, got.Threshold)
	assert.Equal(t, 50.0, got.MinContourArea)
	assert.Equal(t, detection.TracerMoore, got.Tracer)
	assert.Equal(t, 0.9, got.TriangleSolidity)

	// Omitted fields keep their defaults.
	assert.Equal(t, 0.6, got.CircularityThreshold)
	assert.Equal(t, 3, got.TriangleCorners)
	assert.Equal(t, 0.25, got.TriangleTolerance)
	assert.Equal(t, 4, got.FallbackCornerLimit)

	assert.Equal(t, "http://localhost:5000/predict", cfg.GetModelURL())
	assert.Equal(t, 3*time.Second, cfg.GetModelTimeout())
}

func TestLoadTuningConfig_RepositoryDefaults(t *testing.T) {
	cfg, err := LoadTuningConfig(filepath.Join("..", "..", "config", "sketch.defaults.json"))
	require.NoError(t, err)

	assert.Equal(t, detection.DefaultConfig(), cfg.Detection())
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return "/nonexistent/path/to/config.json" },
			wantErr: "failed to stat",
		},
		{
			name:    "wrong extension",
			path:    func(t *testing.T) string { return writeConfig(t, "tuning.yaml", "threshold: 5") },
			wantErr: ".json extension",
		},
		{
			name:    "invalid JSON",
			path:    func(t *testing.T) string { return writeConfig(t, "bad.json", `{"threshold": "high"`) },
			wantErr: "failed to parse",
		},
		{
			name:    "out of range",
			path:    func(t *testing.T) string { return writeConfig(t, "range.json", `{"threshold": 300}`) },
			wantErr: "invalid configuration",
		},
		{
			name: "too large",
			path: func(t *testing.T) string {
				return writeConfig(t, "big.json", `{"tracer": "`+strings.Repeat("x", maxFileSize)+`"}`)
			},
			wantErr: "too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTuningConfig(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{"defaults", DefaultTuningConfig(), false},
		{"empty", &TuningConfig{}, false},
		{"negative threshold", &TuningConfig{Threshold: ptrFloat64(-1)}, true},
		{"threshold above 255", &TuningConfig{Threshold: ptrFloat64(256)}, true},
		{"negative min area", &TuningConfig{MinContourArea: ptrFloat64(-5)}, true},
		{"unknown tracer", &TuningConfig{Tracer: ptrString("flood")}, true},
		{"circularity threshold of one", &TuningConfig{CircularityThreshold: ptrFloat64(1)}, true},
		{"one corner", &TuningConfig{TriangleCorners: ptrInt(1)}, true},
		{"solidity above one", &TuningConfig{TriangleSolidity: ptrFloat64(1.5)}, true},
		{"zero tolerance", &TuningConfig{TriangleTolerance: ptrFloat64(0)}, true},
		{"negative fallback limit", &TuningConfig{FallbackCornerLimit: ptrInt(-1)}, true},
		{"model url without scheme", &TuningConfig{ModelURL: ptrString("localhost:5000")}, true},
		{"model url ftp", &TuningConfig{ModelURL: ptrString("ftp://host/predict")}, true},
		{"model url https", &TuningConfig{ModelURL: ptrString("https://host/predict")}, false},
		{"bad timeout", &TuningConfig{ModelTimeout: ptrString("soon")}, true},
		{"negative timeout", &TuningConfig{ModelTimeout: ptrString("-1s")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultTuningConfig()
	override := &TuningConfig{
		Threshold: ptrFloat64(80),
		Tracer:    ptrString("greedy"),
		Debug:     ptrBool(true),
	}

	merged := base.Merge(override)

	assert.Equal(t, 80.0, merged.GetThreshold())
	assert.Equal(t, detection.TracerGreedy, merged.GetTracer())
	assert.True(t, merged.GetDebug())
	assert.Equal(t, 0.85, merged.GetTriangleSolidity())

	// Inputs are untouched.
	assert.Equal(t, 5.0, base.GetThreshold())
	assert.False(t, base.GetDebug())

	assert.Equal(t, base.Detection(), base.Merge(nil).Detection())
}

func TestGetTracerFallsBackOnUnknown(t *testing.T) {
	cfg := &TuningConfig{Tracer: ptrString("flood")}
	assert.Equal(t, detection.TracerEdge, cfg.GetTracer())
}

func TestGetModelTimeoutFallsBack(t *testing.T) {
	assert.Equal(t, 10*time.Second, (&TuningConfig{ModelTimeout: ptrString("soon")}).GetModelTimeout())
	assert.Equal(t, 10*time.Second, (&TuningConfig{ModelTimeout: ptrString("")}).GetModelTimeout())
}
