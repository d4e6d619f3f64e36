package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/sketch-shapes-mcp/internal/config"
	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
	"github.com/ironsheep/sketch-shapes-mcp/internal/fusion"
	"github.com/ironsheep/sketch-shapes-mcp/internal/imaging"
)

// strokeColorCount is how many dominant stroke colors sketch_load reports.
const strokeColorCount = 5

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sketch_classify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Merges threshold overrides onto the server's tuning
//  3. Loads the sketch from cache and applies region and inversion
//  4. Runs the pipeline, and the model when fused
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "sketch_load":
		return s.handleSketchLoad(args)
	case "sketch_classify":
		return s.handleSketchClassify(args)
	case "sketch_contours":
		return s.handleSketchContours(args)
	case "sketch_classify_fused":
		return s.handleSketchClassifyFused(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Load ===

type sketchLoadArgs struct {
	Path      string   `json:"path"`
	Threshold *float64 `json:"threshold"`
}

type sketchLoadResult struct {
	*imaging.ImageInfo
	*imaging.SketchStats
}

func (s *Server) handleSketchLoad(args json.RawMessage) (interface{}, error) {
	var a sketchLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	tuning := s.tuning.Merge(&config.TuningConfig{Threshold: a.Threshold})
	if err := tuning.Validate(); err != nil {
		return nil, err
	}

	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	buf, err := imaging.LoadPixelBuffer(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	return &sketchLoadResult{
		ImageInfo:   info,
		SketchStats: imaging.AnalyzeSketch(buf, tuning.GetThreshold(), strokeColorCount),
	}, nil
}

// === Classification ===

type classifyArgs struct {
	Path     string          `json:"path"`
	Region   *imaging.Region `json:"region"`
	Quadrant string          `json:"quadrant"`
	Invert   bool            `json:"invert"`

	Threshold            *float64 `json:"threshold"`
	MinArea              *float64 `json:"min_area"`
	CircularityThreshold *float64 `json:"circularity_threshold"`
	TriangleCorners      *int     `json:"triangle_corners"`
	TriangleSolidity     *float64 `json:"triangle_solidity"`
	TriangleTolerance    *float64 `json:"triangle_tolerance"`
	Tracer               *string  `json:"tracer"`
	Debug                *bool    `json:"debug"`

	OverlayScale int `json:"overlay_scale"`
}

func parseClassifyArgs(args json.RawMessage) (*classifyArgs, error) {
	var a classifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OverlayScale == 0 {
		a.OverlayScale = 1
	}
	if a.OverlayScale < 1 || a.OverlayScale > imaging.MaxOverlayScale {
		return nil, fmt.Errorf("overlay_scale must be between 1 and %d, got %d", imaging.MaxOverlayScale, a.OverlayScale)
	}
	return &a, nil
}

// detectionConfig merges the call's overrides onto the server tuning and
// validates the result.
func (s *Server) detectionConfig(a *classifyArgs) (detection.Config, error) {
	tuning := s.tuning.Merge(&config.TuningConfig{
		Threshold:            a.Threshold,
		MinContourArea:       a.MinArea,
		Tracer:               a.Tracer,
		CircularityThreshold: a.CircularityThreshold,
		TriangleCorners:      a.TriangleCorners,
		TriangleSolidity:     a.TriangleSolidity,
		TriangleTolerance:    a.TriangleTolerance,
		Debug:                a.Debug,
	})
	if err := tuning.Validate(); err != nil {
		return detection.Config{}, err
	}
	return tuning.Detection(), nil
}

// prepareImage loads the sketch and applies the region and inversion
// arguments. An explicit region takes precedence over a quadrant.
func (s *Server) prepareImage(a *classifyArgs) (image.Image, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	switch {
	case a.Region != nil:
		img, err = imaging.CropRegion(img, *a.Region)
	case a.Quadrant != "":
		var r imaging.Region
		r, err = imaging.NamedRegion(img.Bounds(), a.Quadrant)
		if err == nil {
			img, err = imaging.CropRegion(img, r)
		}
	}
	if err != nil {
		return nil, err
	}

	if a.Invert {
		img = imaging.Invert(img)
	}
	return img, nil
}

// classify runs the pipeline for one call and returns the prepared image
// with the result.
func (s *Server) classify(a *classifyArgs) (image.Image, detection.Result, error) {
	cfg, err := s.detectionConfig(a)
	if err != nil {
		return nil, detection.Result{}, err
	}
	img, err := s.prepareImage(a)
	if err != nil {
		return nil, detection.Result{}, err
	}

	res := detection.Classify(imaging.ToPixelBuffer(img), cfg)
	if s.debug {
		log.Printf("classified %s: %s (%.2f)", a.Path, res.Shape, res.Confidence)
	}
	return img, res, nil
}

type classifyResult struct {
	detection.Result
	Overlay *imaging.OverlayResult `json:"overlay,omitempty"`
}

func (s *Server) handleSketchClassify(args json.RawMessage) (interface{}, error) {
	a, err := parseClassifyArgs(args)
	if err != nil {
		return nil, err
	}

	img, res, err := s.classify(a)
	if err != nil {
		return nil, err
	}

	out := &classifyResult{Result: res}
	if res.Debug != nil {
		overlay, err := imaging.EncodeOverlay(img, res, a.OverlayScale)
		if err != nil {
			return nil, err
		}
		out.Overlay = overlay
	}
	return out, nil
}

func (s *Server) handleSketchClassifyFused(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parseClassifyArgs(args)
	if err != nil {
		return nil, err
	}

	img, res, err := s.classify(a)
	if err != nil {
		return nil, err
	}

	fused := fusion.Classify(ctx, s.model, img, res)
	if s.debug && fused.ModelError != "" {
		log.Printf("model unavailable for %s: %s", a.Path, fused.ModelError)
	}
	return &fused, nil
}

// === Contours ===

// ContourSummary describes one traced contour.
type ContourSummary struct {
	Index       int     `json:"index"`
	Points      int     `json:"points"`
	Area        float64 `json:"area"`
	Perimeter   float64 `json:"perimeter"`
	Circularity float64 `json:"circularity"`
	Main        bool    `json:"main"`
}

// ContoursResult lists every traced contour of a sketch. MainIndex is -1
// when no contour exceeds the minimum area.
type ContoursResult struct {
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Tracer    string           `json:"tracer"`
	MainIndex int              `json:"main_index"`
	Contours  []ContourSummary `json:"contours"`
}

func (s *Server) handleSketchContours(args json.RawMessage) (interface{}, error) {
	a, err := parseClassifyArgs(args)
	if err != nil {
		return nil, err
	}
	cfg, err := s.detectionConfig(a)
	if err != nil {
		return nil, err
	}
	img, err := s.prepareImage(a)
	if err != nil {
		return nil, err
	}

	buf := imaging.ToPixelBuffer(img)
	contours := detection.TraceContours(detection.Binarize(buf, cfg.Threshold), cfg.Tracer)

	out := &ContoursResult{
		Width:     buf.Width,
		Height:    buf.Height,
		Tracer:    string(cfg.Tracer),
		MainIndex: detection.SelectMainIndex(contours, cfg.MinContourArea),
		Contours:  make([]ContourSummary, 0, len(contours)),
	}

	for i, c := range contours {
		area := detection.Area(c)
		perimeter := detection.Perimeter(c)
		out.Contours = append(out.Contours, ContourSummary{
			Index:       i,
			Points:      len(c),
			Area:        area,
			Perimeter:   perimeter,
			Circularity: detection.Circularity(area, perimeter),
		})
	}
	if out.MainIndex >= 0 {
		out.Contours[out.MainIndex].Main = true
	}

	return out, nil
}
