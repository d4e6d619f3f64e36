package server

import "github.com/ironsheep/sketch-shapes-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the image path argument every tool takes.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the sketch image (PNG, JPEG or GIF)",
}

// classifyProperties returns the arguments shared by the classification
// tools: the image path, region selection, input inversion and threshold
// overrides.
func classifyProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"region": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"description": "Optional rectangle to classify; (x1,y1) inclusive, (x2,y2) exclusive",
		},
		"quadrant": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
			"description": "Optional named region to classify. Ignored when region is set.",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert colors first, for dark ink on a light page",
		},
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Luminance above which a pixel is a stroke (0-255, default 5)",
		},
		"min_area": map[string]interface{}{
			"type":        "number",
			"description": "Contours with this area or less are ignored (default 20)",
		},
		"circularity_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Circularity above which the sketch may be a circle (default 0.6)",
		},
		"triangle_corners": map[string]interface{}{
			"type":        "integer",
			"description": "Corner count a triangle must simplify to (default 3)",
		},
		"triangle_solidity": map[string]interface{}{
			"type":        "number",
			"description": "Solidity above which the sketch may be a triangle (default 0.85)",
		},
		"triangle_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Polygon simplification tolerance as a fraction of the perimeter (default 0.25)",
		},
		"tracer": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"edge", "greedy", "moore"},
			"description": "Contour tracing strategy (default edge)",
		},
		"debug": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return an overlay object whose image_base64 field holds a PNG of the traced geometry",
		},
		"overlay_scale": map[string]interface{}{
			"type":        "integer",
			"description": "Overlay magnification when debug is set (default 1)",
			"default":     1,
			"minimum":     1,
			"maximum":     imaging.MaxOverlayScale,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "sketch_load",
			Description: "Load a sketch image and return its dimensions, format and how it binarizes: foreground share, dominant stroke colors, and whether it looks like dark ink on a light page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Luminance threshold used for the analysis (default 5)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sketch_classify",
			Description: "Classify a hand-drawn sketch as circle, triangle or unknown with a confidence score and the geometric metrics behind it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": classifyProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "sketch_contours",
			Description: "Trace every contour in a sketch and summarize each one (point count, area, perimeter, circularity), marking the contour classification would use.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": classifyProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "sketch_classify_fused",
			Description: "Classify a sketch with the algorithmic pipeline and the configured learned model, and fuse the two answers. Falls back to the algorithmic result when the model is unavailable.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": classifyProperties(),
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
