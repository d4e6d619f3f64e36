package fusion

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// Source names which classifier a fused label came from.
type Source string

const (
	SourceAgreement Source = "agreement"
	SourceAlgorithm Source = "algorithm"
	SourceModel     Source = "model"
)

// Result is the fused outcome of the algorithmic pipeline and the learned
// model.
type Result struct {
	Shape      detection.Shape `json:"shape"`
	Confidence float64         `json:"confidence"`
	Message    string          `json:"message"`
	DecidedBy  Source          `json:"decided_by"`

	Algorithm  detection.Result `json:"algorithm"`
	Model      *Prediction      `json:"model,omitempty"`
	ModelError string           `json:"model_error,omitempty"`
}

// Fuse combines the two classifications.
//
//   - model error or no prediction: the algorithmic result
//   - same label: that label with the higher confidence
//   - one side unknown: the other side's label and confidence
//   - disagreement: the higher confidence wins and the margin between the two
//     becomes the confidence; the algorithm wins ties
func Fuse(algo detection.Result, pred *Prediction, modelErr error) Result {
	out := Result{Algorithm: algo, Model: pred}

	switch {
	case modelErr != nil || pred == nil:
		out.Shape, out.Confidence, out.DecidedBy = algo.Shape, algo.Confidence, SourceAlgorithm
		if modelErr != nil {
			out.ModelError = modelErr.Error()
		} else {
			out.ModelError = "no prediction"
		}
		out.Message = fmt.Sprintf("%s; model unavailable: %s", algo.Message, out.ModelError)
		return out

	case algo.Shape == pred.Shape:
		out.Shape, out.Confidence, out.DecidedBy = algo.Shape, max(algo.Confidence, pred.Confidence), SourceAgreement

	case pred.Shape == detection.ShapeUnknown:
		out.Shape, out.Confidence, out.DecidedBy = algo.Shape, algo.Confidence, SourceAlgorithm

	case algo.Shape == detection.ShapeUnknown:
		out.Shape, out.Confidence, out.DecidedBy = pred.Shape, pred.Confidence, SourceModel

	case pred.Confidence > algo.Confidence:
		out.Shape, out.Confidence, out.DecidedBy = pred.Shape, pred.Confidence-algo.Confidence, SourceModel

	default:
		out.Shape, out.Confidence, out.DecidedBy = algo.Shape, algo.Confidence-pred.Confidence, SourceAlgorithm
	}

	out.Message = fusedMessage(out)
	return out
}

// Classify asks the predictor about img and fuses its answer with algo. A
// nil predictor counts as a model failure.
func Classify(ctx context.Context, p Predictor, img image.Image, algo detection.Result) Result {
	if p == nil {
		return Fuse(algo, nil, fmt.Errorf("no model configured"))
	}
	pred, err := p.Predict(ctx, img)
	return Fuse(algo, pred, err)
}

func fusedMessage(r Result) string {
	if r.Shape == detection.ShapeUnknown {
		return "No shape detected by either classifier"
	}
	return fmt.Sprintf("Detected %s (%.0f%% confidence, %s)", r.Shape, r.Confidence*100, r.DecidedBy)
}
