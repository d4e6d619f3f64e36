// Package fusion combines the algorithmic classifier with an optional
// learned model served over HTTP.
//
// ModelAdapter talks to the model service. Fuse merges its prediction with a
// detection.Result using the same margin rule the pipeline applies between
// its own circle and triangle hypotheses. When the service is unreachable or
// unset, the algorithmic result stands and the failure is reported alongside
// it.
package fusion
