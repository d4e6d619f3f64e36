// Package detection classifies a hand-drawn sketch as a circle, a triangle or
// unknown using algorithmic image analysis only.
//
// # Pipeline
//
// Classify runs the stages in order, each consuming the previous output:
//
//  1. Binarize: RGBA buffer to foreground mask with one global threshold
//  2. TraceContours: gap-bridging blur, then a greedy 8-neighbor walk that
//     jumps gaps of up to 3 pixels
//  3. SelectMainContour: drop small contours, keep the largest
//  4. Area, Perimeter, Circularity, CentroidOf: geometric features
//  5. ConvexHull and Solidity: Graham scan and area ratio
//  6. SimplifyClosed and CornerCount: Douglas–Peucker approximation
//  7. Decide: fuse circularity, corners and solidity into a scored label
//
// # Coordinate System
//
// Points are integer pixel coordinates with the origin at the top-left
// corner, X increasing rightward and Y increasing downward. Orientation words
// such as "counter-clockwise" refer to the sign of the standard cross
// product, which appears clockwise on screen.
//
// # Confidence Scores
//
// Confidence is always within [0, 1]:
//   - Circle: how far circularity exceeds the circle threshold
//   - Triangle: the solidity of the contour
//   - Both hypotheses: the margin between the two confidences
//   - Neither: a fixed 0.5 guess from the corner count
//   - Unknown: always 0
//
// # Thread Safety
//
// Every function is a pure function of its arguments. Each call allocates its
// own masks and scratch buffers, so independent inputs can be processed
// concurrently.
//
// # Limitations
//
// Input is expected to be light strokes on a dark or transparent background,
// as captured from a drawing canvas. Only the largest contour is classified;
// scenes with several objects and continuous-tone photographs are out of
// scope.
package detection
