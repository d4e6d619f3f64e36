// Package imaging loads sketch files and renders debug overlays for the
// shape classifier.
//
// It sits between image files on disk and the pure pipeline in package
// detection: ImageCache decodes files once, ToPixelBuffer turns any
// image.Image into the RGBA snapshot the pipeline expects, and RenderOverlay
// draws a classification's intermediate geometry back onto the sketch.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive and (x2,y2) exclusive
//
// CropRegion re-bases the cropped image to the origin, so contours traced on
// a crop are relative to the region's top-left corner.
//
// # Overlay Colors
//
// Secondary contours get evenly spread hues. The convex hull is amber, the
// main contour green, the simplified polygon pink with its vertices marked,
// and the centroid a cyan cross. The label in the top-left corner names the
// shape and its confidence.
//
// # Input Polarity
//
// The pipeline treats light pixels as strokes. AnalyzeSketch reports when a
// sketch looks like dark ink on a white page; Invert fixes such input before
// classification.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and never modify their source image.
package imaging
