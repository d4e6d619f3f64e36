package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// ImageCache provides thread-safe caching of decoded sketches so that
// repeated tool calls on the same file skip disk I/O.
//
// Images are keyed by the exact path string passed to Load and stay cached
// until Evict or Clear is called.
//
//	cache := imaging.NewImageCache()
//	buf, err := imaging.LoadPixelBuffer(cache, "/path/to/sketch.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := detection.Classify(buf, detection.DefaultConfig())
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
// Supported formats are PNG, JPEG and GIF.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a sketch file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", taken from the extension.
	Format string `json:"format"`

	// HasAlpha reports whether the decoded image carries an alpha channel.
	// Sketches without one binarize on luminance alone.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// ToPixelBuffer converts any image into the pipeline's RGBA snapshot.
//
// The image is cloned into non-premultiplied 8-bit RGBA with its origin moved
// to (0,0) and no row padding, which is exactly the PixelBuffer layout. The
// source image is not modified.
func ToPixelBuffer(img image.Image) detection.PixelBuffer {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	return detection.PixelBuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    nrgba.Pix,
	}
}

// LoadPixelBuffer loads an image through the cache and converts it with
// ToPixelBuffer.
func LoadPixelBuffer(cache *ImageCache, path string) (detection.PixelBuffer, error) {
	img, err := cache.Load(path)
	if err != nil {
		return detection.PixelBuffer{}, err
	}

	buf := ToPixelBuffer(img)
	if err := buf.Validate(); err != nil {
		return detection.PixelBuffer{}, fmt.Errorf("failed to convert image: %w", err)
	}
	return buf, nil
}
