package raycast

import (
	"image"
	"runtime"
	"sync"

	"github.com/taigrr/facecast/pkg/render"
)

type options struct {
	shader   render.ShadeFunc
	index    IndexKind
	filter   render.FilterMode
	workers  int
	textures *TextureCache
}

func defaultOptions() options {
	return options{
		shader:  render.DefaultShader,
		index:   IndexGrid,
		filter:  render.FilterBilinear,
		workers: runtime.GOMAXPROCS(0),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Mesh or a Caster.
type Option func(*options)

// WithShader replaces DefaultShader. A nil shader is ignored.
func WithShader(fn render.ShadeFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.shader = fn
		}
	}
}

// WithIndex selects the per-surface spatial index.
func WithIndex(kind IndexKind) Option {
	return func(o *options) { o.index = kind }
}

// WithTextureFilter sets the filter used when sampling material base maps.
func WithTextureFilter(f render.FilterMode) Option {
	return func(o *options) { o.filter = f }
}

// WithWorkers bounds the goroutines used to build meshes and render images.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithTextureCache shares decoded base maps across constructions, so a
// caster rebuilt every frame does not convert the same images again.
func WithTextureCache(c *TextureCache) Option {
	return func(o *options) { o.textures = c }
}

// TextureCache maps material images to converted textures. It is safe for
// concurrent use.
type TextureCache struct {
	mu       sync.Mutex
	textures map[textureKey]*render.Texture
}

type textureKey struct {
	img    image.Image
	filter render.FilterMode
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[textureKey]*render.Texture)}
}

// Texture returns the texture for img, converting it on first use. img must
// have a comparable dynamic type, as every image type in the standard
// library does.
func (c *TextureCache) Texture(img image.Image, filter render.FilterMode) *render.Texture {
	key := textureKey{img, filter}
	c.mu.Lock()
	defer c.mu.Unlock()
	if tex, ok := c.textures[key]; ok {
		return tex
	}
	tex := newTexture(img, filter)
	c.textures[key] = tex
	return tex
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

func newTexture(img image.Image, filter render.FilterMode) *render.Texture {
	tex := render.TextureFromImage(img)
	tex.FilterMode = filter
	return tex
}
