package cache

// Keyer derives cache keys for the pipeline's cacheable stages. Keys must be
// total functions of the inputs that determine the cached value: two calls
// with identical inputs hit the same entry, any differing input misses.
type Keyer interface {
	// TransformKey keys a computed payload by the document hash and every
	// transform input.
	TransformKey(docHash string, opts TransformKeyOpts) string

	// CompositeKey keys a rendered raster by the payload hash and render
	// options.
	CompositeKey(payloadHash string, opts CompositeKeyOpts) string

	// ImageKey keys a fetched or generated image by namespace and
	// reference.
	ImageKey(namespace, ref string) string
}

// TransformKeyOpts are the inputs, besides the document itself, that a
// computed payload depends on.
type TransformKeyOpts struct {
	Target            string
	Scale             float64
	StrategyHash      string
	FeedbackHash      string
	GenerationAllowed bool
}

// CompositeKeyOpts are the render inputs a composite depends on.
type CompositeKeyOpts struct {
	Format     string
	Background string
	Generated  string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) TransformKey(docHash string, opts TransformKeyOpts) string {
	return hashKey("transform", docHash, opts)
}

func (DefaultKeyer) CompositeKey(payloadHash string, opts CompositeKeyOpts) string {
	return hashKey("composite", payloadHash, opts)
}

func (DefaultKeyer) ImageKey(namespace, ref string) string {
	return "img:" + namespace + ":" + ref
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation:
// different owners share a backend but never a namespace.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TransformKey(docHash string, opts TransformKeyOpts) string {
	return k.prefix + k.inner.TransformKey(docHash, opts)
}

func (k *ScopedKeyer) CompositeKey(payloadHash string, opts CompositeKeyOpts) string {
	return k.prefix + k.inner.CompositeKey(payloadHash, opts)
}

func (k *ScopedKeyer) ImageKey(namespace, ref string) string {
	return k.prefix + k.inner.ImageKey(namespace, ref)
}
