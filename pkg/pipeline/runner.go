package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dzazaleo/layerforge/pkg/cache"
	"github.com/dzazaleo/layerforge/pkg/compositor"
	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
	"github.com/dzazaleo/layerforge/pkg/generate"
	"github.com/dzazaleo/layerforge/pkg/httputil"
	"github.com/dzazaleo/layerforge/pkg/observability"
	"github.com/dzazaleo/layerforge/pkg/reconcile"
	"github.com/dzazaleo/layerforge/pkg/remap"
	"github.com/dzazaleo/layerforge/pkg/store"
)

// Runner encapsulates pipeline execution with caching and persistence.
// Both CLI and API can use this to avoid duplicating the staging logic.
//
// The Runner is stateless between runs except for the cache, store, and
// logger. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Store     store.Store
	Generator generate.Generator
	Logger    *log.Logger
}

// NewRunner creates a runner.
// Nil collaborators fall back to safe defaults: a NullCache (caching
// disabled), the default keyer, an in-memory store, and a Null generator
// (generation disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, gen generate.Generator, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if gen == nil {
		gen = generate.Null{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Store:     st,
		Generator: gen,
		Logger:    logger,
	}
}

// Execute runs the complete transform → reconcile → composite pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}
	result.Stats.LayerCount = opts.Document.LayerCount()
	slotKey := store.Key{OwnerID: opts.OwnerID, SlotID: opts.SlotID}

	// Stage 1: Transform
	transformStart := time.Now()
	observability.Transform().OnTransformStart(ctx, opts.SlotID, result.Stats.LayerCount)

	payload, transformHit, err := r.TransformWithCacheInfo(ctx, opts)
	result.Stats.TransformTime = time.Since(transformStart)
	observability.Transform().OnTransformComplete(ctx, opts.SlotID, result.Stats.TransformTime, err)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.TransformHit = transformHit

	opts.Logger.Info("transformed tree",
		"layers", result.Stats.LayerCount,
		"cached", transformHit,
		"duration", result.Stats.TransformTime)

	// Prior state for reconciliation and staleness.
	prior, err := r.Store.Get(ctx, slotKey)
	if err != nil {
		return nil, err
	}

	// Stage 1b: Generation, when the payload calls for it.
	var generated image.Image
	if payload.RequiresGeneration && opts.GenerationAllowed {
		generateStart := time.Now()
		generated = r.generate(ctx, opts, payload, prior)
		result.Stats.GenerateTime = time.Since(generateStart)
	}

	// Stage 2: Reconcile and persist.
	effective := reconcile.Reconcile(payload, prior)
	if err := r.Store.Set(ctx, slotKey, effective); err != nil {
		return nil, err
	}
	result.Payload = effective

	payloadData, err := design.MarshalPayload(effective)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serializing payload")
	}
	result.PayloadHash = cache.Hash(payloadData)

	// Stage 3: Composite.
	compositeStart := time.Now()
	observability.Transform().OnCompositeStart(ctx, opts.SlotID, opts.Formats)

	artifacts, diags, compositeHit, err := r.CompositeWithCacheInfo(ctx, effective, generated, opts)
	result.Stats.CompositeTime = time.Since(compositeStart)
	observability.Transform().OnCompositeComplete(ctx, opts.SlotID, opts.Formats, result.Stats.CompositeTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Diagnostics = diags
	result.CacheInfo.CompositeHit = compositeHit

	opts.Logger.Info("composited outputs",
		"formats", opts.Formats,
		"cached", compositeHit,
		"duration", result.Stats.CompositeTime)

	return result, nil
}

// TransformWithCacheInfo computes the payload with caching and reports
// whether it was served from cache.
func (r *Runner) TransformWithCacheInfo(ctx context.Context, opts Options) (*design.Payload, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	docData, err := design.MarshalDocument(opts.Document)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serializing document")
	}
	cacheKey := r.Keyer.TransformKey(cache.Hash(docData), opts.TransformKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if p, err := design.UnmarshalPayload(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "transform")
				return p, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "transform")
	}

	payload, err := remap.Transform(opts.Document, remap.Options{
		Source:            opts.Source,
		Target:            opts.Target,
		Scale:             opts.Scale,
		Strategy:          opts.Strategy,
		Feedback:          opts.Feedback,
		GenerationAllowed: opts.GenerationAllowed,
		Logger:            opts.Logger,
	})
	if err != nil {
		return nil, false, err
	}

	if data, err := design.MarshalPayload(payload); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTransform); err == nil {
			observability.Cache().OnCacheSet(ctx, "transform", len(data))
		}
	}

	return payload, false, nil
}

// Transform is a convenience wrapper that discards the cache hit info.
func (r *Runner) Transform(ctx context.Context, opts Options) (*design.Payload, error) {
	p, _, err := r.TransformWithCacheInfo(ctx, opts)
	return p, err
}

// generate runs one generation attempt and stamps the payload with the
// minted generation id and the prompt hash on success. The hash is how a
// later run tells a changed prompt from a cache-worthy repeat.
// Generation failure never fails the run:
// the payload keeps its geometry and the preview fields stay absent, which
// the reconciler then resolves against the prior state.
func (r *Runner) generate(ctx context.Context, opts Options, payload, prior *design.Payload) image.Image {
	prompt := ""
	if opts.Strategy != nil {
		prompt = opts.Strategy.GenerativePrompt
	}
	if prompt == "" {
		return nil
	}
	promptHash := cache.Hash([]byte(prompt))

	// One attempt per changed prompt: only an unchanged prompt with a prior
	// generation reuses the persisted preview instead of paying for a new
	// one. A changed prompt always mints a fresh generation.
	if prior != nil && prior.GenerationID != 0 && prior.SourceReference != "" &&
		prior.PromptHash == promptHash && !opts.Refresh {
		payload.GenerationID = prior.GenerationID
		payload.SourceReference = prior.SourceReference
		payload.PromptHash = prior.PromptHash
		if img := r.cachedGeneration(ctx, prior.SourceReference); img != nil {
			return img
		}
		return r.fetchPreview(ctx, opts, prior.PreviewURL)
	}

	genID := reconcile.NextGenerationID(prior)
	target := payload.Target()

	start := time.Now()
	observability.Generation().OnGenerationStart(ctx, opts.SlotID, genID)

	res, err := r.Generator.Generate(ctx, generate.Request{
		Prompt: prompt,
		Width:  int(target.W),
		Height: int(target.H),
	})
	observability.Generation().OnGenerationComplete(ctx, opts.SlotID, genID, time.Since(start), err)
	if err != nil {
		opts.Logger.Warn("generation failed, compositing without preview",
			"slot", opts.SlotID, "error", err)
		return nil
	}

	payload.GenerationID = genID
	payload.SourceReference = res.SourceReference
	payload.PromptHash = promptHash
	r.storeGeneration(ctx, res)
	return res.Image
}

// cachedGeneration reloads a previously generated image from the cache by
// its source reference. A miss is not an error; the compositor falls back to
// the placeholder.
func (r *Runner) cachedGeneration(ctx context.Context, ref string) image.Image {
	data, hit, err := r.Cache.Get(ctx, r.Keyer.ImageKey("generated", ref))
	if err != nil || !hit {
		return nil
	}
	img, err := decodePNG(data)
	if err != nil {
		return nil
	}
	return img
}

// fetchPreview re-downloads a persisted preview when the generated image has
// fallen out of the cache. Failure degrades to the placeholder.
func (r *Runner) fetchPreview(ctx context.Context, opts Options, url string) image.Image {
	if url == "" {
		return nil
	}
	img, err := httputil.FetchImage(ctx, nil, url)
	if err != nil {
		opts.Logger.Warn("preview fetch failed, compositing with placeholder",
			"slot", opts.SlotID, "error", err)
		return nil
	}
	return img
}

func (r *Runner) storeGeneration(ctx context.Context, res *generate.Result) {
	data, err := encodeImagePNG(res.Image)
	if err != nil {
		return
	}
	key := r.Keyer.ImageKey("generated", res.SourceReference)
	if err := r.Cache.Set(ctx, key, data, cache.TTLImage); err == nil {
		observability.Cache().OnCacheSet(ctx, "image", len(data))
	}
}

// CompositeWithCacheInfo renders the payload into every requested format,
// serving from cache when possible, and reports whether all artifacts hit.
func (r *Runner) CompositeWithCacheInfo(ctx context.Context, p *design.Payload, generated image.Image, opts Options) (map[string][]byte, []string, bool, error) {
	payloadData, err := design.MarshalPayload(p)
	if err != nil {
		return nil, nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serializing payload for cache key")
	}
	payloadHash := cache.Hash(payloadData)

	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := r.Keyer.CompositeKey(payloadHash, opts.CompositeKeyOpts(format, p.SourceReference))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "composite")
		return artifacts, nil, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "composite")

	rendered := make(map[string][]byte, len(opts.Formats))
	var diagnostics []string
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			rendered[format] = payloadData
		case FormatPNG:
			data, diags, err := compositor.RenderPNG(p, compositor.Options{
				Pixels:     opts.Pixels,
				Generated:  generated,
				Background: parseBackground(opts.Background),
				Logger:     opts.Logger,
			})
			if err != nil {
				return nil, nil, false, err
			}
			rendered[format] = data
			diagnostics = append(diagnostics, diags...)
		}
	}

	for format, data := range rendered {
		key := r.Keyer.CompositeKey(payloadHash, opts.CompositeKeyOpts(format, p.SourceReference))
		if err := r.Cache.Set(ctx, key, data, cache.TTLComposite); err == nil {
			observability.Cache().OnCacheSet(ctx, "composite", len(data))
		}
	}

	return rendered, diagnostics, false, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
