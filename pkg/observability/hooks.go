// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about transform runs, generation attempts,
// and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTransformHooks(&myTransformHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Transform().OnTransformStart(ctx, slot, layerCount)
//	// ... compute ...
//	observability.Transform().OnTransformComplete(ctx, slot, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Transform Hooks
// =============================================================================

// TransformHooks receives events from the re-layout pipeline.
type TransformHooks interface {
	// Transform events
	OnTransformStart(ctx context.Context, slot string, layerCount int)
	OnTransformComplete(ctx context.Context, slot string, duration time.Duration, err error)

	// Composite events
	OnCompositeStart(ctx context.Context, slot string, formats []string)
	OnCompositeComplete(ctx context.Context, slot string, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from generative fill attempts.
type GenerationHooks interface {
	// OnGenerationStart records a dispatched generation attempt.
	OnGenerationStart(ctx context.Context, slot string, generationID int64)

	// OnGenerationComplete records a finished attempt, successful or not.
	OnGenerationComplete(ctx context.Context, slot string, generationID int64, duration time.Duration, err error)

	// OnGenerationStale records a result discarded by the staleness guard.
	OnGenerationStale(ctx context.Context, slot string, incomingID, currentID int64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTransformHooks is a no-op implementation of TransformHooks.
type NoopTransformHooks struct{}

func (NoopTransformHooks) OnTransformStart(context.Context, string, int)                     {}
func (NoopTransformHooks) OnTransformComplete(context.Context, string, time.Duration, error) {}
func (NoopTransformHooks) OnCompositeStart(context.Context, string, []string)                {}
func (NoopTransformHooks) OnCompositeComplete(context.Context, string, []string, time.Duration, error) {
}

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnGenerationStart(context.Context, string, int64) {}
func (NoopGenerationHooks) OnGenerationComplete(context.Context, string, int64, time.Duration, error) {
}
func (NoopGenerationHooks) OnGenerationStale(context.Context, string, int64, int64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	transformHooks  TransformHooks  = NoopTransformHooks{}
	generationHooks GenerationHooks = NoopGenerationHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetTransformHooks registers custom transform hooks.
// This should be called once at application startup before any pipeline runs.
func SetTransformHooks(h TransformHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transformHooks = h
	}
}

// SetGenerationHooks registers custom generation hooks.
// This should be called once at application startup before any generation runs.
func SetGenerationHooks(h GenerationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Transform returns the registered transform hooks.
func Transform() TransformHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transformHooks
}

// Generation returns the registered generation hooks.
func Generation() GenerationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	transformHooks = NoopTransformHooks{}
	generationHooks = NoopGenerationHooks{}
	cacheHooks = NoopCacheHooks{}
}
