// Package frontend owns the pieces of the dashboard that branding hooks
// attach to: the index template strategy, its rendered cache, and the
// web-app manifest.
package frontend

import "sync"

// Frontend is a two-slot register for the index template strategy plus
// the manifest. Lifecycle mutations (SetTemplateFunc) are serialized by
// the caller; concurrent request handlers only read.
type Frontend struct {
	mu          sync.RWMutex
	getTemplate TemplateFunc
	tplCache    *IndexTemplate
	manifest    *Manifest
}

// New returns a frontend serving the embedded index document and the
// stock manifest.
func New() *Frontend {
	return &Frontend{
		getTemplate: DefaultTemplateFunc(),
		manifest:    NewManifest(),
	}
}

// TemplateFunc returns the currently installed template strategy.
func (f *Frontend) TemplateFunc() TemplateFunc {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.getTemplate
}

// SetTemplateFunc installs a new template strategy. The rendered cache is
// left untouched; callers that need the next request to see the new
// strategy must also call InvalidateTemplateCache.
func (f *Frontend) SetTemplateFunc(fn TemplateFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getTemplate = fn
}

// Template returns the cached index template, producing and caching one
// via the installed strategy if necessary.
func (f *Frontend) Template() (*IndexTemplate, error) {
	f.mu.RLock()
	cached := f.tplCache
	fn := f.getTemplate
	f.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	tpl, err := fn()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.tplCache = tpl
	f.mu.Unlock()
	return tpl, nil
}

// InvalidateTemplateCache drops the cached template so the next request
// goes through the installed strategy again.
func (f *Frontend) InvalidateTemplateCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tplCache = nil
}

// Manifest returns the web-app manifest registry.
func (f *Frontend) Manifest() *Manifest {
	return f.manifest
}
