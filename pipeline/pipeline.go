// Package pipeline wires rendering, content boundary detection, and
// Markdown conversion into the end-to-end extraction service.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
)

// Ensure Pipeline implements distill.Service at compile time.
var _ distill.Service = (*Pipeline)(nil)

// Pipeline runs extraction requests end to end. Extractor and Converter
// are required; the rest are optional capabilities.
type Pipeline struct {
	Extractor distill.Extractor
	Converter distill.Converter

	// Sessions serves render-requested documents. Requests that ask for
	// rendering fail without it.
	Sessions distill.SessionPool

	// Fetcher retrieves URL-only requests that do not need rendering.
	Fetcher distill.Fetcher

	// Cache, when set, short-circuits repeated submissions of an
	// unchanged input.
	Cache distill.ExtractionCache

	// AcquireTimeout bounds the wait for a session from the pool.
	// RenderTimeout bounds a single render attempt. Zero values fall
	// back to DefaultConfig.
	AcquireTimeout time.Duration
	RenderTimeout  time.Duration
}

// Extract validates the request, optionally renders it in a browser
// session, selects the main content region, and converts it to Markdown.
//
// A failed render falls back to static extraction exactly once, when the
// request carries enough input to extract without a browser. If the
// fallback fails too, the original render error is surfaced.
func (p *Pipeline) Extract(ctx context.Context, req distill.Request) (*distill.Extraction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if p.Cache != nil {
		if ex, err := p.Cache.FindExtraction(ctx, key); err == nil {
			return ex, nil
		}
	}

	html := req.HTML
	rendered := false
	var renderErr error

	switch {
	case req.RequiresRender:
		if p.Sessions == nil {
			renderErr = distill.Errorf(distill.ERENDERFAILED, "rendering requested but no session pool is configured")
		} else {
			target := req.URL
			if target == "" {
				target = req.HTML
			}
			out, err := p.render(ctx, target)
			if err == nil {
				html, rendered = out, true
			} else {
				renderErr = err
			}
		}
		if renderErr != nil && html == "" {
			if req.URL == "" || p.Fetcher == nil {
				return nil, renderErr
			}
			out, err := p.Fetcher.Fetch(ctx, req.URL)
			if err != nil {
				return nil, renderErr
			}
			html = out
		}

	case html == "":
		if p.Fetcher == nil {
			return nil, distill.Errorf(distill.EINTERNAL, "url-only request but no fetcher is configured")
		}
		out, err := p.Fetcher.Fetch(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		html = out
	}

	result, err := p.Extractor.Extract(html)
	if err != nil {
		if renderErr != nil {
			return nil, renderErr
		}
		return nil, err
	}

	markdown, err := p.Converter.Convert(result.ContentHTML)
	if err != nil {
		return nil, err
	}
	if markdown == "" {
		return nil, distill.Errorf(distill.ENOCONTENT, "selected region produced no markdown")
	}

	ex := &distill.Extraction{
		Markdown:    markdown,
		Locator:     result.Locator,
		Title:       result.Title,
		ContentHash: contentHash(markdown),
		Status:      distill.StatusSuccess,
		Outline:     distill.Outline(markdown),
		Rendered:    rendered,
	}

	// Degraded results (render failed, static fallback used) are not
	// cached: a later attempt may render successfully.
	if p.Cache != nil && renderErr == nil {
		_ = p.Cache.SaveExtraction(ctx, key, ex)
	}
	return ex, nil
}

// render acquires a session and renders the target. A crashed session is
// terminated and the render retried once on a fresh one; a second crash
// returns ERENDERFAILED. Render timeouts keep the session alive.
func (p *Pipeline) render(ctx context.Context, target string) (string, error) {
	sess, err := p.acquire(ctx)
	if err != nil {
		return "", err
	}

	html, err := p.renderOnce(ctx, sess, target)
	switch {
	case err == nil:
		_ = p.Sessions.Release(sess, true)
		return html, nil
	case distill.ErrorCode(err) == distill.ERENDERTIMEOUT:
		// A hung page is not a crashed browser.
		_ = p.Sessions.Release(sess, true)
		return "", err
	}

	_ = p.Sessions.Release(sess, false)

	sess, aerr := p.acquire(ctx)
	if aerr != nil {
		return "", aerr
	}

	html, rerr := p.renderOnce(ctx, sess, target)
	switch {
	case rerr == nil:
		_ = p.Sessions.Release(sess, true)
		return html, nil
	case distill.ErrorCode(rerr) == distill.ERENDERTIMEOUT:
		_ = p.Sessions.Release(sess, true)
		return "", rerr
	}

	_ = p.Sessions.Release(sess, false)
	return "", distill.Errorf(distill.ERENDERFAILED, "rendering failed after retry: %v", rerr)
}

func (p *Pipeline) acquire(ctx context.Context) (distill.Session, error) {
	timeout := p.AcquireTimeout
	if timeout <= 0 {
		timeout = distill.DefaultConfig().AcquireTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Sessions.Acquire(actx)
}

func (p *Pipeline) renderOnce(ctx context.Context, sess distill.Session, target string) (string, error) {
	timeout := p.RenderTimeout
	if timeout <= 0 {
		timeout = distill.DefaultConfig().RenderTimeout
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := sess.Render(rctx, target)
	if err != nil && rctx.Err() != nil && distill.ErrorCode(err) != distill.ERENDERTIMEOUT {
		return "", distill.Errorf(distill.ERENDERTIMEOUT, "page did not settle before deadline")
	}
	return html, err
}

// cacheKey derives the cache key from every request field that affects
// the result.
func cacheKey(req distill.Request) string {
	h := xxhash.New()
	_, _ = h.WriteString(req.HTML)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(req.URL)
	if req.RequiresRender {
		_, _ = h.Write([]byte{1})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// contentHash computes the xxhash of the markdown, hex encoded.
func contentHash(markdown string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(markdown))
}
