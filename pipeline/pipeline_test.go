package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/mock"
	"github.com/fwojciec/distill/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Pipeline implements distill.Service at compile time.
var _ distill.Service = (*pipeline.Pipeline)(nil)

func staticPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*distill.ExtractResult, error) {
				return &distill.ExtractResult{
					Title:       "Title",
					ContentHTML: "<article><p>Body</p></article>",
					Locator:     distill.Locator{Steps: []distill.Step{{Tag: "html", Index: 1}, {Tag: "body", Index: 1}, {Tag: "article", Index: 1}}},
				}, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "Body", nil
			},
		},
	}
}

func TestPipeline_StaticExtraction(t *testing.T) {
	t.Parallel()

	p := staticPipeline()

	ex, err := p.Extract(context.Background(), distill.Request{HTML: "<html><body><article><p>Body</p></article></body></html>"})

	require.NoError(t, err)
	assert.Equal(t, "Body", ex.Markdown)
	assert.Equal(t, "Title", ex.Title)
	assert.Equal(t, "/html[1]/body[1]/article[1]", ex.Locator.String())
	assert.Len(t, ex.ContentHash, 16)
	assert.Equal(t, distill.StatusSuccess, ex.Status)
	assert.False(t, ex.Rendered)
}

func TestPipeline_ContentHashIsDeterministic(t *testing.T) {
	t.Parallel()

	p := staticPipeline()

	a, err := p.Extract(context.Background(), distill.Request{HTML: "<p>x</p>"})
	require.NoError(t, err)
	b, err := p.Extract(context.Background(), distill.Request{HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash)
}

func TestPipeline_RejectsEmptyRequest(t *testing.T) {
	t.Parallel()

	p := staticPipeline()

	_, err := p.Extract(context.Background(), distill.Request{})

	require.Error(t, err)
	assert.Equal(t, distill.EMALFORMED, distill.ErrorCode(err))
}

func TestPipeline_RendersWhenRequested(t *testing.T) {
	t.Parallel()

	var extracted string
	var released []bool

	p := staticPipeline()
	p.Extractor = &mock.Extractor{
		ExtractFn: func(html string) (*distill.ExtractResult, error) {
			extracted = html
			return &distill.ExtractResult{ContentHTML: "<p>Body</p>"}, nil
		},
	}
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return &mock.Session{
				RenderFn: func(ctx context.Context, target string) (string, error) {
					return "<html><body>settled</body></html>", nil
				},
			}, nil
		},
		ReleaseFn: func(s distill.Session, healthy bool) error {
			released = append(released, healthy)
			return nil
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{URL: "https://example.com", RequiresRender: true})

	require.NoError(t, err)
	assert.True(t, ex.Rendered)
	assert.Equal(t, "<html><body>settled</body></html>", extracted)
	assert.Equal(t, []bool{true}, released)
}

func TestPipeline_RetriesOnceAfterCrash(t *testing.T) {
	t.Parallel()

	var acquires int
	var released []bool

	p := staticPipeline()
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			acquires++
			crashed := acquires == 1
			return &mock.Session{
				RenderFn: func(ctx context.Context, target string) (string, error) {
					if crashed {
						return "", errors.New("browser connection lost")
					}
					return "<html>ok</html>", nil
				},
			}, nil
		},
		ReleaseFn: func(s distill.Session, healthy bool) error {
			released = append(released, healthy)
			return nil
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{URL: "https://example.com", RequiresRender: true})

	require.NoError(t, err)
	assert.True(t, ex.Rendered)
	assert.Equal(t, 2, acquires)
	// The crashed session is terminated, the replacement returned healthy.
	assert.Equal(t, []bool{false, true}, released)
}

func TestPipeline_SecondCrashIsRenderFailed(t *testing.T) {
	t.Parallel()

	p := staticPipeline()
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return &mock.Session{
				RenderFn: func(ctx context.Context, target string) (string, error) {
					return "", errors.New("browser connection lost")
				},
			}, nil
		},
		ReleaseFn: func(s distill.Session, healthy bool) error { return nil },
	}

	_, err := p.Extract(context.Background(), distill.Request{URL: "https://example.com", RequiresRender: true})

	require.Error(t, err)
	assert.Equal(t, distill.ERENDERFAILED, distill.ErrorCode(err))
}

func TestPipeline_RenderTimeoutKeepsSession(t *testing.T) {
	t.Parallel()

	var released []bool

	p := staticPipeline()
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return &mock.Session{
				RenderFn: func(ctx context.Context, target string) (string, error) {
					return "", distill.Errorf(distill.ERENDERTIMEOUT, "page did not settle before deadline")
				},
			}, nil
		},
		ReleaseFn: func(s distill.Session, healthy bool) error {
			released = append(released, healthy)
			return nil
		},
	}

	_, err := p.Extract(context.Background(), distill.Request{URL: "https://example.com", RequiresRender: true})

	require.Error(t, err)
	assert.Equal(t, distill.ERENDERTIMEOUT, distill.ErrorCode(err))
	// A timed-out page is not a crash: no retry, session stays alive.
	assert.Equal(t, []bool{true}, released)
}

func TestPipeline_FallsBackToStaticAfterRenderFailure(t *testing.T) {
	t.Parallel()

	var extracted string

	p := staticPipeline()
	p.Extractor = &mock.Extractor{
		ExtractFn: func(html string) (*distill.ExtractResult, error) {
			extracted = html
			return &distill.ExtractResult{ContentHTML: "<p>Body</p>"}, nil
		},
	}
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return nil, distill.Errorf(distill.EPOOLTIMEOUT, "no session available before deadline")
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{HTML: "<html>static</html>", RequiresRender: true})

	require.NoError(t, err)
	assert.False(t, ex.Rendered)
	assert.Equal(t, "<html>static</html>", extracted)
}

func TestPipeline_SurfacesRenderErrorWhenFallbackFails(t *testing.T) {
	t.Parallel()

	p := staticPipeline()
	p.Extractor = &mock.Extractor{
		ExtractFn: func(html string) (*distill.ExtractResult, error) {
			return nil, distill.Errorf(distill.ENOCONTENT, "no main content found")
		},
	}
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return nil, distill.Errorf(distill.EPOOLTIMEOUT, "no session available before deadline")
		},
	}

	_, err := p.Extract(context.Background(), distill.Request{HTML: "<html>static</html>", RequiresRender: true})

	require.Error(t, err)
	// The original render failure wins over the fallback's failure.
	assert.Equal(t, distill.EPOOLTIMEOUT, distill.ErrorCode(err))
}

func TestPipeline_RenderFailureWithoutFallbackInput(t *testing.T) {
	t.Parallel()

	p := staticPipeline()
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return nil, distill.Errorf(distill.EPOOLTIMEOUT, "no session available before deadline")
		},
	}

	_, err := p.Extract(context.Background(), distill.Request{URL: "https://example.com", RequiresRender: true})

	require.Error(t, err)
	assert.Equal(t, distill.EPOOLTIMEOUT, distill.ErrorCode(err))
}

func TestPipeline_FetchesURLOnlyRequests(t *testing.T) {
	t.Parallel()

	var fetchedURL string

	p := staticPipeline()
	p.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			fetchedURL = url
			return "<html><body><p>fetched</p></body></html>", nil
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{URL: "https://example.com/page"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", fetchedURL)
	assert.False(t, ex.Rendered)
}

func TestPipeline_CacheHitSkipsExtraction(t *testing.T) {
	t.Parallel()

	cached := &distill.Extraction{Markdown: "cached", Status: distill.StatusSuccess}

	p := staticPipeline()
	p.Extractor = &mock.Extractor{
		ExtractFn: func(html string) (*distill.ExtractResult, error) {
			t.Error("extractor must not run on a cache hit")
			return nil, nil
		},
	}
	p.Cache = &mock.ExtractionCache{
		FindExtractionFn: func(ctx context.Context, key string) (*distill.Extraction, error) {
			return cached, nil
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{HTML: "<p>x</p>"})

	require.NoError(t, err)
	assert.Same(t, cached, ex)
}

func TestPipeline_SavesSuccessfulExtractions(t *testing.T) {
	t.Parallel()

	var savedKey string
	var saved *distill.Extraction

	p := staticPipeline()
	p.Cache = &mock.ExtractionCache{
		FindExtractionFn: func(ctx context.Context, key string) (*distill.Extraction, error) {
			return nil, distill.Errorf(distill.ENOTFOUND, "extraction not found")
		},
		SaveExtractionFn: func(ctx context.Context, key string, ex *distill.Extraction) error {
			savedKey, saved = key, ex
			return nil
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{HTML: "<p>x</p>"})

	require.NoError(t, err)
	assert.NotEmpty(t, savedKey)
	assert.Same(t, ex, saved)
}

func TestPipeline_DoesNotCacheDegradedResults(t *testing.T) {
	t.Parallel()

	p := staticPipeline()
	p.Sessions = &mock.SessionPool{
		AcquireFn: func(ctx context.Context) (distill.Session, error) {
			return nil, distill.Errorf(distill.EPOOLTIMEOUT, "no session available before deadline")
		},
	}
	p.Cache = &mock.ExtractionCache{
		FindExtractionFn: func(ctx context.Context, key string) (*distill.Extraction, error) {
			return nil, distill.Errorf(distill.ENOTFOUND, "extraction not found")
		},
		SaveExtractionFn: func(ctx context.Context, key string, ex *distill.Extraction) error {
			t.Error("degraded fallback result must not be cached")
			return nil
		},
	}

	ex, err := p.Extract(context.Background(), distill.Request{HTML: "<html>static</html>", RequiresRender: true})

	require.NoError(t, err)
	assert.False(t, ex.Rendered)
}
