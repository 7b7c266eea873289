package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// domStableWindow is how long the DOM must stay unchanged before a render
// is considered settled.
const domStableWindow = 300 * time.Millisecond

// renderer is the pool's view of one live browser session. The seam exists
// so pool semantics can be tested without launching Chrome.
type renderer interface {
	render(ctx context.Context, target string) (string, error)
	close() error
}

// launchFunc starts a new renderer. The pool calls it lazily, only when a
// caller needs a session and none is idle.
type launchFunc func() (renderer, error)

// browserSession is a renderer backed by a dedicated headless Chrome
// process. One process per session keeps crashes isolated: a dead session
// never takes a neighbor's render down with it.
type browserSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// launchBrowserSession starts a headless Chrome process with stability
// flags and connects to it.
func launchBrowserSession() (renderer, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &browserSession{browser: browser, launcher: lnchr}, nil
}

// render loads the target in a fresh page, waits for the DOM to settle,
// and returns the serialized document.
func (s *browserSession) render(ctx context.Context, target string) (string, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", renderErr(ctx, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if isURL(target) {
		if err := page.Navigate(target); err != nil {
			return "", renderErr(ctx, err)
		}
	} else {
		if err := page.SetDocumentContent(target); err != nil {
			return "", renderErr(ctx, err)
		}
	}

	if err := page.WaitLoad(); err != nil {
		return "", renderErr(ctx, err)
	}
	if err := page.WaitDOMStable(domStableWindow, 0); err != nil {
		return "", renderErr(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", renderErr(ctx, err)
	}
	return html, nil
}

func (s *browserSession) close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// renderErr maps context expiry to ERENDERTIMEOUT; any other failure is
// passed through for the caller to classify.
func renderErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return distill.Errorf(distill.ERENDERTIMEOUT, "page did not settle before deadline")
	}
	return err
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
