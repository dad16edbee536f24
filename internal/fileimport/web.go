package fileimport

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/streed/litewrite/internal/logger"
)

// PageTimeout bounds a headless browser page load.
const PageTimeout = 30 * time.Second

// contentSelectors are tried in order; the first present element is taken
// as the page body.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".main-content",
	".content",
	".post-content",
	".entry-content",
	"body",
}

// IsURL reports whether source should be fetched over the network.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FetchURL renders pageURL in headless Chrome and converts its main content
// to markdown. A Chrome or Chromium binary must be installed.
func FetchURL(ctx context.Context, pageURL string) (Document, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if isRestrictedEnvironment() {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, PageTimeout)
	defer cancel()

	var title, html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Title(&title),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, selector := range contentSelectors {
				var exists bool
				err := chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q) !== null`, selector), &exists).Do(ctx)
				if err == nil && exists {
					return chromedp.InnerHTML(selector, &html, chromedp.ByQuery).Do(ctx)
				}
			}
			return chromedp.InnerHTML("body", &html, chromedp.ByQuery).Do(ctx)
		}),
	)
	if err != nil {
		return Document{}, fmt.Errorf("failed to load %s: %w", pageURL, err)
	}

	text, err := htmlToMarkdown(html)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	if title != "" {
		text = "# " + title + "\n\n" + text
	}

	logger.Debug("Extracted %d characters from %s", len(text), pageURL)
	return Document{Name: pageURL, Text: text}, nil
}

// Read loads a local path or a web page.
func Read(ctx context.Context, source string) (Document, error) {
	if IsURL(source) {
		return FetchURL(ctx, source)
	}
	return ReadFile(source)
}

// isRestrictedEnvironment detects CI runners and containers, where the Chrome
// sandbox cannot create user namespaces.
func isRestrictedEnvironment() bool {
	for _, env := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	if _, err := os.Stat("/proc/sys/kernel/apparmor_restrict_unprivileged_userns"); err == nil {
		return true
	}
	return false
}
