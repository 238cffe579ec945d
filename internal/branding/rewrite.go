// Package branding rewrites the dashboard's rendered index document and
// web-app manifest with user-supplied favicon, title, and accent-color
// overrides.
package branding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Snuffy2/hass-favicon/internal/icons"
)

// Stock values in the index document that overrides replace.
const (
	stockFavicon   = "/static/icons/favicon.ico"
	stockAppleIcon = "/static/icons/favicon-apple-180x180.png"
	stockTitleTag  = "<title>Home Assistant</title>"
)

var (
	// The existing color values are theme-dependent, so these match any
	// 6-hex-digit color rather than a fixed constant.
	reMaskIconColor = regexp.MustCompile(`(<link rel="mask-icon"[^>]*color=")#[0-9A-Fa-f]{6}(")`)
	reLogoPathFill  = regexp.MustCompile(`(<path fill=")#[0-9A-Fa-f]{6}(" )`)
)

// Config holds the user-supplied overrides. All fields are optional; an
// empty value leaves the corresponding part of the document untouched.
type Config struct {
	Title       string
	AccentColor string
	IconFolder  string
}

// Rewriter transforms a rendered index document. It closes over
// immutable data captured at construction, so a single instance is safe
// for concurrent use by many request handlers.
type Rewriter struct {
	icons       icons.IconSet
	title       string
	accentColor string
}

// NewRewriter builds a rewriter from a discovered icon set and the
// user's overrides.
func NewRewriter(set icons.IconSet, cfg Config) *Rewriter {
	return &Rewriter{
		icons:       set,
		title:       cfg.Title,
		accentColor: cfg.AccentColor,
	}
}

// Apply performs the substitutions in fixed order: favicon, apple touch
// icon, title (tag swap plus client-side shim), accent color. Each step
// operates on the output of the previous one.
func (r *Rewriter) Apply(text string) string {
	if r.icons.Favicon != "" {
		text = strings.ReplaceAll(text, stockFavicon, r.icons.Favicon)
	}

	if r.icons.AppleIcon != "" {
		text = strings.ReplaceAll(text, stockAppleIcon, r.icons.AppleIcon)
	}

	if r.title != "" {
		text = strings.ReplaceAll(text, stockTitleTag, "<title>"+r.title+"</title>")
		text = injectTitleShim(text, r.title)
	}

	if r.accentColor != "" {
		text = reMaskIconColor.ReplaceAllString(text, "${1}"+r.accentColor+"${2}")
		text = replaceFirst(reLogoPathFill, text, "${1}"+r.accentColor+"${2}")
	}

	return text
}

// titleShim is the client-side compatibility script injected after the
// first <body> tag when a title override is set. The sidebar header and
// the document title are owned by front-end custom elements that rewrite
// themselves after load, so they have to be patched in the browser.
const titleShim = `
<script type="module">
    customElements.whenDefined('ha-sidebar').then(() => {
        const Sidebar = customElements.get('ha-sidebar');
        const updated = Sidebar.prototype.updated;
        Sidebar.prototype.updated = function(changedProperties) {
            updated.bind(this)(changedProperties);
            this.shadowRoot.querySelector(".title").innerHTML = %[1]q;
        };
    });

    window.setInterval(() => {
        if (!document.title.endsWith("- %[1]s") && document.title !== %[1]q) {
            document.title = document.title.replace(/Home Assistant/, %[1]q);
        }
    }, 1000);
</script>`

func injectTitleShim(text, title string) string {
	const body = "<body>"
	i := strings.Index(text, body)
	if i < 0 {
		return text
	}
	shim := fmt.Sprintf(titleShim, title)
	return text[:i+len(body)] + shim + text[i+len(body):]
}

// replaceFirst applies a regexp substitution to the first match only.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + re.ReplaceAllString(s[loc[0]:loc[1]], repl) + s[loc[1]:]
}
