// Package icons discovers favicon files in a user-supplied folder and
// classifies them into the replacement set applied to the dashboard.
package icons

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// LocalPrefix is the public URL prefix that user-supplied icon folders
// must live under. It maps to the configured www directory on disk.
const LocalPrefix = "/local/"

var (
	reApple = regexp.MustCompile(`^favicon-apple-`)
	reSized = regexp.MustCompile(`^favicon-(\d+x\d+)\..+`)
)

// ManifestIcon is one entry of the web-app manifest "icons" list.
type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// IconSet is the result of scanning one icon folder. Zero-value fields
// mean the corresponding icon was not found.
type IconSet struct {
	// Favicon is the asset path of a file literally named favicon.ico.
	Favicon string
	// AppleIcon is the asset path of a favicon-apple-* touch icon.
	AppleIcon string
	// ManifestIcons lists all favicon-<W>x<H>.<ext> files in filename
	// order. The declared type is always image/png regardless of the
	// actual extension, matching what dashboards expect.
	ManifestIcons []ManifestIcon
}

// Empty reports whether the scan found nothing.
func (s IconSet) Empty() bool {
	return s.Favicon == "" && s.AppleIcon == "" && len(s.ManifestIcons) == 0
}

// ConfigError reports a missing or malformed icon folder path. Callers
// log it and proceed with an empty IconSet.
type ConfigError struct {
	Path string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid icon path: %q (must start with %q)", e.Path, LocalPrefix)
}

// LookupError reports a failed directory enumeration. Callers treat it
// identically to "no icons found".
type LookupError struct {
	Dir string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("listing icon folder %s: %v", e.Dir, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Locate scans the folder behind iconPath for icon files. iconPath is a
// web-facing path that must start with LocalPrefix; it is resolved to a
// directory under wwwDir and its immediate entries are classified. The
// returned asset paths keep the web-facing prefix so they stay valid as
// URLs.
//
// Entries come back in sorted filename order (os.ReadDir sorts), so the
// winner among multiple matches is deterministic: the last in sort order.
// A scan failure returns an empty IconSet alongside the error.
func Locate(wwwDir, iconPath string) (IconSet, error) {
	var set IconSet

	if iconPath == "" || !strings.HasPrefix(iconPath, LocalPrefix) {
		return set, &ConfigError{Path: iconPath}
	}

	dir := filepath.Join(wwwDir, strings.TrimPrefix(iconPath, LocalPrefix))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return set, &LookupError{Dir: dir, Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		src := path.Join(iconPath, name)

		if name == "favicon.ico" {
			set.Favicon = src
		}

		if reApple.MatchString(name) {
			set.AppleIcon = src
		}

		if m := reSized.FindStringSubmatch(name); m != nil {
			set.ManifestIcons = append(set.ManifestIcons, ManifestIcon{
				Src:   src,
				Sizes: m[1],
				Type:  "image/png",
			})
		}
	}

	return set, nil
}
