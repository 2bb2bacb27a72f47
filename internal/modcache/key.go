package modcache

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
)

const (
	// marketplaceSegment marks packages that came from the remote
	// marketplace; their key is derived from the parent directory so the
	// same listing always maps to the same artifact.
	marketplaceSegment = "marketplace"

	// marketplaceFile is the canonical distribution file name every
	// marketplace package ships under.
	marketplaceFile = "mod.fantome"

	marketplacePrefix = "marketplace_"
)

var nowFunc = time.Now

// ResolveKey derives the stable cache key for a selected package. The key is
// independent of the UI language and of where the package came from: a
// marketplace download, a direct skin download, and a custom upload of the
// same content all resolve to the same identity.
//
// Marketplace packages require both signals at once: the path must contain a
// marketplace segment and the file must be the canonical distribution name.
// A custom upload merely named "marketplace" never takes this branch.
func ResolveKey(sourcePath, displayName string) string {
	slashed := normalizeSeparators(sourcePath)
	base := path.Base(slashed)
	if base == "." || base == "/" {
		base = ""
	}

	var key string
	switch {
	case base == "":
		key = sanitizeStrict(displayName)
	case isMarketplacePath(slashed, base):
		key = marketplaceKey(slashed, displayName)
	default:
		key = packageKey(base)
	}

	if key == "" {
		key = fmt.Sprintf("mod_%d", nowFunc().Unix())
	}
	return key
}

// normalizeSeparators folds Windows separators so selections recorded on one
// platform still resolve on another.
func normalizeSeparators(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func isMarketplacePath(slashed, base string) bool {
	return strings.Contains(strings.ToLower(slashed), marketplaceSegment) &&
		base == marketplaceFile
}

func marketplaceKey(slashed, displayName string) string {
	parent := path.Base(path.Dir(slashed))
	if parent != "" && parent != "." && parent != "/" &&
		!strings.EqualFold(parent, marketplaceSegment) {
		return marketplacePrefix + parent
	}
	return marketplacePrefix + sanitizeStrict(displayName)
}

func packageKey(base string) string {
	name := stripExtensions(base)
	if name == "" {
		return ""
	}

	// Leading digit means the name is already a canonical champion/skin id
	// like "103_103085" and must pass through untouched.
	if unicode.IsDigit(rune(name[0])) {
		return name
	}
	return sanitizeLoose(name)
}

// stripExtensions removes everything from the first dot on, covering both
// single (.fantome) and stacked (.wad.client) extensions.
func stripExtensions(name string) string {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// sanitizeLoose keeps alphanumerics, underscore, hyphen and space, then folds
// spaces into underscores. Used for custom package names where spacing carries
// meaning.
func sanitizeLoose(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), " ", "_")
}

// sanitizeStrict keeps only alphanumerics, underscore and hyphen. Used for
// fallback keys derived from display names.
func sanitizeStrict(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
