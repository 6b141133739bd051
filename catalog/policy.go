package catalog

import (
	"fmt"
	"strings"
)

// FallbackPolicy decides when the sample roster replaces store data.
type FallbackPolicy string

const (
	// FallbackAlways serves the sample roster when the store is empty or unreachable.
	FallbackAlways FallbackPolicy = "always"
	// FallbackEmptyOnly serves it only for an empty store; outages surface as errors.
	FallbackEmptyOnly FallbackPolicy = "empty-only"
	// FallbackNever never serves sample data.
	FallbackNever FallbackPolicy = "never"
)

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch p := FallbackPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FallbackAlways, nil
	case FallbackAlways, FallbackEmptyOnly, FallbackNever:
		return p, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q", s)
	}
}

func (p FallbackPolicy) onEmpty() bool {
	return p == FallbackAlways || p == FallbackEmptyOnly
}

func (p FallbackPolicy) onUnavailable() bool {
	return p == FallbackAlways
}
