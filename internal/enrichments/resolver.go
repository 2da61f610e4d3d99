package enrichments

import (
	"context"
	"fmt"
	"strings"

	"download-analytics/internal/models"
)

// PlaceholderName is used when resolution fails or the content unit is
// unknown; it keeps enrichment failures out of the pipeline's error paths.
const PlaceholderName = "Unknown Content"

// DisplayNameResolver maps a raw content-unit identifier to a human-readable
// name. The real lookup lives outside this service; implementations here are
// boundary stand-ins. Failures must never be fatal to callers.
//
//go:generate mockgen -source=resolver.go -destination=./mocks/resolver_mock.go -package=mocks
type DisplayNameResolver interface {
	Resolve(ctx context.Context, contentUnitID string, serviceName string) (string, error)
}

type staticResolver struct{}

// NewStaticResolver returns a resolver that synthesizes a display name from
// the service and content-unit identifier without any external lookup.
func NewStaticResolver() DisplayNameResolver {
	return &staticResolver{}
}

func (r *staticResolver) Resolve(_ context.Context, contentUnitID string, serviceName string) (string, error) {
	if contentUnitID == "" || contentUnitID == models.ContentUnitUnknown {
		return PlaceholderName, nil
	}
	if strings.EqualFold(serviceName, "steam") {
		return fmt.Sprintf("Steam Depot %s", contentUnitID), nil
	}
	return fmt.Sprintf("%s %s", capitalize(serviceName), contentUnitID), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
