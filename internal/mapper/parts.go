package mapper

import (
	"context"
	"slices"
	"strings"
)

// productParts splits the path below the virtual root into the trailing
// product segments: [sku] for a product, [sku, variantSku] for a variant.
//
// The walk runs from the last segment backwards. After removing a segment
// the remaining prefix is tested against the snapshot's category paths; the
// first hit wins, so the longest possible suffix of segments is treated as
// product parts. The empty prefix is the catalog root and always matches,
// which guarantees termination. The snapshot reference is taken once, so a
// concurrent refresh cannot produce a partial view mid-walk.
func (m *Mapper) productParts(ctx context.Context, path string) []string {
	snapshot := m.snapshot(ctx)
	if snapshot == nil {
		return nil
	}

	subPath := m.subPath(path)
	segments := strings.Split(subPath, "/")

	parts := make([]string, 0, len(segments))
	cut := len(subPath)
	for i := len(segments) - 1; i >= 0; i-- {
		parts = append(parts, segments[i])
		cut -= len(segments[i]) + 1

		prefix := ""
		if cut > 0 {
			prefix = subPath[:cut]
		}
		if snapshot.HasPath(prefix) {
			break
		}
	}

	slices.Reverse(parts)
	return parts
}
