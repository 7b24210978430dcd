// Package collect implements the three-stage snapshot crawl: ranked players,
// their matches, and their mastery records.
package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbonville/mastery-lab/internal/ddragon"
)

// versionSource is the slice of Data Dragon the collectors need.
type versionSource interface {
	Versions(ctx context.Context) ([]string, error)
}

// ResolvePatches maps a patch mode to the set of patch labels a match must
// carry to be stored. Modes are "current" (the newest patch only), "last3"
// (the newest three) and "season" (every patch of one season's major
// version).
func ResolvePatches(ctx context.Context, dd versionSource, mode string, season int) ([]string, error) {
	versions, err := dd.Versions(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve patches: %w", err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("resolve patches: no versions published")
	}

	// versions.json lists full versions newest first; reduce to unique
	// major.minor labels preserving order.
	var patches []string
	seen := map[string]bool{}
	for _, v := range versions {
		p := ddragon.PatchPrefix(v)
		if !seen[p] {
			seen[p] = true
			patches = append(patches, p)
		}
	}

	switch mode {
	case "current":
		return patches[:1], nil
	case "last3":
		if len(patches) > 3 {
			patches = patches[:3]
		}
		return patches, nil
	case "season":
		prefix := fmt.Sprintf("%d.", season)
		var out []string
		for _, p := range patches {
			if strings.HasPrefix(p, prefix) {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("resolve patches: no patches for season %d", season)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("resolve patches: unknown mode %q", mode)
	}
}

// patchSet is a membership test over the allowed patch labels.
type patchSet map[string]bool

func newPatchSet(patches []string) patchSet {
	s := make(patchSet, len(patches))
	for _, p := range patches {
		s[p] = true
	}
	return s
}

func (s patchSet) contains(patch string) bool { return s[patch] }
