// Package resolve computes which assets a flow category's endpoints can
// point at. Resolution is a pure function of the preset, an injected asset
// snapshot, and the currently chosen source, so consumers re-resolve
// whenever the asset cache changes.
package resolve

import (
	"networth/internal/models"
	"networth/internal/preset"
)

// Resolution holds candidate and auto-selected assets for both endpoints.
// An endpoint with exactly one candidate is auto-selected and hidden from
// the user; an asset endpoint with zero candidates must be satisfied by
// inline creation.
type Resolution struct {
	FromCandidates []models.Asset
	ToCandidates   []models.Asset
	AutoFrom       *models.Asset
	AutoTo         *models.Asset
}

// Resolve filters the asset snapshot by each endpoint's asset filter.
// chosenFromID is the explicitly selected source asset id, or empty.
func Resolve(p preset.Preset, assets []models.Asset, chosenFromID string) Resolution {
	var res Resolution

	if p.From.Kind == preset.EndpointAsset {
		res.FromCandidates = filter(assets, p.From)
		if len(res.FromCandidates) == 1 && !p.From.UserSelect {
			res.AutoFrom = &res.FromCandidates[0]
		}
	}

	// Effective source: the explicit choice wins over auto-selection.
	from := res.AutoFrom
	if chosenFromID != "" {
		for i := range assets {
			if assets[i].ID == chosenFromID {
				from = &assets[i]
				break
			}
		}
	}

	switch p.To.Kind {
	case preset.EndpointSameAsFrom:
		res.AutoTo = from
	case preset.EndpointAsset:
		candidates := filter(assets, p.To)
		// The destination never offers the chosen source.
		if from != nil {
			trimmed := candidates[:0]
			for _, a := range candidates {
				if a.ID != from.ID {
					trimmed = append(trimmed, a)
				}
			}
			candidates = trimmed
		}
		res.ToCandidates = candidates
		if len(candidates) == 1 && !p.To.UserSelect {
			res.AutoTo = &res.ToCandidates[0]
		}
	}

	return res
}

func filter(assets []models.Asset, e preset.Endpoint) []models.Asset {
	var out []models.Asset
	for _, a := range assets {
		if a.IsActive && e.Allows(a.Type) {
			out = append(out, a)
		}
	}
	return out
}
