package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/preset"
)

// PresetHandler serves the static category registry so clients can render
// the flow form without duplicating endpoint semantics.
type PresetHandler struct{}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler() *PresetHandler {
	return &PresetHandler{}
}

// EndpointResponse describes one side of a flow category.
type EndpointResponse struct {
	Kind        string             `json:"kind"`
	Editable    bool               `json:"editable,omitempty"`
	DefaultName string             `json:"default_name,omitempty"`
	Filter      []models.AssetType `json:"filter,omitempty"`
	AllowCreate bool               `json:"allow_create,omitempty"`
	UserSelect  bool               `json:"user_select,omitempty"`
}

// PresetResponse describes a flow category preset.
type PresetResponse struct {
	Category     string           `json:"category"`
	FlowType     models.FlowType  `json:"flow_type"`
	Label        string           `json:"label"`
	From         EndpointResponse `json:"from"`
	To           EndpointResponse `json:"to"`
	RequiresDebt bool             `json:"requires_debt,omitempty"`

	Shares         bool `json:"shares,omitempty"`
	PricePerShare  bool `json:"price_per_share,omitempty"`
	Ticker         bool `json:"ticker,omitempty"`
	TaxRate        bool `json:"tax_rate,omitempty"`
	Frequency      bool `json:"frequency,omitempty"`
	InvestmentType bool `json:"investment_type,omitempty"`
}

func endpointResponse(e preset.Endpoint) EndpointResponse {
	return EndpointResponse{
		Kind:        string(e.Kind),
		Editable:    e.Editable,
		DefaultName: e.DefaultName,
		Filter:      e.Filter,
		AllowCreate: e.AllowCreate,
		UserSelect:  e.UserSelect,
	}
}

func presetResponse(p preset.Preset) PresetResponse {
	return PresetResponse{
		Category:       p.Category,
		FlowType:       p.FlowType,
		Label:          p.Label,
		From:           endpointResponse(p.From),
		To:             endpointResponse(p.To),
		RequiresDebt:   p.RequiresDebt,
		Shares:         p.Extra.Shares,
		PricePerShare:  p.Extra.PricePerShare,
		Ticker:         p.Extra.Ticker,
		TaxRate:        p.Extra.TaxRate,
		Frequency:      p.Extra.Frequency,
		InvestmentType: p.Extra.InvestmentType,
	}
}

// ListPresets handles listing every flow category preset.
func (h *PresetHandler) ListPresets(c *gin.Context) {
	categories := preset.Categories()
	sort.Strings(categories)

	presets := make([]PresetResponse, 0, len(categories))
	for _, id := range categories {
		presets = append(presets, presetResponse(preset.For(id)))
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// GetPreset handles retrieving the preset for one category.
func (h *PresetHandler) GetPreset(c *gin.Context) {
	category := c.Param("category")
	if !preset.Valid(category) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnknownCategory, "Unknown flow category: "+category))
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": presetResponse(preset.For(category))})
}
