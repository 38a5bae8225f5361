package skymodel

import "strings"

// SourceType is the emission model of a component
type SourceType string

const (
	Point    SourceType = "point"
	Gaussian SourceType = "gaussian"
)

// Default units written when the input does not name one
const (
	DefaultFrequencyUnit = "MHz"
	DefaultFluxUnit      = "Jy"
)

// Position is a sky position as written in the input, plus its decimal
// degree equivalent
type Position struct {
	RAStr  string
	DecStr string
	RA     float64
	Dec    float64
}

// Shape describes a gaussian component. Units are whatever the input used.
type Shape struct {
	Major float64
	Minor float64
	PA    float64
}

// SpectralIndex holds the power-law exponent and curvature
type SpectralIndex struct {
	Alpha float64
	Beta  float64
}

// FluxDensity is a Stokes I, Q, U, V quad in a single unit
type FluxDensity struct {
	Unit       string
	I, Q, U, V float64
}

// Measurement is one legacy flux measurement at a reference frequency
type Measurement struct {
	Frequency     float64
	FrequencyUnit string
	Flux          FluxDensity
}

// SED is the spectral energy distribution of a component: a reference flux
// at a reference frequency scaled by a curved power law
type SED struct {
	Frequency     float64
	FrequencyUnit string
	Flux          FluxDensity
	SpectralIndex
}

// NewSED derives an SED from a measurement and a spectral index
func NewSED(m Measurement, spec SpectralIndex) SED {
	return SED{
		Frequency:     m.Frequency,
		FrequencyUnit: m.FrequencyUnit,
		Flux:          m.Flux,
		SpectralIndex: spec,
	}
}

// Component is one emission region of a source
type Component struct {
	Type     SourceType
	Shape    *Shape
	Position Position

	// Legacy spectral description, kept as read
	Measurements []Measurement
	Spectral     *SpectralIndex

	// Resolved spectrum, always set after parsing
	SED SED
}

// Source is a named collection of components
type Source struct {
	Name       string
	Components []*Component
}

// Model is a parsed sky model file
type Model struct {
	// FormatVersion from the "skymodel fileformat" header, empty if absent
	FormatVersion string
	Sources       []*Source

	// Warnings collects non-fatal problems such as unrecognized keywords
	Warnings []error
}

func (t SourceType) String() string {
	return string(t)
}

func normalizeUnit(unit, fallback string) string {
	if strings.TrimSpace(unit) == "" {
		return fallback
	}
	return unit
}
