package skymodel

import (
	"strconv"
	"strings"

	"github.com/msto63/skymodel/internal/coords"
	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// ParseName strips every quote character from a name value
func ParseName(s string) string {
	return strings.NewReplacer(`"`, "", "'", "").Replace(s)
}

// ParseSourceType maps any string to Gaussian or Point. Only a case
// insensitive "gaussian" selects Gaussian.
func ParseSourceType(s string) SourceType {
	if strings.EqualFold(strings.TrimSpace(s), string(Gaussian)) {
		return Gaussian
	}
	return Point
}

// ParsePosition parses "<ra> <dec>" and converts both to degrees
func ParsePosition(s string) (Position, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Position{}, formatError("position", s, "expected <ra> <dec>")
	}

	ra, err := coords.ParseRA(fields[0])
	if err != nil {
		return Position{}, skyerr.Wrap(err, "position").WithCode(skyerr.CodeFormat)
	}
	dec, err := coords.ParseDec(fields[1])
	if err != nil {
		return Position{}, skyerr.Wrap(err, "position").WithCode(skyerr.CodeFormat)
	}

	return Position{RAStr: fields[0], DecStr: fields[1], RA: ra, Dec: dec}, nil
}

// ParseShape parses "<major> <minor> <pa>"
func ParseShape(s string) (Shape, error) {
	v, err := parseFloats("shape", s, 3)
	if err != nil {
		return Shape{}, err
	}
	return Shape{Major: v[0], Minor: v[1], PA: v[2]}, nil
}

// ParseSpectralIndex parses the alpha and beta terms. An empty beta is 0.
func ParseSpectralIndex(alpha, beta string) (SpectralIndex, error) {
	a, err := parseFloat("alpha", alpha)
	if err != nil {
		return SpectralIndex{}, err
	}
	var b float64
	if strings.TrimSpace(beta) != "" {
		if b, err = parseFloat("beta", beta); err != nil {
			return SpectralIndex{}, err
		}
	}
	return SpectralIndex{Alpha: a, Beta: b}, nil
}

// parseSpectralPair parses the "{ <alpha> <beta> }" form used inside sed
func parseSpectralPair(s string) (SpectralIndex, error) {
	inner := strings.TrimSpace(s)
	if !strings.HasPrefix(inner, "{") || !strings.HasSuffix(inner, "}") {
		return SpectralIndex{}, formatError("spectral-index", s, "expected { <alpha> <beta> }")
	}
	v, err := parseFloats("spectral-index", inner[1:len(inner)-1], 2)
	if err != nil {
		return SpectralIndex{}, err
	}
	return SpectralIndex{Alpha: v[0], Beta: v[1]}, nil
}

// ParseFrequency parses "<value> [unit]". The unit defaults to MHz.
func ParseFrequency(s string) (float64, string, error) {
	fields := strings.Fields(s)
	if len(fields) < 1 || len(fields) > 2 {
		return 0, "", formatError("frequency", s, "expected <value> <unit>")
	}
	v, err := parseFloat("frequency", fields[0])
	if err != nil {
		return 0, "", err
	}
	unit := DefaultFrequencyUnit
	if len(fields) == 2 {
		unit = fields[1]
	}
	return v, unit, nil
}

// ParseFluxDensity parses "<unit> <I> <Q> <U> <V>"
func ParseFluxDensity(s string) (FluxDensity, error) {
	fields := strings.Fields(s)
	if len(fields) != 5 {
		return FluxDensity{}, formatError("fluxdensity", s, "expected <unit> <I> <Q> <U> <V>")
	}
	v, err := parseFloats("fluxdensity", strings.Join(fields[1:], " "), 4)
	if err != nil {
		return FluxDensity{}, err
	}
	return FluxDensity{Unit: fields[0], I: v[0], Q: v[1], U: v[2], V: v[3]}, nil
}

// ParseMeasurement parses the frequency and fluxdensity values of a
// legacy measurement
func ParseMeasurement(freq, flux string) (Measurement, error) {
	f, unit, err := ParseFrequency(freq)
	if err != nil {
		return Measurement{}, err
	}
	fd, err := ParseFluxDensity(flux)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Frequency: f, FrequencyUnit: unit, Flux: fd}, nil
}

func parseFloats(field, s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, formatError(field, s, "expected "+strconv.Itoa(n)+" values")
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := parseFloat(field, f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, formatError(field, s, "not a number")
	}
	return v, nil
}

func formatError(field, value, reason string) error {
	return skyerr.Newf("malformed %s %q: %s", field, value, reason).
		WithCode(skyerr.CodeFormat).
		WithDetail("field", field)
}
