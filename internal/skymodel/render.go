package skymodel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msto63/skymodel/internal/coords"
)

const indent = "  "

// String renders the source in canonical brace-text form
func (s *Source) String() string {
	var sb strings.Builder
	sb.WriteString("source {\n")
	fmt.Fprintf(&sb, "%sname \"%s\"\n", indent, s.Name)
	for _, c := range s.Components {
		writeIndented(&sb, c.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// String renders the component. Spectral data is always written as a
// single sed block; shape is written for gaussian components only.
func (c *Component) String() string {
	var sb strings.Builder
	sb.WriteString("component {\n")
	fmt.Fprintf(&sb, "%stype %s\n", indent, c.Type)
	if c.Type == Gaussian && c.Shape != nil {
		fmt.Fprintf(&sb, "%sshape %s %s %s\n", indent,
			formatFloat(c.Shape.Major), formatFloat(c.Shape.Minor), formatFloat(c.Shape.PA))
	}
	fmt.Fprintf(&sb, "%sposition %s\n", indent, c.Position)
	writeIndented(&sb, c.SED.String())
	sb.WriteString("}")
	return sb.String()
}

// String renders the position as written in the input, falling back to
// colon sexagesimal when the component was built in code
func (p Position) String() string {
	ra, dec := p.RAStr, p.DecStr
	if ra == "" {
		ra = coords.FormatRAColon(p.RA)
	}
	if dec == "" {
		dec = coords.FormatDecColon(p.Dec)
	}
	return ra + " " + dec
}

// String renders the SED block, injecting default units where none is set
func (s SED) String() string {
	var sb strings.Builder
	sb.WriteString("sed {\n")
	fmt.Fprintf(&sb, "%sfrequency %s %s\n", indent,
		formatFloat(s.Frequency), normalizeUnit(s.FrequencyUnit, DefaultFrequencyUnit))
	fmt.Fprintf(&sb, "%sfluxdensity %s\n", indent, s.Flux)
	fmt.Fprintf(&sb, "%sspectral-index { %s %s }\n", indent, formatFloat(s.Alpha), formatFloat(s.Beta))
	sb.WriteString("}")
	return sb.String()
}

func (f FluxDensity) String() string {
	return strings.Join([]string{
		normalizeUnit(f.Unit, DefaultFluxUnit),
		formatFloat(f.I), formatFloat(f.Q), formatFloat(f.U), formatFloat(f.V),
	}, " ")
}

// Render writes the model: the format header if known, then each source
// separated by a blank line
func (m *Model) Render(w io.Writer) error {
	if m.FormatVersion != "" {
		if _, err := fmt.Fprintf(w, "skymodel fileformat %s\n", m.FormatVersion); err != nil {
			return err
		}
	}
	for _, s := range m.Sources {
		if _, err := fmt.Fprintf(w, "%s\n\n", s); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) String() string {
	var sb strings.Builder
	_ = m.Render(&sb)
	return sb.String()
}

func writeIndented(sb *strings.Builder, block string) {
	for _, line := range strings.Split(block, "\n") {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// formatFloat uses the shortest representation that parses back to the
// same value
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
