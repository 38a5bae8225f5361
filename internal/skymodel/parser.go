// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     skymodel
// Description: Recursive descent builders for sources, components and SEDs
// License:     MIT
// ============================================================================

package skymodel

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
	"github.com/msto63/skymodel/pkg/core/logging"
)

// maxLineLength bounds a single input line
const maxLineLength = 1 << 20

// Parser builds sky model entities from text. A Parser holds no per-parse
// state and may be reused.
type Parser struct {
	logger *log.Logger
}

// Options configures parser behavior
type Options struct {
	// Logger receives debug tracing and unrecognized keyword warnings.
	// Nil discards everything.
	Logger *log.Logger
}

// New creates a new sky model parser with the given options
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Parser{logger: logger.With("component", "skymodel-parser")}
}

// ParseSource builds a Source from the lines of one source block. The lines
// may start with the "source {" opener, in which case the block must be
// closed; otherwise they are taken as the block body.
func ParseSource(lines []string) (*Source, error) {
	return New(Options{}).ParseSource(lines)
}

// ParseModel reads a complete sky model file
func ParseModel(r io.Reader) (*Model, error) {
	return New(Options{}).ParseModel(r)
}

// ParseSource builds a Source from the lines of one source block
func (p *Parser) ParseSource(lines []string) (*Source, error) {
	b := p.newBuilder()
	c := NewCursor(lines)

	first, ok := c.Peek()
	for ok && first.Text == "" {
		c.Next()
		first, ok = c.Peek()
	}
	if !ok {
		return nil, skyerr.New("empty source").WithCode(skyerr.CodeMissingField).WithDetail("field", "name")
	}

	if key, _ := splitKeyword(first.Text); match(key, modelStems) == kwSource && opensBlock(first.Text) {
		c.Next()
		body, err := collectBlock(c, first)
		if err != nil {
			return nil, err
		}
		return b.source(first, newCursorOver(body))
	}
	return b.source(first, c)
}

// ParseModel reads a complete sky model file: an optional
// "skymodel fileformat" header followed by source blocks
func (p *Parser) ParseModel(r io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, skyerr.Wrap(err, "reading sky model").WithCode(skyerr.CodeIO)
	}
	return p.ParseModelLines(lines)
}

// ParseModelLines is ParseModel over lines already in memory
func (p *Parser) ParseModelLines(lines []string) (*Model, error) {
	b := p.newBuilder()
	m, err := b.model(NewCursor(lines))
	if err != nil {
		p.logger.Warn("sky model parsing failed", logging.ErrorFields(err)...)
		return nil, err
	}
	p.logger.Debug("sky model parsed", "sources", len(m.Sources), "warnings", len(m.Warnings))
	return m, nil
}

// builder carries the state of a single parse call
type builder struct {
	logger   *log.Logger
	warnings []error
}

func (p *Parser) newBuilder() *builder {
	return &builder{logger: p.logger}
}

func (b *builder) model(c *Cursor) (*Model, error) {
	m := &Model{}
	for {
		line, ok := c.Next()
		if !ok {
			break
		}
		if line.Text == "" {
			continue
		}

		key, value := splitKeyword(line.Text)
		switch {
		case key == "skymodel":
			fields := strings.Fields(value)
			if len(fields) == 2 && fields[0] == "fileformat" {
				m.FormatVersion = fields[1]
				continue
			}
			if err := b.unrecognized(c, line, key, "model"); err != nil {
				return nil, err
			}
		case match(key, modelStems) == kwSource && opensBlock(line.Text):
			body, err := collectBlock(c, line)
			if err != nil {
				return nil, err
			}
			src, err := b.source(line, newCursorOver(body))
			if err != nil {
				return nil, err
			}
			m.Sources = append(m.Sources, src)
		default:
			if err := b.unrecognized(c, line, key, "model"); err != nil {
				return nil, err
			}
		}
	}
	m.Warnings = b.warnings
	return m, nil
}

func (b *builder) source(open Line, c *Cursor) (*Source, error) {
	src := &Source{}
	haveName := false

	err := b.scope(c, "source", func(line Line, key, value string) error {
		switch match(key, sourceStems) {
		case kwName:
			src.Name = ParseName(value)
			haveName = true
		case kwComponent:
			body, err := b.block(c, line)
			if err != nil {
				return err
			}
			comp, err := b.component(line, newCursorOver(body))
			if err != nil {
				return err
			}
			src.Components = append(src.Components, comp)
		default:
			return b.unrecognized(c, line, key, "source")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !haveName {
		return nil, missingField(open, "name", "source has no name")
	}
	b.logger.Debug("source built", "name", src.Name, "components", len(src.Components))
	return src, nil
}

func (b *builder) component(open Line, c *Cursor) (*Component, error) {
	comp := &Component{Type: Point}
	haveSED, havePosition := false, false

	err := b.scope(c, "component", func(line Line, key, value string) error {
		switch match(key, componentStems) {
		case kwType:
			comp.Type = ParseSourceType(value)
		case kwShape:
			shape, err := ParseShape(value)
			if err != nil {
				return atLine(line, err)
			}
			comp.Shape = &shape
		case kwPosition:
			pos, err := ParsePosition(value)
			if err != nil {
				return atLine(line, err)
			}
			comp.Position = pos
			havePosition = true
		case kwMeasurement:
			body, err := b.block(c, line)
			if err != nil {
				return err
			}
			m, err := b.measurement(line, newCursorOver(body))
			if err != nil {
				return err
			}
			comp.Measurements = append(comp.Measurements, m)
		case kwSpectral:
			spec, err := b.spectralIndex(c, line, value)
			if err != nil {
				return err
			}
			comp.Spectral = &spec
		case kwSED:
			body, err := b.block(c, line)
			if err != nil {
				return err
			}
			sed, err := b.sed(line, newCursorOver(body))
			if err != nil {
				return err
			}
			comp.SED = sed
			haveSED = true
		default:
			return b.unrecognized(c, line, key, "component")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !haveSED {
		if len(comp.Measurements) == 0 {
			return nil, skyerr.Newf("line %d: component has neither a sed block nor a measurement", open.Num).
				WithCode(skyerr.CodeMissingSED).
				WithDetail("line", open.Num)
		}
		var spec SpectralIndex
		if comp.Spectral != nil {
			spec = *comp.Spectral
		}
		comp.SED = NewSED(comp.Measurements[0], spec)
	}
	if !havePosition {
		return nil, missingField(open, "position", "component has no position")
	}
	if comp.Type == Gaussian && comp.Shape == nil {
		return nil, missingField(open, "shape", "gaussian component has no shape")
	}
	return comp, nil
}

func (b *builder) measurement(open Line, c *Cursor) (Measurement, error) {
	var freq, flux *Line
	var freqValue, fluxValue string

	err := b.scope(c, "measurement", func(line Line, key, value string) error {
		switch match(key, measurementStems) {
		case kwFrequency:
			freq, freqValue = &line, value
		case kwFluxDensity:
			flux, fluxValue = &line, value
		default:
			return b.unrecognized(c, line, key, "measurement")
		}
		return nil
	})
	if err != nil {
		return Measurement{}, err
	}
	if freq == nil || flux == nil {
		return Measurement{}, blockError(open, "measurement needs frequency and fluxdensity")
	}

	m, err := ParseMeasurement(freqValue, fluxValue)
	if err != nil {
		if field, _ := detail(err, "field"); field == "fluxdensity" {
			return Measurement{}, atLine(*flux, err)
		}
		return Measurement{}, atLine(*freq, err)
	}
	return m, nil
}

func (b *builder) sed(open Line, c *Cursor) (SED, error) {
	var sed SED
	haveFreq, haveFlux := false, false

	err := b.scope(c, "sed", func(line Line, key, value string) error {
		var err error
		switch match(key, sedStems) {
		case kwFrequency:
			sed.Frequency, sed.FrequencyUnit, err = ParseFrequency(value)
			haveFreq = true
		case kwFluxDensity:
			sed.Flux, err = ParseFluxDensity(value)
			haveFlux = true
		case kwSpectral:
			sed.SpectralIndex, err = b.spectralIndex(c, line, value)
		default:
			return b.unrecognized(c, line, key, "sed")
		}
		return atLine(line, err)
	})
	if err != nil {
		return SED{}, err
	}
	if !haveFreq || !haveFlux {
		return SED{}, blockError(open, "sed needs frequency and fluxdensity")
	}
	return sed, nil
}

// spectralIndex reads a spectral index written inline as
// "spectral-index { <alpha> <beta> }" or as a block holding either alpha
// and beta lines or the bare pair
func (b *builder) spectralIndex(c *Cursor, open Line, value string) (SpectralIndex, error) {
	if !opensBlock(open.Text) {
		spec, err := parseSpectralPair(value)
		if err != nil {
			return SpectralIndex{}, atLine(open, err)
		}
		return spec, nil
	}

	body, err := collectBlock(c, open)
	if err != nil {
		return SpectralIndex{}, err
	}
	if len(body) > 0 {
		if key, _ := splitKeyword(body[0].Text); match(key, spectralStems) == kwUnknown {
			texts := make([]string, len(body))
			for i, l := range body {
				texts[i] = l.Text
			}
			spec, err := parseSpectralPair("{ " + strings.Join(texts, " ") + " }")
			if err != nil {
				return SpectralIndex{}, atLine(open, err)
			}
			return spec, nil
		}
	}

	var alpha, beta string
	haveAlpha := false
	inner := newCursorOver(body)
	err = b.scope(inner, "spectral-index", func(line Line, key, value string) error {
		switch match(key, spectralStems) {
		case kwAlpha:
			alpha, haveAlpha = value, true
		case kwBeta:
			beta = value
		default:
			return b.unrecognized(inner, line, key, "spectral-index")
		}
		return nil
	})
	if err != nil {
		return SpectralIndex{}, err
	}
	if !haveAlpha {
		return SpectralIndex{}, blockError(open, "spectral-index needs alpha")
	}

	spec, err := ParseSpectralIndex(alpha, beta)
	if err != nil {
		return SpectralIndex{}, atLine(open, err)
	}
	return spec, nil
}

// scope feeds each entry line of a scope to fn. The scope ends at the end
// of input, a blank line or a line starting with "}".
func (b *builder) scope(c *Cursor, name string, fn func(line Line, key, value string) error) error {
	for {
		line, ok := c.Next()
		if !ok {
			return nil
		}
		if line.Text == "" || closesBlock(line.Text) {
			if n := c.Remaining(); n > 0 {
				b.logger.Warn("scope ended before its last lines", "scope", name, "line", line.Num, "ignored", n)
			}
			return nil
		}

		key, value := splitKeyword(line.Text)
		b.logger.Debug("processing", "scope", name, "keyword", key, "value", value, "line", line.Num)
		if err := fn(line, key, value); err != nil {
			return err
		}
	}
}

// block collects the body of a block opened by line
func (b *builder) block(c *Cursor, line Line) ([]Line, error) {
	if !opensBlock(line.Text) {
		return nil, blockError(line, "expected '{' at end of line")
	}
	return collectBlock(c, line)
}

// unrecognized records a keyword no handler claims and skips the block it
// opens, if any
func (b *builder) unrecognized(c *Cursor, line Line, key, scope string) error {
	warning := skyerr.Newf("line %d: %s keyword %q not recognized", line.Num, scope, key).
		WithCode(skyerr.CodeUnrecognizedKeyword).
		WithDetail("line", line.Num).
		WithDetail("scope", scope)
	b.warnings = append(b.warnings, warning)
	b.logger.Warn("keyword not recognized", "scope", scope, "keyword", key, "line", line.Num)

	if opensBlock(line.Text) {
		if _, err := collectBlock(c, line); err != nil {
			return err
		}
	}
	return nil
}

// atLine attaches a line number to err unless it already has one
func atLine(line Line, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := detail(err, "line"); ok {
		return err
	}
	return skyerr.Wrapf(err, "line %d", line.Num).WithDetail("line", line.Num)
}

// detail returns a detail of the outermost structured error in err
func detail(err error, key string) (any, bool) {
	var e *skyerr.Error
	if errors.As(err, &e) {
		return e.Detail(key)
	}
	return nil, false
}

func blockError(line Line, reason string) error {
	return skyerr.Newf("line %d: %s", line.Num, reason).
		WithCode(skyerr.CodeFormat).
		WithDetail("line", line.Num)
}

func missingField(line Line, field, reason string) error {
	return skyerr.Newf("line %d: %s", line.Num, reason).
		WithCode(skyerr.CodeMissingField).
		WithDetail("line", line.Num).
		WithDetail("field", field)
}
