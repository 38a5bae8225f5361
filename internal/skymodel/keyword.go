package skymodel

import (
	"strings"
	"unicode"
)

// keyword identifies the handler for a line within a scope
type keyword int

const (
	kwUnknown keyword = iota
	kwSource
	kwName
	kwComponent
	kwType
	kwShape
	kwPosition
	kwMeasurement
	kwSpectral
	kwSED
	kwFrequency
	kwFluxDensity
	kwAlpha
	kwBeta
)

// stem maps a keyword prefix to its handler
type stem struct {
	prefix string
	kw     keyword
}

// Recognized stems per scope. A line's first token selects the first stem
// it starts with, so trailing qualifiers ("spectral-index") still match.
var (
	modelStems       = []stem{{"source", kwSource}}
	sourceStems      = []stem{{"name", kwName}, {"component", kwComponent}}
	componentStems   = []stem{{"type", kwType}, {"shape", kwShape}, {"position", kwPosition}, {"measurement", kwMeasurement}, {"spectral", kwSpectral}, {"sed", kwSED}}
	sedStems         = []stem{{"frequency", kwFrequency}, {"fluxdensity", kwFluxDensity}, {"spectral", kwSpectral}}
	measurementStems = []stem{{"frequency", kwFrequency}, {"fluxdensity", kwFluxDensity}}
	spectralStems    = []stem{{"alpha", kwAlpha}, {"beta", kwBeta}}
)

func match(key string, stems []stem) keyword {
	for _, s := range stems {
		if strings.HasPrefix(key, s.prefix) {
			return s.kw
		}
	}
	return kwUnknown
}

// splitKeyword splits a trimmed line at its first run of whitespace. An
// opening brace glued to the keyword ("sed{") is moved into the value.
func splitKeyword(text string) (key, value string) {
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		key = text
	} else {
		key, value = text[:idx], strings.TrimSpace(text[idx:])
	}
	if len(key) > 1 && strings.HasSuffix(key, "{") {
		key = key[:len(key)-1]
		value = strings.TrimSpace("{ " + value)
	}
	return key, value
}
