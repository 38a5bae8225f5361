// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     coords
// Description: Sexagesimal coordinate parsing and re-punctuation
// License:     MIT
// ============================================================================

// Package coords converts between the sexagesimal coordinate spellings used
// by sky model files (12h34m56.7s, -43d21m00.0s) and catalogues
// (12:34:56.7, -43:21:00.0), and decimal degrees.
package coords

import (
	"math"
	"strconv"
	"strings"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// unit of the leading sexagesimal field
type unit int

const (
	unitDegrees unit = iota
	unitHours
)

// ParseRA parses a right ascension and returns it in degrees. Colon and
// space separated triples and the h/m/s form are read as hours; the d/m/s
// form and a bare decimal number are read as degrees.
func ParseRA(s string) (float64, error) {
	return parse(s, "ra", unitHours)
}

// ParseDec parses a declination and returns it in degrees.
func ParseDec(s string) (float64, error) {
	return parse(s, "dec", unitDegrees)
}

func parse(s, axis string, sexagesimal unit) (float64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, coordError(axis, s, "empty value")
	}

	sign := 1.0
	switch text[0] {
	case '-':
		sign = -1
		text = text[1:]
	case '+':
		text = text[1:]
	}

	u := sexagesimal
	switch {
	case strings.ContainsAny(text, "hH"):
		u = unitHours
	case strings.ContainsAny(text, "dD"):
		u = unitDegrees
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case 'h', 'H', 'd', 'D', 'm', 'M', 's', 'S', ':', ' ', '\t':
			return true
		}
		return false
	})
	if len(fields) == 0 || len(fields) > 3 {
		return 0, coordError(axis, s, "expected 1 to 3 sexagesimal fields")
	}

	// A bare number without any unit marker is decimal degrees.
	if len(fields) == 1 && !strings.ContainsAny(text, "hHdD:") {
		u = unitDegrees
	}

	var value float64
	scale := 1.0
	for _, f := range fields {
		if strings.HasPrefix(f, "-") || strings.HasPrefix(f, "+") {
			return 0, coordError(axis, s, "sign allowed only on the leading field")
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, coordError(axis, s, "non-numeric field "+strconv.Quote(f))
		}
		value += v / scale
		scale *= 60
	}

	value *= sign
	if u == unitHours {
		value *= 15
	}
	return value, nil
}

// FormatRAColon renders an angle in degrees as a zero padded
// HH:MM:SS.sss right ascension, wrapped into [0h, 24h).
func FormatRAColon(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	const perSecond = 1000
	total := int64(math.Round(deg / 15 * 3600 * perSecond))
	total %= 24 * 3600 * perSecond

	h, m, s, frac := split(total, perSecond)
	return pad2(h) + ":" + pad2(m) + ":" + pad2(s) + "." + padN(frac, 3)
}

// FormatDecColon renders an angle in degrees as an always signed
// +DD:MM:SS.ss declination.
func FormatDecColon(deg float64) string {
	sign := "+"
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	const perSecond = 100
	total := int64(math.Round(deg * 3600 * perSecond))
	if total == 0 {
		sign = "+"
	}

	d, m, s, frac := split(total, perSecond)
	return sign + pad2(d) + ":" + pad2(m) + ":" + pad2(s) + "." + padN(frac, 2)
}

// ColonToHMS re-punctuates a colon separated right ascension triple into
// the h/m/s form: "12:34:56.7" becomes "12h34m56.7s".
func ColonToHMS(ra string) (string, error) {
	return repunctuate(ra, "ra", "h", "m")
}

// ColonToDMS re-punctuates a colon separated declination triple into the
// d/m/s form: "-43:21:00.0" becomes "-43d21m00.0s".
func ColonToDMS(dec string) (string, error) {
	return repunctuate(dec, "dec", "d", "m")
}

func repunctuate(s, axis, first, second string) (string, error) {
	text := strings.TrimSpace(s)
	if strings.Count(text, ":") != 2 {
		return "", coordError(axis, s, "expected a colon separated triple")
	}
	for _, part := range strings.Split(text, ":") {
		if part == "" {
			return "", coordError(axis, s, "empty sexagesimal field")
		}
	}
	text = strings.Replace(text, ":", first, 1)
	text = strings.Replace(text, ":", second, 1)
	return text + "s", nil
}

// split breaks a count of 1/perSecond seconds into whole units, minutes,
// seconds and the sub-second remainder
func split(total, perSecond int64) (unit, minutes, seconds, frac int64) {
	frac = total % perSecond
	total /= perSecond
	seconds = total % 60
	total /= 60
	minutes = total % 60
	unit = total / 60
	return
}

func pad2(v int64) string {
	return padN(v, 2)
}

func padN(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func coordError(axis, value, reason string) error {
	return skyerr.Newf("invalid %s coordinate %q: %s", axis, value, reason).
		WithCode(skyerr.CodeCoordinate).
		WithDetail("axis", axis)
}
