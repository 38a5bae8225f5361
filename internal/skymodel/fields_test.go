package skymodel

import (
	"errors"
	"math"
	"testing"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		input string
		want  SourceType
	}{
		{"gaussian", Gaussian},
		{"Gaussian", Gaussian},
		{"GAUSSIAN", Gaussian},
		{" gaussian ", Gaussian},
		{"point", Point},
		{"blah", Point},
		{"", Point},
		{"gaussians", Point},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSourceType(tt.input); got != tt.want {
				t.Errorf("ParseSourceType(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"3C196"`, "3C196"},
		{`'3C196'`, "3C196"},
		{`3C196`, "3C196"},
		{`'He said "hi"'`, "He said hi"},
		{`""`, ""},
	}

	for _, tt := range tests {
		if got := ParseName(tt.input); got != tt.want {
			t.Errorf("ParseName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("12h34m56.7s -43d21m00.0s")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pos.RAStr != "12h34m56.7s" || pos.DecStr != "-43d21m00.0s" {
		t.Errorf("Expected original strings to be kept, got %q %q", pos.RAStr, pos.DecStr)
	}
	wantRA := (12 + 34.0/60 + 56.7/3600) * 15
	if math.Abs(pos.RA-wantRA) > 1e-9 {
		t.Errorf("Expected ra %v, got %v", wantRA, pos.RA)
	}
	if math.Abs(pos.Dec+(43+21.0/60)) > 1e-9 {
		t.Errorf("Expected dec %v, got %v", -(43 + 21.0/60), pos.Dec)
	}

	for _, bad := range []string{"12h34m56.7s", "12h34m56.7s -43d21m00.0s extra", "abc -43d21m00.0s"} {
		_, err := ParsePosition(bad)
		if !skyerr.HasCode(err, skyerr.CodeFormat) {
			t.Errorf("ParsePosition(%q): expected FORMAT_ERROR, got %v", bad, err)
		}
	}
}

func TestParseShape(t *testing.T) {
	shape, err := ParseShape("10.5 5.25 45")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if shape != (Shape{Major: 10.5, Minor: 5.25, PA: 45}) {
		t.Errorf("Unexpected shape %+v", shape)
	}

	for _, bad := range []string{"", "1 2", "1 2 3 4", "1 x 3"} {
		if _, err := ParseShape(bad); !skyerr.HasCode(err, skyerr.CodeFormat) {
			t.Errorf("ParseShape(%q): expected FORMAT_ERROR, got %v", bad, err)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input    string
		want     float64
		wantUnit string
		wantErr  bool
	}{
		{"150 MHz", 150, "MHz", false},
		{"1.4 GHz", 1.4, "GHz", false},
		{"150", 150, DefaultFrequencyUnit, false},
		{"", 0, "", true},
		{"150 MHz extra", 0, "", true},
		{"MHz 150", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, unit, err := ParseFrequency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrequency(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want || unit != tt.wantUnit {
				t.Errorf("ParseFrequency(%q) = %v %s, want %v %s", tt.input, got, unit, tt.want, tt.wantUnit)
			}
		})
	}
}

func TestParseFluxDensity(t *testing.T) {
	fd, err := ParseFluxDensity("Jy 2.3 0.1 -0.2 0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := FluxDensity{Unit: "Jy", I: 2.3, Q: 0.1, U: -0.2, V: 0}
	if fd != want {
		t.Errorf("Expected %+v, got %+v", want, fd)
	}

	for _, bad := range []string{"Jy 2.3", "2.3 0 0 0", "Jy 2.3 0 0 0 0", "Jy a b c d"} {
		if _, err := ParseFluxDensity(bad); !skyerr.HasCode(err, skyerr.CodeFormat) {
			t.Errorf("ParseFluxDensity(%q): expected FORMAT_ERROR, got %v", bad, err)
		}
	}
}

func TestParseMeasurement(t *testing.T) {
	m, err := ParseMeasurement("150", "Jy 2.3 0 0 0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := Measurement{Frequency: 150, FrequencyUnit: "MHz", Flux: FluxDensity{Unit: "Jy", I: 2.3}}
	if m != want {
		t.Errorf("Expected %+v, got %+v", want, m)
	}

	tests := []struct {
		freq, flux string
		field      string
	}{
		{"MHz", "Jy 2.3 0 0 0", "frequency"},
		{"150 MHz", "Jy 2.3", "fluxdensity"},
	}
	for _, tt := range tests {
		_, err := ParseMeasurement(tt.freq, tt.flux)
		var e *skyerr.Error
		if !errors.As(err, &e) {
			t.Fatalf("ParseMeasurement(%q, %q): expected *Error, got %v", tt.freq, tt.flux, err)
		}
		if field, _ := e.Detail("field"); field != tt.field {
			t.Errorf("ParseMeasurement(%q, %q): expected field %s, got %v", tt.freq, tt.flux, tt.field, field)
		}
	}
}

func TestParseSpectralIndex(t *testing.T) {
	spec, err := ParseSpectralIndex("-0.7", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if spec.Alpha != -0.7 || spec.Beta != 0 {
		t.Errorf("Expected alpha -0.7 beta 0, got %+v", spec)
	}

	if _, err := ParseSpectralIndex("x", "0"); err == nil {
		t.Error("Expected error for non-numeric alpha")
	}

	pair, err := parseSpectralPair("{ -0.7 0.1 }")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pair != (SpectralIndex{Alpha: -0.7, Beta: 0.1}) {
		t.Errorf("Unexpected pair %+v", pair)
	}
	for _, bad := range []string{"-0.7 0.1", "{ -0.7 }", "{ -0.7 0.1 0 }"} {
		if _, err := parseSpectralPair(bad); err == nil {
			t.Errorf("parseSpectralPair(%q): expected error", bad)
		}
	}
}

func TestSplitKeyword(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
	}{
		{"name \"3C196\"", "name", "\"3C196\""},
		{"position  12h34m56.7s   -43d21m00.0s", "position", "12h34m56.7s   -43d21m00.0s"},
		{"sed {", "sed", "{"},
		{"sed{", "sed", "{"},
		{"spectral-index{ -0.7 0 }", "spectral-index", "{ -0.7 0 }"},
		{"{", "{", ""},
		{"component", "component", ""},
	}

	for _, tt := range tests {
		key, value := splitKeyword(tt.input)
		if key != tt.wantKey || value != tt.wantValue {
			t.Errorf("splitKeyword(%q) = (%q, %q), want (%q, %q)", tt.input, key, value, tt.wantKey, tt.wantValue)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		key   string
		stems []stem
		want  keyword
	}{
		{"spectral", componentStems, kwSpectral},
		{"spectral-index", componentStems, kwSpectral},
		{"position_j2000", componentStems, kwPosition},
		{"sed", componentStems, kwSED},
		{"shapes", componentStems, kwShape},
		{"colour", componentStems, kwUnknown},
		{"spectral-index", sedStems, kwSpectral},
		{"name", componentStems, kwUnknown},
		{"alpha", spectralStems, kwAlpha},
	}

	for _, tt := range tests {
		if got := match(tt.key, tt.stems); got != tt.want {
			t.Errorf("match(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
