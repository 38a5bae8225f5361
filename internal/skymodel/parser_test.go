package skymodel

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

const legacySource = `source {
  name "3C196"
  component {
    type gaussian
    shape 10 5 45
    position 08h13m36.0s +48d13m03.0s
    measurement {
      frequency 150 MHz
      fluxdensity Jy 74.0 0 0 0
    }
    measurement {
      frequency 300 MHz
      fluxdensity Jy 40.0 0 0 0
    }
    spectral-index {
      alpha -0.7
      beta 0.1
    }
  }
}`

const sedSource = `source {
  name 'J1234-4321'
  component {
    type point
    position 12:34:56.7 -43:21:00.0
    sed {
      frequency 1.4 GHz
      fluxdensity mJy 2.3 0.1 0.2 0.3
      spectral-index { -0.8 0.05 }
    }
  }
  component {
    type Gaussian
    shape 1.0 0.5 90
    position 12h35m00.0s -43d20m00.0s
    sed {
      frequency 150
      fluxdensity Jy 1 0 0 0
      spectral-index { 0 0 }
    }
  }
}`

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestParser_ParseSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr skyerr.Code
		check   func(t *testing.T, src *Source)
	}{
		{
			name:  "Legacy measurement and spectral index",
			input: legacySource,
			check: func(t *testing.T, src *Source) {
				if src.Name != "3C196" {
					t.Errorf("Expected name 3C196, got %q", src.Name)
				}
				if len(src.Components) != 1 {
					t.Fatalf("Expected 1 component, got %d", len(src.Components))
				}
				c := src.Components[0]
				if c.Type != Gaussian {
					t.Errorf("Expected gaussian, got %s", c.Type)
				}
				if c.Shape == nil || *c.Shape != (Shape{Major: 10, Minor: 5, PA: 45}) {
					t.Errorf("Unexpected shape %+v", c.Shape)
				}
				if len(c.Measurements) != 2 {
					t.Errorf("Expected 2 measurements, got %d", len(c.Measurements))
				}
				want := SED{
					Frequency:     150,
					FrequencyUnit: "MHz",
					Flux:          FluxDensity{Unit: "Jy", I: 74},
					SpectralIndex: SpectralIndex{Alpha: -0.7, Beta: 0.1},
				}
				if c.SED != want {
					t.Errorf("Expected SED from first measurement %+v, got %+v", want, c.SED)
				}
			},
		},
		{
			name:  "Unified sed blocks",
			input: sedSource,
			check: func(t *testing.T, src *Source) {
				if src.Name != "J1234-4321" {
					t.Errorf("Expected name J1234-4321, got %q", src.Name)
				}
				if len(src.Components) != 2 {
					t.Fatalf("Expected 2 components, got %d", len(src.Components))
				}
				first := src.Components[0]
				if first.Type != Point {
					t.Errorf("Expected point, got %s", first.Type)
				}
				want := SED{
					Frequency:     1.4,
					FrequencyUnit: "GHz",
					Flux:          FluxDensity{Unit: "mJy", I: 2.3, Q: 0.1, U: 0.2, V: 0.3},
					SpectralIndex: SpectralIndex{Alpha: -0.8, Beta: 0.05},
				}
				if first.SED != want {
					t.Errorf("Expected %+v, got %+v", want, first.SED)
				}
				second := src.Components[1]
				if second.Type != Gaussian {
					t.Errorf("Expected gaussian, got %s", second.Type)
				}
				if second.SED.FrequencyUnit != DefaultFrequencyUnit {
					t.Errorf("Expected default unit %s, got %s", DefaultFrequencyUnit, second.SED.FrequencyUnit)
				}
			},
		},
		{
			name: "Body without opener",
			input: `name "bare"
component {
  position 0d 0d
  sed {
    frequency 150 MHz
    fluxdensity Jy 1 0 0 0
    spectral-index { 0 0 }
  }
}`,
			check: func(t *testing.T, src *Source) {
				if src.Name != "bare" || len(src.Components) != 1 {
					t.Errorf("Unexpected source %+v", src)
				}
			},
		},
		{
			name: "Short spectral keyword and keyword form in sed",
			input: `source {
  name x
  component {
    position 0d 0d
    measurement {
      fluxdensity Jy 1 0 0 0
      frequency 60 MHz
    }
    spectral {
      alpha -1.2
    }
  }
  component {
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index {
        alpha -0.5
        beta 0.2
      }
    }
  }
}`,
			check: func(t *testing.T, src *Source) {
				if got := src.Components[0].SED; got.Alpha != -1.2 || got.Beta != 0 || got.Frequency != 60 {
					t.Errorf("Unexpected SED %+v", got)
				}
				if got := src.Components[1].SED.SpectralIndex; got != (SpectralIndex{Alpha: -0.5, Beta: 0.2}) {
					t.Errorf("Unexpected spectral index %+v", got)
				}
			},
		},
		{
			name: "Multi-line spectral pair in sed",
			input: `source {
  name x
  component {
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index {
        -0.7 0.1
      }
    }
  }
}`,
			check: func(t *testing.T, src *Source) {
				if got := src.Components[0].SED.SpectralIndex; got != (SpectralIndex{Alpha: -0.7, Beta: 0.1}) {
					t.Errorf("Unexpected spectral index %+v", got)
				}
			},
		},
		{
			name: "Missing sed and measurement",
			input: `source {
  name x
  component {
    type point
    position 0d 0d
  }
}`,
			wantErr: skyerr.CodeMissingSED,
		},
		{
			name: "Spectral index alone is not an SED",
			input: `source {
  name x
  component {
    position 0d 0d
    spectral-index {
      alpha -0.7
      beta 0
    }
  }
}`,
			wantErr: skyerr.CodeMissingSED,
		},
		{
			name: "Gaussian without shape",
			input: `source {
  name x
  component {
    type gaussian
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index { 0 0 }
    }
  }
}`,
			wantErr: skyerr.CodeMissingField,
		},
		{
			name: "Missing position",
			input: `source {
  name x
  component {
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index { 0 0 }
    }
  }
}`,
			wantErr: skyerr.CodeMissingField,
		},
		{
			name: "Missing name",
			input: `source {
  component {
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index { 0 0 }
    }
  }
}`,
			wantErr: skyerr.CodeMissingField,
		},
		{
			name: "Malformed flux",
			input: `source {
  name x
  component {
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0
      spectral-index { 0 0 }
    }
  }
}`,
			wantErr: skyerr.CodeFormat,
		},
		{
			name: "Unclosed component",
			input: `source {
  name x
  component {
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
    }`,
			wantErr: skyerr.CodeUnexpectedEOF,
		},
		{
			name:    "Empty input",
			input:   "",
			wantErr: skyerr.CodeMissingField,
		},
	}

	parser := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := parser.ParseSource(lines(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected %s error, got none", tt.wantErr)
				}
				if !skyerr.HasCode(err, tt.wantErr) {
					t.Errorf("Expected %s error, got %v (code %s)", tt.wantErr, err, skyerr.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, src)
			}
		})
	}
}

func TestParser_ErrorLine(t *testing.T) {
	input := `source {
  name x
  component {
    shape 1 2
    position 0d 0d
  }
}`
	_, err := ParseSource(lines(input))
	if err == nil {
		t.Fatal("Expected error for short shape")
	}

	var e *skyerr.Error
	if !errors.As(err, &e) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if line, _ := e.Detail("line"); line != 4 {
		t.Errorf("Expected line 4, got %v", line)
	}
	if !strings.HasPrefix(err.Error(), "line 4:") {
		t.Errorf("Expected message to start with line 4, got %q", err.Error())
	}
}

func TestParser_MeasurementErrorLine(t *testing.T) {
	input := `source {
  name x
  component {
    position 0d 0d
    measurement {
      frequency 150 MHz
      fluxdensity Jy 2.3 0 0
    }
  }
}`
	_, err := ParseSource(lines(input))
	if !skyerr.HasCode(err, skyerr.CodeFormat) {
		t.Fatalf("Expected FORMAT_ERROR, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "line 7:") {
		t.Errorf("Expected message to start with line 7, got %q", err.Error())
	}
}

func TestParser_BlankLineEndsMeasurement(t *testing.T) {
	input := `source {
  name x
  component {
    position 0d 0d
    measurement {
      frequency 150 MHz

      fluxdensity Jy 2.3 0 0 0
    }
  }
}`
	_, err := ParseSource(lines(input))
	if !skyerr.HasCode(err, skyerr.CodeFormat) {
		t.Fatalf("Expected FORMAT_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "measurement needs frequency and fluxdensity") {
		t.Errorf("Unexpected error %q", err.Error())
	}
}

func TestParser_UnrecognizedKeyword(t *testing.T) {
	input := `skymodel fileformat 1.1
source {
  name x
  colour blue
  component {
    position 0d 0d
    polarisation {
      angle 30
    }
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index { 0 0 }
    }
  }
}`

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	model, err := New(Options{Logger: logger}).ParseModelLines(lines(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(model.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(model.Warnings), model.Warnings)
	}
	for _, w := range model.Warnings {
		if !skyerr.HasCode(w, skyerr.CodeUnrecognizedKeyword) {
			t.Errorf("Expected UNRECOGNIZED_KEYWORD warning, got %v", w)
		}
		if skyerr.GetCode(w).IsFatal() {
			t.Errorf("Warning %v should not be fatal", w)
		}
	}

	comp := model.Sources[0].Components[0]
	if comp.SED.Frequency != 150 {
		t.Errorf("Expected sed after skipped block to be parsed, got %+v", comp.SED)
	}
	if !strings.Contains(buf.String(), "polarisation") {
		t.Errorf("Expected warning to be logged, got %q", buf.String())
	}
}

func TestParseModel(t *testing.T) {
	input := "skymodel fileformat 1.1\n\n" + legacySource + "\n\n" + sedSource + "\n"

	model, err := ParseModel(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if model.FormatVersion != "1.1" {
		t.Errorf("Expected format version 1.1, got %q", model.FormatVersion)
	}
	if len(model.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(model.Sources))
	}
	if model.Sources[0].Name != "3C196" || model.Sources[1].Name != "J1234-4321" {
		t.Errorf("Unexpected source order %q, %q", model.Sources[0].Name, model.Sources[1].Name)
	}
	if len(model.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", model.Warnings)
	}
}

func TestParseModel_Truncated(t *testing.T) {
	input := "source {\n  name x\n  component {\n    position 0d 0d\n"
	_, err := ParseModel(strings.NewReader(input))
	if !skyerr.HasCode(err, skyerr.CodeUnexpectedEOF) {
		t.Errorf("Expected UNEXPECTED_EOF, got %v", err)
	}
}

func TestParser_Reusable(t *testing.T) {
	parser := New(Options{})
	input := `source {
  name x
  bogus 1
  component {
    position 0d 0d
    sed {
      frequency 150 MHz
      fluxdensity Jy 1 0 0 0
      spectral-index { 0 0 }
    }
  }
}`
	for i := 0; i < 2; i++ {
		model, err := parser.ParseModelLines(lines(input))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(model.Warnings) != 1 {
			t.Errorf("Run %d: expected 1 warning, got %d", i, len(model.Warnings))
		}
	}
}
