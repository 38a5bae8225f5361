package error

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("malformed shape")
	if err.Error() != "malformed shape" {
		t.Errorf("Error() = %q, want %q", err.Error(), "malformed shape")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	inner := New("expected 3 values").WithCode(CodeFormat).WithDetail("line", 7)
	outer := Wrap(inner, "line 7")

	if outer.Code() != CodeFormat {
		t.Errorf("Code() = %v, want %v", outer.Code(), CodeFormat)
	}
	if v, ok := outer.Detail("line"); !ok || v != 7 {
		t.Errorf("Detail(line) = %v, %v; want 7, true", v, ok)
	}
	if outer.Error() != "line 7: expected 3 values" {
		t.Errorf("Error() = %q", outer.Error())
	}
	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	std := Wrap(fmt.Errorf("boom"), "reading")
	if std.Code() != CodeUnknown {
		t.Errorf("wrapped stdlib error code = %v, want %v", std.Code(), CodeUnknown)
	}
}

func TestHasCode(t *testing.T) {
	coord := New("bad ra").WithCode(CodeCoordinate)
	format := Wrap(coord, "position").WithCode(CodeFormat)
	chained := fmt.Errorf("component: %w", format)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", format, CodeFormat, true},
		{"inner code", format, CodeCoordinate, true},
		{"through fmt wrap", chained, CodeCoordinate, true},
		{"absent code", chained, CodeMissingSED, false},
		{"nil error", nil, CodeFormat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := GetCode(chained); got != CodeFormat {
		t.Errorf("GetCode() = %v, want %v", got, CodeFormat)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Errorf("GetCode(plain) = %v, want %v", got, CodeUnknown)
	}
}

func TestCode_IsFatal(t *testing.T) {
	if CodeUnrecognizedKeyword.IsFatal() {
		t.Error("unrecognized keywords must not be fatal")
	}
	for _, c := range []Code{CodeFormat, CodeMissingSED, CodeUnexpectedEOF, CodeMissingOption} {
		if !c.IsFatal() {
			t.Errorf("%s should be fatal", c)
		}
	}
}

func TestError_String(t *testing.T) {
	err := Wrap(errors.New("eof"), "reading block").
		WithCode(CodeUnexpectedEOF).
		WithDetail("line", 3).
		WithDetail("block", "component")

	s := err.String()
	for _, want := range []string{"Code: UNEXPECTED_EOF", "Details: {block=component, line=3}", "Cause: eof"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
