// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     bridge
// Description: Conversion of FITS and VOTable catalogues into sky model text
// License:     MIT
// ============================================================================

// Package bridge turns catalogue rows into sky model source blocks. Each row
// becomes one single-component source; rows with a zero major axis are point
// sources, all others gaussian.
package bridge

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/msto63/skymodel/internal/catalogue"
	"github.com/msto63/skymodel/internal/coords"
	"github.com/msto63/skymodel/internal/skymodel"
	skyerr "github.com/msto63/skymodel/pkg/core/error"
	"github.com/msto63/skymodel/pkg/core/logging"
	"github.com/msto63/skymodel/pkg/core/version"
)

// Columns names the catalogue column holding each source field
type Columns struct {
	Name  string
	RA    string
	Dec   string
	Major string
	Minor string
	PA    string
	Flux  string
	Freq  string
	Alpha string
}

// DefaultColumns returns the column names of catalogues written by export
func DefaultColumns() Columns {
	return Columns{
		Name:  "Name",
		RA:    "ra_str",
		Dec:   "dec_str",
		Major: "a",
		Minor: "b",
		PA:    "pa",
		Flux:  "peak_flux",
		Freq:  "freq",
		Alpha: "alpha",
	}
}

// WithDefaults fills empty names from DefaultColumns
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&c.Name, d.Name}, {&c.RA, d.RA}, {&c.Dec, d.Dec},
		{&c.Major, d.Major}, {&c.Minor, d.Minor}, {&c.PA, d.PA},
		{&c.Flux, d.Flux}, {&c.Freq, d.Freq}, {&c.Alpha, d.Alpha},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return c
}

// Entry is one catalogue row ready to be written. RA and Dec are already
// in h/m/s and d/m/s form.
type Entry struct {
	Name  string
	RA    string
	Dec   string
	Major float64
	Minor float64
	PA    float64
	Flux  float64
	Freq  float64
	Alpha float64
}

// Type classifies the entry by its major axis
func (e Entry) Type() skymodel.SourceType {
	if e.Major == 0 {
		return skymodel.Point
	}
	return skymodel.Gaussian
}

// Block renders the entry as a source block. Beta is always 0.
func (e Entry) Block() string {
	typ := e.Type()
	s := fmt.Sprintf("source {\n  name \"%s\"\n  component {\n    type %s\n    position %s %s\n", e.Name, typ, e.RA, e.Dec)
	if typ == skymodel.Gaussian {
		s += fmt.Sprintf("    shape %2.1f %2.1f %4.1f\n", e.Major, e.Minor, e.PA)
	}
	s += fmt.Sprintf("    sed {\n      frequency %3.0f MHz\n      fluxdensity Jy %4.7f 0 0 0\n      spectral-index { %2.2f %2.2f }\n    }\n  }\n}\n",
		e.Freq, e.Flux, e.Alpha, 0.0)
	return s
}

// ReadEntries maps every row of t through cols
func ReadEntries(t *catalogue.Table, cols Columns) ([]Entry, error) {
	cols = cols.WithDefaults()
	entries := make([]Entry, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		e, err := readEntry(t, r, cols)
		if err != nil {
			return nil, skyerr.Wrapf(err, "catalogue row %d", r).WithDetail("row", r)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readEntry(t *catalogue.Table, r int, cols Columns) (Entry, error) {
	var e Entry
	var err error

	if e.Name, err = t.StringAt(r, cols.Name); err != nil {
		return Entry{}, err
	}

	ra, err := t.StringAt(r, cols.RA)
	if err != nil {
		return Entry{}, err
	}
	if e.RA, err = coords.ColonToHMS(ra); err != nil {
		return Entry{}, err
	}
	dec, err := t.StringAt(r, cols.Dec)
	if err != nil {
		return Entry{}, err
	}
	if e.Dec, err = coords.ColonToDMS(dec); err != nil {
		return Entry{}, err
	}

	for _, f := range []struct {
		col string
		dst *float64
	}{
		{cols.Major, &e.Major},
		{cols.Minor, &e.Minor},
		{cols.PA, &e.PA},
		{cols.Flux, &e.Flux},
		{cols.Freq, &e.Freq},
		{cols.Alpha, &e.Alpha},
	} {
		if *f.dst, err = t.FloatAt(r, f.col); err != nil {
			return Entry{}, err
		}
	}
	return e, nil
}

// Write emits the file format header followed by one block per entry
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "skymodel fileformat %s\n", version.FileFormat)
	for _, e := range entries {
		bw.WriteString(e.Block())
	}
	if err := bw.Flush(); err != nil {
		return skyerr.Wrap(err, "writing sky model").WithCode(skyerr.CodeIO)
	}
	return nil
}

// Converter reads a catalogue and writes the equivalent sky model file
type Converter struct {
	Columns Columns
	Logger  *log.Logger
}

// Convert reads the catalogue at in and writes the sky model to out,
// replacing any existing file. It returns the number of sources written.
func (c *Converter) Convert(in, out string) (n int, err error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	tbl, err := catalogue.Read(in)
	if err != nil {
		return 0, err
	}
	logger.Debug("catalogue loaded", "path", in, "rows", tbl.Len(), "columns", len(tbl.Columns))

	entries, err := ReadEntries(tbl, c.Columns)
	if err != nil {
		return 0, err
	}

	points := 0
	for _, e := range entries {
		if e.Type() == skymodel.Point {
			points++
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, skyerr.Wrap(err, "creating sky model").WithCode(skyerr.CodeIO).WithDetail("path", out)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = skyerr.Wrap(cerr, "closing sky model").WithCode(skyerr.CodeIO).WithDetail("path", out)
		}
		if err != nil {
			os.Remove(out)
		}
	}()

	if err := Write(f, entries); err != nil {
		return 0, err
	}

	logger.Info("sky model written", "path", out, "sources", len(entries), "points", points, "gaussians", len(entries)-points)
	return len(entries), nil
}
