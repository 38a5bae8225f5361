package skymodel

import (
	"github.com/msto63/skymodel/internal/catalogue"
	"github.com/msto63/skymodel/internal/coords"
)

// Row is the flat form of one component. Only the resolved SED's
// reference frequency, Stokes I and alpha survive flattening.
type Row struct {
	Name     string  `yaml:"Name"`
	RA       float64 `yaml:"ra"`
	Dec      float64 `yaml:"dec"`
	RAStr    string  `yaml:"ra_str"`
	DecStr   string  `yaml:"dec_str"`
	A        float64 `yaml:"a"`
	B        float64 `yaml:"b"`
	PA       float64 `yaml:"pa"`
	Freq     float64 `yaml:"freq"`
	PeakFlux float64 `yaml:"peak_flux"`
	Alpha    float64 `yaml:"alpha"`
}

// Columns is the fixed column layout of flattened rows
var Columns = []catalogue.Column{
	{Name: "Name", Kind: catalogue.KindString},
	{Name: "ra", Kind: catalogue.KindFloat},
	{Name: "dec", Kind: catalogue.KindFloat},
	{Name: "ra_str", Kind: catalogue.KindString},
	{Name: "dec_str", Kind: catalogue.KindString},
	{Name: "a", Kind: catalogue.KindFloat},
	{Name: "b", Kind: catalogue.KindFloat},
	{Name: "pa", Kind: catalogue.KindFloat},
	{Name: "freq", Kind: catalogue.KindFloat},
	{Name: "peak_flux", Kind: catalogue.KindFloat},
	{Name: "alpha", Kind: catalogue.KindFloat},
}

// Rows flattens each component of the source into one row
func (s *Source) Rows() []Row {
	rows := make([]Row, 0, len(s.Components))
	for _, c := range s.Components {
		row := Row{
			Name:     s.Name,
			RA:       c.Position.RA,
			Dec:      c.Position.Dec,
			RAStr:    coords.FormatRAColon(c.Position.RA),
			DecStr:   coords.FormatDecColon(c.Position.Dec),
			Freq:     c.SED.Frequency,
			PeakFlux: c.SED.Flux.I,
			Alpha:    c.SED.Alpha,
		}
		if c.Shape != nil {
			row.A, row.B, row.PA = c.Shape.Major, c.Shape.Minor, c.Shape.PA
		}
		rows = append(rows, row)
	}
	return rows
}

// Rows flattens every source in file order
func (m *Model) Rows() []Row {
	var rows []Row
	for _, s := range m.Sources {
		rows = append(rows, s.Rows()...)
	}
	return rows
}

// Values returns the row in column order
func (r Row) Values() []any {
	return []any{r.Name, r.RA, r.Dec, r.RAStr, r.DecStr, r.A, r.B, r.PA, r.Freq, r.PeakFlux, r.Alpha}
}

// NewCatalogue builds a catalogue table from flattened rows
func NewCatalogue(name string, rows []Row) *catalogue.Table {
	t := catalogue.NewTable(name, Columns...)
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Values())
	}
	return t
}
