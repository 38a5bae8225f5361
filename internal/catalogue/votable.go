package catalogue

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

const (
	votableVersion   = "1.3"
	votableNamespace = "http://www.ivoa.net/xml/VOTable/v1.3"
)

type voTable struct {
	XMLName   xml.Name     `xml:"VOTABLE"`
	Version   string       `xml:"version,attr,omitempty"`
	Xmlns     string       `xml:"xmlns,attr,omitempty"`
	Resources []voResource `xml:"RESOURCE"`
}

type voResource struct {
	Name   string     `xml:"name,attr,omitempty"`
	Tables []voTableT `xml:"TABLE"`
	// VOTables may nest resources
	Resources []voResource `xml:"RESOURCE"`
}

type voTableT struct {
	Name   string    `xml:"name,attr,omitempty"`
	Fields []voField `xml:"FIELD"`
	Data   *voData   `xml:"DATA"`
}

type voField struct {
	Name      string `xml:"name,attr"`
	ID        string `xml:"ID,attr,omitempty"`
	Datatype  string `xml:"datatype,attr"`
	Arraysize string `xml:"arraysize,attr,omitempty"`
	Unit      string `xml:"unit,attr,omitempty"`
}

type voData struct {
	TableData *voTableData `xml:"TABLEDATA"`
}

type voTableData struct {
	Rows []voRow `xml:"TR"`
}

type voRow struct {
	Cells []string `xml:"TD"`
}

// ReadVOTable loads the first TABLE of a VOTable document. Only the
// TABLEDATA serialization is supported.
func ReadVOTable(r io.Reader) (*Table, error) {
	var doc voTable
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, skyerr.Wrap(err, "decoding VOTable").WithCode(skyerr.CodeFormat)
	}

	vt := firstVOTable(doc.Resources)
	if vt == nil {
		return nil, skyerr.New("VOTable has no TABLE").WithCode(skyerr.CodeFormat)
	}
	if vt.Data == nil || vt.Data.TableData == nil {
		if vt.Data != nil {
			return nil, skyerr.New("VOTable data is not in TABLEDATA form").WithCode(skyerr.CodeUnsupportedFormat)
		}
		vt.Data = &voData{TableData: &voTableData{}}
	}

	out := &Table{Name: vt.Name, Columns: make([]Column, len(vt.Fields))}
	for i, f := range vt.Fields {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		out.Columns[i] = Column{Name: name, Kind: voKind(f.Datatype)}
	}

	for r, tr := range vt.Data.TableData.Rows {
		if len(tr.Cells) != len(out.Columns) {
			return nil, skyerr.Newf("VOTable row %d has %d cells, want %d", r, len(tr.Cells), len(out.Columns)).
				WithCode(skyerr.CodeFormat).
				WithDetail("row", r)
		}
		row := make([]any, len(tr.Cells))
		for i, td := range tr.Cells {
			v, err := voValue(out.Columns[i], td)
			if err != nil {
				return nil, skyerr.Wrapf(err, "row %d", r).WithDetail("row", r)
			}
			row[i] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func firstVOTable(resources []voResource) *voTableT {
	for i := range resources {
		if len(resources[i].Tables) > 0 {
			return &resources[i].Tables[0]
		}
		if t := firstVOTable(resources[i].Resources); t != nil {
			return t
		}
	}
	return nil
}

func voKind(datatype string) Kind {
	switch datatype {
	case "float", "double":
		return KindFloat
	case "short", "int", "long", "unsignedByte":
		return KindInt
	case "boolean":
		return KindBool
	default:
		return KindString
	}
}

func voValue(c Column, td string) (any, error) {
	s := strings.TrimSpace(td)
	if c.Kind == KindString {
		return s, nil
	}
	if s == "" {
		return nil, nil
	}

	switch c.Kind {
	case KindFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, voCellError(c, td)
		}
		return v, nil
	case KindInt:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, voCellError(c, td)
		}
		return v, nil
	default:
		switch strings.ToLower(s) {
		case "t", "true", "1":
			return true, nil
		case "f", "false", "0":
			return false, nil
		case "?":
			return nil, nil
		}
		return nil, voCellError(c, td)
	}
}

func voCellError(c Column, td string) error {
	return skyerr.Newf("column %q: cannot parse %q as %s", c.Name, td, c.Kind).
		WithCode(skyerr.CodeFormat).
		WithDetail("column", c.Name)
}

// WriteVOTable writes t as a single-table VOTable with TABLEDATA
func WriteVOTable(w io.Writer, t *Table, name string) error {
	vt := voTableT{Name: name, Fields: make([]voField, len(t.Columns))}
	for i, c := range t.Columns {
		vt.Fields[i] = voFieldFor(c)
	}

	data := &voTableData{Rows: make([]voRow, len(t.Rows))}
	for r, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = voText(v)
		}
		data.Rows[r] = voRow{Cells: cells}
	}
	vt.Data = &voData{TableData: data}

	doc := voTable{
		Version:   votableVersion,
		Xmlns:     votableNamespace,
		Resources: []voResource{{Tables: []voTableT{vt}}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return skyerr.Wrap(err, "writing VOTable").WithCode(skyerr.CodeIO)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return skyerr.Wrap(err, "encoding VOTable").WithCode(skyerr.CodeIO)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return skyerr.Wrap(err, "writing VOTable").WithCode(skyerr.CodeIO)
	}
	return nil
}

func voFieldFor(c Column) voField {
	f := voField{Name: c.Name}
	switch c.Kind {
	case KindFloat:
		f.Datatype = "double"
	case KindInt:
		f.Datatype = "long"
	case KindBool:
		f.Datatype = "boolean"
	default:
		f.Datatype, f.Arraysize = "char", "*"
	}
	return f
}

func voText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "T"
		}
		return "F"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = voText(e)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(x)
	}
}
