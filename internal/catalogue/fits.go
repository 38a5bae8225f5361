package catalogue

import (
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// binary table cell types by TFORM code
var fitsTypes = map[byte]reflect.Type{
	'L': reflect.TypeOf(false),
	'B': reflect.TypeOf(uint8(0)),
	'I': reflect.TypeOf(int16(0)),
	'J': reflect.TypeOf(int32(0)),
	'K': reflect.TypeOf(int64(0)),
	'A': reflect.TypeOf(""),
	'E': reflect.TypeOf(float32(0)),
	'D': reflect.TypeOf(float64(0)),
}

// ReadFITS loads the first binary table extension of a FITS file
func ReadFITS(r io.Reader) (*Table, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fitsError(err, "opening FITS file")
	}
	defer f.Close()

	for _, hdu := range f.HDUs() {
		if hdu.Type() != fitsio.BINARY_TBL {
			continue
		}
		tbl, ok := hdu.(*fitsio.Table)
		if !ok {
			continue
		}
		return readFITSTable(tbl)
	}
	return nil, skyerr.New("FITS file has no binary table extension").WithCode(skyerr.CodeFormat)
}

// readFITSTable scans the readable columns of every row through a struct
// built for the table. Columns whose TFORM has no Go counterpart (bit,
// complex and variable length arrays) are kept as KindOpaque with nil cells.
func readFITSTable(tbl *fitsio.Table) (*Table, error) {
	fcols := tbl.Cols()
	out := &Table{Name: tbl.Name(), Columns: make([]Column, len(fcols))}

	var fields []reflect.StructField
	var targets []int
	for i, col := range fcols {
		name := strings.TrimSpace(col.Name)
		typ, kind, err := fitsColumnType(col.Format)
		switch {
		case skyerr.HasCode(err, skyerr.CodeUnsupportedFormat):
			out.Columns[i] = Column{Name: name, Kind: KindOpaque}
			continue
		case err != nil:
			return nil, skyerr.Wrapf(err, "column %q", name).WithDetail("column", name)
		}
		out.Columns[i] = Column{Name: name, Kind: kind}
		fields = append(fields, reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: typ,
			Tag:  reflect.StructTag("fits:" + strconv.Quote(col.Name)),
		})
		targets = append(targets, i)
	}
	rowType := reflect.StructOf(fields)

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fitsError(err, "reading FITS table")
	}
	defer rows.Close()

	for rows.Next() {
		row := make([]any, len(fcols))
		if len(fields) > 0 {
			data := reflect.New(rowType)
			if err := rows.Scan(data.Interface()); err != nil {
				return nil, fitsError(err, "scanning FITS row")
			}
			for f, i := range targets {
				row[i] = fitsValue(data.Elem().Field(f))
			}
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fitsError(err, "reading FITS table")
	}
	return out, nil
}

// fitsColumnType maps a binary TFORM such as "1D", "20A" or "3E" to the
// Go type fitsio scans it into
func fitsColumnType(form string) (reflect.Type, Kind, error) {
	form = strings.TrimSpace(form)
	i := 0
	for i < len(form) && form[i] >= '0' && form[i] <= '9' {
		i++
	}
	if i == len(form) {
		return nil, 0, skyerr.Newf("malformed TFORM %q", form).WithCode(skyerr.CodeFormat)
	}

	repeat := 1
	if i > 0 {
		repeat, _ = strconv.Atoi(form[:i])
	}
	code := form[i]

	elem, ok := fitsTypes[code]
	if !ok {
		return nil, 0, skyerr.Newf("unsupported TFORM %q", form).WithCode(skyerr.CodeUnsupportedFormat)
	}

	switch {
	case code == 'A':
		return elem, KindString, nil
	case repeat != 1:
		return reflect.ArrayOf(repeat, elem), KindArray, nil
	case code == 'L':
		return elem, KindBool, nil
	case code == 'E' || code == 'D':
		return elem, KindFloat, nil
	default:
		return elem, KindInt, nil
	}
}

// fitsValue widens a scanned cell to the table value types
func fitsValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimRight(v.String(), " \x00")
	case reflect.Bool:
		return v.Bool()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint8:
		return int64(v.Uint())
	case reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = fitsValue(v.Index(i))
		}
		return out
	default:
		return v.Interface()
	}
}

// WriteFITS writes t as an empty primary HDU followed by one binary table
func WriteFITS(w io.Writer, t *Table, name string) error {
	cols, err := fitsColumns(t)
	if err != nil {
		return err
	}

	f, err := fitsio.Create(w)
	if err != nil {
		return fitsError(err, "creating FITS file")
	}

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		f.Close()
		return fitsError(err, "creating primary HDU")
	}
	if err := f.Write(phdu); err != nil {
		f.Close()
		return fitsError(err, "writing primary HDU")
	}

	tbl, err := fitsio.NewTable(name, cols, fitsio.BINARY_TBL)
	if err != nil {
		f.Close()
		return fitsError(err, "creating FITS table")
	}

	for r, row := range t.Rows {
		ptrs := make([]any, len(row))
		for i, v := range row {
			p, err := fitsCell(t.Columns[i], v)
			if err != nil {
				tbl.Close()
				f.Close()
				return skyerr.Wrapf(err, "row %d", r).WithDetail("row", r)
			}
			ptrs[i] = p
		}
		if err := tbl.Write(ptrs...); err != nil {
			tbl.Close()
			f.Close()
			return fitsError(err, "writing FITS row")
		}
	}

	if err := f.Write(tbl); err != nil {
		tbl.Close()
		f.Close()
		return fitsError(err, "writing FITS table")
	}
	if err := tbl.Close(); err != nil {
		f.Close()
		return fitsError(err, "closing FITS table")
	}
	if err := f.Close(); err != nil {
		return fitsError(err, "closing FITS file")
	}
	return nil
}

func fitsColumns(t *Table) ([]fitsio.Column, error) {
	cols := make([]fitsio.Column, len(t.Columns))
	for i, c := range t.Columns {
		var form string
		switch c.Kind {
		case KindString:
			width := 1
			for _, row := range t.Rows {
				if s, ok := row[i].(string); ok && len(s) > width {
					width = len(s)
				}
			}
			// fitsio stores a leading NUL in string cells
			form = strconv.Itoa(width+1) + "A"
		case KindFloat:
			form = "D"
		case KindInt:
			form = "K"
		case KindBool:
			form = "L"
		default:
			return nil, skyerr.Newf("column %q: %s columns cannot be written to FITS", c.Name, c.Kind).
				WithCode(skyerr.CodeUnsupportedFormat)
		}
		cols[i] = fitsio.Column{Name: c.Name, Format: form}
	}
	return cols, nil
}

// fitsCell returns a pointer to the cell converted to its column type
func fitsCell(c Column, v any) (any, error) {
	switch c.Kind {
	case KindString:
		s, _ := v.(string)
		return &s, nil
	case KindFloat:
		var f float64
		switch x := v.(type) {
		case float64:
			f = x
		case int64:
			f = float64(x)
		case nil:
		default:
			return nil, fitsCellError(c, v)
		}
		return &f, nil
	case KindInt:
		var n int64
		switch x := v.(type) {
		case int64:
			n = x
		case nil:
		default:
			return nil, fitsCellError(c, v)
		}
		return &n, nil
	default:
		b, _ := v.(bool)
		return &b, nil
	}
}

func fitsCellError(c Column, v any) error {
	return skyerr.Newf("column %q: cannot store %T as %s", c.Name, v, c.Kind).
		WithCode(skyerr.CodeFormat).
		WithDetail("column", c.Name)
}

func fitsError(err error, msg string) error {
	return skyerr.Wrap(err, msg).WithCode(skyerr.CodeIO)
}
