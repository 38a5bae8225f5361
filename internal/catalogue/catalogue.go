package catalogue

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
	"github.com/msto63/skymodel/pkg/core/logging"
)

// Format identifies a catalogue encoding
type Format string

const (
	FormatFITS    Format = "fits"
	FormatVOTable Format = "votable"
	FormatSQLite  Format = "sqlite"
	FormatYAML    Format = "yaml"
)

// DefaultTableName names the table when the caller gives none
const DefaultTableName = "components"

// FormatFromPath detects the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit", ".fts":
		return FormatFITS, nil
	case ".vot", ".xml":
		return FormatVOTable, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", skyerr.Newf("unsupported catalogue format %q", filepath.Ext(path)).
			WithCode(skyerr.CodeUnsupportedFormat).
			WithDetail("path", path)
	}
}

// Read loads the first table of a FITS or VOTable catalogue
func Read(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, skyerr.Wrap(err, "opening catalogue").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	defer f.Close()

	switch format {
	case FormatFITS:
		return ReadFITS(f)
	case FormatVOTable:
		return ReadVOTable(f)
	default:
		return nil, skyerr.Newf("cannot read %s catalogues", format).
			WithCode(skyerr.CodeUnsupportedFormat).
			WithDetail("path", path)
	}
}

// WriteOptions tunes Write
type WriteOptions struct {
	// TableName is the FITS extension, VOTable table or SQLite table name
	TableName string
	// RunID tags SQLite rows; a random UUID is used when empty
	RunID  string
	Logger *log.Logger
}

// Write stores t at path in the format its extension names. An existing
// file is replaced, and a failed write leaves no file behind.
func Write(ctx context.Context, path string, t *Table, opts WriteOptions) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if opts.TableName == "" {
		opts.TableName = t.Name
	}
	if opts.TableName == "" {
		opts.TableName = DefaultTableName
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDiscardLogger()
	}

	files := outputFiles(path, format)
	for _, f := range files {
		if err := removeExisting(f); err != nil {
			return err
		}
	}
	defer func() {
		if err != nil {
			for _, f := range files {
				os.Remove(f)
			}
		}
	}()

	opts.Logger.Debug("writing catalogue", "path", path, "format", format, "rows", t.Len())

	switch format {
	case FormatSQLite:
		return writeSQLite(ctx, path, t, opts)
	case FormatFITS:
		return writeFile(path, func(f *os.File) error { return WriteFITS(f, t, opts.TableName) })
	case FormatVOTable:
		return writeFile(path, func(f *os.File) error { return WriteVOTable(f, t, opts.TableName) })
	default:
		return writeFile(path, func(f *os.File) error { return WriteYAML(f, t) })
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return skyerr.Wrap(err, "creating catalogue").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return skyerr.Wrap(err, "closing catalogue").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	return nil
}

// outputFiles lists path and, for SQLite, the journal and WAL files the
// database may leave next to it
func outputFiles(path string, format Format) []string {
	if format != FormatSQLite {
		return []string{path}
	}
	return []string{path, path + "-journal", path + "-wal", path + "-shm"}
}

func removeExisting(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return skyerr.Wrap(err, "removing existing catalogue").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	return nil
}
