package adapter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// CSVTable serves a résumé table exported to a local CSV file. It satisfies
// Sheets so the pipeline can run without network access; the spreadsheet
// id and range arguments are ignored and the whole file is returned.
type CSVTable struct {
	path string
}

// NewCSVTable creates a table source reading path. Files ending in .tsv are
// read as tab-separated.
func NewCSVTable(path string) *CSVTable {
	return &CSVTable{path: path}
}

// Path returns the file read by GetValues
func (c *CSVTable) Path() string {
	return c.path
}

func (c *CSVTable) GetValues(ctx context.Context, _, _ string) (model.RawTable, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open csv table", goerr.V("path", c.path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(c.path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read csv table", goerr.V("path", c.path))
	}

	// Spreadsheet exports often start with a UTF-8 byte order mark
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return model.RawTable(rows), nil
}
