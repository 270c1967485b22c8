package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

type csvColumn struct {
	name  string
	index int
}

// csvRowReader yields rows keyed by header name. Blank header cells are
// dropped together with the data in their column.
type csvRowReader struct {
	reader  *csv.Reader
	columns []csvColumn
}

func newCSVRowReader(source io.Reader) (*csvRowReader, error) {
	reader := newCSVReader(source)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := lo.FilterMap(stripBOM(header), func(cell string, index int) (csvColumn, bool) {
		name := strings.TrimSpace(cell)
		return csvColumn{name: name, index: index}, name != ""
	})
	if len(columns) == 0 {
		return nil, errEmptyHeader
	}
	return &csvRowReader{reader: reader, columns: columns}, nil
}

// Next returns the next data row and its line number, or io.EOF.
func (rows *csvRowReader) Next() (map[string]string, int, error) {
	record, err := rows.reader.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, parseErr.StartLine, err
		}
		return nil, 0, err
	}

	line, _ := rows.reader.FieldPos(0)
	row := make(map[string]string, len(rows.columns))
	for _, column := range rows.columns {
		if column.index < len(record) {
			row[column.name] = record[column.index]
		} else {
			row[column.name] = ""
		}
	}
	return row, line, nil
}

func (rows *csvRowReader) Header() []string {
	return lo.Map(rows.columns, func(column csvColumn, _ int) string {
		return column.name
	})
}
