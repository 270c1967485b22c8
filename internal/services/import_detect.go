package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type CSVType string

const (
	CSVTypeHealth   CSVType = "health"
	CSVTypeSafety   CSVType = "safety"
	CSVTypeReminder CSVType = "reminder"
	CSVTypeUnknown  CSVType = "unknown"
)

const utf8BOM = "\ufeff"

var errEmptyHeader = errors.New("csv header row is empty")

type csvMarkerSet struct {
	csvType CSVType
	markers []string
}

// Order is priority: the first set with any marker present wins.
var csvMarkerSets = []csvMarkerSet{
	{csvType: CSVTypeHealth, markers: []string{"Heart Rate", "Blood Pressure", "Glucose", "SpO₂"}},
	{csvType: CSVTypeSafety, markers: []string{"Fall Detected", "Movement Activity", "Impact Force"}},
	{csvType: CSVTypeReminder, markers: []string{"Reminder Type", "Scheduled Time"}},
}

func (csvType CSVType) Valid() bool {
	switch csvType {
	case CSVTypeHealth, CSVTypeSafety, CSVTypeReminder:
		return true
	default:
		return false
	}
}

func ParseCSVType(raw string) (CSVType, bool) {
	candidate := CSVType(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, true
	}
	return CSVTypeUnknown, false
}

// DetectCSVType classifies a file by its header row only. I/O problems are
// logged and reported as unknown.
func DetectCSVType(path string) CSVType {
	header, err := readCSVHeader(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("detect csv type failed")
		return CSVTypeUnknown
	}
	return DetectHeaderType(header)
}

func DetectHeaderType(header []string) CSVType {
	cells := lo.Map(header, func(cell string, _ int) string {
		return strings.TrimSpace(cell)
	})
	for _, set := range csvMarkerSets {
		if lo.Some(cells, set.markers) {
			return set.csvType
		}
	}
	return CSVTypeUnknown
}

func readCSVHeader(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := newCSVReader(file)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return stripBOM(header), nil
}

func newCSVReader(source io.Reader) *csv.Reader {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func stripBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return header
}
