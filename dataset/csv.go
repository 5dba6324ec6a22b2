package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "dataset")
}

// values treated as an empty cell, as the upstream spreadsheets use them
var missingValues = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"#N/A": true,
}

// readRecords drops a leading byte order mark, spreadsheet exports usually carry one.
func readRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return read(f)
}

// columnIndex maps trimmed header names to their position. Empty names are skipped.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return index
}

func requireColumns(index map[string]int, names ...string) error {
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseNumber returns NaN and present=false for a missing cell.
func parseNumber(s string) (v float64, present bool, err error) {
	s = strings.TrimSpace(s)
	if missingValues[s] {
		return math.NaN(), false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false, err
	}
	return v, true, nil
}
