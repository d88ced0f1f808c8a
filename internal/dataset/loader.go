package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// MaxRows truncates the table after loading; 0 means unlimited.
	MaxRows int
}

// Loader reads one family of dataset files into a dataframe.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (dataframe.DataFrame, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// missingValues are read as NA in every column.
var missingValues = []string{"", "NA", "NaN", "nan", "N/A", "null", "<nil>"}

// Load reads the file at path with default options.
func Load(path string) (*Table, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// LoadWithOptions selects a loader by file name and returns the loaded Table.
// Files with an unrecognized extension are read as CSV.
func LoadWithOptions(path string, opt LoadOptions) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("load dataset: %s is a directory", path)
	}
	var l Loader = csvLoader{}
	for _, cand := range registry {
		if cand.CanLoad(path) {
			l = cand
			break
		}
	}
	df, err := l.Load(path, opt)
	if err != nil {
		return nil, err
	}
	if opt.MaxRows > 0 && df.Nrow() > opt.MaxRows {
		df = df.Subset(seq(opt.MaxRows))
		if df.Err != nil {
			return nil, fmt.Errorf("truncate rows: %w", df.Err)
		}
	}
	return &Table{Name: filepath.Base(path), Path: path, df: df}, nil
}

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

// Load reads delimited text. Rows shorter than the header are padded with
// missing values and longer rows are cut to the header width.
func (csvLoader) Load(path string, opt LoadOptions) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
	}
	df, err := frameFromRecords(records)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
	}
	return df, nil
}

// frameFromRecords builds a frame from a header row and data rows. A file
// holding only the header yields a zero-row frame of text columns.
func frameFromRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, ErrEmpty
	}
	header := records[0]
	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		if df.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("build empty frame: %w", df.Err)
		}
		return df, nil
	}
	ncol := len(header)
	for i, row := range records {
		if len(row) < ncol {
			padded := make([]string, ncol)
			copy(padded, row)
			records[i] = padded
		} else if len(row) > ncol {
			records[i] = row[:ncol]
		}
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

var (
	// ErrUnsupported indicates a dataset format that cannot be read.
	ErrUnsupported = errors.New("unsupported dataset format")
	// ErrEmpty is returned for a file without a header row.
	ErrEmpty = errors.New("no header row")
)
