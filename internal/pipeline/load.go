package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go-conversion-analysis/internal/model"
	"go-conversion-analysis/pkg/utils"
)

// Load reads the delimited input file into a typed Dataset. The header
// must match the six expected columns; the 0/1 flag columns are recast
// to categorical (boolean) semantics here so no numeric 0/1 survives
// past the loader.
func Load(path string) (*model.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	ds := &model.Dataset{SourcePath: path}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		row++

		session, err := parseSession(record, row)
		if err != nil {
			return nil, err
		}
		ds.Sessions = append(ds.Sessions, session)
	}
	return ds, nil
}

func checkHeader(header []string) error {
	if len(header) != len(model.ExpectedHeader) {
		return &SchemaError{Reason: "expected 6 columns, got " + strconv.Itoa(len(header))}
	}
	for i, h := range header {
		// Clean header names: trim whitespace and remove quotes
		clean := strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		if clean != model.ExpectedHeader[i] {
			return &SchemaError{
				Column: model.ExpectedHeader[i],
				Reason: "got column " + strconv.Quote(clean),
			}
		}
	}
	return nil
}

func parseSession(record []string, row int) (model.Session, error) {
	var s model.Session
	if len(record) != len(model.ExpectedHeader) {
		return s, &SchemaError{Row: row, Reason: "wrong number of fields"}
	}

	s.Country = strings.TrimSpace(record[0])
	s.Source = strings.TrimSpace(record[3])

	age, ok := utils.ParseValue(record[1]).(int)
	if !ok {
		return s, &SchemaError{Column: model.ColumnAge, Row: row, Reason: "not an integer"}
	}
	s.Age = age

	views, ok := utils.ParseValue(record[4]).(int)
	if !ok || views < 0 {
		return s, &SchemaError{Column: model.ColumnPageViews, Row: row, Reason: "not a non-negative integer"}
	}
	s.PageViews = views

	newUser, err := utils.ParseFlag(record[2])
	if err != nil {
		return s, &SchemaError{Column: model.ColumnNewUser, Row: row, Reason: err.Error()}
	}
	s.NewUser = newUser

	converted, err := utils.ParseFlag(record[5])
	if err != nil {
		return s, &SchemaError{Column: model.ColumnConverted, Row: row, Reason: err.Error()}
	}
	s.Converted = converted

	return s, nil
}
