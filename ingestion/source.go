// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xuri/excelize/v2"
)

// Row is one question/answer pair read from a source.
type Row struct {
	Line     int    // 1-based row number in the source
	Id       string // Optional; assigned by the pipeline when empty
	Question string
	Answer   string
}

// readConfig holds options shared by the row readers.
type readConfig struct {
	sheet     string
	hasHeader bool
}

// ReadOption configures ReadSpreadsheet and ReadCSV.
type ReadOption func(*readConfig)

// WithSheet selects a worksheet by name. Default is the first sheet.
func WithSheet(name string) ReadOption {
	return func(c *readConfig) {
		c.sheet = name
	}
}

// WithHeader sets whether the first row is a header to skip. Default is true.
func WithHeader(hasHeader bool) ReadOption {
	return func(c *readConfig) {
		c.hasHeader = hasHeader
	}
}

func newReadConfig(opts []ReadOption) *readConfig {
	cfg := &readConfig{hasHeader: true}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ReadSpreadsheet reads rows from an .xlsx workbook. Column A is the
// question, B the answer and the optional C an id. Rows missing a question
// or an answer are skipped.
func ReadSpreadsheet(r io.Reader, opts ...ReadOption) ([]Row, error) {
	cfg := newReadConfig(opts)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrSheetNotFound
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", sheet, err)
	}
	return rowsFromCells(cells, cfg.hasHeader), nil
}

// ReadCSV reads rows from CSV with the same column layout as ReadSpreadsheet.
func ReadCSV(r io.Reader, opts ...ReadOption) ([]Row, error) {
	cfg := newReadConfig(opts)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rowsFromCells(cells, cfg.hasHeader), nil
}

func rowsFromCells(cells [][]string, hasHeader bool) []Row {
	var rows []Row
	for i, cols := range cells {
		if i == 0 && hasHeader {
			continue
		}
		cell := func(n int) string {
			if n < len(cols) {
				return strings.TrimSpace(cols[n])
			}
			return ""
		}

		row := Row{
			Line:     i + 1,
			Question: cell(0),
			Answer:   cell(1),
			Id:       cell(2),
		}
		if row.Question == "" || row.Answer == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// S3Getter is the subset of the S3 API used to fetch source files.
type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ S3Getter = (*s3.Client)(nil)

// OpenSource opens a local path or an s3://bucket/key location.
// client may be nil when location is local.
func OpenSource(ctx context.Context, location string, client S3Getter) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "s3://") {
		f, err := os.Open(location)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrS3Required
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}
	return out.Body, nil
}

func parseS3Location(location string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(location, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

// Load opens location and reads its rows, choosing the reader by file extension.
func Load(ctx context.Context, location string, client S3Getter, opts ...ReadOption) ([]Row, error) {
	var read func(io.Reader, ...ReadOption) ([]Row, error)
	switch strings.ToLower(path.Ext(location)) {
	case ".xlsx", ".xlsm":
		read = ReadSpreadsheet
	case ".csv":
		read = ReadCSV
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path.Ext(location))
	}

	rc, err := OpenSource(ctx, location, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := read(rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return rows, nil
}
