package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lyricgraph/internal/services"
)

func malformed(path string, line int, column, problem string) error {
	detail := fmt.Sprintf("%s line %d", path, line)
	if column != "" {
		detail += fmt.Sprintf(" column %q", column)
	}
	return services.Wrap(services.ErrValidation, "export", "read "+path, detail+": "+problem, nil)
}

// readTable opens a CSV file, checks its header against want, and calls row
// for each record with its 1-based line number.
func readTable(path string, want []string, row func(line int, record []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(want)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return malformed(path, 1, "", "missing header row")
	}
	if err != nil {
		return csvError(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, name := range want {
		if header[i] != name {
			return malformed(path, 1, name, fmt.Sprintf("unexpected header %q", header[i]))
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return csvError(path, err)
		}
		line, _ := reader.FieldPos(0)
		if err := row(line, record); err != nil {
			return err
		}
	}
}

func csvError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return malformed(path, parseErr.Line, "", parseErr.Err.Error())
	}
	return fmt.Errorf("read %s: %w", path, err)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
