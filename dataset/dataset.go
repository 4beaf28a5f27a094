// Package dataset loads the whitespace-separated numeric tables consumed
// by the data-fitting likelihoods: one row per measurement with the
// covariate, the observation and its uncertainty in the first three
// columns. Blank lines and lines starting with '#' are skipped.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Table holds the three data columns of a measurement file.
type Table struct {
	Covariates    []float64
	Observations  []float64
	Uncertainties []float64
}

// Len returns the number of measurements.
func (t *Table) Len() int {
	return len(t.Covariates)
}

// Load reads a three-column table. Rows with extra columns are accepted,
// the extra columns are ignored.
func Load(r io.Reader) (*Table, error) {
	table := &Table{}

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("dataset: line %d has %d columns, need 3", lineNo, len(fields))
		}

		row := make([]float64, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: line %d column %d: %w", lineNo, i+1, err)
			}

			row[i] = v
		}

		table.Covariates = append(table.Covariates, row[0])
		table.Observations = append(table.Observations, row[1])
		table.Uncertainties = append(table.Uncertainties, row[2])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	if table.Len() == 0 {
		return nil, fmt.Errorf("dataset: no data rows")
	}

	return table, nil
}

// LoadFile reads a three-column table from a file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	return Load(f)
}
