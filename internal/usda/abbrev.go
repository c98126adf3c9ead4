// internal/usda/abbrev.go
package usda

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mcp-max-protein/internal/models"
)

// FieldCount is the number of '^'-separated fields on every ABBREV line.
const FieldCount = 53

// Field positions within an ABBREV record.
const (
	fieldDescription  = 1
	fieldEnergyKcal   = 3
	fieldProteinGrams = 4
	fieldServingGrams = 48
	fieldServingLabel = 49
)

// ErrFieldCount means a line did not have FieldCount fields. The file is
// not ABBREV-formatted, so the whole load fails.
var ErrFieldCount = errors.New("unexpected ABBREV field count")

// Stats describes one load.
type Stats struct {
	Lines   int
	Loaded  int
	Skipped int
}

// Load reads an ABBREV file from disk.
func Load(path string) (models.Catalog, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open ABBREV file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads ABBREV records in order. Records with a missing or malformed
// description, serving label or numeric field are skipped and counted.
func Parse(r io.Reader) (models.Catalog, Stats, error) {
	var (
		catalog = models.Catalog{}
		stats   Stats
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		stats.Lines++

		fields := strings.Split(line, "^")
		if len(fields) != FieldCount {
			return nil, stats, fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrFieldCount, stats.Lines, len(fields), FieldCount)
		}

		food, ok := parseRecord(fields)
		if !ok {
			stats.Skipped++
			continue
		}
		catalog = append(catalog, food)
		stats.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read ABBREV data: %w", err)
	}

	return catalog, stats, nil
}

func parseRecord(fields []string) (models.FoodItem, bool) {
	description, ok := unquote(fields[fieldDescription])
	if !ok {
		return models.FoodItem{}, false
	}
	servingLabel, ok := unquote(fields[fieldServingLabel])
	if !ok {
		return models.FoodItem{}, false
	}
	servingGrams, ok := parseRounded(fields[fieldServingGrams])
	if !ok {
		return models.FoodItem{}, false
	}
	kcal, ok := parseRounded(fields[fieldEnergyKcal])
	if !ok {
		return models.FoodItem{}, false
	}
	protein, ok := parseRounded(fields[fieldProteinGrams])
	if !ok {
		return models.FoodItem{}, false
	}

	food, err := models.NewFoodItem(description, servingLabel, servingGrams, kcal, protein)
	if err != nil {
		return models.FoodItem{}, false
	}
	return food, true
}

// unquote strips the surrounding tildes from a text field. The interior must
// be non-empty.
func unquote(field string) (string, bool) {
	if len(field) < 3 || field[0] != '~' || field[len(field)-1] != '~' {
		return "", false
	}
	return field[1 : len(field)-1], true
}

// parseRounded parses a decimal field and rounds it half away from zero.
func parseRounded(field string) (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(math.Round(v)), true
}
