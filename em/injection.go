package em

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Accepted trigger-time keys in an injection row, in lookup order.
const (
	TriggerTimeKey         = "geocent_time_x"
	TriggerTimeFallbackKey = "geocent_time"
)

// Derived keys merged into the parameter map handed to the model.
const (
	DerivedTriggerTimeKey = "kilonova_trigger_time"
)

const (
	gpsEpochMJD    = 44244.0 // 1980-01-06T00:00:00 UTC
	secondsPerDay  = 86400.0
	gpsLeapSeconds = 18.0 // GPS-UTC offset, valid for events after 2017-01-01
)

// GPSToMJD converts GPS seconds to UTC Modified Julian Date.
func GPSToMJD(gps float64) float64 {
	return gpsEpochMJD + (gps-gpsLeapSeconds)/secondsPerDay
}

// InjectionRow is one parameter draw: a flat mapping from parameter name to
// scalar value. Rows are read once from the injection table and never
// mutated; derived fields go into a copy (see Synthesize).
type InjectionRow map[string]float64

// TriggerTimeMJD reads the trigger time from the row (primary key first,
// then the fallback alias) and converts it from GPS seconds to MJD.
// Returns ErrMissingField when neither key is present.
func (r InjectionRow) TriggerTimeMJD() (float64, error) {
	if gps, ok := r[TriggerTimeKey]; ok {
		return GPSToMJD(gps), nil
	}
	if gps, ok := r[TriggerTimeFallbackKey]; ok {
		return GPSToMJD(gps), nil
	}
	return 0, missingFieldErrorf("injection row has neither %q nor %q", TriggerTimeKey, TriggerTimeFallbackKey)
}

// InjectionTable is the full set of injection rows, ordered by index.
// The row index is the cache key and output filename stem: stable across
// runs given the same input file.
type InjectionTable struct {
	Rows []InjectionRow
}

// injectionFile is the on-disk injection container. The "injections" value
// is either column-oriented (bilby dataframe style, columns under "content")
// or a plain list of rows.
type injectionFile struct {
	Injections json.RawMessage `json:"injections"`
}

type columnarInjections struct {
	Content map[string][]float64 `json:"content"`
}

// LoadInjectionTable reads an injection JSON file. Both the column-oriented
// form {"injections": {"content": {param: [v, ...]}}} and the row-oriented
// form {"injections": [{param: v}, ...]} are accepted.
func LoadInjectionTable(path string) (*InjectionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading injection file: %w", err)
	}
	var file injectionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing injection file: %w", err)
	}
	if len(file.Injections) == 0 {
		return nil, fmt.Errorf("injection file %s has no \"injections\" entry", path)
	}

	// Row-oriented form.
	var rows []InjectionRow
	if err := json.Unmarshal(file.Injections, &rows); err == nil {
		return &InjectionTable{Rows: rows}, nil
	}

	// Column-oriented (bilby dataframe) form.
	var cols columnarInjections
	if err := json.Unmarshal(file.Injections, &cols); err != nil || len(cols.Content) == 0 {
		return nil, fmt.Errorf("injection file %s: \"injections\" is neither a row list nor a column table", path)
	}
	return tableFromColumns(cols.Content)
}

func tableFromColumns(content map[string][]float64) (*InjectionTable, error) {
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)

	n := -1
	for _, name := range names {
		if n < 0 {
			n = len(content[name])
		} else if len(content[name]) != n {
			return nil, fmt.Errorf("injection column %q has %d rows, want %d", name, len(content[name]), n)
		}
	}

	rows := make([]InjectionRow, n)
	for i := range rows {
		row := make(InjectionRow, len(names))
		for _, name := range names {
			row[name] = content[name][i]
		}
		rows[i] = row
	}
	return &InjectionTable{Rows: rows}, nil
}
