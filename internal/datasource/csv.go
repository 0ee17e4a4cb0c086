package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

// CSVSource serves values from an (hour, value) table with linear
// interpolation between points and cyclic wrapping, so hour 23.5 interpolates
// toward hour 0 of the next day.
type CSVSource struct {
	hours  []float64 // sorted, within [0, 24)
	values []float64
}

// LoadCSV reads a two-column CSV. The first row is treated as a header and
// skipped; every following row must parse as (hour, value).
func LoadCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	type point struct{ hour, value float64 }
	var points []point
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("record needs at least 2 columns, got %d", len(rec))
		}

		hour, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parse hour %q: %w", rec[0], err)
		}
		value, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", rec[1], err)
		}

		points = append(points, point{hour: wrapHour(hour), value: value})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%s contains no data rows", path)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].hour < points[j].hour })

	// Duplicate hours would make interpolation divide by zero.
	for i := 1; i < len(points); i++ {
		if points[i].hour == points[i-1].hour {
			return nil, fmt.Errorf("duplicate hour %g in %s", points[i].hour, path)
		}
	}

	src := &CSVSource{
		hours:  make([]float64, len(points)),
		values: make([]float64, len(points)),
	}
	for i, p := range points {
		src.hours[i] = p.hour
		src.values[i] = p.value
	}
	return src, nil
}

// ValueAt linearly interpolates the table at the given hour, wrapping across
// midnight between the last and first data points.
func (s *CSVSource) ValueAt(hour float64) float64 {
	hour = wrapHour(hour)
	n := len(s.hours)

	if n == 1 {
		return s.values[0]
	}

	i := sort.SearchFloat64s(s.hours, hour)
	if i < n && s.hours[i] == hour {
		return s.values[i]
	}

	// Bracket the query; outside the table's span, wrap around midnight.
	var h0, h1, v0, v1 float64
	switch {
	case i == 0 || i == n:
		h0, v0 = s.hours[n-1], s.values[n-1]
		h1, v1 = s.hours[0]+24, s.values[0]
		if hour < s.hours[0] {
			hour += 24
		}
	default:
		h0, v0 = s.hours[i-1], s.values[i-1]
		h1, v1 = s.hours[i], s.values[i]
	}

	frac := (hour - h0) / (h1 - h0)
	return v0 + frac*(v1-v0)
}

func wrapHour(hour float64) float64 {
	hour = math.Mod(hour, 24)
	if hour < 0 {
		hour += 24
	}
	return hour
}
