package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/greenhub/hubsim/internal/model"
)

// LoadJobsCSV reads a job set from a CSV with a header row. Required columns
// are name, power_kw, duration_min and priority; deadline_hour is optional
// and may be empty per row. Any malformed row aborts the load, matching the
// rule that construction errors stop a simulation before it starts.
func LoadJobsCSV(path string) ([]*model.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"name", "power_kw", "duration_min", "priority"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("jobs CSV must contain a %q column", required)
		}
	}

	var jobs []*model.Job
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++

		power, err := strconv.ParseFloat(rec[col["power_kw"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse power_kw: %w", line, err)
		}
		duration, err := strconv.ParseFloat(rec[col["duration_min"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse duration_min: %w", line, err)
		}

		var deadline *float64
		if i, ok := col["deadline_hour"]; ok && i < len(rec) {
			if raw := strings.TrimSpace(rec[i]); raw != "" {
				d, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: parse deadline_hour: %w", line, err)
				}
				deadline = &d
			}
		}

		job, err := model.NewJob(rec[col["name"]], power, duration, rec[col["priority"]], deadline)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%s contains no jobs", path)
	}
	return jobs, nil
}
