// Package datasource abstracts where environmental values come from. The
// engine only ever asks "value at hour t"; behind that query sits either a
// built-in model or an operator-supplied CSV with interpolation, with
// deterministic fallback when the CSV cannot be loaded.
package datasource

import "log/slog"

// Source answers a single periodic query: the value at an hour of day.
// Implementations must treat the hour as periodic over 24.
type Source interface {
	ValueAt(hour float64) float64
}

// Func adapts a plain function into a Source. The built-in environmental
// models plug in through this.
type Func func(hour float64) float64

func (f Func) ValueAt(hour float64) float64 { return f(hour) }

// New builds a Source from an optional CSV path with the given model as
// fallback. A missing path, or a CSV that fails to load, degrades to the
// model; the engine never sees the difference.
func New(name, csvPath string, fallback Source, logger *slog.Logger) Source {
	if csvPath == "" {
		return fallback
	}

	csv, err := LoadCSV(csvPath)
	if err != nil {
		logger.Warn("failed to load data source, falling back to built-in model",
			slog.String("source", name),
			slog.String("path", csvPath),
			slog.String("error", err.Error()),
		)
		return fallback
	}

	logger.Info("loaded data source",
		slog.String("source", name),
		slog.String("path", csvPath),
		slog.Int("points", len(csv.hours)),
	)
	return csv
}
