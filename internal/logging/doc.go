// Package logging builds the slog loggers used throughout the pipeline.
//
// Two handler formats are supported: a console handler that renders
// single-line, key=value records (color when the writer is a terminal) and a
// JSON handler for machine consumption. Component loggers carry a standard
// "component" attribute; WithContext augments records with the run, stage,
// and frame annotations stored on the context by internal/services.
package logging
