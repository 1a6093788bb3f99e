// Package render presents an analysis.Report: a terminal summary table,
// JSON and YAML documents, and an HTML log-log plot of the ASD with its
// confidence band.
package render
