// Package internaldefs holds the metric name/help definitions shared by the
// prometheus and otel exporters. It exists so both exporters render the
// same metric families from one source of truth.
package internaldefs
