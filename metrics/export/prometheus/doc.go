// Package prometheus renders appsession metrics in Prometheus text
// exposition format, without depending on the Prometheus client library.
// Mount [PrometheusExporter.Handler] on a scrape endpoint.
package prometheus
