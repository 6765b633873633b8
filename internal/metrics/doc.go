// Package metrics records pipeline observations.
//
// Components take a Recorder and default to NoopRecorder, so metrics never
// need nil checks at call sites. When the tool config names a metrics_file
// the pipeline swaps in a PrometheusRecorder and writes the registry to that
// file in the node_exporter textfile format once the invocation finishes.
package metrics
