// Package services defines shared utilities consumed by the pipeline stages
// and the external catalog integration.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and song titles
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is (validation vs timeout vs transient).
//
// Provider clients live in subpackages (see services/genius). Use these
// helpers when wiring new stage logic so error handling and observability
// stay uniform across the pipeline.
package services
