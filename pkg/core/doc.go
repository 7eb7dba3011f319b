// Package core defines the shared types of leapquery.
//
// It holds the Adapter contract implemented by every database backend,
// the query Result returned to the UI and CLI, and the TargetConfig that
// selects a backend. pkg/core imports only the standard library; every
// other package depends on core, not the reverse.
package core
