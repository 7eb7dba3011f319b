// Package adapter provides the shared plumbing for leapquery's database
// adapters: a database/sql base implementation and a registry of adapter
// factories keyed by target type.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves from init. Import them with a blank identifier:
//
//	import _ "github.com/leapstack-labs/leapquery/pkg/adapters/postgres"
package adapter

import "github.com/leapstack-labs/leapquery/pkg/core"

// Aliases for the core types adapters work with.
type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Result is an alias for core.Result.
	Result = core.Result
)
