// Package fastorm is a minimal object-relational mapper for SQLite.
//
// Record schemas are declared once in a schema.Registry, queries are
// composed with the fluent builder in query/builder, and a runtime.Engine
// persists record.Record instances and resolves foreign-key relations.
// The actual database connection lives behind the Executor interface;
// runtime/client provides the SQLite implementation.
//
// This package holds what every layer shares: the Executor contract, the
// Row and Result value types, and the error taxonomy.
package fastorm
