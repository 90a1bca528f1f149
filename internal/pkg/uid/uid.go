// Package uid provides identifier generators used across the service.
//
// NumberID backs primary keys of persisted rows (snowflake), StringID backs
// correlation ids and event ids (UUIDv7).
package uid

// NumberID generates sortable 64-bit identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
