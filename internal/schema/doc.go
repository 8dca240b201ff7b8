// Package schema validates JSON-LD objects against JSON Schemas registered
// per schema.org type. The schemas are embedded and compiled once.
package schema
