// Package models contains database model definitions.
package models

// All lists the models migrated on start.
func All() []any {
	return []any{&Activity{}}
}
