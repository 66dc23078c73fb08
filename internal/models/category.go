// Package models provides the data structures shared across the pipeline.
package models

// CategoryUnknown is the sentinel category assigned when no match clears the
// configured thresholds. It is a normal, expected outcome, not an error, and
// the corresponding category row is guaranteed to exist in the store.
const CategoryUnknown = "Unknown"

// CategoryType distinguishes income from expense categories.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category is an immutable category definition built from configuration.
// The position of a category in a registry fixes its index in the embedding
// matrix, so ordering is part of the contract.
type Category struct {
	Name        string
	Description string
	Keywords    []string
	Type        CategoryType
}
