// Package categorizer assigns spending and income categories to free-text
// transaction descriptions using a two-stage strategy: fuzzy keyword lookup
// first, then semantic-embedding nearest-category matching for whatever the
// keywords could not resolve.
package categorizer

import (
	"sort"
	"strings"

	"finledger/internal/logging"
	"finledger/internal/models"
)

// Definition describes a category as declared in configuration, before it is
// turned into an immutable models.Category.
type Definition struct {
	Description string
	Keywords    []string
	Type        models.CategoryType
}

// Registry is the immutable catalog of categories plus the derived keyword
// index. Both are built once and never mutated afterwards; the keyword index
// is fully reconstructible from the category list.
type Registry struct {
	categories []models.Category

	// keywordOwner maps a lower-cased keyword to its owning category name.
	// The first registration wins; a later category cannot steal a keyword.
	keywordOwner map[string]string
	// keywords keeps all registered keywords (lower-cased) in registration
	// order for deterministic scanning.
	keywords []string
}

// NewRegistry builds a Registry from income and expense category definitions.
// Missing fields default to empty values, with the category type defaulting
// to the containing group's type. Category names are sorted within each group
// so the resulting index order is deterministic even though the input maps
// are not.
func NewRegistry(income, expense map[string]Definition, log logging.Logger) *Registry {
	r := &Registry{
		keywordOwner: make(map[string]string),
	}

	r.addGroup(income, models.CategoryTypeIncome, log)
	r.addGroup(expense, models.CategoryTypeExpense, log)

	return r
}

func (r *Registry) addGroup(defs map[string]Definition, groupType models.CategoryType, log logging.Logger) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		catType := def.Type
		if catType == "" {
			catType = groupType
		}

		r.categories = append(r.categories, models.Category{
			Name:        name,
			Description: def.Description,
			Keywords:    def.Keywords,
			Type:        catType,
		})

		for _, kw := range def.Keywords {
			kwLower := strings.ToLower(kw)
			if owner, taken := r.keywordOwner[kwLower]; taken {
				if log != nil {
					log.WithFields(
						logging.Field{Key: logging.FieldKeyword, Value: kwLower},
						logging.Field{Key: "owner", Value: owner},
						logging.Field{Key: logging.FieldCategory, Value: name},
					).Debug("Keyword already registered, keeping first owner")
				}
				continue
			}
			r.keywordOwner[kwLower] = name
			r.keywords = append(r.keywords, kwLower)
		}
	}
}

// Categories returns the ordered category list. The slice must not be
// modified by callers.
func (r *Registry) Categories() []models.Category {
	return r.categories
}

// Names returns the category names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.categories))
	for i, cat := range r.categories {
		names[i] = cat.Name
	}
	return names
}

// Descriptions returns the category descriptions in registry order.
func (r *Registry) Descriptions() []string {
	descriptions := make([]string, len(r.categories))
	for i, cat := range r.categories {
		descriptions[i] = cat.Description
	}
	return descriptions
}

// Len returns the number of categories in the registry.
func (r *Registry) Len() int {
	return len(r.categories)
}
