package store

import (
	"strings"

	"go-storefront/models"
)

// Search returns the products whose title or description contains query,
// ignoring case. An empty query matches nothing; whitespace is matched as is.
func Search(products []models.Product, query string) []models.Product {
	results := []models.Product{}
	if query == "" {
		return results
	}
	q := strings.ToLower(query)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
			results = append(results, p)
		}
	}
	return results
}
