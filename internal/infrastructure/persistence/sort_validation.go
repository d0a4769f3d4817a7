package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField resolves an exposed sort key against a whitelist of
// key-to-column mappings. Returns the defaultColumn when the key is empty
// or unknown, so caller input can never reach the ORDER BY clause raw.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultColumn string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultColumn
	}
	if column, ok := allowedFields[trimmed]; ok {
		return column
	}
	return defaultColumn
}

// CustomerSortFields maps exposed customer sort keys to table columns
var CustomerSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"credit":     "credit_cents",
	"email":      "email",
	"first_name": "first_name",
	"last_name":  "last_name",
}

// CreditTransactionSortFields maps exposed transaction sort keys to table columns
var CreditTransactionSortFields = map[string]string{
	"created_at":       "created_at",
	"transaction_date": "transaction_date",
	"amount":           "amount",
}
