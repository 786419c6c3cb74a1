// pkg/model/naming.go
package model

import "strings"

// DisplayName converts a storage column name (lower_snake_case) into the
// human-readable form shown to reviewers: words capitalized and separated by
// spaces, with the literal token "id" rendered as "ID".
// "order_id" -> "Order ID", "customer_name" -> "Customer Name".
func DisplayName(storage string) string {
	words := strings.Split(strings.ToLower(storage), "_")
	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
			continue
		}
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// StorageName converts a display column name back to its storage form:
// lower-case with underscores. "Order ID" -> "order_id".
func StorageName(display string) string {
	return strings.ToLower(strings.ReplaceAll(display, " ", "_"))
}

// DisplayNames maps a slice of storage names to display names
func DisplayNames(storage []string) []string {
	out := make([]string, len(storage))
	for i, s := range storage {
		out[i] = DisplayName(s)
	}
	return out
}

// StorageNames maps a slice of display names to storage names
func StorageNames(display []string) []string {
	out := make([]string, len(display))
	for i, d := range display {
		out[i] = StorageName(d)
	}
	return out
}
