// pkg/model/naming_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		storage string
		display string
	}{
		{"order_id", "Order ID"},
		{"id", "ID"},
		{"customer_name", "Customer Name"},
		{"status", "Status"},
		{"last_updated_at", "Last Updated At"},
	}

	for _, tt := range tests {
		t.Run(tt.storage, func(t *testing.T) {
			assert.Equal(t, tt.display, DisplayName(tt.storage))
		})
	}
}

func TestNamingRoundTrip(t *testing.T) {
	storage := []string{"order_id", "customer_name", "ship_date", "is_priority"}
	assert.Equal(t, storage, StorageNames(DisplayNames(storage)))
}

func TestStorageName(t *testing.T) {
	assert.Equal(t, "order_id", StorageName("Order ID"))
	assert.Equal(t, "status", StorageName("Status"))
}
