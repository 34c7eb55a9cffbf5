package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	auditdomain "github.com/tavolohq/tavolo/internal/audit/domain"
	inventorydomain "github.com/tavolohq/tavolo/internal/inventory/domain"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"bad quantity", inventorydomain.ErrInvalidQuantity, http.StatusBadRequest, "validation_error"},
		{"bad page token", auditdomain.ErrInvalidPageToken, http.StatusBadRequest, "validation_error"},
		{"insufficient stock", inventorydomain.ErrInsufficientStock, http.StatusConflict, "business_rule_violation"},
		{"negative stock", inventorydomain.ErrNegativeStock, http.StatusConflict, "business_rule_violation"},
		{"duplicate item", inventorydomain.ErrItemExists, http.StatusConflict, "conflict"},
		{"missing item", inventorydomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"missing row", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		// The service validates deltas before building an entry, so a
		// rejected entry means the service itself is broken.
		{"bad ledger entry", inventorydomain.ErrInvalidEntry, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.kind, payload.Type)
		})
	}
}
