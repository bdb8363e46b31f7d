package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationAndTableFromSQL(t *testing.T) {
	cases := []struct {
		sql       string
		operation string
		table     string
	}{
		{`SELECT * FROM "invoices" WHERE id = $1`, "SELECT", "invoices"},
		{`INSERT INTO "suppliers" ("name") VALUES ($1)`, "INSERT", "suppliers"},
		{"UPDATE `branches` SET name = ?", "UPDATE", "branches"},
		{`WITH x AS (SELECT 1) DELETE FROM invoices`, "SELECT", "invoices"},
		{"", "UNKNOWN", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.operation, operationFromSQL(tc.sql), tc.sql)
		assert.Equal(t, tc.table, tableFromSQL(tc.sql), tc.sql)
	}
}
