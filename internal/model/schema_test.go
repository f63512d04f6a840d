package model

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every repository reads with SELECT *, so sqlx requires the column set of
// each table to match the model's db tags exactly: an unmapped column fails
// StructScan, and a missing column fails the named INSERT/UPDATE.
func TestSchemaMatchesModels(t *testing.T) {
	tables := schemaColumns(t)

	checks := map[string]interface{}{
		"categories":      Category{},
		"products":        Product{},
		"points_of_sale":  PointOfSale{},
		"customers":       Customer{},
		"sellers":         Seller{},
		"stocks":          Stock{},
		"stock_histories": StockHistory{},
		"orders":          Order{},
		"order_details":   OrderDetail{},
	}

	for table, m := range checks {
		t.Run(table, func(t *testing.T) {
			columns, ok := tables[table]
			require.True(t, ok, "table %s missing from migration", table)

			tags := dbTags(reflect.TypeOf(m))
			for tag := range tags {
				assert.Contains(t, columns, tag, "column %s missing from table %s", tag, table)
			}
			for col := range columns {
				assert.Contains(t, tags, col, "column %s of table %s is not mapped", col, table)
			}
		})
	}
}

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

func schemaColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)

	tables := map[string]map[string]bool{}
	for _, m := range createTableRe.FindAllStringSubmatch(string(data), -1) {
		columns := map[string]bool{}
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) == 0 {
				continue
			}
			// Constraint lines (UNIQUE, CHECK, ...) start with an uppercase
			// keyword; column names are lowercase identifiers.
			name := fields[0]
			if name != strings.ToLower(name) {
				continue
			}
			columns[name] = true
		}
		tables[m[1]] = columns
	}
	return tables
}

func dbTags(typ reflect.Type) map[string]bool {
	tags := map[string]bool{}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous {
			for tag := range dbTags(field.Type) {
				tags[tag] = true
			}
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		tags[tag] = true
	}
	return tags
}
