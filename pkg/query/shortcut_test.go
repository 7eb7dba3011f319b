package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortcut_ResolveTable(t *testing.T) {
	tables := []string{"customers", "orders"}

	assert.Equal(t, "orders", Shortcut{Table: "orders"}.ResolveTable(tables))
	assert.Equal(t, "customers", Shortcut{Table: "missing"}.ResolveTable(tables))
	assert.Equal(t, "customers", Shortcut{}.ResolveTable(tables))
	assert.Equal(t, "", Shortcut{Table: "orders"}.ResolveTable(nil))
}

func TestShortcut_Apply(t *testing.T) {
	available := []string{"id", "status", "amount"}

	t.Run("all columns and default limit", func(t *testing.T) {
		spec := Shortcut{Table: "orders"}.Apply("orders", available)
		assert.Equal(t, available, spec.Columns)
		assert.Empty(t, spec.Filters)
		require.NotNil(t, spec.Limit)
		assert.Equal(t, DefaultLimit, *spec.Limit)
	})

	t.Run("missing columns are dropped", func(t *testing.T) {
		sc := Shortcut{Table: "orders", Columns: []string{"amount", "ghost", "id"}, Limit: 25}
		spec := sc.Apply("orders", available)
		assert.Equal(t, []string{"amount", "id"}, spec.Columns)
		assert.Equal(t, 25, *spec.Limit)
	})

	t.Run("where applied when column exists", func(t *testing.T) {
		sc := Shortcut{Table: "orders", Where: &ShortcutWhere{Column: "status", Operator: "CONTAINS", Value: "ship"}}
		spec := sc.Apply("orders", available)
		require.Len(t, spec.Filters, 1)
		assert.Equal(t, "SELECT id, status, amount FROM orders WHERE status::text ILIKE '%ship%' LIMIT 100;", Compose(spec))
	})

	t.Run("where skipped when column missing", func(t *testing.T) {
		sc := Shortcut{Table: "orders", Where: &ShortcutWhere{Column: "ghost", Operator: "=", Value: "1"}}
		assert.Empty(t, sc.Apply("orders", available).Filters)
	})
}

func TestShortcut_Spec(t *testing.T) {
	sc := Shortcut{
		Table:   "orders",
		Columns: []string{"id"},
		Where:   &ShortcutWhere{Column: "amount", Operator: ">=", Value: "100"},
		Limit:   10,
	}
	assert.Equal(t, "SELECT id FROM orders WHERE amount::float >= 100 LIMIT 10;", Compose(sc.Spec()))
	assert.Equal(t, "SELECT * FROM t;", Compose(Shortcut{Table: "t"}.Spec()))
}
