package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/pkg/models"
)

func orderSchema(t *testing.T) *models.SchemaModel {
	t.Helper()
	return mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "email", DataType: "varchar(255)"},
		}},
		{Name: "orders", Columns: []models.Column{
			{Name: "order_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "customer_id", DataType: "integer"},
		}},
		{Name: "products", Columns: []models.Column{
			{Name: "product_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "title", DataType: "text"},
		}},
		{Name: "order_items", Columns: []models.Column{
			{Name: "item_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "order_id", DataType: "integer"},
			{Name: "product_id", DataType: "integer"},
		}},
	})
}

func TestInferOrderSchema(t *testing.T) {
	engine := NewEngine(nil)
	rels, warnings := engine.Infer(orderSchema(t))

	assert.Empty(t, warnings)
	require.Len(t, rels, 4)

	orders := rels["orders"]
	require.NotNil(t, orders)
	assert.Equal(t, "order_id", orders.PrimaryKey)
	require.Len(t, orders.ForeignKeys, 1)
	fk := orders.ForeignKeys[0]
	assert.Equal(t, "customer_id", fk.SourceColumn)
	assert.Equal(t, "customers.customer_id", fk.References())
	assert.Equal(t, models.BasisExactMatch, fk.Basis)
	assert.Equal(t, 0.98, fk.Confidence)

	items := rels["order_items"]
	require.Len(t, items.ForeignKeys, 2)
	assert.Equal(t, "orders.order_id", items.ForeignKeys[0].References())
	assert.Equal(t, "products.product_id", items.ForeignKeys[1].References())

	assert.Empty(t, rels["customers"].ForeignKeys)
	assert.Empty(t, rels["products"].ForeignKeys)
}

func TestInferTypeGateBlocksExactNameMatch(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
		{Name: "orders", Columns: []models.Column{
			{Name: "order_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "customer_id", DataType: "varchar(50)"},
		}},
	})

	rels, _ := NewEngine(nil).Infer(schema)
	assert.Empty(t, rels["orders"].ForeignKeys)
}

func TestInferGenericColumnNeverTriggers(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "statuses", Columns: []models.Column{
			{Name: "status", DataType: "varchar(20)", IsPrimaryKey: true},
		}},
		{Name: "orders", Columns: []models.Column{
			{Name: "order_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "status", DataType: "varchar(20)"},
		}},
	})

	rels, _ := NewEngine(nil).Infer(schema)
	assert.Empty(t, rels["orders"].ForeignKeys)
}

func TestInferDeclaredPrecedence(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
		{Name: "clients", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
		{
			Name: "orders",
			Columns: []models.Column{
				{Name: "order_id", DataType: "integer", IsPrimaryKey: true},
				{Name: "customer_id", DataType: "integer"},
			},
			ForeignKeys: []models.ForeignKey{
				{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "customer_id"},
			},
		},
	})

	rels, warnings := NewEngine(nil).Infer(schema)
	assert.Empty(t, warnings)

	orders := rels["orders"]
	require.Len(t, orders.ForeignKeys, 1, "the declared constraint owns the column")
	fk := orders.ForeignKeys[0]
	assert.Equal(t, models.BasisDeclared, fk.Basis)
	assert.Equal(t, 1.0, fk.Confidence)
	assert.Equal(t, "customers.customer_id", fk.References())
	assert.False(t, fk.Inconsistent)
}

func TestInferDanglingDeclaredForeignKey(t *testing.T) {
	t.Run("missing target table", func(t *testing.T) {
		schema := mustSchema(t, []models.Table{
			{
				Name: "orders",
				Columns: []models.Column{
					{Name: "order_id", DataType: "integer", IsPrimaryKey: true},
					{Name: "customer_id", DataType: "integer"},
				},
				ForeignKeys: []models.ForeignKey{
					{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "customer_id"},
				},
			},
		})

		rels, warnings := NewEngine(nil).Infer(schema)

		require.Len(t, warnings, 1)
		assert.Equal(t, "orders", warnings[0].Table)
		assert.Equal(t, "customer_id", warnings[0].Column)

		require.Len(t, rels["orders"].ForeignKeys, 1, "the edge is still emitted")
		fk := rels["orders"].ForeignKeys[0]
		assert.Equal(t, models.BasisDeclared, fk.Basis)
		assert.Equal(t, 1.0, fk.Confidence)
		assert.True(t, fk.Inconsistent)
	})

	t.Run("missing target column", func(t *testing.T) {
		schema := mustSchema(t, []models.Table{
			{Name: "customers", Columns: []models.Column{
				{Name: "id", DataType: "integer", IsPrimaryKey: true},
			}},
			{
				Name: "orders",
				Columns: []models.Column{
					{Name: "order_id", DataType: "integer", IsPrimaryKey: true},
					{Name: "customer_id", DataType: "integer"},
				},
				ForeignKeys: []models.ForeignKey{
					{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "customer_uuid"},
				},
			},
		})

		_, warnings := NewEngine(nil).Infer(schema)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Message, "customer_uuid")
	})
}

func TestInferHierarchicalSelfReference(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "employees", Columns: []models.Column{
			{Name: "employee_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "manager_id", DataType: "integer"},
		}},
	})

	rels, _ := NewEngine(nil).Infer(schema)

	require.Len(t, rels["employees"].ForeignKeys, 1)
	fk := rels["employees"].ForeignKeys[0]
	assert.Equal(t, "employees", fk.TargetTable)
	assert.Equal(t, models.BasisHierarchical, fk.Basis)
	assert.Equal(t, 0.90, fk.Confidence)
}

func TestInferTableWithoutPrimaryKey(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
		// No primary key: can source inferences but never receive them.
		{Name: "notes", Columns: []models.Column{
			{Name: "body", DataType: "text"},
			{Name: "customer_id", DataType: "integer"},
		}},
		{Name: "reminders", Columns: []models.Column{
			{Name: "reminder_id", DataType: "integer", IsPrimaryKey: true},
			{Name: "note_id", DataType: "integer"},
		}},
	})

	rels, _ := NewEngine(nil).Infer(schema)

	require.Len(t, rels["notes"].ForeignKeys, 1)
	assert.Equal(t, "customers.customer_id", rels["notes"].ForeignKeys[0].References())
	assert.Empty(t, rels["notes"].PrimaryKey)

	assert.Empty(t, rels["reminders"].ForeignKeys, "a table without a primary key is never a target")
}

func TestInferZeroColumnTable(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "placeholder"},
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})

	rels, warnings := NewEngine(nil).Infer(schema)
	assert.Empty(t, warnings)
	require.NotNil(t, rels["placeholder"])
	assert.Empty(t, rels["placeholder"].ForeignKeys)
}

func TestInferIsDeterministic(t *testing.T) {
	schema := orderSchema(t)
	engine := NewEngine(nil)

	first, _ := engine.Infer(schema)
	second, _ := engine.Infer(schema)

	require.Equal(t, first, second)

	for name, entry := range first {
		for i := 1; i < len(entry.ForeignKeys); i++ {
			assert.LessOrEqual(t,
				entry.ForeignKeys[i-1].SourceColumn,
				entry.ForeignKeys[i].SourceColumn,
				"foreign keys of %s must be sorted by source column", name)
		}
	}
}

func TestInferConfidenceBounds(t *testing.T) {
	rels, _ := NewEngine(nil).Infer(orderSchema(t))

	for _, entry := range rels {
		for _, fk := range entry.ForeignKeys {
			assert.GreaterOrEqual(t, fk.Confidence, 0.0)
			assert.LessOrEqual(t, fk.Confidence, 1.0)
			assert.True(t, models.IsValidBasis(fk.Basis), fk.Basis)
		}
	}
}
