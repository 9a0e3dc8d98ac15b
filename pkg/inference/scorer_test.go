package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/pkg/models"
)

func mustSchema(t *testing.T, tables []models.Table) *models.SchemaModel {
	t.Helper()
	schema, err := models.NewSchemaModel("testdb", tables)
	require.NoError(t, err)
	return schema
}

func column(name, dataType string) models.Column {
	return models.Column{
		Name:      name,
		DataType:  dataType,
		TypeClass: models.ClassifyType(dataType),
	}
}

func TestScoreExactMatch(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})
	target := schema.Table("customers")

	t.Run("name and type both match", func(t *testing.T) {
		score, basis, ok := Score(column("customer_id", "integer"), "orders", target)
		require.True(t, ok)
		assert.Equal(t, models.BasisExactMatch, basis)
		assert.Equal(t, 0.98, score)
	})

	t.Run("name matches but declared type differs within the class", func(t *testing.T) {
		score, basis, ok := Score(column("customer_id", "bigint"), "orders", target)
		require.True(t, ok)
		assert.Equal(t, models.BasisExactMatch, basis)
		assert.Equal(t, 0.95, score)
	})

	t.Run("length suffix does not break the type bonus", func(t *testing.T) {
		stringTarget := mustSchema(t, []models.Table{
			{Name: "countries", Columns: []models.Column{
				{Name: "country_id", DataType: "varchar(2)", IsPrimaryKey: true},
			}},
		}).Table("countries")

		score, basis, ok := Score(column("country_id", "varchar(10)"), "addresses", stringTarget)
		require.True(t, ok)
		assert.Equal(t, models.BasisExactMatch, basis)
		assert.Equal(t, 0.98, score)
	})
}

func TestScoreTypeGate(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})

	_, _, ok := Score(column("customer_id", "varchar(50)"), "orders", schema.Table("customers"))
	assert.False(t, ok, "string column must not match an integer primary key")
}

func TestScoreGenericNamesNeverTrigger(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "statuses", Columns: []models.Column{
			{Name: "status", DataType: "varchar(20)", IsPrimaryKey: true},
		}},
	})
	target := schema.Table("statuses")

	for _, name := range []string{"id", "name", "status", "type", "code", "uuid"} {
		_, _, ok := Score(column(name, "varchar(20)"), "orders", target)
		assert.False(t, ok, "generic column %q must not trigger inference", name)
	}
}

func TestScoreRejectsTargetWithoutPrimaryKey(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "notes", Columns: []models.Column{
			{Name: "body", DataType: "text"},
		}},
	})

	_, _, ok := Score(column("note_id", "integer"), "orders", schema.Table("notes"))
	assert.False(t, ok)
}

func TestScoreSelfReference(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "employees", Columns: []models.Column{
			{Name: "employee_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})
	target := schema.Table("employees")

	t.Run("parent-style column is hierarchical", func(t *testing.T) {
		score, basis, ok := Score(column("parent_id", "integer"), "employees", target)
		require.True(t, ok)
		assert.Equal(t, models.BasisHierarchical, basis)
		assert.Equal(t, 0.90, score)
	})

	t.Run("manager_id is hierarchical", func(t *testing.T) {
		score, basis, ok := Score(column("manager_id", "integer"), "employees", target)
		require.True(t, ok)
		assert.Equal(t, models.BasisHierarchical, basis)
		assert.Equal(t, 0.90, score)
	})

	t.Run("plain self-reference is rejected", func(t *testing.T) {
		_, _, ok := Score(column("employee_id", "integer"), "employees", target)
		assert.False(t, ok)
	})
}

func TestScorePatternMatch(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})
	target := schema.Table("customers")

	t.Run("near-miss stem lands in the mid band", func(t *testing.T) {
		score, basis, ok := Score(column("custmer_id", "integer"), "orders", target)
		require.True(t, ok)
		assert.Equal(t, models.BasisPatternMatch, basis)
		assert.GreaterOrEqual(t, score, 0.50)
		assert.LessOrEqual(t, score, 0.92)
		assert.Less(t, score, 0.95, "pattern matches stay below the exact band")
	})

	t.Run("matching the primary key stem caps at the band ceiling", func(t *testing.T) {
		clients := mustSchema(t, []models.Table{
			{Name: "clients", Columns: []models.Column{
				{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
			}},
		}).Table("clients")

		score, basis, ok := Score(column("customer_id", "integer"), "orders", clients)
		require.True(t, ok)
		assert.Equal(t, models.BasisPatternMatch, basis)
		assert.InDelta(t, 0.92, score, 1e-9)
		assert.LessOrEqual(t, score, 0.92)
	})

	t.Run("unrelated stem is rejected", func(t *testing.T) {
		_, _, ok := Score(column("warehouse_id", "integer"), "orders", target)
		assert.False(t, ok)
	})
}

func TestScoreIsDeterministic(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})
	target := schema.Table("customers")
	col := column("custmer_id", "integer")

	score1, basis1, ok1 := Score(col, "orders", target)
	score2, basis2, ok2 := Score(col, "orders", target)

	assert.Equal(t, score1, score2)
	assert.Equal(t, basis1, basis2)
	assert.Equal(t, ok1, ok2)
}

func TestScoreBounds(t *testing.T) {
	schema := mustSchema(t, []models.Table{
		{Name: "customers", Columns: []models.Column{
			{Name: "customer_id", DataType: "integer", IsPrimaryKey: true},
		}},
	})
	target := schema.Table("customers")

	for _, name := range []string{"customer_id", "custmer_id", "customer_key", "customer_fk"} {
		score, _, ok := Score(column(name, "integer"), "orders", target)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 1.0, name)
	}
}
