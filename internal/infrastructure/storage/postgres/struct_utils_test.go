package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"domus/internal/core/entity"
)

type mockCatalog struct {
	entity.BaseEntity
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"isActive"`
	Internal string `db:"-" json:"-"`
	NoTag    string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "name", "is_active",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap(t *testing.T) {
	base := entity.NewBaseEntity()
	cat := mockCatalog{
		BaseEntity: base,
		Name:       "Main building",
		IsActive:   true,
		Internal:   "ignored",
		NoTag:      "ignored",
	}

	m := StructToMap(cat)

	assert.Equal(t, base.ID, m["id"])
	assert.Equal(t, base.Version, m["version"])
	assert.Equal(t, base.CreatedAt, m["created_at"])
	assert.Equal(t, "Main building", m["name"])
	assert.Equal(t, true, m["is_active"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 6)
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{BaseEntity: entity.NewBaseEntity(), Name: "ptr"}

	m := StructToMap(cat)

	assert.Equal(t, "ptr", m["name"])
}
