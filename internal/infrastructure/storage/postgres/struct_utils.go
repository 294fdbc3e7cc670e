package postgres

import (
	"reflect"
	"sync"
)

// Repositories map entities to rows through `db` struct tags. The two
// helpers below are the only places that reflect over entity structs;
// metadata is cached per type, so reflection cost is paid once.

type fieldMeta struct {
	index  int
	column string
}

type structMeta struct {
	fields   []fieldMeta
	embedded []int
}

var metaCache sync.Map // reflect.Type -> *structMeta

func metaFor(t reflect.Type) *structMeta {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*structMeta)
	}

	meta := &structMeta{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embedded = append(meta.embedded, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldMeta{index: i, column: tag})
		}
	}

	metaCache.Store(t, meta)
	return meta
}

// ExtractDBColumns lists the column names of T's `db`-tagged fields,
// descending into embedded structs such as entity.BaseEntity.
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	meta := metaFor(t)
	cols := make([]string, 0, len(meta.fields))
	for _, i := range meta.embedded {
		cols = append(cols, columnsOf(t.Field(i).Type)...)
	}
	for _, f := range meta.fields {
		cols = append(cols, f.column)
	}
	return cols
}

// StructToMap flattens an entity into column->value pairs for squirrel
// insert and update builders. Untagged fields and `db:"-"` are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := metaFor(rv.Type())
	res := make(map[string]any, len(meta.fields))
	for _, i := range meta.embedded {
		for col, val := range StructToMap(rv.Field(i).Interface()) {
			res[col] = val
		}
	}
	for _, f := range meta.fields {
		res[f.column] = rv.Field(f.index).Interface()
	}
	return res
}
