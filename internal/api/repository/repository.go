// Package repository hydrates the demo domain entities (internal/api/model)
// from PostgreSQL, the "external persistence collaborator" the jsonapi core
// itself never depends on.
package repository

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResourceMeta describes one resource type's database mapping: its table,
// primary key, and the struct fields (including embedded AuditFields) that
// back each column.
type ResourceMeta struct {
	Type      string
	Table     string
	PKColumn  string
	ModelType reflect.Type

	Columns    []string
	fieldPaths map[string][]int
}

// GenericRepository loads rows for any registered resource type into freshly
// allocated instances of its ModelType, using pgxpool for connection
// pooling across concurrent request handlers.
type GenericRepository struct {
	pool      *pgxpool.Pool
	resources map[string]*ResourceMeta
}

// NewGenericRepository returns a repository backed by pool.
func NewGenericRepository(pool *pgxpool.Pool) *GenericRepository {
	return &GenericRepository{
		pool:      pool,
		resources: make(map[string]*ResourceMeta),
	}
}

// Register derives meta's column list and field paths from its ModelType's
// `db` struct tags, recursing into anonymous embedded structs such as
// AuditFields.
func (r *GenericRepository) Register(meta *ResourceMeta) {
	meta.Columns, meta.fieldPaths = flattenColumns(meta.ModelType)
	r.resources[meta.Type] = meta
	log.Printf("repository: registered %s -> table %s (%d columns)", meta.Type, meta.Table, len(meta.Columns))
}

func flattenColumns(t reflect.Type) ([]string, map[string][]int) {
	var columns []string
	paths := make(map[string][]int)

	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			path := append(append([]int{}, prefix...), i)
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				walk(f.Type, path)
				continue
			}
			dbTag := f.Tag.Get("db")
			if dbTag == "" || dbTag == "-" {
				continue
			}
			columns = append(columns, dbTag)
			paths[dbTag] = path
		}
	}
	walk(t, nil)
	return columns, paths
}

// GetMeta returns the ResourceMeta registered for resourceType.
func (r *GenericRepository) GetMeta(resourceType string) (*ResourceMeta, bool) {
	meta, ok := r.resources[resourceType]
	return meta, ok
}

// ListParams constrains a List query.
type ListParams struct {
	ParentFK   string
	ParentID   interface{}
	Sort       string
	PageSize   int
	PageOffset int
}

// List returns hydrated instances of meta.ModelType (as interface{}, since
// the resource type is only known at runtime) for resourceType.
func (r *GenericRepository) List(ctx context.Context, resourceType string, params ListParams) ([]interface{}, error) {
	meta, ok := r.resources[resourceType]
	if !ok {
		return nil, fmt.Errorf("repository: unknown resource type %q", resourceType)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(meta.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(meta.Table)

	var args []interface{}
	if params.ParentFK != "" && params.ParentID != nil {
		sb.WriteString(fmt.Sprintf(" WHERE %s = $1", params.ParentFK))
		args = append(args, params.ParentID)
	}
	if params.Sort != "" {
		if strings.HasPrefix(params.Sort, "-") {
			sb.WriteString(fmt.Sprintf(" ORDER BY %s DESC", strings.TrimPrefix(params.Sort, "-")))
		} else {
			sb.WriteString(fmt.Sprintf(" ORDER BY %s ASC", params.Sort))
		}
	}
	if params.PageSize > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", params.PageSize))
		if params.PageOffset > 0 {
			sb.WriteString(fmt.Sprintf(" OFFSET %d", params.PageOffset))
		}
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanInto(rows, meta)
}

// FindByID returns one hydrated instance by primary key, or nil if absent.
func (r *GenericRepository) FindByID(ctx context.Context, resourceType string, id interface{}) (interface{}, error) {
	meta, ok := r.resources[resourceType]
	if !ok {
		return nil, fmt.Errorf("repository: unknown resource type %q", resourceType)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(meta.Columns, ", "), meta.Table, meta.PKColumn)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	results, err := scanInto(rows, meta)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Create inserts instance (a *meta.ModelType) and returns the row as loaded
// back from the database, picking up any server-generated defaults.
func (r *GenericRepository) Create(ctx context.Context, resourceType string, instance interface{}) (interface{}, error) {
	meta, ok := r.resources[resourceType]
	if !ok {
		return nil, fmt.Errorf("repository: unknown resource type %q", resourceType)
	}

	values := structValues(instance, meta)
	var cols, placeholders []string
	var args []interface{}
	for i, col := range meta.Columns {
		if col == meta.PKColumn && isZeroValue(values[i]) {
			continue
		}
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, values[i])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		meta.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), meta.PKColumn)

	var id interface{}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return r.FindByID(ctx, resourceType, id)
}

// Update overwrites every non-key column of the row with primary key id
// from instance (zero-valued fields included; it is not a partial patch)
// and returns the row as reloaded from the database.
func (r *GenericRepository) Update(ctx context.Context, resourceType string, id interface{}, instance interface{}) (interface{}, error) {
	meta, ok := r.resources[resourceType]
	if !ok {
		return nil, fmt.Errorf("repository: unknown resource type %q", resourceType)
	}

	values := structValues(instance, meta)
	var setClauses []string
	var args []interface{}
	for i, col := range meta.Columns {
		if col == meta.PKColumn {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, values[i])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		meta.Table, strings.Join(setClauses, ", "), meta.PKColumn, len(args))

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return r.FindByID(ctx, resourceType, id)
}

// Delete removes a row by primary key.
func (r *GenericRepository) Delete(ctx context.Context, resourceType string, id interface{}) error {
	meta, ok := r.resources[resourceType]
	if !ok {
		return fmt.Errorf("repository: unknown resource type %q", resourceType)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", meta.Table, meta.PKColumn)
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// structValues reads instance's column-backed fields in meta.Columns order.
func structValues(instance interface{}, meta *ResourceMeta) []interface{} {
	rv := reflect.ValueOf(instance)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	values := make([]interface{}, len(meta.Columns))
	for i, col := range meta.Columns {
		path, ok := meta.fieldPaths[col]
		if !ok {
			continue
		}
		values[i] = rv.FieldByIndex(path).Interface()
	}
	return values
}

func isZeroValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.IsZero()
}

// scanInto materializes each row as a *meta.ModelType, assigning scanned
// column values into the struct fields discovered by Register.
func scanInto(rows pgx.Rows, meta *ResourceMeta) ([]interface{}, error) {
	var out []interface{}

	for rows.Next() {
		values := make([]interface{}, len(meta.Columns))
		ptrs := make([]interface{}, len(meta.Columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		instance := reflect.New(meta.ModelType)
		for i, col := range meta.Columns {
			path, ok := meta.fieldPaths[col]
			if !ok {
				continue
			}
			if err := assignField(instance.Elem().FieldByIndex(path), values[i]); err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
		}
		out = append(out, instance.Interface())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// assignField assigns a raw pgx-scanned value into a struct field,
// following the same assignable/convertible fallback the reflect-based
// field accessor uses elsewhere in this codebase.
func assignField(fv reflect.Value, raw interface{}) error {
	if raw == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	rv := reflect.ValueOf(raw)

	if fv.Kind() == reflect.Ptr {
		if rv.Type().AssignableTo(fv.Type().Elem()) {
			p := reflect.New(fv.Type().Elem())
			p.Elem().Set(rv)
			fv.Set(p)
			return nil
		}
	}
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T into %s", raw, fv.Type())
}
