package sanitize

import (
	"fmt"
	"sync"

	"gorm.io/gorm/schema"
)

// columns the server always owns, never writable by clients
var serverOwned = []string{"id", "created_at", "updated_at"}

// Sanitize returns a copy of in containing only the allowed keys.
// Unknown keys are dropped silently; the result never aliases in.
func Sanitize(in map[string]interface{}, allowed []string) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	if len(in) == 0 {
		return out
	}

	allow := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		allow[key] = struct{}{}
	}

	for key, value := range in {
		if _, ok := allow[key]; ok {
			out[key] = value
		}
	}

	return out
}

// WritableColumns derives the client-writable column names from a gorm
// model, so the allow-list tracks the struct instead of a hand-kept
// string slice. Server-owned columns and any extra excludes are
// removed.
func WritableColumns(model interface{}, exclude ...string) ([]string, error) {
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("parse model schema: %w", err)
	}

	skip := make(map[string]struct{}, len(serverOwned)+len(exclude))
	for _, col := range serverOwned {
		skip[col] = struct{}{}
	}
	for _, col := range exclude {
		skip[col] = struct{}{}
	}

	columns := make([]string, 0, len(s.DBNames))
	for _, name := range s.DBNames {
		if _, skipped := skip[name]; skipped {
			continue
		}
		columns = append(columns, name)
	}

	return columns, nil
}

// MustWritableColumns is WritableColumns for package-level allow-lists;
// a model that cannot be parsed is a programming error.
func MustWritableColumns(model interface{}, exclude ...string) []string {
	columns, err := WritableColumns(model, exclude...)
	if err != nil {
		panic(err)
	}
	return columns
}
