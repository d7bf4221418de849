package catalog

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Index provides read-only lookups over a parsed catalog. When a key repeats,
// the entry seen last wins.
type Index struct {
	bySQLState map[string]Entry
	byConstant map[string]Entry
}

// NewIndex builds an Index from cat.
func NewIndex(cat *Catalog) *Index {
	entries := cat.Flatten()
	idx := &Index{
		bySQLState: make(map[string]Entry, len(entries)),
		byConstant: make(map[string]Entry, len(entries)),
	}
	for _, entry := range entries {
		if entry.SQLState != "" {
			idx.bySQLState[entry.SQLState] = entry
		}
		idx.byConstant[entry.Constant] = entry
	}
	return idx
}

// Lookup finds the entry for a SQLSTATE code.
func (x *Index) Lookup(sqlstate string) (Entry, bool) {
	entry, ok := x.bySQLState[sqlstate]
	return entry, ok
}

// Constant finds the entry for a symbolic name, with or without the
// ERRCODE_ prefix.
func (x *Index) Constant(name string) (Entry, bool) {
	name, _ = strings.CutPrefix(name, "ERRCODE_")
	entry, ok := x.byConstant[name]
	return entry, ok
}

// Classify resolves a server error returned by pgx to its catalog entry.
func (x *Index) Classify(err error) (Entry, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Entry{}, false
	}
	return x.Lookup(pgErr.Code)
}
