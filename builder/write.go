package builder

import (
	"errors"
	"strconv"
	"time"

	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

var (
	// ErrMissingWhereClause update or delete without conditions
	ErrMissingWhereClause = errors.New("missing where clause")
	// ErrEmptyValues insert or update with nothing to set
	ErrEmptyValues = errors.New("no values to write")
)

// SoftDeleteColumn column marking soft deleted rows
var SoftDeleteColumn = schema.ToDBName(schema.SoftDeleteFieldName)

// Write insert, update and delete statements of a table
type Write struct {
	Table      string
	PrimaryKey string
	SkipNull   bool
}

// Insert `INSERT INTO <table> SET <col> = :<col>, ...` without the primary key
func (wr Write) Insert(values schema.Record) (clause.Statement, error) {
	set := wr.assignments(values)
	if len(set) == 0 {
		return clause.Statement{}, ErrEmptyValues
	}

	w := clause.NewWriter()
	w.WriteString("INSERT INTO " + wr.Table + " SET ")
	clause.BuildSet(w, wr.Table, set)
	return w.Statement(), nil
}

// Update `UPDATE <table> SET ... WHERE ...`
func (wr Write) Update(values schema.Record, where []clause.Condition) (clause.Statement, error) {
	set := wr.assignments(values)
	if len(set) == 0 {
		return clause.Statement{}, ErrEmptyValues
	}
	return wr.update(set, where)
}

// Delete `DELETE FROM <table> WHERE ...`
func (wr Write) Delete(where []clause.Condition) (clause.Statement, error) {
	if len(where) == 0 {
		return clause.Statement{}, ErrMissingWhereClause
	}

	w := clause.NewWriter()
	w.WriteString("DELETE FROM " + wr.Table)
	if err := writeWhere(w, wr.Table, where); err != nil {
		return clause.Statement{}, err
	}
	return w.Statement(), nil
}

// SoftDelete update setting the soft delete column to at
func (wr Write) SoftDelete(where []clause.Condition, at time.Time) (clause.Statement, error) {
	return wr.update(clause.Set{{Column: SoftDeleteColumn, Value: at}}, where)
}

// Restore update clearing the soft delete column
func (wr Write) Restore(where []clause.Condition) (clause.Statement, error) {
	return wr.update(clause.Set{{Column: SoftDeleteColumn, Value: nil}}, where)
}

func (wr Write) update(set clause.Set, where []clause.Condition) (clause.Statement, error) {
	if len(where) == 0 {
		return clause.Statement{}, ErrMissingWhereClause
	}

	w := clause.NewWriter()
	w.WriteString("UPDATE " + wr.Table + " SET ")
	clause.BuildSet(w, wr.Table, set)
	if err := writeWhere(w, wr.Table, where); err != nil {
		return clause.Statement{}, err
	}
	return w.Statement(), nil
}

func (wr Write) assignments(values schema.Record) clause.Set {
	set := clause.SetFromRecord(values)
	if wr.PrimaryKey != "" {
		return set.Without(wr.SkipNull, wr.PrimaryKey)
	}
	return set.Without(wr.SkipNull)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
