package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidQuery = errors.New("invalid query")

// QueryBuilder assembles SELECT and INSERT statements with "?" placeholders.
// Callers rebind them for their driver.
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder
	Limit(n int) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Into(table string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	SetExclude(cols ...string) QueryBuilder

	Build() (string, []interface{}, error)
}

type queryBuilder struct {
	schema      string
	table       string
	cols        []string
	conditions  []Condition
	orderBy     []string
	limit       int
	values      InsertRows
	onConflict  []string
	excludeCols []string
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{
		schema: schema,
	}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{condType: CondTypeAnd, clause: clause, args: args})
	return q
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	orderVector := "ASC"
	if !asc {
		orderVector = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, orderVector))
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

// SetExclude lists the columns overwritten from EXCLUDED on conflict.
// Without it a conflict does nothing.
func (q *queryBuilder) SetExclude(cols ...string) QueryBuilder {
	q.excludeCols = cols
	return q
}

func (q *queryBuilder) Build() (string, []interface{}, error) {
	if q.table == "" || len(q.cols) == 0 {
		return "", nil, fmt.Errorf("%w: table and columns are required", ErrInvalidQuery)
	}
	if len(q.values) > 0 {
		return q.buildInsert()
	}
	return q.buildSelect()
}

func (q *queryBuilder) qualifiedTable() string {
	if q.schema == "" {
		return q.table
	}
	return fmt.Sprintf("%s.%s", q.schema, q.table)
}

func (q *queryBuilder) buildSelect() (string, []interface{}, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(q.cols, ", "), q.qualifiedTable())

	var args []interface{}
	if len(q.conditions) > 0 {
		condition, condArgs := buildCondition(q.conditions)
		query += fmt.Sprintf(" WHERE %s", condition)
		args = append(args, condArgs...)
	}

	if len(q.orderBy) > 0 {
		query += fmt.Sprintf(" ORDER BY %s", strings.Join(q.orderBy, ", "))
	}

	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}

	return query, args, nil
}

func (q *queryBuilder) buildInsert() (string, []interface{}, error) {
	numOfParam := len(q.cols)
	valueTuples := make([]string, 0, len(q.values))
	args := make([]interface{}, 0, numOfParam*len(q.values))

	for i, row := range q.values {
		if len(row) != numOfParam {
			return "", nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrInvalidQuery, i, len(row), numOfParam)
		}
		placeholders := make([]string, numOfParam)
		for j, val := range row {
			placeholders[j] = "?"
			args = append(args, val)
		}
		valueTuples = append(valueTuples, fmt.Sprintf("(%s)", strings.Join(placeholders, ", ")))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		q.qualifiedTable(), strings.Join(q.cols, ", "), strings.Join(valueTuples, ", "))

	if len(q.onConflict) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(q.onConflict, ", "))
		if len(q.excludeCols) == 0 {
			return query + " DO NOTHING", args, nil
		}
		sets := make([]string, 0, len(q.excludeCols))
		for _, col := range q.excludeCols {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
		query += " DO UPDATE SET " + strings.Join(sets, ", ")
	}

	return query, args, nil
}
