package suggestions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrBaselineIncomplete = errors.New("BASELINE_INCOMPLETE")
	ErrBaselineLoad       = errors.New("BASELINE_LOAD_FAILED")
)

const (
	kindConstruct = "construct"
	kindIndicator = "indicator"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// BaselineRepository reads survey reference values from PostgreSQL. Rows have
// the shape (kind, code, value) with kind "construct" or "indicator".
type BaselineRepository struct {
	db    *sql.DB
	table string
}

func NewBaselineRepository(db *sql.DB, table string) (*BaselineRepository, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid baseline table name %q", table)
	}
	return &BaselineRepository{db: db, table: table}, nil
}

func (r *BaselineRepository) Load(ctx context.Context) (Baseline, error) {
	query := fmt.Sprintf(`SELECT kind, code, value FROM %s WHERE kind IN ($1, $2)`, r.table)

	rows, err := r.db.QueryContext(ctx, query, kindConstruct, kindIndicator)
	if err != nil {
		return Baseline{}, fmt.Errorf("%w: %v", ErrBaselineLoad, err)
	}
	defer rows.Close()

	constructs := make(map[string]float64)
	indicators := make(map[string]float64)
	for rows.Next() {
		var kind, code string
		var value float64
		if err := rows.Scan(&kind, &code, &value); err != nil {
			return Baseline{}, fmt.Errorf("%w: %v", ErrBaselineLoad, err)
		}
		if kind == kindConstruct {
			constructs[code] = value
		} else {
			indicators[code] = value
		}
	}
	if err := rows.Err(); err != nil {
		return Baseline{}, fmt.Errorf("%w: %v", ErrBaselineLoad, err)
	}

	return BaselineFromValues("postgres:"+r.table, constructs, indicators)
}
