package postgres

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ev-station-service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// SRID4326 - WGS84 coordinate system
const SRID4326 = 4326

// sortColumns - соответствие полей сортировки колонкам
var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt:      "created_at",
	domain.SortByUpdatedAt:      "updated_at",
	domain.SortByName:           "name",
	domain.SortByPowerOutput:    "power_output",
	domain.SortByStatus:         "status",
	domain.SortByConnectorType:  "connector_type",
	domain.SortByTotalPorts:     "total_ports",
	domain.SortByAvailablePorts: "available_ports",
	domain.SortByDistance:       "distance",
}

// whereBuilder собирает WHERE с позиционными параметрами $n
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

// raw adds a condition that references already bound params.
func (w *whereBuilder) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) bind(arg interface{}) int {
	w.args = append(w.args, arg)
	return len(w.args)
}

func (w *whereBuilder) applyFilter(f domain.StationFilter) {
	if f.Status != nil {
		w.add("status = $%d", string(*f.Status))
	}
	if f.ConnectorType != nil {
		w.add("connector_type = $%d", string(*f.ConnectorType))
	}
	if f.MinPowerOutput != nil {
		w.add("power_output >= $%d", *f.MinPowerOutput)
	}
	if f.MaxPowerOutput != nil {
		w.add("power_output <= $%d", *f.MaxPowerOutput)
	}
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderAndWindow builds ORDER BY with createdAt/id tie-breakers plus LIMIT/OFFSET.
func orderAndWindow(w *whereBuilder, opts domain.FindOptions) string {
	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if opts.Descending() {
		dir = "DESC"
	}

	var b strings.Builder
	fmt.Fprintf(&b, " ORDER BY %s %s, created_at %s, id %s", col, dir, dir, dir)
	if opts.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT $%d", w.bind(opts.Limit))
	}
	if opts.Skip > 0 {
		fmt.Fprintf(&b, " OFFSET $%d", w.bind(opts.Skip))
	}
	return b.String()
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == code
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
