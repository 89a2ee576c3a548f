package postgres

import (
	"context"
	"strings"

	"github.com/frahmantamala/travel-booking/internal/report"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the aggregation queries directly through sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

type where struct {
	clauses []string
	args    []interface{}
}

func scope(alias string, companyID int64, p report.Period) *where {
	w := &where{}
	w.add(alias+"company_id = ?", companyID)
	if p.From != nil {
		w.add(alias+"created_at >= ?", p.From.UTC())
	}
	if p.To != nil {
		w.add(alias+"created_at <= ?", p.To.UTC())
	}
	return w
}

func (w *where) add(clause string, args ...interface{}) *where {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
	return w
}

func (w *where) sql() string {
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (r *ReportRepository) StatusTotals(ctx context.Context, companyID int64, p report.Period) ([]report.StatusTotal, error) {
	w := scope("", companyID, p)
	q := `SELECT status, COUNT(*) AS trips, COALESCE(SUM(total), 0) AS spend FROM trips` + w.sql() +
		` GROUP BY status ORDER BY status`
	var out []report.StatusTotal
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportRepository) EmployeeSpend(ctx context.Context, companyID int64, p report.Period) ([]report.EmployeeSpend, error) {
	w := scope("t.", companyID, p).add("t.status <> ?", string(trip.StatusCancelled))
	q := `SELECT t.employee_id AS employee_id, COALESCE(e.name, '') AS name, COUNT(*) AS trips, COALESCE(SUM(t.total), 0) AS spend
		FROM trips t LEFT JOIN employees e ON e.id = t.employee_id` + w.sql() +
		` GROUP BY t.employee_id, e.name ORDER BY spend DESC, name ASC`
	var out []report.EmployeeSpend
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportRepository) SpendRows(ctx context.Context, companyID int64, p report.Period) ([]report.SpendRow, error) {
	w := scope("", companyID, p).add("status <> ?", string(trip.StatusCancelled))
	q := `SELECT created_at, total FROM trips` + w.sql() + ` ORDER BY created_at`
	var out []report.SpendRow
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportRepository) PenaltyStats(ctx context.Context, companyID int64, p report.Period) (report.PenaltyStats, error) {
	w := scope("", companyID, p)
	q := `SELECT COUNT(*) AS count, COALESCE(SUM(excess), 0) AS excess FROM policy_penalties` + w.sql()
	var out report.PenaltyStats
	err := r.db.GetContext(ctx, &out, r.db.Rebind(q), w.args...)
	return out, err
}

func (r *ReportRepository) CountByStatus(ctx context.Context, companyID int64, status trip.Status) (int, error) {
	var n int
	q := `SELECT COUNT(*) FROM trips WHERE company_id = ? AND status = ?`
	err := r.db.GetContext(ctx, &n, r.db.Rebind(q), companyID, string(status))
	return n, err
}
