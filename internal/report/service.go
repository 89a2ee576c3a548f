package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/employee"
	"github.com/frahmantamala/travel-booking/internal/trip"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type RepositoryAPI interface {
	StatusTotals(ctx context.Context, companyID int64, p Period) ([]StatusTotal, error)
	EmployeeSpend(ctx context.Context, companyID int64, p Period) ([]EmployeeSpend, error)
	SpendRows(ctx context.Context, companyID int64, p Period) ([]SpendRow, error)
	PenaltyStats(ctx context.Context, companyID int64, p Period) (PenaltyStats, error)
	CountByStatus(ctx context.Context, companyID int64, status trip.Status) (int, error)
}

type TripLister interface {
	ListTrips(ctx context.Context, companyID int64, filter trip.ListFilter) ([]*trip.Trip, error)
}

type CompanyLookup interface {
	GetCompany(ctx context.Context, id int64) (*company.Company, error)
}

type DocumentLookup interface {
	ExpiringDocuments(ctx context.Context, companyID int64, days int) ([]employee.ExpiringDocument, error)
}

const recentTrips = 5

type Service struct {
	repo      RepositoryAPI
	trips     TripLister
	companies CompanyLookup
	documents DocumentLookup
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, trips TripLister, companies CompanyLookup, documents DocumentLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		trips:     trips,
		companies: companies,
		documents: documents,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Summary(ctx context.Context, companyID int64, p Period) (*Summary, error) {
	if p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return nil, internal.NewValidationFieldError("to", "to must not be before from", internal.ErrCodeInvalidDate)
	}

	byStatus, err := s.repo.StatusTotals(ctx, companyID, p)
	if err != nil {
		return nil, s.wrap(err, "failed to load status totals", "company_id", companyID)
	}
	byEmployee, err := s.repo.EmployeeSpend(ctx, companyID, p)
	if err != nil {
		return nil, s.wrap(err, "failed to load employee spend", "company_id", companyID)
	}
	rows, err := s.repo.SpendRows(ctx, companyID, p)
	if err != nil {
		return nil, s.wrap(err, "failed to load spend rows", "company_id", companyID)
	}
	penalties, err := s.repo.PenaltyStats(ctx, companyID, p)
	if err != nil {
		return nil, s.wrap(err, "failed to load penalty stats", "company_id", companyID)
	}

	sum := &Summary{
		From:       p.From,
		To:         p.To,
		TotalSpend: decimal.Zero,
		ByStatus:   byStatus,
		ByEmployee: byEmployee,
		ByMonth:    byMonth(rows),
		Penalties:  penalties,
	}
	for _, st := range byStatus {
		sum.TripCount += st.Trips
		if st.Status != string(trip.StatusCancelled) {
			sum.TotalSpend = sum.TotalSpend.Add(st.Spend)
		}
	}
	if sum.ByStatus == nil {
		sum.ByStatus = []StatusTotal{}
	}
	if sum.ByEmployee == nil {
		sum.ByEmployee = []EmployeeSpend{}
	}
	return sum, nil
}

func byMonth(rows []SpendRow) []MonthSpend {
	idx := map[string]int{}
	out := []MonthSpend{}
	for _, r := range rows {
		key := r.CreatedAt.UTC().Format("2006-01")
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, MonthSpend{Month: key, Spend: decimal.Zero})
		}
		out[i].Trips++
		out[i].Spend = out[i].Spend.Add(r.Total)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Month < out[b].Month })
	return out
}

func (s *Service) Dashboard(ctx context.Context, companyID int64) (*Dashboard, error) {
	c, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	month, err := s.Summary(ctx, companyID, Period{From: &monthStart, To: &now})
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.CountByStatus(ctx, companyID, trip.StatusNeedsApproval)
	if err != nil {
		return nil, s.wrap(err, "failed to count pending approvals", "company_id", companyID)
	}

	docs, err := s.documents.ExpiringDocuments(ctx, companyID, 0)
	if err != nil {
		return nil, err
	}
	alerts := DocumentAlerts{}
	holders := map[int64]bool{}
	for _, d := range docs {
		if d.DaysLeft < 0 {
			alerts.Expired++
		} else {
			alerts.ExpiringSoon++
		}
		holders[d.EmployeeID] = true
	}
	alerts.Employees = len(holders)

	recent, err := s.trips.ListTrips(ctx, companyID, trip.ListFilter{Limit: recentTrips})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		CompanyName:      c.Name,
		Tariff:           c.Tariff,
		Balance:          c.Balance,
		PostpayLimit:     c.PostpayLimit,
		PostpayAvailable: c.PostpayAvailable(),
		MonthSpend:       month.TotalSpend,
		MonthTrips:       month.TripCount,
		PendingApprovals: pending,
		Documents:        alerts,
		RecentTrips:      recent,
	}, nil
}

// exportTrips loads the filtered trips, or ErrNothingToExport when none match.
func (s *Service) exportTrips(ctx context.Context, companyID int64, filter trip.ListFilter) ([]*trip.Trip, error) {
	trips, err := s.trips.ListTrips(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNothingToExport
	}
	return trips, nil
}

// ExportCSV writes a header and one row per trip. Nothing is written when no trip matches.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, companyID int64, filter trip.ListFilter) error {
	trips, err := s.exportTrips(ctx, companyID, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range trips {
		if err := cw.Write(exportRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.logger.Info("trips exported", "company_id", companyID, "format", "csv", "rows", len(trips))
	return nil
}

func (s *Service) ExportXLSX(ctx context.Context, w io.Writer, companyID int64, filter trip.ListFilter) error {
	trips, err := s.exportTrips(ctx, companyID, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	const sheet = "Trips"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, t := range trips {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, 0, len(exportHeader))
		for j, v := range exportRow(t) {
			if j == len(exportHeader)-1 {
				total, _ := t.Total.Float64()
				row = append(row, total)
				continue
			}
			row = append(row, v)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "J", 20); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("trips exported", "company_id", companyID, "format", "xlsx", "rows", len(trips))
	return nil
}

func (s *Service) wrap(err error, msg string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, append(args, "error", err)...)
	return internal.NewInternalError(msg, err)
}
