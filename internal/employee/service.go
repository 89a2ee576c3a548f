package employee

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, companyID, id int64) (*Employee, error)
	ExistsByEmail(ctx context.Context, companyID int64, email string) (bool, error)
	// List applies Query and Department; document status is derived and filtered by the service.
	List(ctx context.Context, companyID int64, filter ListFilter) ([]*Employee, error)
	Delete(ctx context.Context, companyID, id int64) error
	AddDocument(ctx context.Context, doc *Document) error
	RemoveDocument(ctx context.Context, employeeID, documentID int64) error
	AddCard(ctx context.Context, card *Card) error
	ListDocumentsExpiringBy(ctx context.Context, companyID int64, until time.Time) ([]*Employee, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       RepositoryAPI
	publisher  Publisher
	windowDays int
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds the employee service. windowDays is how far ahead a document counts as expiring soon.
func NewService(repo RepositoryAPI, publisher Publisher, windowDays int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		publisher:  publisher,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreateEmployee(ctx context.Context, companyID int64, dto CreateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, companyID, dto.Email)
	if err != nil {
		s.logger.Error("failed to check employee email", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	if exists {
		return nil, ErrDuplicateEmployee
	}

	e := &Employee{
		CompanyID:  companyID,
		Name:       dto.Name,
		Email:      dto.Email,
		Role:       dto.Role,
		Department: dto.Department,
		Documents:  make([]Document, 0, len(dto.Documents)),
		Cards:      []Card{},
	}
	for _, d := range dto.Documents {
		e.Documents = append(e.Documents, d.toDocument(0))
	}

	if err := s.repo.Create(ctx, e); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create employee", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	e.Refresh(s.now(), s.windowDays)

	s.logger.Info("employee created", "company_id", companyID, "employee_id", e.ID, "documents", len(e.Documents))
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewEmployeeCreatedEvent(companyID, e.ID, e.Name)); err != nil {
			s.logger.Warn("failed to publish employee.created", "error", err, "employee_id", e.ID)
		}
	}
	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, companyID, id int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load employee", "employee_id", id)
	}
	e.Refresh(s.now(), s.windowDays)
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context, companyID int64, filter ListFilter) ([]*Employee, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	list, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, s.wrap(err, "failed to list employees", "company_id", companyID)
	}

	now := s.now()
	out := make([]*Employee, 0, len(list))
	for _, e := range list {
		e.Refresh(now, s.windowDays)
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, companyID, id int64) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return s.wrap(err, "failed to delete employee", "employee_id", id)
	}
	s.logger.Info("employee deleted", "company_id", companyID, "employee_id", id)
	return nil
}

func (s *Service) AddDocument(ctx context.Context, companyID, employeeID int64, dto AddDocumentDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetEmployee(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	doc := dto.toDocument(employeeID)
	if err := s.repo.AddDocument(ctx, &doc); err != nil {
		return nil, s.wrap(err, "failed to add document", "employee_id", employeeID)
	}
	s.logger.Info("document added", "employee_id", employeeID, "document_id", doc.ID, "type", doc.Type)
	return s.GetEmployee(ctx, companyID, employeeID)
}

func (s *Service) RemoveDocument(ctx context.Context, companyID, employeeID, documentID int64) (*Employee, error) {
	if _, err := s.GetEmployee(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveDocument(ctx, employeeID, documentID); err != nil {
		return nil, s.wrap(err, "failed to remove document", "document_id", documentID)
	}
	return s.GetEmployee(ctx, companyID, employeeID)
}

// AddCard stores the last four digits of a personal card for the employee.
func (s *Service) AddCard(ctx context.Context, companyID, employeeID int64, dto AddCardDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetEmployee(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	digits := strings.NewReplacer(" ", "", "-", "").Replace(dto.CardNumber)
	card := &Card{
		EmployeeID: employeeID,
		Last4:      digits[len(digits)-4:],
		Holder:     strings.TrimSpace(dto.Holder),
	}
	if err := s.repo.AddCard(ctx, card); err != nil {
		return nil, s.wrap(err, "failed to add card", "employee_id", employeeID)
	}
	return s.GetEmployee(ctx, companyID, employeeID)
}

// ExpiringDocuments lists documents that are expired or expire within days, soonest first.
// days <= 0 uses the configured window.
func (s *Service) ExpiringDocuments(ctx context.Context, companyID int64, days int) ([]ExpiringDocument, error) {
	if days <= 0 {
		days = s.windowDays
	}
	now := s.now()
	until := civilDate(now).AddDate(0, 0, days)

	list, err := s.repo.ListDocumentsExpiringBy(ctx, companyID, until)
	if err != nil {
		return nil, s.wrap(err, "failed to list expiring documents", "company_id", companyID)
	}

	today := civilDate(now)
	out := make([]ExpiringDocument, 0)
	for _, e := range list {
		for _, d := range e.Documents {
			if civilDate(d.ExpirationDate).After(until) {
				continue
			}
			d.Status = StatusOf(d.ExpirationDate, now, days)
			out = append(out, ExpiringDocument{
				EmployeeID:   e.ID,
				EmployeeName: e.Name,
				Email:        e.Email,
				Document:     d,
				DaysLeft:     int(civilDate(d.ExpirationDate).Sub(today).Hours() / 24),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Document.ExpirationDate.Before(out[j].Document.ExpirationDate)
	})
	return out, nil
}

func (s *Service) wrap(err error, msg string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, append([]any{"error", err}, args...)...)
	return internal.NewInternalError(msg, err)
}
