package employee_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	employeeDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/employee"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/employee"
	employeePostgres "github.com/frahmantamala/travel-booking/internal/employee/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func newTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())
	Expect(db.AutoMigrate(&employeeDatamodel.Employee{}, &employeeDatamodel.Document{}, &employeeDatamodel.Card{})).To(Succeed())
	return db
}

var _ = Describe("Employee Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		publisher *recordingPublisher
		service   *employee.Service
	)

	const companyID = int64(1)
	today := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db = newTestDB()
		publisher = &recordingPublisher{}
		service = employee.NewService(employeePostgres.NewEmployeeRepository(db), publisher, 60, slogger).
			WithClock(func() time.Time { return today })
	})

	create := func(name, email, department string, docs ...employee.AddDocumentDTO) *employee.Employee {
		e, err := service.CreateEmployee(ctx, companyID, employee.CreateEmployeeDTO{
			Name:       name,
			Email:      email,
			Role:       "Engineer",
			Department: department,
			Documents:  docs,
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	Describe("CreateEmployee", func() {
		It("stores the employee with documents and publishes employee.created", func() {
			e := create("Anna Petrova", "Anna@Example.com", "Sales", employee.AddDocumentDTO{
				Type: employee.DocumentPassport, Number: "4510 123456", ExpirationDate: "2026-11-01",
			})

			Expect(e.ID).To(BeNumerically(">", 0))
			Expect(e.Email).To(Equal("anna@example.com"))
			Expect(e.Documents).To(HaveLen(1))
			Expect(e.Documents[0].ID).To(BeNumerically(">", 0))
			Expect(e.Status).To(Equal(employee.StatusExpiringSoon))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeEmployeeCreated))
			Expect(events.CompanyOf(publisher.events[0])).To(Equal(companyID))
		})

		It("requires a name and a valid email", func() {
			_, err := service.CreateEmployee(ctx, companyID, employee.CreateEmployeeDTO{Email: "not-an-email"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			Expect(details.Errors).To(HaveLen(2))
		})

		It("rejects a duplicate email within the same company", func() {
			create("Anna Petrova", "anna@example.com", "Sales")
			_, err := service.CreateEmployee(ctx, companyID, employee.CreateEmployeeDTO{Name: "Other Anna", Email: "ANNA@example.com"})
			Expect(err).To(MatchError(employee.ErrDuplicateEmployee))
		})

		It("allows the same email in another company", func() {
			create("Anna Petrova", "anna@example.com", "Sales")
			_, err := service.CreateEmployee(ctx, 2, employee.CreateEmployeeDTO{Name: "Anna Petrova", Email: "anna@example.com"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListEmployees", func() {
		BeforeEach(func() {
			create("Anna Petrova", "anna@example.com", "Sales",
				employee.AddDocumentDTO{Type: employee.DocumentPassport, Number: "1", ExpirationDate: "2026-10-01"})
			create("Boris Ivanov", "boris@example.com", "Engineering",
				employee.AddDocumentDTO{Type: employee.DocumentVisa, Number: "2", ExpirationDate: "2026-12-01"})
			create("Clara Smith", "clara@example.com", "Engineering",
				employee.AddDocumentDTO{Type: employee.DocumentInternationalPassport, Number: "3", ExpirationDate: "2032-01-01"})
		})

		It("searches name, email and department", func() {
			list, err := service.ListEmployees(ctx, companyID, employee.ListFilter{Query: "engin"})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))

			list, err = service.ListEmployees(ctx, companyID, employee.ListFilter{Query: "CLARA"})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Clara Smith"))
		})

		It("filters by derived document status", func() {
			list, err := service.ListEmployees(ctx, companyID, employee.ListFilter{Status: employee.StatusExpired})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Anna Petrova"))

			list, err = service.ListEmployees(ctx, companyID, employee.ListFilter{Department: "Engineering", Status: employee.StatusValid})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Clara Smith"))
		})

		It("reports expiring documents soonest first", func() {
			docs, err := service.ExpiringDocuments(ctx, companyID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].EmployeeName).To(Equal("Anna Petrova"))
			Expect(docs[0].Document.Status).To(Equal(employee.StatusExpired))
			Expect(docs[0].DaysLeft).To(Equal(-17))
			Expect(docs[1].EmployeeName).To(Equal("Boris Ivanov"))
			Expect(docs[1].DaysLeft).To(Equal(44))
		})
	})

	Describe("documents and cards", func() {
		var e *employee.Employee

		BeforeEach(func() {
			e = create("Anna Petrova", "anna@example.com", "Sales")
		})

		It("adds and removes documents", func() {
			updated, err := service.AddDocument(ctx, companyID, e.ID, employee.AddDocumentDTO{
				Type: employee.DocumentVisa, Number: "V-77", ExpirationDate: "2026-10-10",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Documents).To(HaveLen(1))
			Expect(updated.Status).To(Equal(employee.StatusExpired))

			updated, err = service.RemoveDocument(ctx, companyID, e.ID, updated.Documents[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Documents).To(BeEmpty())
			Expect(updated.Status).To(Equal(employee.StatusValid))
		})

		It("rejects malformed expiration dates", func() {
			_, err := service.AddDocument(ctx, companyID, e.ID, employee.AddDocumentDTO{
				Type: employee.DocumentVisa, Number: "V-77", ExpirationDate: "10/10/2026",
			})
			Expect(err).To(HaveOccurred())
		})

		It("returns not found for a missing document", func() {
			_, err := service.RemoveDocument(ctx, companyID, e.ID, 999)
			Expect(err).To(MatchError(employee.ErrDocumentNotFound))
		})

		It("keeps only the last four card digits", func() {
			updated, err := service.AddCard(ctx, companyID, e.ID, employee.AddCardDTO{CardNumber: "5555 5555 5555 4444", Holder: "ANNA PETROVA"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Cards).To(HaveLen(1))
			Expect(updated.Cards[0].Last4).To(Equal("4444"))
		})

		It("deletes the employee together with documents and cards", func() {
			_, err := service.AddDocument(ctx, companyID, e.ID, employee.AddDocumentDTO{
				Type: employee.DocumentPassport, Number: "P-1", ExpirationDate: "2030-01-01",
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AddCard(ctx, companyID, e.ID, employee.AddCardDTO{CardNumber: "4242424242424242", Holder: "ANNA"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteEmployee(ctx, companyID, e.ID)).To(Succeed())

			_, err = service.GetEmployee(ctx, companyID, e.ID)
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))

			var docs, cards int64
			Expect(db.Model(&employeeDatamodel.Document{}).Where("employee_id = ?", e.ID).Count(&docs).Error).To(Succeed())
			Expect(db.Model(&employeeDatamodel.Card{}).Where("employee_id = ?", e.ID).Count(&cards).Error).To(Succeed())
			Expect(docs).To(BeZero())
			Expect(cards).To(BeZero())
		})

		It("hides employees of other companies", func() {
			_, err := service.GetEmployee(ctx, 2, e.ID)
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
			Expect(service.DeleteEmployee(ctx, 2, e.ID)).To(MatchError(employee.ErrEmployeeNotFound))
		})
	})
})
