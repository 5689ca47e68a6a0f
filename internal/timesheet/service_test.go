package timesheet_test

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/technoapex/timesheet-pro/internal"
	"github.com/technoapex/timesheet-pro/internal/timesheet"
)

// Mock repository for testing
type mockTimesheetRepository struct {
	records           map[int64]*timesheet.Timesheet
	createError       error
	getError          error
	listError         error
	updateStatusError error
	nextID            int64
}

func newMockTimesheetRepository() *mockTimesheetRepository {
	return &mockTimesheetRepository{
		records: make(map[int64]*timesheet.Timesheet),
		nextID:  1,
	}
}

func (m *mockTimesheetRepository) Create(t *timesheet.Timesheet) error {
	if m.createError != nil {
		return m.createError
	}
	t.ID = m.nextID
	m.nextID++
	m.records[t.ID] = t
	return nil
}

func (m *mockTimesheetRepository) GetByID(id int64) (*timesheet.Timesheet, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	t, exists := m.records[id]
	if !exists {
		return nil, errors.New("record not found")
	}
	return t, nil
}

func (m *mockTimesheetRepository) ListByOwner(ownerID int64) ([]*timesheet.Timesheet, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []*timesheet.Timesheet
	for _, t := range m.records {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	// id descending, like the real store
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockTimesheetRepository) Update(t *timesheet.Timesheet) error {
	m.records[t.ID] = t
	return nil
}

func (m *mockTimesheetRepository) UpdateStatus(id int64, status string) error {
	if m.updateStatusError != nil {
		return m.updateStatusError
	}
	if t, exists := m.records[id]; exists {
		t.Status = status
		t.UpdatedAt = time.Now()
	}
	return nil
}

var _ = Describe("TimesheetService", func() {
	var (
		service  *timesheet.Service
		mockRepo *mockTimesheetRepository
		logger   *slog.Logger
	)

	defaults := timesheet.Defaults{
		Client:  "Claris International Inc",
		Manager: "Sudheer Tivare",
	}

	validEntries := []timesheet.Entry{
		{Date: "2025-01-06", Hours: 8, Description: "dev"},
		{Date: "2025-01-08", Hours: 8, Description: "qa"},
	}

	BeforeEach(func() {
		mockRepo = newMockTimesheetRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = timesheet.NewService(mockRepo, defaults, logger)
	})

	Describe("Create", func() {
		Context("with valid entries", func() {
			It("should persist a draft with derived fields", func() {
				t, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})

				Expect(err).NotTo(HaveOccurred())
				Expect(t.ID).To(BeNumerically(">", 0))
				Expect(t.OwnerID).To(Equal(int64(123)))
				Expect(t.Status).To(Equal(timesheet.StatusDraft))
				Expect(t.WeekStart.Format(time.DateOnly)).To(Equal("2025-01-06"))
				Expect(t.WeekEnd.Format(time.DateOnly)).To(Equal("2025-01-08"))
				Expect(t.TotalHours).To(Equal(16.0))
			})

			It("should apply configured defaults for absent client and manager", func() {
				t, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})

				Expect(err).NotTo(HaveOccurred())
				Expect(t.Client).To(Equal("Claris International Inc"))
				Expect(t.Manager).To(Equal("Sudheer Tivare"))
			})

			It("should keep an explicit client and manager", func() {
				t, err := service.Create(123, timesheet.CreateTimesheetDTO{
					Client:  "Acme Corp",
					Manager: "Jane Roe",
					Entries: validEntries,
				})

				Expect(err).NotTo(HaveOccurred())
				Expect(t.Client).To(Equal("Acme Corp"))
				Expect(t.Manager).To(Equal("Jane Roe"))
			})
		})

		Context("with no entries", func() {
			It("should fail with a validation error", func() {
				_, err := service.Create(123, timesheet.CreateTimesheetDTO{})

				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeNoEntries))
			})
		})

		Context("with a malformed entry date", func() {
			It("should fail with a validation error", func() {
				_, err := service.Create(123, timesheet.CreateTimesheetDTO{
					Entries: []timesheet.Entry{{Date: "06/01/2025", Hours: 8}},
				})

				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
			})
		})

		Context("with negative hours", func() {
			It("should fail with a validation error", func() {
				_, err := service.Create(123, timesheet.CreateTimesheetDTO{
					Entries: []timesheet.Entry{{Date: "2025-01-06", Hours: -1}},
				})

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("List", func() {
		It("should return summaries most recent first", func() {
			first, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())
			second, err := service.Create(123, timesheet.CreateTimesheetDTO{
				Entries: []timesheet.Entry{{Date: "2025-01-13", Hours: 7.5, Description: "dev"}},
			})
			Expect(err).NotTo(HaveOccurred())

			items, err := service.List(123)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID).To(Equal(second.ID))
			Expect(items[1].ID).To(Equal(first.ID))
			Expect(items[0].WeekStart).To(Equal("2025-01-13"))
			Expect(items[0].TotalHours).To(Equal(7.5))
			Expect(items[0].Status).To(Equal(timesheet.StatusDraft))
		})

		It("should not include other users' records", func() {
			_, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			items, err := service.List(456)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("should return the full record for its owner", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			t, err := service.Get(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Entries).To(HaveLen(2))
		})

		It("should report not found for another user's record", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(456, created.ID)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
		})

		It("should report not found for a missing id", func() {
			_, err := service.Get(123, 999)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
		})
	})

	Describe("Submit", func() {
		It("should transition a draft to submitted", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			submitted, err := service.Submit(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(submitted.Status).To(Equal(timesheet.StatusSubmitted))

			// visible on the next read
			t, err := service.Get(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(timesheet.StatusSubmitted))
		})

		It("should be a no-op when already submitted", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Submit(123, created.ID)
			Expect(err).NotTo(HaveOccurred())

			again, err := service.Submit(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Status).To(Equal(timesheet.StatusSubmitted))
		})

		It("should reject submission of an approved sheet", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Submit(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Approve(created.ID)).To(Succeed())

			_, err = service.Submit(123, created.ID)
			Expect(err).To(Equal(timesheet.ErrInvalidTimesheetStatus))
		})

		It("should enforce ownership", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Submit(456, created.ID)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
		})
	})

	Describe("Approve and Reject", func() {
		It("should approve a submitted sheet", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Submit(123, created.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Approve(created.ID)).To(Succeed())

			t, err := service.Get(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(timesheet.StatusApproved))
		})

		It("should not approve a draft", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Approve(created.ID)).To(Equal(timesheet.ErrInvalidTimesheetStatus))
		})

		It("should reject a submitted sheet", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Submit(123, created.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Reject(created.ID)).To(Succeed())

			t, err := service.Get(123, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(timesheet.StatusRejected))
		})
	})

	Describe("GetForRender", func() {
		It("should fetch a record regardless of owner", func() {
			created, err := service.Create(123, timesheet.CreateTimesheetDTO{Entries: validEntries})
			Expect(err).NotTo(HaveOccurred())

			t, err := service.GetForRender(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.OwnerID).To(Equal(int64(123)))
		})

		It("should report not found for a missing id", func() {
			_, err := service.GetForRender(999)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
		})
	})
})
