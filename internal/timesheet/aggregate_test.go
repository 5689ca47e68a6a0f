package timesheet_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/technoapex/timesheet-pro/internal"
	"github.com/technoapex/timesheet-pro/internal/timesheet"
)

var _ = Describe("AggregateEntries", func() {
	Context("with an empty entry set", func() {
		It("should fail with a validation error", func() {
			_, err := timesheet.AggregateEntries(nil)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNoEntries))
		})
	})

	Context("with a malformed date", func() {
		It("should fail with a validation error", func() {
			entries := []timesheet.Entry{
				{Date: "2025-01-06", Hours: 8},
				{Date: "not-a-date", Hours: 4},
			}

			_, err := timesheet.AggregateEntries(entries)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})
	})

	Context("with valid entries", func() {
		It("should derive week boundaries from the min and max dates", func() {
			entries := []timesheet.Entry{
				{Date: "2025-01-06", Hours: 8, Description: "dev"},
				{Date: "2025-01-08", Hours: 8, Description: "qa"},
			}

			agg, err := timesheet.AggregateEntries(entries)
			Expect(err).NotTo(HaveOccurred())
			Expect(agg.WeekStart.Format(time.DateOnly)).To(Equal("2025-01-06"))
			Expect(agg.WeekEnd.Format(time.DateOnly)).To(Equal("2025-01-08"))
			Expect(agg.TotalHours).To(Equal(16.0))
		})

		It("should always keep weekStart <= weekEnd", func() {
			entries := []timesheet.Entry{
				{Date: "2025-03-14", Hours: 6},
				{Date: "2025-03-10", Hours: 7.5},
				{Date: "2025-03-12", Hours: 8},
			}

			agg, err := timesheet.AggregateEntries(entries)
			Expect(err).NotTo(HaveOccurred())
			Expect(agg.WeekStart.After(agg.WeekEnd)).To(BeFalse())
			Expect(agg.WeekStart.Format(time.DateOnly)).To(Equal("2025-03-10"))
			Expect(agg.WeekEnd.Format(time.DateOnly)).To(Equal("2025-03-14"))
		})

		It("should be invariant under entry reordering", func() {
			entries := []timesheet.Entry{
				{Date: "2025-02-03", Hours: 8},
				{Date: "2025-02-04", Hours: 4.5},
				{Date: "2025-02-05", Hours: 6},
			}
			reversed := []timesheet.Entry{entries[2], entries[1], entries[0]}

			a, err := timesheet.AggregateEntries(entries)
			Expect(err).NotTo(HaveOccurred())
			b, err := timesheet.AggregateEntries(reversed)
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal(b))
		})

		It("should treat absent hours as zero", func() {
			entries := []timesheet.Entry{
				{Date: "2025-01-06", Hours: 8},
				{Date: "2025-01-07"},
			}

			agg, err := timesheet.AggregateEntries(entries)
			Expect(err).NotTo(HaveOccurred())
			Expect(agg.TotalHours).To(Equal(8.0))
		})

		It("should span more than a calendar week when entries do", func() {
			entries := []timesheet.Entry{
				{Date: "2025-01-01", Hours: 1},
				{Date: "2025-01-31", Hours: 2},
			}

			agg, err := timesheet.AggregateEntries(entries)
			Expect(err).NotTo(HaveOccurred())
			Expect(agg.WeekStart.Format(time.DateOnly)).To(Equal("2025-01-01"))
			Expect(agg.WeekEnd.Format(time.DateOnly)).To(Equal("2025-01-31"))
		})
	})
})
