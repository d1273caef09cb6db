package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
)

func TestTicket(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Ticket Module Suite")
}

// Mock TicketRepository for testing
type mockTicketRepository struct {
	tickets map[string]*ticketDatamodel.Ticket
	updates map[string]map[string]interface{}
	nextNum int
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{
		tickets: make(map[string]*ticketDatamodel.Ticket),
		updates: make(map[string]map[string]interface{}),
	}
}

func (m *mockTicketRepository) GetAll(_ context.Context, params pagination.Params, _ Filters) ([]*ticketDatamodel.Ticket, pagination.Descriptor, error) {
	var out []*ticketDatamodel.Ticket
	for _, t := range m.tickets {
		out = append(out, t)
	}
	return out, pagination.NewDescriptor(params.Page, params.Limit, int64(len(out))), nil
}

func (m *mockTicketRepository) GetByID(_ context.Context, id string) (*ticketDatamodel.Ticket, error) {
	if t, ok := m.tickets[id]; ok {
		return t, nil
	}
	return nil, internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
}

func (m *mockTicketRepository) GetByCode(_ context.Context, code string) (*ticketDatamodel.Ticket, error) {
	for _, t := range m.tickets {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
}

func (m *mockTicketRepository) Create(_ context.Context, t *ticketDatamodel.Ticket) error {
	m.nextNum++
	t.ID = fmt.Sprintf("11111111-2222-4333-8444-%012d", m.nextNum)
	t.Code = fmt.Sprintf("PDE-%d", m.nextNum)
	m.tickets[t.ID] = t
	return nil
}

func (m *mockTicketRepository) Update(_ context.Context, id string, patch map[string]interface{}) error {
	if _, ok := m.tickets[id]; !ok {
		return internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
	}
	m.updates[id] = patch
	return nil
}

func (m *mockTicketRepository) Delete(_ context.Context, id string) error {
	delete(m.tickets, id)
	return nil
}

var _ = ginkgo.Describe("TicketService", func() {
	var (
		service  *Service
		mockRepo *mockTicketRepository
		ctx      context.Context
		actor    *auth.Actor
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockTicketRepository()
		service = NewService(mockRepo, slog.Default())
		ctx = context.Background()
		actor = &auth.Actor{
			EmployeeID: "a1e2c3d4-0001-4abc-8def-000000000001",
			Code:       "EMP-001",
			RoleLevel:  auth.LevelSupervisor,
			IsActive:   true,
		}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should stamp the reporter and receive a server code", func() {
			// Given
			dto := &CreateTicketDTO{Title: "Pump inspection"}

			// When
			t, err := service.Create(ctx, actor, dto)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(t.Code).To(gomega.Equal("PDE-1"))
			gomega.Expect(t.Status).To(gomega.Equal(ticketDatamodel.StatusOpen))
			gomega.Expect(t.Priority).To(gomega.Equal(ticketDatamodel.PriorityNormal))
			gomega.Expect(t.ReporterID).ToNot(gomega.BeNil())
			gomega.Expect(*t.ReporterID).To(gomega.Equal(actor.EmployeeID))
		})

		ginkgo.It("should reject an unknown status", func() {
			dto := &CreateTicketDTO{Title: "Pump inspection", Status: "paused"}

			t, err := service.Create(ctx, actor, dto)

			gomega.Expect(t).To(gomega.BeNil())
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should reject a missing title", func() {
			dto := &CreateTicketDTO{}

			t, err := service.Create(ctx, actor, dto)

			gomega.Expect(t).To(gomega.BeNil())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("title is required"))
		})
	})

	ginkgo.Describe("Update", func() {
		var existing *ticketDatamodel.Ticket

		ginkgo.BeforeEach(func() {
			existing, _ = service.Create(ctx, actor, &CreateTicketDTO{Title: "Pump inspection"})
		})

		ginkgo.It("should drop the protected code and reporter fields from a patch", func() {
			// When
			_, err := service.Update(ctx, existing.ID, map[string]interface{}{
				"title":       "Pump re-inspection",
				"code":        "PDE-999",
				"reporter_id": "hijacked",
			})

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			patch := mockRepo.updates[existing.ID]
			gomega.Expect(patch).To(gomega.HaveKeyWithValue("title", "Pump re-inspection"))
			gomega.Expect(patch).ToNot(gomega.HaveKey("code"))
			gomega.Expect(patch).ToNot(gomega.HaveKey("reporter_id"))
		})

		ginkgo.It("should validate a patched status", func() {
			_, err := service.Update(ctx, existing.ID, map[string]interface{}{"status": "archived"})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidStatus))
		})

		ginkgo.It("should accept a valid status transition", func() {
			_, err := service.Update(ctx, existing.ID, map[string]interface{}{"status": ticketDatamodel.StatusInProgress})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.updates[existing.ID]).To(gomega.HaveKeyWithValue("status", ticketDatamodel.StatusInProgress))
		})

		ginkgo.It("should treat an empty sanitized patch as a no-op", func() {
			t, err := service.Update(ctx, existing.ID, map[string]interface{}{"code": "PDE-999"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(t.ID).To(gomega.Equal(existing.ID))
			gomega.Expect(mockRepo.updates).To(gomega.BeEmpty())
		})
	})
})
