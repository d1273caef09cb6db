package department

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
)

func TestDepartment(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Department Module Suite")
}

// Mock DepartmentRepository for testing
type mockDepartmentRepository struct {
	departments    map[string]*departmentDatamodel.Department
	updates        map[string]map[string]interface{}
	summaryRows    []SummaryRow
	returnError    bool
	errorToReturn  error
	createdRecords []*departmentDatamodel.Department
}

func newMockDepartmentRepository() *mockDepartmentRepository {
	return &mockDepartmentRepository{
		departments: map[string]*departmentDatamodel.Department{
			"3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d": {
				ID:       "3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d",
				Code:     "FIELD-OPS",
				NameTH:   "ฝ่ายปฏิบัติการภาคสนาม",
				NameEN:   "Field Operations",
				IsActive: true,
			},
		},
		updates: make(map[string]map[string]interface{}),
	}
}

func (m *mockDepartmentRepository) GetAll(_ context.Context, params pagination.Params, _ Filters) ([]*departmentDatamodel.Department, pagination.Descriptor, error) {
	if m.returnError {
		return nil, pagination.Descriptor{}, m.errorToReturn
	}
	var depts []*departmentDatamodel.Department
	for _, d := range m.departments {
		depts = append(depts, d)
	}
	return depts, pagination.NewDescriptor(params.Page, params.Limit, int64(len(depts))), nil
}

func (m *mockDepartmentRepository) GetByID(_ context.Context, id string) (*departmentDatamodel.Department, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if dept, ok := m.departments[id]; ok {
		return dept, nil
	}
	return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
}

func (m *mockDepartmentRepository) Create(_ context.Context, dept *departmentDatamodel.Department) error {
	if m.returnError {
		return m.errorToReturn
	}
	dept.ID = "11111111-2222-4333-8444-555555555555"
	m.departments[dept.ID] = dept
	m.createdRecords = append(m.createdRecords, dept)
	return nil
}

func (m *mockDepartmentRepository) Update(_ context.Context, id string, patch map[string]interface{}) error {
	if m.returnError {
		return m.errorToReturn
	}
	if _, ok := m.departments[id]; !ok {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	m.updates[id] = patch
	return nil
}

func (m *mockDepartmentRepository) Delete(_ context.Context, id string) error {
	if m.returnError {
		return m.errorToReturn
	}
	if _, ok := m.departments[id]; !ok {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepository) Summary(_ context.Context) ([]SummaryRow, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.summaryRows, nil
}

func (m *mockDepartmentRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("DepartmentService", func() {
	var (
		service  *Service
		mockRepo *mockDepartmentRepository
		ctx      context.Context

		knownID = "3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d"
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockDepartmentRepository()
		service = NewService(mockRepo, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("Create", func() {
		ginkgo.Context("when the payload is valid", func() {
			ginkgo.It("should persist and echo the record", func() {
				// Given
				dto := &CreateDepartmentDTO{Code: "MAINT", NameTH: "ฝ่ายซ่อมบำรุง", NameEN: "Maintenance"}

				// When
				dept, err := service.Create(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(dept.ID).ToNot(gomega.BeEmpty())
				gomega.Expect(dept.Code).To(gomega.Equal("MAINT"))
				gomega.Expect(dept.IsActive).To(gomega.BeTrue())
				gomega.Expect(mockRepo.createdRecords).To(gomega.HaveLen(1))
			})

			ginkgo.It("should honor an explicit is_active flag", func() {
				// Given
				inactive := false
				dto := &CreateDepartmentDTO{Code: "OLD", NameTH: "ฝ่ายเก่า", IsActive: &inactive}

				// When
				dept, err := service.Create(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(dept.IsActive).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("when the payload is invalid", func() {
			ginkgo.It("should reject a missing code", func() {
				// Given
				dto := &CreateDepartmentDTO{NameTH: "ไม่มีรหัส"}

				// When
				dept, err := service.Create(ctx, dto)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(dept).To(gomega.BeNil())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("code is required"))
				gomega.Expect(mockRepo.createdRecords).To(gomega.BeEmpty())
			})
		})
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("should return the department for a known id", func() {
			dept, err := service.GetByID(ctx, knownID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dept.Code).To(gomega.Equal("FIELD-OPS"))
		})

		ginkgo.It("should reject a malformed id before querying", func() {
			mockRepo.setError(errors.New("repository must not be reached"))

			dept, err := service.GetByID(ctx, "not-a-uuid")

			gomega.Expect(dept).To(gomega.BeNil())
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidID))
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should return not found for an unknown id", func() {
			dept, err := service.GetByID(ctx, "99999999-9999-4999-8999-999999999999")

			gomega.Expect(dept).To(gomega.BeNil())
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.Context("when the patch carries writable fields", func() {
			ginkgo.It("should forward only the sanitized subset", func() {
				// Given
				patch := map[string]interface{}{
					"name_en":    "Field Ops",
					"id":         "hijacked",
					"created_at": "2020-01-01",
					"bogus":      true,
				}

				// When
				_, err := service.Update(ctx, knownID, patch)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(mockRepo.updates[knownID]).To(gomega.Equal(map[string]interface{}{
					"name_en": "Field Ops",
				}))
			})
		})

		ginkgo.Context("when the patch sanitizes to nothing", func() {
			ginkgo.It("should succeed without touching the repository", func() {
				// Given
				patch := map[string]interface{}{"id": "hijacked", "unknown": 1}

				// When
				dept, err := service.Update(ctx, knownID, patch)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(dept.Code).To(gomega.Equal("FIELD-OPS"))
				gomega.Expect(mockRepo.updates).To(gomega.BeEmpty())
			})
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove an existing department", func() {
			err := service.Delete(ctx, knownID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.departments).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject a malformed id", func() {
			err := service.Delete(ctx, "abc")

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidID))
		})
	})

	ginkgo.Describe("Summary", func() {
		ginkgo.It("should return the aggregated rows", func() {
			// Given
			mockRepo.summaryRows = []SummaryRow{
				{DepartmentID: knownID, Code: "FIELD-OPS", TotalEmployees: 4, ActiveEmployees: 3, InactiveEmployees: 1},
			}

			// When
			rows, err := service.Summary(ctx)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].ActiveEmployees).To(gomega.Equal(3))
		})

		ginkgo.It("should wrap repository failures as database errors", func() {
			// Given
			mockRepo.setError(errors.New("connection reset"))

			// When
			rows, err := service.Summary(ctx)

			// Then
			gomega.Expect(rows).To(gomega.BeNil())
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})
	})
})
