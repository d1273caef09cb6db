package site

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nattapongw/fieldservice/internal"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
)

func TestSite(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Site Module Suite")
}

// Mock SiteRepository for testing
type mockSiteRepository struct {
	sites         map[string]*siteDatamodel.Site // keyed by code
	created       int
	returnError   bool
	errorToReturn error
}

func newMockSiteRepository() *mockSiteRepository {
	return &mockSiteRepository{
		sites: map[string]*siteDatamodel.Site{
			"BKK-01": {
				ID:       "3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d",
				Code:     "BKK-01",
				Name:     "สำนักงานใหญ่",
				Province: "Bangkok",
				IsActive: true,
			},
		},
	}
}

func (m *mockSiteRepository) GetAll(_ context.Context, params pagination.Params, _ Filters) ([]*siteDatamodel.Site, pagination.Descriptor, error) {
	if m.returnError {
		return nil, pagination.Descriptor{}, m.errorToReturn
	}
	var out []*siteDatamodel.Site
	for _, s := range m.sites {
		out = append(out, s)
	}
	return out, pagination.NewDescriptor(params.Page, params.Limit, int64(len(out))), nil
}

func (m *mockSiteRepository) GetByID(_ context.Context, id string) (*siteDatamodel.Site, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, s := range m.sites {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, internal.NewNotFoundError("site not found", internal.ErrCodeSiteNotFound)
}

func (m *mockSiteRepository) Create(_ context.Context, s *siteDatamodel.Site) error {
	if m.returnError {
		return m.errorToReturn
	}
	if _, exists := m.sites[s.Code]; exists {
		return internal.NewValidationError("site already exists", internal.ErrCodeDuplicateRecord)
	}
	s.ID = "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"
	m.sites[s.Code] = s
	m.created++
	return nil
}

// FindOrCreate mirrors the upsert: the first writer wins and everyone
// reads back the surviving row.
func (m *mockSiteRepository) FindOrCreate(_ context.Context, s *siteDatamodel.Site) (*siteDatamodel.Site, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if existing, ok := m.sites[s.Code]; ok {
		return existing, nil
	}
	s.ID = "bbbbbbbb-cccc-4ddd-8eee-ffffffffffff"
	m.sites[s.Code] = s
	m.created++
	return s, nil
}

func (m *mockSiteRepository) Update(_ context.Context, id string, patch map[string]interface{}) error {
	if m.returnError {
		return m.errorToReturn
	}
	return nil
}

func (m *mockSiteRepository) Delete(_ context.Context, id string) error {
	if m.returnError {
		return m.errorToReturn
	}
	return nil
}

var _ = ginkgo.Describe("SiteService", func() {
	var (
		service  *Service
		mockRepo *mockSiteRepository
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockSiteRepository()
		service = NewService(mockRepo, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("FindOrCreate", func() {
		ginkgo.It("should return the existing site for a known code", func() {
			dto := &CreateSiteDTO{Code: "BKK-01", Name: "anything"}

			site, err := service.FindOrCreate(ctx, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(site.ID).To(gomega.Equal("3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d"))
			gomega.Expect(mockRepo.created).To(gomega.BeZero())
		})

		ginkgo.It("should create when the code is new", func() {
			dto := &CreateSiteDTO{Code: "CNX-02", Name: "ศูนย์บริการลำพูน", Province: "Lamphun"}

			site, err := service.FindOrCreate(ctx, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(site.Code).To(gomega.Equal("CNX-02"))
			gomega.Expect(mockRepo.created).To(gomega.Equal(1))
		})

		ginkgo.It("should converge repeated calls on one row", func() {
			dto := &CreateSiteDTO{Code: "CNX-02", Name: "ศูนย์บริการลำพูน"}

			first, err := service.FindOrCreate(ctx, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second, err := service.FindOrCreate(ctx, &CreateSiteDTO{Code: "CNX-02", Name: "renamed"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(second.ID).To(gomega.Equal(first.ID))
			gomega.Expect(mockRepo.created).To(gomega.Equal(1))
		})

		ginkgo.It("should reject a dto without a code", func() {
			_, err := service.FindOrCreate(ctx, &CreateSiteDTO{Name: "no code"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should treat an empty sanitized patch as a no-op", func() {
			site, err := service.Update(ctx, "3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d", map[string]interface{}{
				"id":           "override",
				"hacker_field": 1,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(site.Code).To(gomega.Equal("BKK-01"))
		})
	})
})
