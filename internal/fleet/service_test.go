package fleet

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nattapongw/fieldservice/internal"
	fleetDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/fleet"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
)

func TestFleet(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Fleet Module Suite")
}

// Mock VehicleRepository for testing
type mockVehicleRepository struct {
	vehicles      map[string]*fleetDatamodel.Vehicle
	positions     []*fleetDatamodel.VehiclePosition
	updates       map[string]map[string]interface{}
	returnError   bool
	errorToReturn error
}

func newMockVehicleRepository() *mockVehicleRepository {
	return &mockVehicleRepository{
		vehicles: make(map[string]*fleetDatamodel.Vehicle),
		updates:  make(map[string]map[string]interface{}),
	}
}

func (m *mockVehicleRepository) GetAll(_ context.Context, params pagination.Params, _ Filters) ([]*fleetDatamodel.Vehicle, pagination.Descriptor, error) {
	if m.returnError {
		return nil, pagination.Descriptor{}, m.errorToReturn
	}
	var out []*fleetDatamodel.Vehicle
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	return out, pagination.NewDescriptor(params.Page, params.Limit, int64(len(out))), nil
}

func (m *mockVehicleRepository) GetByID(_ context.Context, id string) (*fleetDatamodel.Vehicle, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if v, ok := m.vehicles[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
}

func (m *mockVehicleRepository) Create(_ context.Context, v *fleetDatamodel.Vehicle) error {
	if m.returnError {
		return m.errorToReturn
	}
	v.ID = "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"
	m.vehicles[v.ID] = v
	return nil
}

func (m *mockVehicleRepository) Update(_ context.Context, id string, patch map[string]interface{}) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.updates[id] = patch
	return nil
}

func (m *mockVehicleRepository) Delete(_ context.Context, id string) error {
	if m.returnError {
		return m.errorToReturn
	}
	delete(m.vehicles, id)
	return nil
}

func (m *mockVehicleRepository) CreatePosition(_ context.Context, pos *fleetDatamodel.VehiclePosition) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.positions = append(m.positions, pos)
	return nil
}

func (m *mockVehicleRepository) GetPositions(_ context.Context, vehicleID string, params pagination.Params) ([]*fleetDatamodel.VehiclePosition, pagination.Descriptor, error) {
	if m.returnError {
		return nil, pagination.Descriptor{}, m.errorToReturn
	}
	var out []*fleetDatamodel.VehiclePosition
	for _, pos := range m.positions {
		if pos.VehicleID == vehicleID {
			out = append(out, pos)
		}
	}
	return out, pagination.NewDescriptor(params.Page, params.Limit, int64(len(out))), nil
}

var _ = ginkgo.Describe("FleetService", func() {
	var (
		service  *Service
		mockRepo *mockVehicleRepository
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockVehicleRepository()
		service = NewService(mockRepo, slog.Default())
		ctx = context.Background()
	})

	seedVehicle := func() *fleetDatamodel.Vehicle {
		v := &fleetDatamodel.Vehicle{
			ID:          "11111111-2222-4333-8444-555555555555",
			PlateNumber: "1กข-1234",
			Model:       "Isuzu D-Max",
			IsActive:    true,
		}
		mockRepo.vehicles[v.ID] = v
		return v
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create an active vehicle by default", func() {
			// Given
			dto := &CreateVehicleDTO{PlateNumber: "2ขค-5678", Model: "Toyota Hilux"}

			// When
			v, err := service.Create(ctx, dto)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(v.IsActive).To(gomega.BeTrue())
			gomega.Expect(v.PlateNumber).To(gomega.Equal("2ขค-5678"))
		})

		ginkgo.It("should require a plate number", func() {
			dto := &CreateVehicleDTO{Model: "Toyota Hilux"}

			v, err := service.Create(ctx, dto)

			gomega.Expect(v).To(gomega.BeNil())
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("plate_number is required"))
		})

		ginkgo.It("should reject a malformed assignee id", func() {
			bogus := "not-a-uuid"
			dto := &CreateVehicleDTO{PlateNumber: "2ขค-5678", AssigneeID: &bogus}

			_, err := service.Create(ctx, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("RecordPosition", func() {
		ginkgo.It("should append a fix for a known vehicle", func() {
			// Given
			v := seedVehicle()
			speed := 62.5
			dto := &RecordPositionDTO{Latitude: 13.7563, Longitude: 100.5018, SpeedKMH: &speed}

			// When
			pos, err := service.RecordPosition(ctx, v.ID, dto)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(pos.VehicleID).To(gomega.Equal(v.ID))
			gomega.Expect(mockRepo.positions).To(gomega.HaveLen(1))
		})

		ginkgo.It("should stamp recorded_at when the device omits it", func() {
			v := seedVehicle()
			frozen := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
			service.now = func() time.Time { return frozen }

			pos, err := service.RecordPosition(ctx, v.ID, &RecordPositionDTO{Latitude: 13.75, Longitude: 100.5})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(pos.RecordedAt).To(gomega.Equal(frozen))
		})

		ginkgo.It("should keep an explicit recorded_at", func() {
			v := seedVehicle()
			reported := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)

			pos, err := service.RecordPosition(ctx, v.ID, &RecordPositionDTO{Latitude: 13.75, Longitude: 100.5, RecordedAt: &reported})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(pos.RecordedAt).To(gomega.Equal(reported))
		})

		ginkgo.It("should reject an out-of-range latitude", func() {
			v := seedVehicle()

			_, err := service.RecordPosition(ctx, v.ID, &RecordPositionDTO{Latitude: 91, Longitude: 100.5})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should 404 for an unknown vehicle", func() {
			_, err := service.RecordPosition(ctx, "99999999-8888-4777-8666-555555555555", &RecordPositionDTO{Latitude: 13.75, Longitude: 100.5})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
			gomega.Expect(mockRepo.positions).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should patch only writable columns", func() {
			v := seedVehicle()

			_, err := service.Update(ctx, v.ID, map[string]interface{}{
				"model": "Isuzu MU-X",
				"id":    "hijack",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.updates[v.ID]).To(gomega.HaveKeyWithValue("model", "Isuzu MU-X"))
			gomega.Expect(mockRepo.updates[v.ID]).ToNot(gomega.HaveKey("id"))
		})
	})
})
