package rest

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-redis/redis/v8"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/department"
	"github.com/nattapongw/fieldservice/internal/employee"
	"github.com/nattapongw/fieldservice/internal/fleet"
	"github.com/nattapongw/fieldservice/internal/leave"
	"github.com/nattapongw/fieldservice/internal/linebot"
	"github.com/nattapongw/fieldservice/internal/poll"
	"github.com/nattapongw/fieldservice/internal/reference"
	"github.com/nattapongw/fieldservice/internal/search"
	"github.com/nattapongw/fieldservice/internal/site"
	"github.com/nattapongw/fieldservice/internal/stagedfile"
	"github.com/nattapongw/fieldservice/internal/ticket"
	"github.com/nattapongw/fieldservice/internal/transport"
	"github.com/nattapongw/fieldservice/internal/transport/middleware"
	"github.com/nattapongw/fieldservice/internal/transport/swagger"
)

// RouterDeps carries everything the route tree needs. Optional fields
// (Redis, Metrics, MetricsHandler, FilesDir, LineWebhook) may be nil
// or empty; the corresponding routes and middleware are then skipped.
type RouterDeps struct {
	DB     *sql.DB
	Redis  *redis.Client
	Logger *slog.Logger

	Metrics        *middleware.Metrics
	MetricsHandler http.Handler

	FilesDir    string
	OpenAPIPath string

	Auth        *auth.Handler
	Departments *department.Handler
	Sites       *site.Handler
	Employees   *employee.Handler
	Leaves      *leave.Handler
	Tickets     *ticket.Handler
	Polls       *poll.Handler
	Fleet       *fleet.Handler
	Reference   *reference.Handler
	StagedFiles *stagedfile.Handler
	Search      *search.Handler
	LineWebhook *linebot.WebhookHandler
}

// RegisterAllRoutes mounts the whole API under /api/v1 plus the public
// root-level documentation and file routes. Gate levels per sub-tree:
// reads are open to any authenticated actor, writes climb the level
// ladder resource by resource.
func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB, deps.Redis)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Instrument)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, http.StatusNotFound, "route not found", internal.ErrCodeRouteNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, http.StatusMethodNotAllowed, "method not allowed", internal.ErrCodeMethodNotAllowed)
	})

	openapiPath := deps.OpenAPIPath
	if openapiPath == "" {
		openapiPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openapiPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Uploaded chat files are served straight off disk. The store
	// names files by content digest, so paths are not guessable.
	if deps.FilesDir != "" {
		fileServer := http.StripPrefix("/files/", http.FileServer(http.Dir(deps.FilesDir)))
		router.Handle("/files/*", fileServer)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.MetricsHandler != nil {
			r.Handle("/metrics", deps.MetricsHandler)
		}

		// Signature-gated, not token-gated: LINE signs the raw body.
		if deps.LineWebhook != nil {
			r.Post("/webhooks/line", deps.LineWebhook.HandleWebhook)
		}

		r.Group(func(pr chi.Router) {
			pr.Use(deps.Auth.AuthMiddleware)

			pr.Get("/me", deps.Auth.Me)

			pr.Route("/departments", func(dr chi.Router) {
				dr.Get("/", deps.Departments.GetDepartments)
				dr.With(middleware.RequireLevel(auth.LevelManager)).Get("/summary", deps.Departments.GetSummary)
				dr.With(middleware.RequireLevel(auth.LevelManager)).Get("/summary/export", deps.Departments.ExportSummary)
				dr.Get("/{id}", deps.Departments.GetDepartment)

				dr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireSuperAdmin())
					mr.Post("/", deps.Departments.CreateDepartment)
					mr.Put("/{id}", deps.Departments.UpdateDepartment)
					mr.Delete("/{id}", deps.Departments.DeleteDepartment)
				})
			})

			pr.Route("/sites", func(sr chi.Router) {
				sr.Get("/", deps.Sites.GetSites)
				sr.Get("/search", deps.Sites.GetSites)
				sr.Get("/{id}", deps.Sites.GetSite)

				sr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireLevel(auth.LevelManager))
					mr.Post("/", deps.Sites.CreateSite)
					mr.Post("/find-or-create", deps.Sites.FindOrCreateSite)
					mr.Put("/{id}", deps.Sites.UpdateSite)
					mr.Delete("/{id}", deps.Sites.DeleteSite)
				})
			})

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", deps.Employees.GetEmployees)
				er.Get("/search", deps.Employees.GetEmployees)
				er.Get("/{id}", deps.Employees.GetEmployee)

				er.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireLevel(auth.LevelAdmin))
					mr.Post("/", deps.Employees.CreateEmployee)
					mr.Put("/{id}", deps.Employees.UpdateEmployee)
					mr.Delete("/{id}", deps.Employees.DeleteEmployee)
				})
			})

			// Ownership checks for update/delete live in the service;
			// the router only enforces the decide threshold.
			pr.Route("/leave-requests", func(lr chi.Router) {
				lr.Get("/", deps.Leaves.GetLeaveRequests)
				lr.Get("/{id}", deps.Leaves.GetLeaveRequest)
				lr.Post("/", deps.Leaves.CreateLeaveRequest)
				lr.Put("/{id}", deps.Leaves.UpdateLeaveRequest)
				lr.Delete("/{id}", deps.Leaves.DeleteLeaveRequest)

				lr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireLevel(auth.LevelSupervisor))
					mr.Patch("/{id}/approve", deps.Leaves.ApproveLeaveRequest)
					mr.Patch("/{id}/reject", deps.Leaves.RejectLeaveRequest)
				})
			})

			pr.Route("/tickets", func(tr chi.Router) {
				tr.Get("/", deps.Tickets.GetTickets)
				tr.Get("/search", deps.Tickets.GetTickets)
				tr.Get("/{id}", deps.Tickets.GetTicket)

				tr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireLevel(auth.LevelSupervisor))
					mr.Post("/", deps.Tickets.CreateTicket)
					mr.Put("/{id}", deps.Tickets.UpdateTicket)
				})
				tr.With(middleware.RequireLevel(auth.LevelManager)).Delete("/{id}", deps.Tickets.DeleteTicket)
			})

			pr.Route("/polls", func(plr chi.Router) {
				plr.Get("/", deps.Polls.GetPolls)
				plr.Get("/{id}", deps.Polls.GetPoll)
				plr.With(middleware.RequireLevel(auth.LevelTechnician)).Post("/{id}/vote", deps.Polls.Vote)

				plr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireLevel(auth.LevelManager))
					mr.Post("/", deps.Polls.CreatePoll)
					mr.Put("/{id}", deps.Polls.UpdatePoll)
					mr.Delete("/{id}", deps.Polls.DeletePoll)
				})
			})

			pr.Route("/fleet/vehicles", func(fr chi.Router) {
				fr.Get("/", deps.Fleet.GetVehicles)
				fr.Get("/{id}", deps.Fleet.GetVehicle)
				fr.Post("/{id}/positions", deps.Fleet.RecordPosition)
				fr.Get("/{id}/positions", deps.Fleet.GetPositions)

				fr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireLevel(auth.LevelManager))
					mr.Post("/", deps.Fleet.CreateVehicle)
					mr.Put("/{id}", deps.Fleet.UpdateVehicle)
					mr.Delete("/{id}", deps.Fleet.DeleteVehicle)
				})
			})

			// Reference data is read-only over HTTP; anything but GET
			// falls through to the 405 handler.
			pr.Route("/reference/merchandise", func(rr chi.Router) {
				rr.Get("/", deps.Reference.GetMerchandise)
				rr.Get("/search", deps.Reference.GetMerchandise)
				rr.Get("/{id}", deps.Reference.GetMerchandiseItem)
			})
			pr.Route("/reference/package-services", func(rr chi.Router) {
				rr.Get("/", deps.Reference.GetPackageServices)
				rr.Get("/search", deps.Reference.GetPackageServices)
				rr.Get("/{id}", deps.Reference.GetPackageService)
			})

			pr.Route("/staged-files", func(sfr chi.Router) {
				sfr.Use(middleware.RequireLevel(auth.LevelSupervisor))
				sfr.Get("/", deps.StagedFiles.GetStagedFiles)
				sfr.Patch("/{id}/approve", deps.StagedFiles.ApproveStagedFile)
				sfr.Patch("/{id}/reject", deps.StagedFiles.RejectStagedFile)
			})

			pr.Get("/search/global", deps.Search.GlobalSearch)
		})
	})
}

func writeRouteError(w http.ResponseWriter, status int, msg string, code internal.ErrorCode) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(transport.ErrorResponse{
		Error: msg,
		Code:  string(code),
	})
}
