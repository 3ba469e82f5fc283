package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hatchops/internal/http/middleware"
	"hatchops/internal/model"
	"hatchops/internal/service"
)

// Services bundles the business services behind the HTTP API.
type Services struct {
	Auth               service.AuthService
	Companies          service.CompanyService
	Sheds              service.ShedService
	Users              service.UserService
	PsReceives         service.PsReceiveService
	FirmReceives       service.FirmReceiveService
	ShedReceives       service.ShedReceiveService
	BatchAssigns       service.BatchAssignService
	BirdTransfers      service.BirdTransferService
	VaccineSchedules   service.VaccineScheduleService
	EggClassifications service.EggClassificationService
	DailyOperations    service.DailyOperationService
	Reports            service.ReportService
	Approvals          service.ApprovalService
}

// RegisterRoutes attaches the health checks, /metrics and the /api/v1 resources.
// Everything under /api/v1 except login needs a bearer token; master data
// writes, users and approval matrix configuration need the admin role.
func RegisterRoutes(app *fiber.App, db *sql.DB, gatherer prometheus.Gatherer, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")
	api.Post("/auth/login", Login(svc.Auth))

	authed := api.Group("", middleware.Auth(svc.Auth))
	admin := middleware.RequireRole(model.RoleAdmin)

	authed.Get("/auth/me", Me())

	companies := authed.Group("/companies")
	companies.Get("/", ListCompanies(svc.Companies))
	companies.Get("/:id", GetCompany(svc.Companies))
	companies.Post("/", admin, CreateCompany(svc.Companies))
	companies.Put("/:id", admin, UpdateCompany(svc.Companies))
	companies.Delete("/:id", admin, DeleteCompany(svc.Companies))

	sheds := authed.Group("/sheds")
	sheds.Get("/", ListSheds(svc.Sheds))
	sheds.Get("/:id", GetShed(svc.Sheds))
	sheds.Post("/", admin, CreateShed(svc.Sheds))
	sheds.Put("/:id", admin, UpdateShed(svc.Sheds))
	sheds.Delete("/:id", admin, DeleteShed(svc.Sheds))

	users := authed.Group("/users", admin)
	users.Get("/", ListUsers(svc.Users))
	users.Get("/:id", GetUser(svc.Users))
	users.Post("/", CreateUser(svc.Users))

	ps := authed.Group("/ps-receives")
	ps.Get("/", ListPsReceives(svc.PsReceives))
	ps.Get("/:id", GetPsReceive(svc.PsReceives))
	ps.Post("/", CreatePsReceive(svc.PsReceives))
	ps.Put("/:id", UpdatePsReceive(svc.PsReceives))
	ps.Delete("/:id", DeletePsReceive(svc.PsReceives))

	firms := authed.Group("/firm-receives")
	firms.Get("/", ListFirmReceives(svc.FirmReceives))
	firms.Get("/:id", GetFirmReceive(svc.FirmReceives))
	firms.Post("/", CreateFirmReceive(svc.FirmReceives))
	firms.Put("/:id", UpdateFirmReceive(svc.FirmReceives))
	firms.Delete("/:id", DeleteFirmReceive(svc.FirmReceives))

	shedReceives := authed.Group("/shed-receives")
	shedReceives.Get("/", ListShedReceives(svc.ShedReceives))
	shedReceives.Get("/:id", GetShedReceive(svc.ShedReceives))
	shedReceives.Post("/", CreateShedReceive(svc.ShedReceives))
	shedReceives.Put("/:id", UpdateShedReceive(svc.ShedReceives))
	shedReceives.Delete("/:id", DeleteShedReceive(svc.ShedReceives))

	batches := authed.Group("/batch-assigns")
	batches.Get("/", ListBatchAssigns(svc.BatchAssigns))
	batches.Get("/:id", GetBatchAssign(svc.BatchAssigns))
	batches.Get("/:id/balance", BatchBalance(svc.BatchAssigns))
	batches.Post("/", CreateBatchAssign(svc.BatchAssigns))
	batches.Put("/:id", UpdateBatchAssign(svc.BatchAssigns))
	batches.Delete("/:id", DeleteBatchAssign(svc.BatchAssigns))

	transfers := authed.Group("/bird-transfers")
	transfers.Get("/", ListBirdTransfers(svc.BirdTransfers))
	transfers.Get("/:id", GetBirdTransfer(svc.BirdTransfers))
	transfers.Post("/", CreateBirdTransfer(svc.BirdTransfers))
	transfers.Put("/:id", UpdateBirdTransfer(svc.BirdTransfers))
	transfers.Delete("/:id", DeleteBirdTransfer(svc.BirdTransfers))

	vaccines := authed.Group("/vaccine-schedules")
	vaccines.Get("/due", DueVaccineStages(svc.VaccineSchedules))
	vaccines.Get("/", ListVaccineSchedules(svc.VaccineSchedules))
	vaccines.Get("/:id", GetVaccineSchedule(svc.VaccineSchedules))
	vaccines.Post("/", CreateVaccineSchedule(svc.VaccineSchedules))
	vaccines.Put("/:id", UpdateVaccineSchedule(svc.VaccineSchedules))
	vaccines.Delete("/:id", DeleteVaccineSchedule(svc.VaccineSchedules))
	vaccines.Post("/:id/stages/:stageId/complete", CompleteVaccineStage(svc.VaccineSchedules))
	vaccines.Post("/:id/stages/:stageId/skip", SkipVaccineStage(svc.VaccineSchedules))

	eggs := authed.Group("/egg-classifications")
	eggs.Get("/", ListEggClassifications(svc.EggClassifications))
	eggs.Get("/:id", GetEggClassification(svc.EggClassifications))
	eggs.Post("/", CreateEggClassification(svc.EggClassifications))
	eggs.Put("/:id", UpdateEggClassification(svc.EggClassifications))
	eggs.Delete("/:id", DeleteEggClassification(svc.EggClassifications))

	daily := authed.Group("/daily-operations")
	daily.Get("/", ListDailyOperations(svc.DailyOperations))
	daily.Get("/:id", GetDailyOperation(svc.DailyOperations))
	daily.Post("/", CreateDailyOperation(svc.DailyOperations))
	daily.Put("/:id", UpdateDailyOperation(svc.DailyOperations))
	daily.Delete("/:id", DeleteDailyOperation(svc.DailyOperations))

	reports := authed.Group("/reports")
	reports.Get("/dashboard", Dashboard(svc.Reports))
	reports.Get("/batches/:id/performance", BatchPerformance(svc.Reports))
	reports.Post("/batches/:id/performance/export", ExportBatchPerformance(svc.Reports))

	configs := authed.Group("/approval-configs", admin)
	configs.Get("/", ListApprovalConfigs(svc.Approvals))
	configs.Get("/:id", GetApprovalConfig(svc.Approvals))
	configs.Post("/", CreateApprovalConfig(svc.Approvals))
	configs.Put("/:id", UpdateApprovalConfig(svc.Approvals))
	configs.Delete("/:id", DeleteApprovalConfig(svc.Approvals))

	approvals := authed.Group("/approvals")
	approvals.Get("/", ListApprovals(svc.Approvals))
	approvals.Get("/inbox", ApprovalInbox(svc.Approvals))
	approvals.Get("/:id", GetApproval(svc.Approvals))
	approvals.Post("/:id/approve", ApproveRequest(svc.Approvals))
	approvals.Post("/:id/reject", RejectRequest(svc.Approvals))
}
