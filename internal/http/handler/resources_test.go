package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hatchops/internal/model"
	"hatchops/internal/service"
	serviceMocks "hatchops/internal/service/mocks"
)

func TestListCompanies(t *testing.T) {
	mockSvc := new(serviceMocks.MockCompanyService)
	app := fiber.New()
	app.Get("/companies", ListCompanies(mockSvc))

	t.Run("success", func(t *testing.T) {
		res := &service.ListResult[model.Company]{Items: []model.Company{{ID: testID, Code: "HAT-01"}}, Total: 1}
		mockSvc.On("List", mock.Anything, 20, 40).Return(res, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodGet, "/companies?limit=20&offset=40", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got service.ListResult[model.Company]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 1, got.Total)
		assert.Equal(t, "HAT-01", got.Items[0].Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodGet, "/companies?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.DefaultLimit, 0).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(jsonRequest(http.MethodGet, "/companies", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateCompany(t *testing.T) {
	mockSvc := new(serviceMocks.MockCompanyService)
	app := fiber.New()
	app.Post("/companies", CreateCompany(mockSvc))

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, &model.Company{Code: "FRM-02", Name: "North Farm", Kind: "farm"}).
			Return(&model.Company{ID: testID, Code: "FRM-02", Name: "North Farm", Kind: "farm"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/companies", map[string]string{"code": "FRM-02", "name": "North Farm", "kind": "farm"}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/companies", "{not json"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("duplicate code", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrConflict).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/companies", map[string]string{"code": "FRM-02"}))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp).Error.Code)
	})
}

func TestCreateUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Post("/users", CreateUser(mockSvc))

	in := service.NewUser{Name: "Rina", Email: "rina@example.com", Role: "supervisor", Password: "s3cret-pass"}
	mockSvc.On("Create", mock.Anything, in).Return(&model.User{ID: testID, Email: in.Email, PasswordHash: "hash"}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/users", in))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "PasswordHash")
	mockSvc.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/login", Login(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "ops@example.com", "pw-123456").
			Return(&service.Token{AccessToken: "tok", TokenType: "Bearer"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", loginRequest{Email: "ops@example.com", Password: "pw-123456"}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tok service.Token
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
		assert.Equal(t, "tok", tok.AccessToken)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "ops@example.com", "wrong").Return(nil, service.ErrUnauthorized).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", loginRequest{Email: "ops@example.com", Password: "wrong"}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetPsReceive_IncludesSummary(t *testing.T) {
	mockSvc := new(serviceMocks.MockPsReceiveService)
	app := fiber.New()
	app.Get("/ps-receives/:id", GetPsReceive(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testID).Return(&model.PsReceive{
			ID:      testID,
			Challan: model.NewHeadCount(100, 1000),
			ChickCounts: []model.PsChickCount{
				{BoxLabel: "A", Count: model.NewHeadCount(102, 990)},
			},
			LabTransfers: []model.PsLabTransfer{
				{LabName: "Vet lab", Count: model.NewHeadCount(2, 10)},
			},
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodGet, "/ps-receives/"+testID, nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			ID      string                 `json:"id"`
			Summary model.PsReceiveSummary `json:"summary"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, testID, body.ID)
		assert.Equal(t, model.NewHeadCount(100, 980), body.Summary.Available)
		assert.Equal(t, model.NewHeadCount(0, 10), body.Summary.Shortage)
		assert.Equal(t, model.NewHeadCount(2, 0), body.Summary.Excess)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodGet, "/ps-receives/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testID).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(jsonRequest(http.MethodGet, "/ps-receives/"+testID, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreatePsReceive(t *testing.T) {
	mockSvc := new(serviceMocks.MockPsReceiveService)

	t.Run("passes the actor", func(t *testing.T) {
		app := fiber.New()
		app.Post("/ps-receives", withActor(supervisor), CreatePsReceive(mockSvc))

		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(p *model.PsReceive) bool {
			return p.ShipmentNo == "SHP-7"
		}), supervisor).Return(&model.PsReceive{ID: testID, ShipmentNo: "SHP-7", ApprovalStatus: model.ApprovalPending}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/ps-receives", map[string]any{"shipment_no": "SHP-7"}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		app := fiber.New()
		app.Post("/ps-receives", withActor(supervisor), CreatePsReceive(mockSvc))

		mockSvc.On("Create", mock.Anything, mock.Anything, supervisor).
			Return(nil, &service.ValidationError{Field: "chick_counts", Message: "at least one row is required"}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/ps-receives", map[string]any{"shipment_no": "SHP-8"}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "chick_counts", body.Error.Field)
	})

	t.Run("no actor", func(t *testing.T) {
		app := fiber.New()
		app.Post("/ps-receives", CreatePsReceive(mockSvc))

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/ps-receives", map[string]any{}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestDeleteFirmReceive(t *testing.T) {
	mockSvc := new(serviceMocks.MockFirmReceiveService)
	app := fiber.New()
	app.Delete("/firm-receives/:id", DeleteFirmReceive(mockSvc))

	t.Run("deleted", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testID).Return(nil).Once()
		resp, _ := app.Test(jsonRequest(http.MethodDelete, "/firm-receives/"+testID, nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("still referenced", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testID).Return(service.ErrConflict).Once()
		resp, _ := app.Test(jsonRequest(http.MethodDelete, "/firm-receives/"+testID, nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestUpdateShedReceive(t *testing.T) {
	mockSvc := new(serviceMocks.MockShedReceiveService)
	app := fiber.New()
	app.Put("/shed-receives/:id", withActor(supervisor), UpdateShedReceive(mockSvc))

	mockSvc.On("Update", mock.Anything, testID, mock.Anything, supervisor).Return(nil, service.ErrInvalidState).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/shed-receives/"+testID, map[string]any{"remarks": "late"}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", decodeError(t, resp).Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestBatchBalance(t *testing.T) {
	mockSvc := new(serviceMocks.MockBatchAssignService)
	app := fiber.New()
	app.Get("/batch-assigns/:id/balance", BatchBalance(mockSvc))

	bal := &model.BatchBalance{BatchAssignID: testID, Assigned: model.NewHeadCount(500, 4500), Live: model.NewHeadCount(480, 4400)}
	mockSvc.On("Balance", mock.Anything, testID).Return(bal, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodGet, "/batch-assigns/"+testID+"/balance", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.BatchBalance
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 4880, got.Live.Total)
}

func TestListBirdTransfers(t *testing.T) {
	mockSvc := new(serviceMocks.MockBirdTransferService)
	app := fiber.New()
	app.Get("/bird-transfers", ListBirdTransfers(mockSvc))

	t.Run("filters", func(t *testing.T) {
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		mockSvc.On("List", mock.Anything, testID, from, to, service.DefaultLimit, 0).
			Return(&service.ListResult[model.BirdTransfer]{}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodGet, "/bird-transfers?batch_assign_id="+testID+"&from=2026-03-01&to=2026-03-31", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodGet, "/bird-transfers?from=03/01/2026", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid batch filter", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodGet, "/bird-transfers?batch_assign_id=42", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestVaccineStageTransitions(t *testing.T) {
	const stageID = "0b7e5f1a-9c2d-4e8b-a3f6-71d4c2e9b805"
	mockSvc := new(serviceMocks.MockVaccineScheduleService)
	app := fiber.New()
	app.Post("/vaccine-schedules/:id/stages/:stageId/complete", withActor(supervisor), CompleteVaccineStage(mockSvc))
	app.Post("/vaccine-schedules/:id/stages/:stageId/skip", withActor(supervisor), SkipVaccineStage(mockSvc))

	t.Run("complete without body", func(t *testing.T) {
		mockSvc.On("CompleteStage", mock.Anything, testID, stageID, supervisor, "").
			Return(&model.VaccineStage{ID: stageID, Status: model.StageStatusDone}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/vaccine-schedules/"+testID+"/stages/"+stageID+"/complete", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("skip with notes", func(t *testing.T) {
		mockSvc.On("SkipStage", mock.Anything, testID, stageID, supervisor, "vaccine out of stock").
			Return(&model.VaccineStage{ID: stageID, Status: model.StageStatusSkipped}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/vaccine-schedules/"+testID+"/stages/"+stageID+"/skip", stageRequest{Notes: "vaccine out of stock"}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("already done", func(t *testing.T) {
		mockSvc.On("CompleteStage", mock.Anything, testID, stageID, supervisor, "").Return(nil, service.ErrInvalidState).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/vaccine-schedules/"+testID+"/stages/"+stageID+"/complete", nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("bad stage id", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/vaccine-schedules/"+testID+"/stages/7/complete", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestDueVaccineStages(t *testing.T) {
	mockSvc := new(serviceMocks.MockVaccineScheduleService)
	app := fiber.New()
	app.Get("/due", DueVaccineStages(mockSvc))

	mockSvc.On("Due", mock.Anything, time.Time{}, time.Time{}).Return([]model.DueStage{{Title: "Layer program"}}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodGet, "/due", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []model.DueStage `json:"data"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	mockSvc.AssertExpectations(t)
}

func TestUpdateEggClassification(t *testing.T) {
	mockSvc := new(serviceMocks.MockEggClassificationService)
	app := fiber.New()
	app.Put("/egg-classifications/:id", UpdateEggClassification(mockSvc))

	mockSvc.On("Update", mock.Anything, testID, mock.MatchedBy(func(e *model.EggClassification) bool {
		return e.TotalEggs == 120 && e.Hatching == 100
	})).Return(&model.EggClassification{ID: testID, TotalEggs: 120, Hatching: 100}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/egg-classifications/"+testID, map[string]int{"total_eggs": 120, "hatching": 100, "commercial": 20}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 83.33, body["hatching_percent"])
	mockSvc.AssertExpectations(t)
}

func TestListEggClassifications_HatchingPercent(t *testing.T) {
	mockSvc := new(serviceMocks.MockEggClassificationService)
	app := fiber.New()
	app.Get("/egg-classifications", ListEggClassifications(mockSvc))

	mockSvc.On("List", mock.Anything, testID, time.Time{}, time.Time{}, service.DefaultLimit, 0).
		Return(&service.ListResult[model.EggClassification]{
			Items: []model.EggClassification{{ID: "e1", TotalEggs: 200, Hatching: 180}},
			Total: 1,
		}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodGet, "/egg-classifications?batch_assign_id="+testID, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 90.0, body.Data[0]["hatching_percent"])
	mockSvc.AssertExpectations(t)
}

func TestCreateDailyOperation_Duplicate(t *testing.T) {
	mockSvc := new(serviceMocks.MockDailyOperationService)
	app := fiber.New()
	app.Post("/daily-operations", withActor(supervisor), CreateDailyOperation(mockSvc))

	mockSvc.On("Create", mock.Anything, mock.Anything, supervisor).Return(nil, service.ErrConflict).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/daily-operations", map[string]any{"batch_assign_id": testID}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	mockSvc := new(serviceMocks.MockReportService)
	app := fiber.New()
	app.Get("/dashboard", Dashboard(mockSvc))

	t.Run("explicit date", func(t *testing.T) {
		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		mockSvc.On("Dashboard", mock.Anything, day).Return(&model.Dashboard{Date: day, EggsToday: 3100}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodGet, "/dashboard?date=2026-03-10", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var d model.Dashboard
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
		assert.Equal(t, 3100, d.EggsToday)
	})

	t.Run("invalid date", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodGet, "/dashboard?date=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestExportBatchPerformance(t *testing.T) {
	mockSvc := new(serviceMocks.MockReportService)
	app := fiber.New()
	app.Post("/reports/batches/:id/performance/export", withActor(supervisor), ExportBatchPerformance(mockSvc))

	exp := &model.ReportExport{Key: "exports/x/performance.xlsx", URL: "https://minio.local/signed"}
	mockSvc.On("ExportPerformance", mock.Anything, testID, time.Time{}, time.Time{}, supervisor).Return(exp, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/reports/batches/"+testID+"/performance/export", nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got model.ReportExport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, exp.URL, got.URL)
	mockSvc.AssertExpectations(t)
}

func TestApprovalDecisions(t *testing.T) {
	mockSvc := new(serviceMocks.MockApprovalService)
	app := fiber.New()
	app.Post("/approvals/:id/approve", withActor(supervisor), ApproveRequest(mockSvc))
	app.Post("/approvals/:id/reject", withActor(supervisor), RejectRequest(mockSvc))

	tests := []struct {
		name   string
		path   string
		body   any
		setup  func()
		status int
		code   string
	}{
		{
			name: "approve",
			path: "/approvals/" + testID + "/approve",
			setup: func() {
				mockSvc.On("Approve", mock.Anything, testID, supervisor, "").
					Return(&model.ApprovalRequest{ID: testID, Status: model.ApprovalPending}, nil).Once()
			},
			status: http.StatusOK,
		},
		{
			name: "reject with comment",
			path: "/approvals/" + testID + "/reject",
			body: decisionRequest{Comment: "count mismatch"},
			setup: func() {
				mockSvc.On("Reject", mock.Anything, testID, supervisor, "count mismatch").
					Return(&model.ApprovalRequest{ID: testID, Status: model.ApprovalRejected}, nil).Once()
			},
			status: http.StatusOK,
		},
		{
			name: "wrong layer role",
			path: "/approvals/" + testID + "/approve",
			setup: func() {
				mockSvc.On("Approve", mock.Anything, testID, supervisor, "").Return(nil, service.ErrForbidden).Once()
			},
			status: http.StatusForbidden,
			code:   "FORBIDDEN",
		},
		{
			name: "expired",
			path: "/approvals/" + testID + "/approve",
			setup: func() {
				mockSvc.On("Approve", mock.Anything, testID, supervisor, "").Return(nil, service.ErrExpired).Once()
			},
			status: http.StatusConflict,
			code:   "APPROVAL_EXPIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			resp, _ := app.Test(jsonRequest(http.MethodPost, tt.path, tt.body))
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, resp).Error.Code)
			}
		})
	}
	mockSvc.AssertExpectations(t)
}

func TestApprovalInbox(t *testing.T) {
	mockSvc := new(serviceMocks.MockApprovalService)
	app := fiber.New()
	app.Get("/approvals/inbox", withActor(supervisor), ApprovalInbox(mockSvc))

	mockSvc.On("Inbox", mock.Anything, supervisor).Return([]model.ApprovalRequest{{ID: testID}}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodGet, "/approvals/inbox", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []model.ApprovalRequest `json:"data"`
		Total int                     `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
}
