package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/maintenance"
	"github.com/kahenga/onyesha/core/user"
)

func Test_scheduleApi_crud(t *testing.T) {
	env := setup(t)

	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})
	viewer := env.createUser(t, "Viewer", "viewster", "viewer@test.cd", "Sup3r$ecret", []string{user.RoleViewer})
	techToken := getToken(t, tech)

	var sched maintenance.Schedule
	t.Run("technician can create", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{
			"name":         "Quarterly Cleaning",
			"service_type": "cleaning",
			"interval":     map[string]interface{}{"interval_value": 3, "interval_unit": maintenance.UnitMonth},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/maintenance-schedules", techToken, body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
	})

	t.Run("viewer cannot create", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/maintenance-schedules", getToken(t, viewer),
			marshallObj(t, map[string]interface{}{"name": "Nope", "service_type": "x", "interval": map[string]interface{}{"interval_value": 1, "interval_unit": "day"}}))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("invalid interval rejected", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{
			"name":         "Bad",
			"service_type": "cleaning",
			"interval":     map[string]interface{}{"interval_value": 0, "interval_unit": "fortnight"},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/maintenance-schedules", techToken, body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("delete detaches assets", func(t *testing.T) {
		ctx := context.Background()
		cat := seedCategory(t, env, "Screens")
		ast, err := env.assetRepo.CreateAsset(ctx, asset.Asset{
			Name:                  "Lobby Screen",
			CategoryID:            cat.ID,
			Status:                asset.StatusActive,
			MaintenanceScheduleID: &sched.ID,
		})
		if err != nil {
			t.Fatalf("CreateAsset() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodDelete, "/v1/maintenance-schedules/"+sched.ID, techToken)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		refreshed, err := env.assetRepo.GetAssetByID(ctx, ast.ID)
		if err != nil {
			t.Fatalf("GetAssetByID() failed: %v", err)
		}
		if refreshed.MaintenanceScheduleID != nil {
			t.Error("expected schedule reference to be cleared")
		}
	})
}
