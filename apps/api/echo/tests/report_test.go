package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/report"
	"github.com/kahenga/onyesha/core/user"
)

func Test_reportApi_dashboard(t *testing.T) {
	env := setup(t)

	viewer := env.createUser(t, "Viewer", "viewster", "viewer@test.cd", "Sup3r$ecret", []string{user.RoleViewer})
	cat := seedCategory(t, env, "Screens")

	ctx := context.Background()
	for _, name := range []string{"Lobby Screen", "Cafeteria Screen"} {
		if _, err := env.assetRepo.CreateAsset(ctx, asset.Asset{
			Name:             name,
			CategoryID:       cat.ID,
			Status:           asset.StatusActive,
			PowerConsumption: 100,
		}); err != nil {
			t.Fatalf("CreateAsset() failed: %v", err)
		}
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reports/dashboard")
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/dashboard", getToken(t, viewer))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var dash report.Dashboard
		if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if dash.TotalAssets != 2 {
			t.Errorf("TotalAssets = %d; want 2", dash.TotalAssets)
		}
		if dash.TotalCategories != 1 {
			t.Errorf("TotalCategories = %d; want 1", dash.TotalCategories)
		}
		if dash.TotalPowerConsumption != 200 {
			t.Errorf("TotalPowerConsumption = %v; want 200", dash.TotalPowerConsumption)
		}
		if dash.AveragePowerConsumption != 100 {
			t.Errorf("AveragePowerConsumption = %v; want 100", dash.AveragePowerConsumption)
		}
	})
}
