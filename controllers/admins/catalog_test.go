package admins

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"earnpro/database"
	"earnpro/models"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestCreateEarningOptionInactiveStaysInactive(t *testing.T) {
	setupTestDB(t)

	rr := postJSON(t, CreateEarningOption, "/v1/admin/earning-options", map[string]interface{}{
		"title":       "Spin & Win",
		"reward_min":  0.5,
		"reward_max":  2.0,
		"action_type": models.ActionSpin,
		"is_active":   false,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var stored models.EarningOption
	if err := database.DB.Where("action_type = ?", models.ActionSpin).First(&stored).Error; err != nil {
		t.Fatalf("reload option: %v", err)
	}
	if stored.IsActive {
		t.Fatal("option created with is_active=false was stored as active")
	}
}

func TestCreateAppTaskInactiveStaysInactive(t *testing.T) {
	setupTestDB(t)

	rr := postJSON(t, CreateAppTask, "/v1/admin/tasks", map[string]interface{}{
		"title":         "Install FooApp",
		"app_link":      "https://example.com/foo",
		"reward_amount": 25,
		"is_active":     false,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var stored models.AppTask
	if err := database.DB.Where("title = ?", "Install FooApp").First(&stored).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if stored.IsActive {
		t.Fatal("task created with is_active=false was stored as active")
	}
}

func TestCreateEarningOptionDefaultsActive(t *testing.T) {
	setupTestDB(t)

	rr := postJSON(t, CreateEarningOption, "/v1/admin/earning-options", map[string]interface{}{
		"title":       "Watch Ads",
		"reward_min":  1.0,
		"reward_max":  2.0,
		"action_type": models.ActionWatchAd,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var stored models.EarningOption
	if err := database.DB.Where("action_type = ?", models.ActionWatchAd).First(&stored).Error; err != nil {
		t.Fatalf("reload option: %v", err)
	}
	if !stored.IsActive {
		t.Fatal("option created without is_active must default to active")
	}
}
