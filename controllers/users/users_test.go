package users

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.EarningOption{},
		&models.AppTask{},
		&models.TaskSubmission{},
		&models.WithdrawalRequest{},
		&models.Cooldown{},
		&models.Transaction{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	database.DB = db
}

func createUser(t *testing.T, balance float64) models.User {
	t.Helper()
	user := models.User{
		Name:          "Tester",
		Phone:         "9876543210",
		Password:      "x",
		WalletBalance: balance,
		TotalEarned:   balance,
		ReferralCode:  "REFTESTER01",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func authedRequest(method, path string, uid uint, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	ctx := context.WithValue(req.Context(), utils.UserIDKey, uid)
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return resp
}

func pngDataURI() string {
	raw := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestEarnCreditsAndStartsCooldown(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	option := models.EarningOption{
		Title:         "Spin & Win",
		RewardMin:     1.5,
		RewardMax:     1.5,
		CooldownHours: 1,
		ActionType:    models.ActionSpin,
		IsActive:      true,
	}
	if err := database.DB.Create(&option).Error; err != nil {
		t.Fatalf("create option: %v", err)
	}

	req := authedRequest(http.MethodPost, "/v1/users/earn/spin", user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"action_type": models.ActionSpin})
	rr := httptest.NewRecorder()
	EarnHandler(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first earn: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decodeResponse(t, rr)["data"].(map[string]interface{})
	if got := data["reward"].(float64); got != 1.5 {
		t.Fatalf("degenerate reward range: expected 1.5, got %v", got)
	}
	if got := data["wallet_balance"].(float64); got != 1.5 {
		t.Fatalf("wallet after earn: expected 1.5, got %v", got)
	}

	// Immediately again: the cooldown just set must refuse the claim.
	req = authedRequest(http.MethodPost, "/v1/users/earn/spin", user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"action_type": models.ActionSpin})
	rr = httptest.NewRecorder()
	EarnHandler(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second earn: expected 409, got %d: %s", rr.Code, rr.Body.String())
	}

	var txCount int64
	database.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txCount)
	if txCount != 1 {
		t.Fatalf("expected exactly 1 journal row, got %d", txCount)
	}
}

func TestEarnUnknownAction(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	req := authedRequest(http.MethodPost, "/v1/users/earn/mine-bitcoin", user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"action_type": "mine-bitcoin"})
	rr := httptest.NewRecorder()
	EarnHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestEarnDownloadAppIsProofOnly(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	req := authedRequest(http.MethodPost, "/v1/users/earn/download_app", user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"action_type": models.ActionDownloadApp})
	rr := httptest.NewRecorder()
	EarnHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for download_app, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestEarnInactiveOption(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	option := models.EarningOption{
		Title:      "Watch Ads",
		RewardMin:  1,
		RewardMax:  2,
		ActionType: models.ActionWatchAd,
		IsActive:   false,
	}
	if err := database.DB.Create(&option).Error; err != nil {
		t.Fatalf("create option: %v", err)
	}

	req := authedRequest(http.MethodPost, "/v1/users/earn/watch_ad", user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"action_type": models.ActionWatchAd})
	rr := httptest.NewRecorder()
	EarnHandler(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("inactive option: expected 404, got %d", rr.Code)
	}
}

func TestWithdrawalBelowMinimum(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 100)

	body, _ := json.Marshal(map[string]interface{}{
		"amount":          5,
		"payment_method":  models.PaymentMethodUPI,
		"payment_details": "tester@upi",
	})
	req := authedRequest(http.MethodPost, "/v1/users/withdrawal", user.ID, body)
	rr := httptest.NewRecorder()
	WithdrawalHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("below minimum: expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestWithdrawalInsufficientBalance(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 12)

	body, _ := json.Marshal(map[string]interface{}{
		"amount":          50,
		"payment_method":  models.PaymentMethodBank,
		"payment_details": "acc 12345678, IFSC TEST0001",
	})
	req := authedRequest(http.MethodPost, "/v1/users/withdrawal", user.ID, body)
	rr := httptest.NewRecorder()
	WithdrawalHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("insufficient balance: expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestWithdrawalInvalidMethod(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 100)

	body, _ := json.Marshal(map[string]interface{}{
		"amount":          20,
		"payment_method":  "paypal",
		"payment_details": "tester@example.com",
	})
	req := authedRequest(http.MethodPost, "/v1/users/withdrawal", user.ID, body)
	rr := httptest.NewRecorder()
	WithdrawalHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid method: expected 400, got %d", rr.Code)
	}
}

func TestWithdrawalSubmitAndList(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 100)

	body, _ := json.Marshal(map[string]interface{}{
		"amount":          40,
		"payment_method":  models.PaymentMethodUPI,
		"payment_details": "tester@upi",
	})
	req := authedRequest(http.MethodPost, "/v1/users/withdrawal", user.ID, body)
	rr := httptest.NewRecorder()
	WithdrawalHandler(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// Filing the request must not touch the balance.
	var reloaded models.User
	if err := database.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.WalletBalance != 100 {
		t.Fatalf("balance must stay 100 until approval, got %v", reloaded.WalletBalance)
	}

	req = authedRequest(http.MethodGet, "/v1/users/withdrawal", user.ID, nil)
	rr = httptest.NewRecorder()
	ListWithdrawalHandler(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	data := decodeResponse(t, rr)["data"].(map[string]interface{})
	rows := data["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 withdrawal, got %d", len(rows))
	}
	entry := rows[0].(map[string]interface{})
	if entry["status"] != models.StatusPending {
		t.Fatalf("expected pending status, got %v", entry["status"])
	}
}

func TestSubmitTaskProof(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	task := models.AppTask{Title: "Install FooApp", AppLink: "https://example.com/foo", RewardAmount: 25, IsActive: true}
	if err := database.DB.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	submit := func(screenshot string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{"screenshot": screenshot})
		req := authedRequest(http.MethodPost, "/v1/users/tasks/1/submit", user.ID, body)
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rr := httptest.NewRecorder()
		SubmitTaskProofHandler(rr, req)
		return rr
	}

	rr := submit(pngDataURI())
	if rr.Code != http.StatusCreated {
		t.Fatalf("valid proof: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// A second submission while the first is pending is refused.
	rr = submit(pngDataURI())
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate pending proof: expected 409, got %d: %s", rr.Code, rr.Body.String())
	}

	// Reject the pending one and the user may try again.
	now := time.Now()
	database.DB.Model(&models.TaskSubmission{}).
		Where("user_id = ? AND task_id = ?", user.ID, task.ID).
		Updates(map[string]interface{}{"status": models.StatusRejected, "decided_at": now})
	rr = submit(pngDataURI())
	if rr.Code != http.StatusCreated {
		t.Fatalf("resubmit after rejection: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSubmitTaskProofRejectsBadPayloads(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	task := models.AppTask{Title: "Install FooApp", AppLink: "https://example.com/foo", RewardAmount: 25, IsActive: true}
	if err := database.DB.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	for name, screenshot := range map[string]string{
		"not a data URI": "hello world",
		"bad base64":     "data:image/png;base64,!!!not-base64!!!",
	} {
		body, _ := json.Marshal(map[string]interface{}{"screenshot": screenshot})
		req := authedRequest(http.MethodPost, "/v1/users/tasks/1/submit", user.ID, body)
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rr := httptest.NewRecorder()
		SubmitTaskProofHandler(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rr.Code)
		}
	}
}

func TestSubmitTaskProofInactiveTask(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	task := models.AppTask{Title: "Old Task", AppLink: "https://example.com/old", RewardAmount: 10, IsActive: false}
	if err := database.DB.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	body, _ := json.Marshal(map[string]interface{}{"screenshot": pngDataURI()})
	req := authedRequest(http.MethodPost, "/v1/users/tasks/1/submit", user.ID, body)
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	SubmitTaskProofHandler(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("inactive task: expected 404, got %d", rr.Code)
	}
}
