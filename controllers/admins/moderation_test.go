package admins

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"earnpro/database"
	"earnpro/models"

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

func callWithID(handler http.HandlerFunc, method, path string, id uint) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatUint(uint64(id), 10)})
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestApproveProofCreditsOnce(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	task := models.AppTask{Title: "Install FooApp", AppLink: "https://example.com/foo", RewardAmount: 25, IsActive: true}
	if err := database.DB.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	sub := models.TaskSubmission{UserID: user.ID, TaskID: task.ID, Screenshot: "s", Status: models.StatusPending, SubmittedAt: time.Now()}
	if err := database.DB.Create(&sub).Error; err != nil {
		t.Fatalf("create submission: %v", err)
	}

	rr := callWithID(ApproveProof, http.MethodPut, "/v1/admin/proofs/1/approve", sub.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("first approve: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var reloaded models.User
	if err := database.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.WalletBalance != 25 {
		t.Fatalf("balance after approval: expected 25, got %v", reloaded.WalletBalance)
	}

	// Approving again must not pay twice.
	rr = callWithID(ApproveProof, http.MethodPut, "/v1/admin/proofs/1/approve", sub.ID)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second approve: expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
	if err := database.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.WalletBalance != 25 {
		t.Fatalf("balance after repeat approval: expected 25, got %v", reloaded.WalletBalance)
	}

	var txCount int64
	database.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txCount)
	if txCount != 1 {
		t.Fatalf("expected exactly 1 journal row, got %d", txCount)
	}
}

func TestRejectProof(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 0)

	task := models.AppTask{Title: "Install FooApp", AppLink: "https://example.com/foo", RewardAmount: 25, IsActive: true}
	database.DB.Create(&task)
	sub := models.TaskSubmission{UserID: user.ID, TaskID: task.ID, Screenshot: "s", Status: models.StatusPending, SubmittedAt: time.Now()}
	database.DB.Create(&sub)

	rr := callWithID(RejectProof, http.MethodPut, "/v1/admin/proofs/1/reject", sub.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	if reloaded.WalletBalance != 0 {
		t.Fatalf("reject must not credit, got balance %v", reloaded.WalletBalance)
	}

	// Approving a rejected submission is refused.
	rr = callWithID(ApproveProof, http.MethodPut, "/v1/admin/proofs/1/approve", sub.ID)
	if rr.Code != http.StatusConflict {
		t.Fatalf("approve after reject: expected 409, got %d", rr.Code)
	}

	rr = callWithID(RejectProof, http.MethodPut, "/v1/admin/proofs/999/reject", 999)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("reject missing: expected 404, got %d", rr.Code)
	}
}

func TestApproveWithdrawalDebitsOnce(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 100)

	wd := models.WithdrawalRequest{
		UserID:         user.ID,
		Amount:         40,
		PaymentMethod:  models.PaymentMethodUPI,
		PaymentDetails: "tester@upi",
		Status:         models.StatusPending,
		RequestedAt:    time.Now(),
	}
	if err := database.DB.Create(&wd).Error; err != nil {
		t.Fatalf("create withdrawal: %v", err)
	}

	rr := callWithID(ApproveWithdrawal, http.MethodPut, "/v1/admin/withdrawals/1/approve", wd.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	if reloaded.WalletBalance != 60 {
		t.Fatalf("balance after approval: expected 60, got %v", reloaded.WalletBalance)
	}

	rr = callWithID(ApproveWithdrawal, http.MethodPut, "/v1/admin/withdrawals/1/approve", wd.ID)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second approve: expected 409, got %d", rr.Code)
	}
	database.DB.First(&reloaded, user.ID)
	if reloaded.WalletBalance != 60 {
		t.Fatalf("balance after repeat approval: expected 60, got %v", reloaded.WalletBalance)
	}
}

func TestApproveWithdrawalClampsAtZero(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 100)

	wd := models.WithdrawalRequest{
		UserID:         user.ID,
		Amount:         80,
		PaymentMethod:  models.PaymentMethodBank,
		PaymentDetails: "acc 12345678",
		Status:         models.StatusPending,
		RequestedAt:    time.Now(),
	}
	database.DB.Create(&wd)

	// The balance shrank after the request was filed.
	database.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("wallet_balance", 30)

	rr := callWithID(ApproveWithdrawal, http.MethodPut, "/v1/admin/withdrawals/1/approve", wd.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	if reloaded.WalletBalance != 0 {
		t.Fatalf("clamped debit: expected 0, got %v", reloaded.WalletBalance)
	}
}

func TestRejectWithdrawalLeavesBalance(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, 100)

	wd := models.WithdrawalRequest{
		UserID:         user.ID,
		Amount:         40,
		PaymentMethod:  models.PaymentMethodUPI,
		PaymentDetails: "tester@upi",
		Status:         models.StatusPending,
		RequestedAt:    time.Now(),
	}
	database.DB.Create(&wd)

	rr := callWithID(RejectWithdrawal, http.MethodPut, "/v1/admin/withdrawals/1/reject", wd.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	if reloaded.WalletBalance != 100 {
		t.Fatalf("reject must leave balance untouched, got %v", reloaded.WalletBalance)
	}

	rr = callWithID(RejectWithdrawal, http.MethodPut, "/v1/admin/withdrawals/1/reject", wd.ID)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second reject: expected 409, got %d", rr.Code)
	}

	rr = callWithID(RejectWithdrawal, http.MethodPut, "/v1/admin/withdrawals/999/reject", 999)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("reject missing: expected 404, got %d", rr.Code)
	}
}
