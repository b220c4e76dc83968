package ledger

import (
	"math"
	"testing"
	"time"

	"earnpro/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Cooldown{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, code string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "Test " + code,
		Phone:        "9" + code,
		Password:     "x",
		ReferralCode: code,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &u
}

func TestCreditUpdatesBalanceAndJournal(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "REFAAAAAAA1")

	if err := Credit(db, u.ID, 2.5, models.TxEarning, "earn-1", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}

	got := reload(t, db, u.ID)
	if got.WalletBalance != 2.5 {
		t.Errorf("wallet = %.2f, want 2.50", got.WalletBalance)
	}
	if got.TotalEarned != 2.5 {
		t.Errorf("total earned = %.2f, want 2.50", got.TotalEarned)
	}

	var count int64
	db.Model(&models.Transaction{}).Where("user_id = ? AND flow = ?", u.ID, models.FlowCredit).Count(&count)
	if count != 1 {
		t.Errorf("journal rows = %d, want 1", count)
	}
}

func TestCreditUnknownUser(t *testing.T) {
	db := openTestDB(t)
	if err := Credit(db, 999, 1, models.TxEarning, "earn-x", nil); err != gorm.ErrRecordNotFound {
		t.Fatalf("credit unknown user: err = %v, want ErrRecordNotFound", err)
	}
}

func TestDebitClampsAtZero(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "REFAAAAAAA2")
	if err := Credit(db, u.ID, 5, models.TxEarning, "earn-1", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if err := Debit(db, u.ID, 20, models.TxWithdrawal, "wd-1", nil); err != nil {
		t.Fatalf("debit: %v", err)
	}
	got := reload(t, db, u.ID)
	if got.WalletBalance != 0 {
		t.Errorf("wallet = %.2f, want 0 after over-debit", got.WalletBalance)
	}
	if got.TotalEarned != 5 {
		t.Errorf("total earned = %.2f, want 5 untouched by debit", got.TotalEarned)
	}
}

func TestDebitExactAmount(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "REFAAAAAAA3")
	if err := Credit(db, u.ID, 13, models.TxEarning, "earn-1", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := Debit(db, u.ID, 8, models.TxWithdrawal, "wd-1", nil); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got := reload(t, db, u.ID); got.WalletBalance != 5 {
		t.Errorf("wallet = %.2f, want 5", got.WalletBalance)
	}
}

func TestApplyReferralValidCode(t *testing.T) {
	db := openTestDB(t)
	referrer := createUser(t, db, "REFAAAAAAAA")
	newUser := createUser(t, db, "REFBBBBBBBB")

	err := db.Transaction(func(tx *gorm.DB) error {
		return ApplyReferral(tx, newUser, referrer.ReferralCode, 5, 8)
	})
	if err != nil {
		t.Fatalf("apply referral: %v", err)
	}

	gotNew := reload(t, db, newUser.ID)
	if gotNew.WalletBalance != 5 || gotNew.TotalEarned != 5 {
		t.Errorf("new user wallet/total = %.2f/%.2f, want 5/5", gotNew.WalletBalance, gotNew.TotalEarned)
	}
	if gotNew.ReferredBy == nil || *gotNew.ReferredBy != referrer.ReferralCode {
		t.Errorf("referred_by = %v, want %q", gotNew.ReferredBy, referrer.ReferralCode)
	}

	gotRef := reload(t, db, referrer.ID)
	if gotRef.WalletBalance != 8 {
		t.Errorf("referrer wallet = %.2f, want 8", gotRef.WalletBalance)
	}
	if gotRef.TotalEarned != 8 {
		t.Errorf("referrer total earned = %.2f, want 8", gotRef.TotalEarned)
	}
	if gotRef.ReferralEarnings != 8 {
		t.Errorf("referrer referral earnings = %.2f, want 8", gotRef.ReferralEarnings)
	}
	if gotRef.ReferralCount != 1 {
		t.Errorf("referrer referral count = %d, want 1", gotRef.ReferralCount)
	}
}

func TestApplyReferralUnknownCodeIsNoOp(t *testing.T) {
	db := openTestDB(t)
	newUser := createUser(t, db, "REFCCCCCCCC")

	err := db.Transaction(func(tx *gorm.DB) error {
		return ApplyReferral(tx, newUser, "REFNOTEXIST", 5, 8)
	})
	if err != nil {
		t.Fatalf("apply referral: %v", err)
	}

	got := reload(t, db, newUser.ID)
	if got.WalletBalance != 0 || got.TotalEarned != 0 {
		t.Errorf("wallet/total = %.2f/%.2f, want 0/0 for unknown code", got.WalletBalance, got.TotalEarned)
	}
	if got.ReferredBy != nil {
		t.Errorf("referred_by = %q, want nil", *got.ReferredBy)
	}
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("journal rows = %d, want 0", count)
	}
}

func TestApplyReferralEmptyCode(t *testing.T) {
	db := openTestDB(t)
	newUser := createUser(t, db, "REFDDDDDDDD")
	if err := ApplyReferral(db, newUser, "", 5, 8); err != nil {
		t.Fatalf("apply referral empty code: %v", err)
	}
	if got := reload(t, db, newUser.ID); got.WalletBalance != 0 {
		t.Errorf("wallet = %.2f, want 0", got.WalletBalance)
	}
}

func TestCooldownLifecycle(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "REFEEEEEEEE")
	now := time.Now()

	remaining, err := CooldownRemaining(db, u.ID, models.ActionSpin, 1, now)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %v before first action, want 0", remaining)
	}

	if err := TouchCooldown(db, u.ID, models.ActionSpin, now); err != nil {
		t.Fatalf("touch: %v", err)
	}

	remaining, err = CooldownRemaining(db, u.ID, models.ActionSpin, 1, now.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining <= 49*time.Minute || remaining > 50*time.Minute {
		t.Errorf("remaining = %v, want ~50m", remaining)
	}

	remaining, err = CooldownRemaining(db, u.ID, models.ActionSpin, 1, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %v after window elapsed, want 0", remaining)
	}

	// A second touch moves the stamp forward.
	later := now.Add(2 * time.Hour)
	if err := TouchCooldown(db, u.ID, models.ActionSpin, later); err != nil {
		t.Fatalf("re-touch: %v", err)
	}
	var count int64
	db.Model(&models.Cooldown{}).Where("user_id = ?", u.ID).Count(&count)
	if count != 1 {
		t.Errorf("cooldown rows = %d, want 1 after upsert", count)
	}
}

func TestCooldownZeroWindow(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "REFFFFFFFFF")
	now := time.Now()
	if err := TouchCooldown(db, u.ID, models.ActionDownloadApp, now); err != nil {
		t.Fatalf("touch: %v", err)
	}
	remaining, err := CooldownRemaining(db, u.ID, models.ActionDownloadApp, 0, now)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %v for zero window, want 0", remaining)
	}
}

func TestRollRewardDegenerateRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := RollReward(1, 1); got != 1.00 {
			t.Fatalf("RollReward(1,1) = %v, want 1.00", got)
		}
	}
}

func TestRollRewardWithinRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := RollReward(0.5, 2.0)
		if got < 0.5 || got > 2.0 {
			t.Fatalf("RollReward(0.5,2.0) = %v, out of range", got)
		}
		cents := got * 100
		if diff := math.Abs(cents - math.Round(cents)); diff > 1e-9 {
			t.Fatalf("RollReward(0.5,2.0) = %v, not rounded to 2dp", got)
		}
	}
}

func TestTodayEarnings(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "REFGGGGGGGG")
	now := time.Now()

	if err := Credit(db, u.ID, 1.25, models.TxEarning, "earn-1", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := Credit(db, u.ID, 2.00, models.TxEarning, "earn-2", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := Debit(db, u.ID, 1.00, models.TxWithdrawal, "wd-1", nil); err != nil {
		t.Fatalf("debit: %v", err)
	}
	// Yesterday's credit must not count.
	old := models.Transaction{
		UserID: u.ID, Amount: 50, Flow: models.FlowCredit, Type: models.TxEarning,
		ReferenceID: "earn-old", CreatedAt: now.Add(-48 * time.Hour),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed old tx: %v", err)
	}

	total, err := TodayEarnings(db, u.ID, now)
	if err != nil {
		t.Fatalf("today earnings: %v", err)
	}
	if total != 3.25 {
		t.Errorf("today earnings = %.2f, want 3.25", total)
	}
}
