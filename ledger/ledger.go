// Package ledger implements wallet balance movements and the transaction
// journal. Every balance mutation goes through Credit or Debit so that the
// journal and the denormalized user columns stay consistent. Callers pass the
// *gorm.DB they want the writes to happen on, normally a transaction handle.
package ledger

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"earnpro/models"
	"earnpro/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Credit adds amount to the user's wallet and total earned, and journals the
// movement. Amount must already be rounded to two decimals.
func Credit(tx *gorm.DB, userID uint, amount float64, txType, referenceID string, message *string) error {
	if amount < 0 {
		return fmt.Errorf("ledger: negative credit amount %.2f", amount)
	}
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
			"total_earned":   gorm.Expr("total_earned + ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return journal(tx, userID, amount, models.FlowCredit, txType, referenceID, message)
}

// Debit subtracts amount from the user's wallet, clamping the result at zero,
// and journals the movement with the requested amount.
func Debit(tx *gorm.DB, userID uint, amount float64, txType, referenceID string, message *string) error {
	if amount < 0 {
		return fmt.Errorf("ledger: negative debit amount %.2f", amount)
	}
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("wallet_balance", gorm.Expr(
			"CASE WHEN wallet_balance >= ? THEN wallet_balance - ? ELSE 0 END", amount, amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return journal(tx, userID, amount, models.FlowDebit, txType, referenceID, message)
}

// ApplyReferral credits the signup bonus to the new user and the referral
// reward to the owner of code. An unknown code is a silent no-op: the new user
// keeps a zero wallet and no journal rows are written.
func ApplyReferral(tx *gorm.DB, newUser *models.User, code string, signupBonus, referralReward float64) error {
	if code == "" {
		return nil
	}
	var referrer models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referral_code = ?", code).
		First(&referrer).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := Credit(tx, newUser.ID, signupBonus, models.TxSignupBonus,
		fmt.Sprintf("signup-%d", newUser.ID), nil); err != nil {
		return err
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", referrer.ID).
		UpdateColumns(map[string]interface{}{
			"wallet_balance":    gorm.Expr("wallet_balance + ?", referralReward),
			"total_earned":      gorm.Expr("total_earned + ?", referralReward),
			"referral_earnings": gorm.Expr("referral_earnings + ?", referralReward),
			"referral_count":    gorm.Expr("referral_count + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if err := journal(tx, referrer.ID, referralReward, models.FlowCredit, models.TxReferral,
		fmt.Sprintf("referral-%d", newUser.ID), nil); err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", newUser.ID).
		UpdateColumn("referred_by", code).Error
}

// CooldownRemaining returns how long the user must still wait before repeating
// actionType, given the option's cooldown window. A zero window or no prior
// completion means no wait.
func CooldownRemaining(db *gorm.DB, userID uint, actionType string, cooldownHours float64, now time.Time) (time.Duration, error) {
	if cooldownHours <= 0 {
		return 0, nil
	}
	var cd models.Cooldown
	err := db.Where("user_id = ? AND action_type = ?", userID, actionType).First(&cd).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	window := time.Duration(cooldownHours * float64(time.Hour))
	remaining := cd.LastActionAt.Add(window).Sub(now)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// TouchCooldown stamps the user's last completion of actionType to now,
// creating the row on first use. Called inside the earn transaction before
// crediting so the cooldown row acts as the write barrier against double
// payout.
func TouchCooldown(tx *gorm.DB, userID uint, actionType string, now time.Time) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "action_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_action_at": now}),
	}).Create(&models.Cooldown{
		UserID:       userID,
		ActionType:   actionType,
		LastActionAt: now,
	}).Error
}

// RollReward draws a uniform reward in [min, max] rounded to two decimals.
// A degenerate range (min >= max) returns min rounded.
func RollReward(min, max float64) float64 {
	if max <= min {
		return utils.RoundFloat(min, 2)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return utils.RoundFloat(min, 2)
	}
	f := float64(n.Int64()) / float64(1<<53)
	return utils.RoundFloat(min+f*(max-min), 2)
}

// TodayEarnings sums the user's credited journal entries since local midnight.
func TodayEarnings(db *gorm.DB, userID uint, now time.Time) (float64, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var total float64
	err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND flow = ? AND created_at >= ?", userID, models.FlowCredit, midnight).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return utils.RoundFloat(total, 2), nil
}

func journal(tx *gorm.DB, userID uint, amount float64, flow, txType, referenceID string, message *string) error {
	return tx.Create(&models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Flow:        flow,
		Type:        txType,
		ReferenceID: referenceID,
		Message:     message,
	}).Error
}

// Balance reads the user's current wallet balance.
func Balance(db *gorm.DB, userID uint) (float64, error) {
	var user models.User
	if err := db.Select("wallet_balance").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.WalletBalance, nil
}
