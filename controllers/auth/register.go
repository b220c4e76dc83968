package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"earnpro/database"
	"earnpro/ledger"
	"earnpro/middleware"
	"earnpro/models"
	"earnpro/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,nameok"`
	Phone                string `json:"phone" validate:"required,phone10"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	ReferralCode         string `json:"referral_code"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	db := database.DB

	var setting models.Setting
	signupBonus, referralReward := 5.0, 8.0
	if err := db.Take(&setting).Error; err == nil {
		if setting.Maintenance {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "The platform is under maintenance, please try again later"})
			return
		}
		if setting.ClosedRegister {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Registration is currently closed"})
			return
		}
		signupBonus = setting.SignupBonus
		referralReward = setting.ReferralReward
	}

	// Ensure unique phone
	var existing models.User
	if err := db.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Phone number is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking phone: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	code, err := generateUniqueReferralCode(db, 8)
	if err != nil {
		log.Printf("[register] generateUniqueReferralCode error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	newUser := models.User{
		Name:         req.Name,
		Phone:        req.Phone,
		Password:     string(hashed),
		ReferralCode: code,
	}

	// User creation and referral bonuses commit together or not at all.
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return ledger.ApplyReferral(tx, &newUser, req.ReferralCode, signupBonus, referralReward)
	})
	if err != nil {
		log.Printf("[register] DB transaction error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Registration failed, please try again"})
		return
	}

	token, err := utils.GenerateJWT(int64(newUser.ID), newUser.Phone, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create token"})
		return
	}

	// Re-read: the referral path may have credited the wallet.
	var created models.User
	if err := db.First(&created, newUser.ID).Error; err != nil {
		created = newUser
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful, welcome!",
		Data: map[string]interface{}{
			"token":        token,
			"token_expire": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
			"user":         userPayload(&created),
		},
	})
}

func userPayload(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":                u.ID,
		"name":              u.Name,
		"phone":             u.Phone,
		"referral_code":     u.ReferralCode,
		"wallet_balance":    u.WalletBalance,
		"total_earned":      u.TotalEarned,
		"referral_count":    u.ReferralCount,
		"referral_earnings": u.ReferralEarnings,
	}
}

func generateUniqueReferralCode(db *gorm.DB, length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts := 100

	for attempt := 0; attempt < maxAttempts; attempt++ {
		suffix, err := randomString(alphabet, length)
		if err != nil {
			return "", err
		}
		code := "REF" + suffix
		var count int64
		if err := db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", maxAttempts)
}

func randomString(alphabet string, length int) (string, error) {
	buf := make([]byte, length)
	out := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := 0; i < length; i++ {
		out[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(out), nil
}
