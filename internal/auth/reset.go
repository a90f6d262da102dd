package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Reset tokens live in the database, not process memory, so any instance can
// consume a token another instance issued. Rows are single-use and expire
// after resetTokenTTL.
const resetTokenTTL = 15 * time.Minute

const resetRequestedMsg = "If an account with that email exists, a password reset link has been sent."

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func cleanupExpiredTokens(dbx *sql.DB) {
	_, _ = dbx.Exec(`DELETE FROM password_reset_tokens WHERE expires_at < now() OR used`)
}

func RequestPasswordResetHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		email := strings.TrimSpace(body.Email)
		if email == "" {
			http.Error(w, "email is required", http.StatusBadRequest)
			return
		}

		cleanupExpiredTokens(dbx)

		w.Header().Set("Content-Type", "application/json")

		var userID int
		if err := dbx.QueryRow(`SELECT id FROM users WHERE email=$1`, email).Scan(&userID); err != nil {
			// don't reveal whether the email exists
			_ = json.NewEncoder(w).Encode(map[string]any{"message": resetRequestedMsg})
			return
		}

		token, err := generateResetToken()
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}

		_, err = dbx.Exec(`
			INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, used)
			VALUES ($1, $2, $3, FALSE)
		`, hashResetToken(token), userID, time.Now().UTC().Add(resetTokenTTL))
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// no mail delivery wired yet; the token is logged for dev use
		log.Printf("[INFO] password reset requested for user_id=%d token=%s", userID, token)

		_ = json.NewEncoder(w).Encode(map[string]any{"message": resetRequestedMsg})
	}
}

func ResetPasswordHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token           string `json:"token"`
			Password        string `json:"password"`
			PasswordConfirm string `json:"password_confirm"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		token := strings.TrimSpace(body.Token)
		errs := map[string]string{}
		if token == "" {
			errs["token"] = "Reset token is required"
		}
		if body.Password == "" {
			errs["password"] = "Password is required"
		} else if len(body.Password) < 8 {
			errs["password"] = "Password must be at least 8 characters"
		}
		if body.Password != body.PasswordConfirm {
			errs["password_confirm"] = "Passwords do not match"
		}
		if len(errs) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"errors": errs})
			return
		}

		var (
			userID    int
			expiresAt time.Time
			used      bool
		)
		err := dbx.QueryRow(`
			SELECT user_id, expires_at, used
			FROM password_reset_tokens
			WHERE token_hash=$1
		`, hashResetToken(token)).Scan(&userID, &expiresAt, &used)
		if err != nil {
			http.Error(w, "invalid or expired reset token", http.StatusBadRequest)
			return
		}
		if used {
			http.Error(w, "this reset token has already been used", http.StatusBadRequest)
			return
		}
		if expiresAt.Before(time.Now().UTC()) {
			_, _ = dbx.Exec(`DELETE FROM password_reset_tokens WHERE token_hash=$1`, hashResetToken(token))
			http.Error(w, "reset token has expired, please request a new one", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}

		tx, err := dbx.Begin()
		if err != nil {
			http.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`UPDATE users SET password=$1 WHERE id=$2`, string(hash), userID); err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`UPDATE password_reset_tokens SET used=TRUE WHERE token_hash=$1`,
			hashResetToken(token)); err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Password reset successfully. You can now login with your new password.",
		})
	}
}
