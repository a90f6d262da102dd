package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func RegisterHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username        string `json:"username"`
			Email           string `json:"email"`
			Password        string `json:"password"`
			PasswordConfirm string `json:"password_confirm"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		username := strings.TrimSpace(body.Username)
		email := strings.TrimSpace(body.Email)

		errs := map[string]string{}
		if username == "" {
			errs["username"] = "Username is required"
		} else if len(username) < 3 {
			errs["username"] = "Username must be at least 3 characters"
		}
		if email == "" {
			errs["email"] = "Email is required"
		} else if !validEmail(email) {
			errs["email"] = "Invalid email format"
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

		var exists int
		_ = dbx.QueryRow(`SELECT COUNT(*) FROM users WHERE username=$1 OR email=$2`,
			username, email).Scan(&exists)
		if exists > 0 {
			http.Error(w, "username or email already exists", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}

		var id int
		err = dbx.QueryRow(`
			INSERT INTO users (username, email, password)
			VALUES ($1, $2, $3)
			RETURNING id
		`, username, email, string(hash)).Scan(&id)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		token, _ := GenerateToken(secret, id)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":  id,
			"username": username,
			"email":    email,
			"token":    token,
		})
	}
}

func LoginHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		var (
			id   int
			hash string
		)
		err := dbx.QueryRow(`
			SELECT id, password FROM users WHERE username=$1 OR email=$1
		`, strings.TrimSpace(body.Username)).Scan(&id, &hash)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, _ := GenerateToken(secret, id)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": id,
			"token":   token,
		})
	}
}

func MeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var username, email string
		if err := dbx.QueryRow(`SELECT username, email FROM users WHERE id=$1`, uid).
			Scan(&username, &email); err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":  uid,
			"username": username,
			"email":    email,
		})
	}
}
