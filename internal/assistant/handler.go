package assistant

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"aurora-tasks-backend/internal/analytics"
	"aurora-tasks-backend/internal/auth"
)

// CommandHandler exposes the assistant over HTTP. Anything short of a panic
// answers 200 with a reply; a panic is the only path to a 500, and even that
// carries a reply-shaped body.
func CommandHandler(a *Assistant, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[WARN] assistant: panic while handling command: %v", rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"reply": "Sorry, something unexpected went wrong on my side. Please try again.",
				})
			}
		}()

		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		reply := a.HandleCommand(r.Context(), uid, body.Message)

		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"message_len": len(body.Message),
				"reply_len":   len(reply),
				"ai_path":     a.Gateway != nil && a.Gateway.Available(),
			}
			_ = analytics.Log(r.Context(), dbx, env, "assistant_command", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"reply": reply})
	}
}
