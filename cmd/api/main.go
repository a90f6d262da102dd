package main

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"aurora-tasks-backend/internal/ai"
	"aurora-tasks-backend/internal/analytics"
	"aurora-tasks-backend/internal/assistant"
	"aurora-tasks-backend/internal/auth"
	"aurora-tasks-backend/internal/config"
	"aurora-tasks-backend/internal/db"
	"aurora-tasks-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	secret := []byte(cfg.JWTSecret)
	store := tasks.NewStore(database)
	gateway := ai.New(cfg.OpenAIKey, cfg.OpenAIModel)
	if gateway.Available() {
		log.Println("✅ AI assistant configured, model:", cfg.OpenAIModel)
	} else {
		log.Println("ℹ️ No OPENAI_API_KEY set, assistant runs in fallback mode")
	}
	asst := assistant.New(store, gateway)
	mw := auth.New(secret)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("/api/auth/signup", auth.RegisterHandler(database, secret))
	mux.HandleFunc("/api/auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("/api/auth/logout", auth.LogoutHandler())
	mux.HandleFunc("/api/auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("/api/auth/reset-request", auth.RequestPasswordResetHandler(database))
	mux.HandleFunc("/api/auth/reset-password", auth.ResetPasswordHandler(database))
	mux.HandleFunc("/api/auth/delete-account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- TASKS API -----
	mux.HandleFunc("/api/tasks", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tasks.ListTasksHandler(store)(w, r)
		case http.MethodPost:
			tasks.CreateTaskHandler(store)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/tasks/update", mw.Wrap(tasks.UpdateTaskHandler(store)))
	mux.HandleFunc("/api/tasks/status", mw.Wrap(tasks.SetTaskStatusHandler(store)))
	mux.HandleFunc("/api/tasks/delete", mw.Wrap(tasks.DeleteTaskHandler(store)))
	mux.HandleFunc("/api/tasks/stats", mw.Wrap(tasks.StatsHandler(store)))

	// ----- ASSISTANT -----
	mux.HandleFunc("/api/assistant/command", mw.Wrap(assistant.CommandHandler(asst, database)))

	// ----- ANALYTICS -----
	mux.HandleFunc("/api/analytics/app-opened", mw.Wrap(analytics.AppOpenedHandler(database)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Println("🚀 API server is running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
