package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/annotato/annotato/backend-go/internal/asset"
	"github.com/annotato/annotato/backend-go/internal/auth"
	"github.com/annotato/annotato/backend-go/internal/collab"
	"github.com/annotato/annotato/backend-go/internal/config"
	"github.com/annotato/annotato/backend-go/internal/document"
	"github.com/annotato/annotato/backend-go/internal/export"
	mw "github.com/annotato/annotato/backend-go/internal/middleware"
	"github.com/annotato/annotato/backend-go/internal/project"
	"github.com/annotato/annotato/backend-go/internal/store"
	"github.com/annotato/annotato/backend-go/internal/typeid"
)

const playgroundTaskID = "task_playground"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	st := store.New(pool)

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(st)
	projectHandler := project.NewHandler(projectService)

	// Document loader for the collaboration hub. The playground task lives
	// in memory only and resets on every cold start.
	docLoader := func(taskID string) (*document.TaskDocument, error) {
		if taskID == playgroundTaskID {
			return document.NewSampleDocument(playgroundTaskID, "proj_playground"), nil
		}
		snap, err := st.GetLatestSnapshot(context.Background(), taskID)
		if err != nil {
			return nil, err
		}
		var doc document.TaskDocument
		if err := json.Unmarshal(snap.Document, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	// Document saver for the collaboration hub.
	docSaver := func(taskID string, doc json.RawMessage) error {
		if taskID == playgroundTaskID {
			return nil
		}
		_, err := st.CreateSnapshot(context.Background(), store.CreateSnapshotParams{
			ID:       typeid.NewSnapshotID(),
			TaskID:   taskID,
			Document: doc,
		})
		return err
	}

	hub := collab.NewHub(docLoader, docSaver)
	go hub.Run()

	assetHandler := asset.NewHandler(cfg.ImageDir)
	exportHandler := export.NewHandler(projectService)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Image endpoints (public, used by the playground too)
	r.HandleFunc("/images/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/images/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/invite", projectHandler.Invite).Methods("POST")
	api.HandleFunc("/projects/{projectId}/members", projectHandler.ListMembers).Methods("GET")
	api.HandleFunc("/projects/{projectId}/members/{userId}", projectHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/tasks", projectHandler.ListTasks).Methods("GET")
	api.HandleFunc("/projects/{projectId}/tasks", projectHandler.CreateTask).Methods("POST")
	api.HandleFunc("/tasks/{taskId}", projectHandler.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{taskId}", projectHandler.DeleteTask).Methods("DELETE")
	api.HandleFunc("/tasks/{taskId}/snapshots/latest", projectHandler.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/export/tasks/{taskId}", exportHandler.ExportTask).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/task/{taskId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, st, cfg.AllowedOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty documents
		slog.Info("saving all documents...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, st *store.Store, allowedOrigins string) {
	vars := mux.Vars(r)
	taskID := vars["taskId"]

	var userID string
	var displayName string

	// Playground task allows anonymous access
	if taskID == playgroundTaskID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param for real tasks
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		task, err := st.GetTask(r.Context(), taskID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				http.Error(w, "task not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Check membership
		_, err = st.GetProjectMember(r.Context(), store.GetProjectMemberParams{
			ProjectID: task.ProjectID,
			UserID:    userID,
		})
		if err != nil {
			http.Error(w, "not a project member", http.StatusForbidden)
			return
		}

		// Get user display name
		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	var originPatterns []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			originPatterns = append(originPatterns, o)
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, taskID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
