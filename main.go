package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Wellbore/internal/auth"
	"Wellbore/internal/calc/autodesign"
	"Wellbore/internal/calc/batch"
	"Wellbore/internal/calc/casing"
	"Wellbore/internal/calc/drillstring"
	"Wellbore/internal/calc/report"
	"Wellbore/internal/config"
	"Wellbore/internal/logging"
	"Wellbore/internal/project"
	"Wellbore/internal/reftable"
	"Wellbore/internal/repo"

	"github.com/gorilla/mux"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// loadTables reads the workbooks named in cfg. A table that fails to load stays
// empty until it is uploaded through the API.
func loadTables(cfg config.Config) *reftable.Store {
	logger := logging.New("main")
	store := reftable.NewStore(nil, nil)
	if cfg.CasingTable != "" {
		t, err := reftable.LoadCasingFile(cfg.CasingTable)
		if err != nil {
			logger.Warn("casing table not loaded", "path", cfg.CasingTable, "err", err)
		} else {
			store.SetCasing(t)
			logger.Info("casing table loaded", "path", cfg.CasingTable, "rows", t.Len())
		}
	}
	if cfg.DrillTable != "" {
		t, err := reftable.LoadDrillFile(cfg.DrillTable)
		if err != nil {
			logger.Warn("drill table not loaded", "path", cfg.DrillTable, "err", err)
		} else {
			store.SetDrill(t)
			logger.Info("drill table loaded", "path", cfg.DrillTable, "collars", len(t.Collars()))
		}
	}
	return store
}

type tableStatus struct {
	Casing bool `json:"casing"`
	Drill  bool `json:"drill"`
}

func HandleList(mux *mux.Router, cfg config.Config, userRepo repo.Repository, tables *reftable.Store) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: userRepo, Secure: cfg.TLS()}
	projectH := &project.Handler{Repo: userRepo, Tables: tables}
	tablesH := &reftable.Handler{Store: tables}

	limiter := auth.NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, casingErr := tables.Casing()
		_, drillErr := tables.Drill()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tableStatus{Casing: casingErr == nil, Drill: drillErr == nil})
	}).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	casingH := &casing.Handler{Tables: tables}
	drillH := &drillstring.Handler{Tables: tables}
	reportH := &report.Handler{Tables: tables}
	batchH := &batch.Handler{Tables: tables}
	autoH := &autodesign.Handler{Tables: tables}

	secureApi.HandleFunc("/tools/casing/calc", casingH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/casing/batch", batchH.Casing).Methods("POST")
	secureApi.HandleFunc("/tools/casing/autodesign", autoH.Casing).Methods("POST")
	secureApi.HandleFunc("/tools/drillstring/calc", drillH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	secureApi.HandleFunc("/tables/casing", tablesH.UploadCasing).Methods("POST")
	secureApi.HandleFunc("/tables/drill", tablesH.UploadDrill).Methods("POST")

	secureApi.HandleFunc("/projects", projectH.List).Methods("GET")
	secureApi.HandleFunc("/projects", projectH.Save).Methods("POST", "PUT")
	secureApi.HandleFunc("/projects/{id}", projectH.Get).Methods("GET")
	secureApi.HandleFunc("/projects/{id}", projectH.Delete).Methods("DELETE")
	secureApi.HandleFunc("/projects/{id}/report", projectH.Report).Methods("GET")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	db, err := auth.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	userRepo := repo.NewPostgresDB(db)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		log.Fatal("Error creating schema: ", err)
	}

	mux := mux.NewRouter()
	HandleList(mux, cfg, userRepo, loadTables(cfg))
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLS())
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Error stopping server: %v", err)
	}
	slog.Info("server stopped")

	wg.Wait()
}
