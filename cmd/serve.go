package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/partaudit/internal/fetcher"
	"github.com/sells-group/partaudit/internal/store"
	"github.com/sells-group/partaudit/internal/validate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run history and on-demand validation over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP API: health, run history, and on-demand
// validation of files reachable from the server.
func newRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		runs, err := st.ListRuns(req.Context(), store.RunFilter{
			Label: req.URL.Query().Get("label"),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if runs == nil {
			runs = []store.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	r.Post("/validate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			PredictionsFile string `json:"predictions_file"`
			GroundTruthFile string `json:"ground_truth_file"`
			MappingFile     string `json:"mapping_file,omitempty"`
			Label           string `json:"label,omitempty"`
			Save            bool   `json:"save,omitempty"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
			return
		}
		if body.PredictionsFile == "" || body.GroundTruthFile == "" {
			writeError(w, http.StatusBadRequest, eris.New("predictions_file and ground_truth_file are required"))
			return
		}

		mapping := validate.DefaultMapping()
		if body.MappingFile != "" {
			m, err := validate.LoadMapping(body.MappingFile)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			mapping = m
		}

		preds, err := fetcher.ReadPredictionsFile(body.PredictionsFile)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		table, err := fetcher.LoadGroundTruth(body.GroundTruthFile, fetcher.XLSXOptions{})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		v, err := validate.New(mapping, validate.Options{})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		report, err := v.Run(req.Context(), preds, table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		if body.Save {
			run, err := st.CreateRun(req.Context(), store.Run{
				Label:           body.Label,
				PredictionsFile: body.PredictionsFile,
				GroundTruthFile: body.GroundTruthFile,
				Report:          report,
			})
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusCreated, run)
			return
		}

		writeJSON(w, http.StatusOK, report)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
