// Package handlers implements the HTTP surface of the document pipeline.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"docforge/internal/batch"
	"docforge/internal/domain"
	"docforge/internal/infra"
	"docforge/internal/storage"
)

// Runner schedules a batch of records. Satisfied by *batch.Processor.
type Runner interface {
	Run(ctx context.Context, records []domain.Record, kinds []domain.TemplateKind, cfg batch.Config) (domain.BatchReport, error)
}

// App carries the handler dependencies.
type App struct {
	Log       infra.Logger
	Processor Runner
	Store     *storage.FileStore
	Cfg       *infra.Config
}

func NewApp(log infra.Logger, processor Runner, store *storage.FileStore, cfg *infra.Config) *App {
	return &App{Log: log, Processor: processor, Store: store, Cfg: cfg}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
