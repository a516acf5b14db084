package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"docforge/internal/batch"
	"docforge/internal/domain"
	"docforge/internal/middleware"
)

type batchRequest struct {
	Records       []map[string]any `json:"records"`
	TemplateKinds []string         `json:"template_kinds"`
	Config        *batchConfig     `json:"config,omitempty"`
}

type batchConfig struct {
	MaxWorkers     int `json:"max_workers,omitempty"`
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	MemoryLimitMB  int `json:"memory_limit_mb,omitempty"`
}

// SubmitBatch runs a document batch synchronously and returns the full
// report. Records without a country inherit the request's detected country.
func (a *App) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if len(req.Records) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "records is required")
		return
	}

	kinds := domain.TemplateKinds
	if len(req.TemplateKinds) > 0 {
		kinds = make([]domain.TemplateKind, 0, len(req.TemplateKinds))
		for _, raw := range req.TemplateKinds {
			kind, err := domain.ParseTemplateKind(raw)
			if err != nil {
				a.error(w, http.StatusBadRequest, "bad_request", err.Error())
				return
			}
			kinds = append(kinds, kind)
		}
	}

	country := middleware.CountryFromContext(r.Context())
	records := make([]domain.Record, 0, len(req.Records))
	for _, raw := range req.Records {
		rec := domain.Record(raw)
		if rec.String(domain.FieldCountry) == "" && country != "" {
			rec[domain.FieldCountry] = country
		}
		records = append(records, rec)
	}

	cfg := batch.Config{
		MaxWorkers:    a.Cfg.MaxWorkers,
		Timeout:       a.Cfg.UnitTimeout,
		MemoryLimit:   int64(a.Cfg.MemoryLimitMB) << 20,
		AdmissionWait: a.Cfg.AdmissionWait,
	}
	if req.Config != nil {
		if req.Config.MaxWorkers != 0 {
			cfg.MaxWorkers = req.Config.MaxWorkers
		}
		if req.Config.TimeoutSeconds != 0 {
			cfg.Timeout = time.Duration(req.Config.TimeoutSeconds) * time.Second
		}
		if req.Config.MemoryLimitMB != 0 {
			cfg.MemoryLimit = int64(req.Config.MemoryLimitMB) << 20
		}
	}

	report, err := a.Processor.Run(r.Context(), records, kinds, cfg)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_config", err.Error())
		return
	}
	a.json(w, http.StatusOK, report)
}
