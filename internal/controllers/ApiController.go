package controllers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"ptt/internal/models"
	"ptt/internal/providers"
	"ptt/internal/services"
	"ptt/internal/tracker"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const statsCacheKey = "stats"

type ApiController struct {
	logger  providers.Logger
	service services.TrackerServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.TrackerServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		if errors.Is(err, tracker.ErrNoProject) {
			http.Error(w, "No Open Project", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetProject reports the current project's display name. An empty name means
// no project is open.
func (ac *ApiController) GetProject(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, map[string]string{"name": ac.service.GetProjectName()})
}

// Totals are served uncached: the aggregation snapshot behind them already
// bounds the cost and the numbers are expected to tick.
func (ac *ApiController) GetTotalSeconds(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, map[string]float64{"seconds": ac.service.GetTotalSeconds()})
}

func (ac *ApiController) GetTodaySeconds(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, map[string]float64{"seconds": ac.service.GetTodaySeconds()})
}

// GetStatistics serves the daily breakdown for the current project. The
// optional "days" query parameter trims the per-day map to the most recent N
// days; totals stay all-time.
func (ac *ApiController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	days := cast.ToInt(r.URL.Query().Get("days"))
	cacheKey := statsCacheKey
	if days > 0 {
		cacheKey += ":" + cast.ToString(days)
	}
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		stats, err := ac.service.GetStatistics()
		if err != nil {
			return nil, err
		}
		if days > 0 {
			cutoff := time.Now().UTC().AddDate(0, 0, -(days - 1)).Format("2006-01-02")
			for date := range stats.Days {
				if date < cutoff {
					delete(stats.Days, date)
				}
			}
		}
		return stats, nil
	})
}

// ReceiveActivity ingests one editor heartbeat.
func (ac *ApiController) ReceiveActivity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.Activity
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.service.RecordActivity(payload)
	w.WriteHeader(http.StatusAccepted)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (ac *ApiController) RenameProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload renameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.service.RenameProject(payload.Name); err != nil {
		if errors.Is(err, tracker.ErrNoProject) {
			http.Error(w, "No Open Project", http.StatusNotFound)
			return
		}
		ac.logger.Errorf(providers.TypeApp, "Rename failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.invalidateStats()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) RefreshFingerprint(w http.ResponseWriter, r *http.Request) {
	ac.service.Refresh()
	ac.invalidateStats()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.DeleteAllRecords(); err != nil {
		ac.logger.Errorf(providers.TypeApp, "Delete failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.invalidateStats()
	w.WriteHeader(http.StatusNoContent)
}

// ExportRecords dumps every record on this device, flushed first so the dump
// is current. Never cached.
func (ac *ApiController) ExportRecords(w http.ResponseWriter, r *http.Request) {
	records, err := ac.service.ExportRecords()
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Export failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, records)
}

const maxImportBodySize = 16 << 20 // 16 MB

func (ac *ApiController) ImportRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.service.ImportRecords(payload); err != nil {
		ac.logger.Errorf(providers.TypeApp, "Import failed: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.invalidateStats()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) invalidateStats() {
	ac.cache.Del(statsCacheKey)
}
