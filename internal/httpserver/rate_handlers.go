package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-rates-cache/internal/metrics"
	"go-rates-cache/internal/models"
)

// handleCurrencies serves the supported currency list
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(string(models.EndpointCurrencies))
	outcome := s.resolver.Resolve(r.Context(), s.keys.Currencies(), s.endpoints.Currencies())
	s.writeOutcome(w, r, outcome)
}

// handleLatest serves current rates, cached per UTC hour
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(string(models.EndpointLatest))
	outcome := s.resolver.Resolve(r.Context(), s.keys.Latest(s.now()), s.endpoints.Latest())
	s.writeOutcome(w, r, outcome)
}

// handleHistory serves rates for a past date. The date is not validated.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(string(models.EndpointHistorical))
	date := mux.Vars(r)["date"]
	outcome := s.resolver.Resolve(r.Context(), s.keys.Historical(date), s.endpoints.Historical(date))
	s.writeOutcome(w, r, outcome)
}

// writeOutcome writes resolved bytes verbatim, or maps a failure to a gateway error
func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, outcome models.Outcome) {
	if !outcome.OK() {
		status := http.StatusBadGateway
		if outcome.Reason == models.ReasonTimeout {
			status = http.StatusGatewayTimeout
		}
		s.writeErrorResponse(w, outcome.Reason, status)
		return
	}

	cacheStatus := CacheStatusMiss
	if outcome.FromCache() {
		cacheStatus = CacheStatusHit
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(outcome.Data); err != nil {
		s.logger.Warn("Failed to write rates response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
