package upstream

import (
	"net/http"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/models"
)

// Endpoints builds fetch operations for the three upstream endpoints
type Endpoints struct {
	cfg config.UpstreamConfig
}

// NewEndpoints creates an Endpoints builder from upstream configuration
func NewEndpoints(cfg config.UpstreamConfig) *Endpoints {
	return &Endpoints{cfg: cfg}
}

// Latest returns the operation for current rates
func (e *Endpoints) Latest() models.FetchOperation {
	return e.operation(models.EndpointLatest, e.cfg.LatestURL, nil)
}

// Historical returns the operation for rates on date. The date is substituted verbatim.
func (e *Endpoints) Historical(date string) models.FetchOperation {
	return e.operation(models.EndpointHistorical, e.cfg.HistoricalURL, map[string]string{"date": date})
}

// Currencies returns the operation for the supported currency list
func (e *Endpoints) Currencies() models.FetchOperation {
	return e.operation(models.EndpointCurrencies, e.cfg.CurrenciesURL, nil)
}

func (e *Endpoints) operation(endpoint models.Endpoint, template string, params map[string]string) models.FetchOperation {
	if params == nil {
		params = make(map[string]string, 1)
	}
	params["app_id"] = e.cfg.AppID

	return models.FetchOperation{
		Endpoint: endpoint,
		Method:   http.MethodGet,
		Template: template,
		Params:   params,
	}
}
