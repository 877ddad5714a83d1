package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/upb/travel-gateway/middleware"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/gateway"
	"github.com/upb/travel-gateway/utils"
	"go.uber.org/zap"
)

const maxTranslateBodyBytes = 64 << 10

// TranslateRequest is the body of POST /api/v1/translate. The legacy routes
// send the text as "q" (/api/translate) or "text" (/translate).
type TranslateRequest struct {
	Text   string `json:"text"`
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ResponseMeta is the metadata attached to every operation response
type ResponseMeta struct {
	Provider   string            `json:"provider,omitempty"`
	Degraded   bool              `json:"degraded"`
	Failures   []gateway.Failure `json:"failures"`
	Attempts   int               `json:"attempts"`
	DurationMs int64             `json:"duration_ms"`
}

// GatewayService defines the operations served over HTTP
type GatewayService interface {
	Translate(ctx context.Context, in models.TranslateInput) (*gateway.Result[models.Translation], error)
	Geocode(ctx context.Context, in models.GeocodeInput) (*gateway.Result[[]models.Place], error)
	SearchPOI(ctx context.Context, in models.POIInput) (*gateway.Result[models.POIResult], error)
	Weather(ctx context.Context, in models.WeatherInput) (*gateway.Result[models.Weather], error)
}

// GatewayHandler handles the four operation endpoints
type GatewayHandler struct {
	service GatewayService
	logger  *zap.Logger
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(service GatewayService, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		service: service,
		logger:  logger,
	}
}

// LibreTranslateResponse is the body of POST /api/translate
type LibreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// LegacyTranslateResponse is the body of POST /translate
type LegacyTranslateResponse struct {
	Translated string `json:"translated"`
	Src        string `json:"src"`
	Dest       string `json:"dest"`
}

// HandleTranslate handles POST /api/v1/translate
func (h *GatewayHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	res, ok := h.translate(w, r)
	if !ok {
		return
	}
	writeResult(w, res, h.logger)
}

// HandleLibreTranslate handles POST /api/translate and answers with a bare
// {"translatedText"} object.
func (h *GatewayHandler) HandleLibreTranslate(w http.ResponseWriter, r *http.Request) {
	res, ok := h.translate(w, r)
	if !ok {
		return
	}
	writeLegacy(w, res.Provider, LibreTranslateResponse{TranslatedText: res.Payload.TranslatedText}, h.logger)
}

// HandleLegacyTranslate handles POST /translate and answers with
// {"translated", "src", "dest"}.
func (h *GatewayHandler) HandleLegacyTranslate(w http.ResponseWriter, r *http.Request) {
	res, ok := h.translate(w, r)
	if !ok {
		return
	}
	writeLegacy(w, res.Provider, LegacyTranslateResponse{
		Translated: res.Payload.TranslatedText,
		Src:        res.Payload.Source,
		Dest:       res.Payload.Target,
	}, h.logger)
}

// translate decodes the body and runs the operation. On false the error
// response has already been written.
func (h *GatewayHandler) translate(w http.ResponseWriter, r *http.Request) (*gateway.Result[models.Translation], bool) {
	var req TranslateRequest
	body := http.MaxBytesReader(w, r.Body, maxTranslateBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			_ = utils.WriteBadRequest(w, "Request body is required", nil)
			return nil, false
		}
		_ = utils.WriteBadRequest(w, "Invalid request body", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	text := req.Text
	if text == "" {
		text = req.Q
	}

	h.logger.Debug("translate requested",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("path", r.URL.Path),
		zap.String("source", req.Source),
		zap.String("target", req.Target),
		zap.Int("text_length", len(text)))

	res, err := h.service.Translate(r.Context(), models.TranslateInput{
		Text:   text,
		Source: strings.TrimSpace(req.Source),
		Target: strings.TrimSpace(req.Target),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return nil, false
	}
	return res, true
}

// HandleGeocode handles GET /api/v1/geocode?q=&limit=
func (h *GatewayHandler) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := intParam(query.Get("limit"), "limit")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	res, err := h.service.Geocode(r.Context(), models.GeocodeInput{
		Query: query.Get("q"),
		Limit: limit,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResult(w, res, h.logger)
}

// HandlePOIs handles GET /api/v1/pois?lat=&lon=&radius=&category=&limit=
func (h *GatewayHandler) HandlePOIs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, lon, err := coordinates(query.Get("lat"), query.Get("lon"))
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	radius, err := intParam(query.Get("radius"), "radius")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	limit, err := intParam(query.Get("limit"), "limit")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	res, err := h.service.SearchPOI(r.Context(), models.POIInput{
		Lat:      lat,
		Lon:      lon,
		Radius:   radius,
		Category: query.Get("category"),
		Limit:    limit,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResult(w, res, h.logger)
}

// HandleWeather handles GET /api/v1/weather?lat=&lon=
func (h *GatewayHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, lon, err := coordinates(query.Get("lat"), query.Get("lon"))
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	res, err := h.service.Weather(r.Context(), models.WeatherInput{Lat: lat, Lon: lon})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResult(w, res, h.logger)
}

func writeResult[T any](w http.ResponseWriter, res *gateway.Result[T], logger *zap.Logger) {
	failures := res.Failures
	if failures == nil {
		failures = []gateway.Failure{}
	}
	if res.Provider != "" {
		w.Header().Set(utils.UpstreamProviderHeader, res.Provider)
	}
	meta := ResponseMeta{
		Provider:   res.Provider,
		Degraded:   res.Degraded,
		Failures:   failures,
		Attempts:   res.Attempts,
		DurationMs: res.Duration.Milliseconds(),
	}
	if err := utils.WriteOKWithMeta(w, res.Payload, meta); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

func writeLegacy(w http.ResponseWriter, provider string, body interface{}, logger *zap.Logger) {
	if provider != "" {
		w.Header().Set(utils.UpstreamProviderHeader, provider)
	}
	if err := utils.WriteJSON(w, http.StatusOK, body); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

// intParam parses an optional integer query parameter; empty means zero so
// the operation default applies.
func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &utils.ValidationError{
			Message: "Validation failed",
			Fields:  map[string]string{name: fmt.Sprintf("%s must be an integer", name)},
		}
	}
	return v, nil
}

func coordinates(rawLat, rawLon string) (float64, float64, error) {
	fields := make(map[string]string)
	lat, err := floatParam(rawLat, "lat")
	if err != nil {
		fields["lat"] = err.Error()
	}
	lon, err := floatParam(rawLon, "lon")
	if err != nil {
		fields["lon"] = err.Error()
	}
	if len(fields) > 0 {
		return 0, 0, &utils.ValidationError{Message: "Validation failed", Fields: fields}
	}
	return lat, lon, nil
}

func floatParam(raw, name string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}
