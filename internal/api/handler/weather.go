package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/weatherwise/weatherwise/internal/api/middleware"
	"github.com/weatherwise/weatherwise/internal/api/models"
	"github.com/weatherwise/weatherwise/internal/api/response"
	"github.com/weatherwise/weatherwise/internal/pipeline"
	"github.com/weatherwise/weatherwise/internal/weather"
)

// ReportRunner produces weather reports. *pipeline.Pipeline implements it.
type ReportRunner interface {
	Run(ctx context.Context, place string) (*pipeline.Report, error)
}

// WeatherHandler serves pipeline reports.
type WeatherHandler struct {
	runner   ReportRunner
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(runner ReportRunner, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		runner:   runner,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetWeather handles GET /v1/weather?q=<place> - the full report.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewWeatherReport(report))
}

// GetAdvisories handles GET /v1/weather/advisories?q=<place>.
func (h *WeatherHandler) GetAdvisories(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewAdvisoryReport(report))
}

// run validates the query and runs the pipeline, writing the error response
// itself when it returns false.
func (h *WeatherHandler) run(w http.ResponseWriter, r *http.Request) (*pipeline.Report, bool) {
	query := models.WeatherQuery{Q: r.URL.Query().Get("q")}
	if err := h.validate.Struct(query); err != nil {
		response.BadRequest(w, r, queryProblem(err), []models.FieldError{{Field: "q", Message: queryProblem(err), Code: "INVALID"}})
		return nil, false
	}

	report, err := h.runner.Run(r.Context(), query.Q)
	if err != nil {
		h.logger.Warn().Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("place", query.Q).
			Msg("weather report failed")
		response.WeatherError(w, r, err)
		return nil, false
	}
	return report, true
}

func queryProblem(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return "Place name is too long"
	}
	return weather.UserMessage(weather.ErrInvalidInput)
}
