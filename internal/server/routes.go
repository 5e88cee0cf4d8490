package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const ddcRequestTimeout = 30 * time.Second

type errorResponse struct {
	Error string `json:"error"`
}

type setValueRequest struct {
	Value int `json:"value"`
}

type adjustBrightnessRequest struct {
	DeltaPct int `json:"delta_pct"`
}

type snapshotProfileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)

	e.GET("/monitors", s.ListMonitorsHandler)
	e.GET("/monitors/states", s.MonitorStatesHandler)
	e.GET("/monitors/:bus", s.MonitorDetailHandler)
	e.GET("/monitors/:bus/features", s.SupportedFeaturesHandler)
	e.PUT("/monitors/:bus/brightness", s.SetBrightnessHandler)
	e.PUT("/monitors/:bus/contrast", s.SetContrastHandler)
	e.POST("/monitors/brightness/adjust", s.AdjustBrightnessHandler)

	e.GET("/profiles", s.ListProfilesHandler)
	e.POST("/profiles", s.SnapshotProfileHandler)
	e.POST("/profiles/:name/apply", s.ApplyProfileHandler)
	e.DELETE("/profiles/:name", s.DeleteProfileHandler)

	e.GET("/settings", s.GetSettingsHandler)
	e.PUT("/settings", s.UpdateSettingsHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) ListMonitorsHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.DetectMonitorsRequest{}, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.DetectMonitorsResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, response.Monitors)
}

func (s *Server) MonitorStatesHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ReadMonitorStatesRequest{}, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.ReadMonitorStatesResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, response.States)
}

func (s *Server) MonitorDetailHandler(c echo.Context) error {
	bus, err := strconv.Atoi(c.Param("bus"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid bus"})
	}
	values := map[string]ddc.FeatureValue{}
	for _, feature := range []ddc.Feature{ddc.FeatureBrightness, ddc.FeatureContrast} {
		res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetFeatureRequest{Bus: bus, Feature: feature}, ddcRequestTimeout).Result()
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		}
		response, ok := res.(domain.GetFeatureResponse)
		if !ok {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
		}
		if response.HasResponseError() {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: response.GetResponseError().Error()})
		}
		values[feature.String()] = response.Value
	}
	return c.JSON(http.StatusOK, map[string]any{
		"bus":        bus,
		"brightness": values["brightness"],
		"contrast":   values["contrast"],
	})
}

func (s *Server) SupportedFeaturesHandler(c echo.Context) error {
	bus, err := strconv.Atoi(c.Param("bus"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid bus"})
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetSupportedFeaturesRequest{Bus: bus}, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.GetSupportedFeaturesResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: response.GetResponseError().Error()})
	}
	features := make([]string, 0, len(response.Features))
	for _, f := range response.Features {
		features = append(features, f.String())
	}
	return c.JSON(http.StatusOK, features)
}

func (s *Server) SetBrightnessHandler(c echo.Context) error {
	return s.setFeatureHandler(c, "brightness")
}

func (s *Server) SetContrastHandler(c echo.Context) error {
	return s.setFeatureHandler(c, "contrast")
}

func (s *Server) setFeatureHandler(c echo.Context, feature string) error {
	bus, err := strconv.Atoi(c.Param("bus"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid bus"})
	}
	var body setValueRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	if body.Value < 0 || body.Value > 100 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "value out of range"})
	}
	req := domain.SetFeatureRequest{Bus: bus, Value: body.Value}
	switch feature {
	case "brightness":
		req.Feature = ddc.FeatureBrightness
	case "contrast":
		req.Feature = ddc.FeatureContrast
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, req, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.SetFeatureResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: response.GetResponseError().Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) AdjustBrightnessHandler(c echo.Context) error {
	var body adjustBrightnessRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.AdjustAllBrightnessRequest{DeltaPct: body.DeltaPct}, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.AdjustAllBrightnessResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, map[string]int{
		"adjusted": response.Adjusted,
		"skipped":  response.Skipped,
	})
}

func (s *Server) ListProfilesHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ListProfilesRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.ListProfilesResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	return c.JSON(http.StatusOK, response.Profiles)
}

func (s *Server) SnapshotProfileHandler(c echo.Context) error {
	var body snapshotProfileRequest
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.SnapshotProfileRequest{
		Name:        body.Name,
		Description: body.Description,
	}, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.SnapshotProfileResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if !response.Created {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "no monitor state captured"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"name": response.Name})
}

func (s *Server) ApplyProfileHandler(c echo.Context) error {
	name := c.Param("name")
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ApplyProfileRequest{Name: name}, ddcRequestTimeout).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.ApplyProfileResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if !response.Applied {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "profile not applied"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) DeleteProfileHandler(c echo.Context) error {
	name := c.Param("name")
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.DeleteProfileRequest{Name: name}, 10*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.DeleteProfileResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if !response.Deleted {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "unknown profile"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) GetSettingsHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetSettingsRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.GetSettingsResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	return c.JSON(http.StatusOK, response.Settings)
}

func (s *Server) UpdateSettingsHandler(c echo.Context) error {
	var settings domain.Settings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.UpdateSettingsRequest{Settings: settings}, 10*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.UpdateSettingsResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, settings)
}
