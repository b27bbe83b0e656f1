package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ev-station-service/internal/config"
	server "github.com/ev-station-service/internal/delivery/http"
	"github.com/ev-station-service/internal/delivery/http/handler"
	"github.com/ev-station-service/internal/pkg/auth"
	"github.com/ev-station-service/internal/repository/cache"
	"github.com/ev-station-service/internal/repository/memory"
	"github.com/ev-station-service/internal/repository/redis"
	"github.com/ev-station-service/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type ServerTestSuite struct {
	suite.Suite
	cfg    *config.Config
	tokens *auth.TokenService
	checks map[string]server.HealthCheck
	srv    *server.Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.cfg = &config.Config{
		Server: config.ServerConfig{Env: "test", CORSAllowOrigins: "*"},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", PublicReads: true},
	}
	s.tokens = auth.NewTokenService(s.cfg.Auth.JWTSecret, time.Hour, "", "")
	s.checks = map[string]server.HealthCheck{
		"store": func(context.Context) error { return nil },
	}
	s.build()
}

func (s *ServerTestSuite) build() {
	logger := zap.NewNop()
	stations := memory.NewStationStore()
	users := memory.NewUserStore()
	cacheRepo := cache.NewNopCacheRepository()

	stationUC := usecase.NewStationUseCase(stations, users, cacheRepo, redis.NewNopEventPublisher(), logger)
	queryUC := usecase.NewStationQueryUseCase(stations, users, logger)
	statsUC := usecase.NewStatsUseCase(memory.NewStatsRepository(stations), cacheRepo, time.Minute, logger)
	authUC := usecase.NewAuthUseCase(users, s.tokens, auth.NewBcryptHasher(bcrypt.MinCost), logger)

	s.srv = server.NewServer(s.cfg, logger, s.tokens, s.checks,
		handler.NewStationHandler(stationUC, queryUC, logger),
		handler.NewStatsHandler(statsUC, logger),
		handler.NewAuthHandler(authUC, logger),
	)
}

func (s *ServerTestSuite) do(method, path, token string, body interface{}) (int, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.App().Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *ServerTestSuite) registerToken(email string) string {
	status, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Jane Doe",
		"email":    email,
		"password": "secret1",
	})
	s.Require().Equal(http.StatusCreated, status)
	s.Equal("User registered successfully", env.Message)

	var data struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	return data.Token
}

func stationBody() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Downtown Hub",
		"location":       map[string]interface{}{"latitude": 37.7749, "longitude": -122.4194},
		"powerOutput":    150,
		"connectorType":  "CCS1",
		"totalPorts":     4,
		"availablePorts": 2,
	}
}

func (s *ServerTestSuite) createStation(token string) string {
	status, env := s.do(http.MethodPost, "/api/stations", token, stationBody())
	s.Require().Equal(http.StatusCreated, status)
	s.Equal("Charging station created successfully", env.Message)

	var data struct {
		Station struct {
			ID string `json:"id"`
		} `json:"station"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	return data.Station.ID
}

func (s *ServerTestSuite) TestHealth() {
	status, _ := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, status)

	s.checks["redis"] = func(context.Context) error { return errors.New("down") }
	s.build()

	status, _ = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusServiceUnavailable, status)
}

func (s *ServerTestSuite) TestUnknownRoute() {
	status, env := s.do(http.MethodGet, "/api/nothing", "", nil)
	s.Equal(http.StatusNotFound, status)
	s.False(env.Success)
	s.Equal("Not found - /api/nothing", env.Message)
}

func (s *ServerTestSuite) TestMutationsRequireToken() {
	status, env := s.do(http.MethodPost, "/api/stations", "", stationBody())
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("UNAUTHORIZED", env.Code)

	status, env = s.do(http.MethodPost, "/api/stations", "garbage", stationBody())
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("INVALID_TOKEN", env.Code)
}

func (s *ServerTestSuite) TestPublicReads() {
	status, env := s.do(http.MethodGet, "/api/stations", "", nil)
	s.Equal(http.StatusOK, status)
	s.True(env.Success)

	s.cfg.Auth.PublicReads = false
	s.build()

	status, _ = s.do(http.MethodGet, "/api/stations", "", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *ServerTestSuite) TestStationLifecycle() {
	token := s.registerToken("jane@example.com")
	id := s.createStation(token)

	status, _ := s.do(http.MethodGet, "/api/stations/"+id, "", nil)
	s.Equal(http.StatusOK, status)

	status, env := s.do(http.MethodPatch, "/api/stations/"+id+"/availability", token, map[string]int{"availablePorts": 9})
	s.Equal(http.StatusBadRequest, status)
	s.Require().Len(env.Errors, 1)
	s.Equal("availablePorts", env.Errors[0].Field)

	intruder := s.registerToken("john@example.com")
	status, _ = s.do(http.MethodDelete, "/api/stations/"+id, intruder, nil)
	s.Equal(http.StatusForbidden, status)

	status, env = s.do(http.MethodDelete, "/api/stations/"+id, token, nil)
	s.Equal(http.StatusOK, status)
	s.Equal("Charging station deleted successfully", env.Message)

	status, _ = s.do(http.MethodGet, "/api/stations/"+id, "", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *ServerTestSuite) TestListValidation() {
	status, env := s.do(http.MethodGet, "/api/stations?limit=101&sortBy=distance", "", nil)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("VALIDATION_ERROR", env.Code)
	s.Require().Len(env.Errors, 2)
	s.Equal("limit", env.Errors[0].Field)
	s.Equal("sortBy", env.Errors[1].Field)
}

func (s *ServerTestSuite) TestStatusRouteNotShadowedByID() {
	token := s.registerToken("jane@example.com")
	s.createStation(token)

	status, env := s.do(http.MethodGet, "/api/stations/status/Out%20of%20Order", "", nil)
	s.Equal(http.StatusOK, status)

	var data struct {
		Count int `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.Zero(data.Count)

	status, _ = s.do(http.MethodGet, "/api/stations/stats", "", nil)
	s.Equal(http.StatusOK, status)
}

func (s *ServerTestSuite) TestInvalidBody() {
	token := s.registerToken("jane@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/stations", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.srv.App().Test(req, -1)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
