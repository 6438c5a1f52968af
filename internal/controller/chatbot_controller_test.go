package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"website-chatbot-be/internal/dto"
	"website-chatbot-be/internal/pkg/logger"
	"website-chatbot-be/internal/pkg/serverutils"
)

type stubChatbotService struct {
	lastReq *dto.ChatRequest
}

func (s *stubChatbotService) Chat(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.lastReq = req
	return &dto.ChatResponse{
		Reply:     "stub reply",
		Buttons:   []string{},
		SessionId: req.SessionId,
	}, nil
}

func newTestApp(t *testing.T, svc *stubChatbotService) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	log := logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)
	NewChatbotController(svc, log).RegisterRoutes(app)
	return app
}

func TestChatEndpoint(t *testing.T) {
	svc := &stubChatbotService{}
	app := newTestApp(t, svc)

	body, _ := json.Marshal(dto.ChatRequest{Query: "hello", SessionId: "sess-1"})
	req := httptest.NewRequest("POST", "/chatbot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res dto.ChatResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "stub reply", res.Reply)
	assert.Equal(t, "sess-1", res.SessionId)
	assert.NotNil(t, res.Buttons)
}

func TestChatEndpointGeneratesSessionId(t *testing.T) {
	svc := &stubChatbotService{}
	app := newTestApp(t, svc)

	body, _ := json.Marshal(dto.ChatRequest{Query: "hello"})
	req := httptest.NewRequest("POST", "/chatbot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, svc.lastReq.SessionId, "missing session id must be generated")

	var res dto.ChatResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, svc.lastReq.SessionId, res.SessionId)
}

func TestChatEndpointRejectsEmptyQuery(t *testing.T) {
	svc := &stubChatbotService{}
	app := newTestApp(t, svc)

	body, _ := json.Marshal(dto.ChatRequest{SessionId: "sess-1"})
	req := httptest.NewRequest("POST", "/chatbot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, svc.lastReq, "invalid requests must not reach the service")
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, &stubChatbotService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
