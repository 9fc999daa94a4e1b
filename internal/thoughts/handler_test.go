package thoughts

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"thoughts-backend/internal/llm"
	"thoughts-backend/internal/shared/server/respond"
)

func setupThoughtRouter(t *testing.T, fake *fakeLLM) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	svc := &Service{
		Repo: repo,
		LLM:  fake,
		Now:  func() time.Time { return time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC) },
	}

	router := gin.New()
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router, repo
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeThought(t *testing.T, resp *httptest.ResponseRecorder) SavedThought {
	t.Helper()
	var thought SavedThought
	if err := json.NewDecoder(resp.Body).Decode(&thought); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return thought
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var envelope respond.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return envelope.Error
}

func TestCreateThought(t *testing.T) {
	router, repo := setupThoughtRouter(t, &fakeLLM{replies: []string{validReply}})

	resp := postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "buy milk and call mom"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	thought := decodeThought(t, resp)
	if thought.ID == "" {
		t.Fatalf("expected generated id")
	}
	if thought.Analysis.Summary != "two errands" {
		t.Fatalf("summary = %q", thought.Analysis.Summary)
	}

	stored, err := repo.GetByID(context.Background(), thought.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Text != "buy milk and call mom" {
		t.Fatalf("stored text = %q", stored.Text)
	}
}

func TestCreateThoughtRequiresText(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{})

	resp := postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Code != "validation_error" {
		t.Fatalf("error code = %q", body.Code)
	}
}

func TestCreateThoughtMalformedReply(t *testing.T) {
	router, repo := setupThoughtRouter(t, &fakeLLM{replies: []string{"I'm not sure"}})

	resp := postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "hello"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Code != "malformed_response" {
		t.Fatalf("error code = %q", body.Code)
	}
	if body.Message != "Failed to decode the AI response" {
		t.Fatalf("error message = %q", body.Message)
	}

	all, _ := repo.All(context.Background())
	if len(all) != 0 {
		t.Fatalf("failed analysis must not store a record, got %d", len(all))
	}
}

func TestCreateThoughtUpstreamFailure(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{err: &llm.RequestFailedError{StatusCode: 429, Message: "model overloaded"}})

	resp := postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "hello"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Code != "request_failed" {
		t.Fatalf("error code = %q", body.Code)
	}
	if body.Message != "model overloaded" {
		t.Fatalf("expected upstream message passthrough, got %q", body.Message)
	}
}

func TestUpdateThoughtKeepsID(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{replies: []string{validReply, `{"summary":"updated","themes":[],"advice":""}`}})

	created := decodeThought(t, postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "original"}))

	body, _ := json.Marshal(map[string]string{"text": "edited"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/thoughts/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	updated := decodeThought(t, resp)
	if updated.ID != created.ID {
		t.Fatalf("id changed on update: %q vs %q", updated.ID, created.ID)
	}
	if updated.Analysis.Summary != "updated" {
		t.Fatalf("analysis not replaced, summary = %q", updated.Analysis.Summary)
	}
}

func TestGetThoughtNotFound(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Code != "not_found" {
		t.Fatalf("error code = %q", body.Code)
	}
}

func TestDeleteThoughtIsIdempotent(t *testing.T) {
	router, repo := setupThoughtRouter(t, &fakeLLM{})

	created := decodeThought(t, postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "to delete"}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/thoughts/"+created.ID, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusNoContent {
			t.Fatalf("expected status 204 on pass %d, got %d", i+1, resp.Code)
		}
	}

	all, _ := repo.All(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d records", len(all))
	}
}

func TestListThoughtsMostRecentFirst(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{})

	first := decodeThought(t, postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "first"}))
	second := decodeThought(t, postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "second"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var all []SavedThought
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected most-recent-first ordering, got %+v", all)
	}
}

func TestReanalyzeThought(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{replies: []string{validReply, `{"summary":"fresh look","themes":[],"advice":""}`}})

	created := decodeThought(t, postJSON(t, router, "/api/v1/thoughts", map[string]string{"text": "same text"}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/thoughts/"+created.ID+"/reanalyze", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeThought(t, resp)
	if got.Text != "same text" {
		t.Fatalf("text changed on reanalyze: %q", got.Text)
	}
	if got.Analysis.Summary != "fresh look" {
		t.Fatalf("analysis not replaced, summary = %q", got.Analysis.Summary)
	}
}

func TestImportThoughtFromTextFile(t *testing.T) {
	router, repo := setupThoughtRouter(t, &fakeLLM{replies: []string{validReply}})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("buy milk and call mom\n")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/thoughts/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	thought := decodeThought(t, resp)
	if thought.Text != "buy milk and call mom" {
		t.Fatalf("extracted text = %q", thought.Text)
	}

	all, _ := repo.All(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected one stored record, got %d", len(all))
	}
}

func TestImportThoughtRequiresFile(t *testing.T) {
	router, _ := setupThoughtRouter(t, &fakeLLM{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/thoughts/import", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
