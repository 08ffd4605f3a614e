package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("handler-test-secret-with-32-bytes!!")

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	issuer, err := service.NewTokenIssuer(testSecret, "fortuna-ledger", "fortuna-ledger-api", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create issuer: %v", err)
	}
	return NewAuthHandler(service.NewAuthService(testutil.NewMockUserRepository(), issuer))
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	return problem
}

func TestRegister_Success(t *testing.T) {
	e := echo.New()
	h := newTestAuthHandler(t)

	c, rec := postJSON(e, "/api/register", `{"name":"Dana","email":"dana@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Message != "User registered successfully" {
		t.Errorf("Unexpected message %q", response.Message)
	}
	if response.Token == "" {
		t.Error("Expected a token")
	}
	if response.User.Email != "dana@example.com" || response.User.ID == "" {
		t.Errorf("Unexpected user %+v", response.User)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	e := echo.New()
	h := newTestAuthHandler(t)

	c, rec := postJSON(e, "/api/register", `{"email":"dana@example.com"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if len(problem.Errors) != 2 || problem.Errors[0].Field != "name" || problem.Errors[1].Field != "password" {
		t.Errorf("Expected name and password errors, got %+v", problem.Errors)
	}
}

func TestRegister_InvalidPassword(t *testing.T) {
	e := echo.New()
	h := newTestAuthHandler(t)

	c, rec := postJSON(e, "/api/register", `{"name":"Dana","email":"dana@example.com","password":"abc"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); len(problem.Errors) != 1 || problem.Errors[0].Field != "password" {
		t.Errorf("Expected a password error, got %+v", problem.Errors)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := echo.New()
	h := newTestAuthHandler(t)

	body := `{"name":"Dana","email":"dana@example.com","password":"secret1"}`
	c, _ := postJSON(e, "/api/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	c, rec := postJSON(e, "/api/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); problem.Message != "Email already registered" {
		t.Errorf("Unexpected message %q", problem.Message)
	}
}

func TestLogin(t *testing.T) {
	e := echo.New()
	h := newTestAuthHandler(t)

	c, _ := postJSON(e, "/api/register", `{"name":"Dana","email":"dana@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	c, rec := postJSON(e, "/api/login", `{"email":"dana@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Message != "Login successful" || response.Token == "" {
		t.Errorf("Unexpected response %+v", response)
	}

	c, rec = postJSON(e, "/api/login", `{"email":"dana@example.com","password":"wrong-password"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); problem.Message != "Invalid email or password" {
		t.Errorf("Unexpected message %q", problem.Message)
	}
}
