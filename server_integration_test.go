package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"contactsapp/pkg/storage"

	"github.com/gin-gonic/gin"
)

// stubSigner keeps the integration test off the network: URLs are fabricated
// and object deletes always succeed.
type stubSigner struct{}

func (stubSigner) SignURL(_ context.Context, path string, verb storage.Verb, _ string) (string, error) {
	return fmt.Sprintf("https://stub.example/%s/%s", verb, path), nil
}
func (stubSigner) PublicURL(path string) string           { return "https://stub.example/public/" + path }
func (stubSigner) DeleteObject(context.Context, string) error { return nil }

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	initDB()
	initServices(stubSigner{})
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123", "first_name": "User", "last_name": "One", "email": "u1@example.com"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create a post
	postBody, _ := json.Marshal(map[string]string{"post_content": "hello feed"})
	resp = performRequest(r, http.MethodPost, "/contacts", bytes.NewBuffer(postBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create post failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	postID, _ := created["id"].(float64)
	if postID == 0 {
		t.Fatalf("no post id in response: %+v", created)
	}

	// 4. List posts
	resp = performRequest(r, http.MethodGet, "/contacts", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list posts failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Rate the post and read the vote back
	rateBody, _ := json.Marshal(map[string]any{"post_id": postID, "rating": 1})
	resp = performRequest(r, http.MethodPost, "/rating", bytes.NewBuffer(rateBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("set rating failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/rating?post_id=%d", int(postID)), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get rating failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var rated map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &rated)
	if v, _ := rated["rating"].(float64); v != 1 {
		t.Fatalf("expected rating 1, got %v", rated)
	}

	// 6. An out-of-range vote is rejected
	badBody, _ := json.Marshal(map[string]any{"post_id": postID, "rating": 5})
	resp = performRequest(r, http.MethodPost, "/rating", bytes.NewBuffer(badBody), token, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid rating got %d", resp.Code)
	}

	// 7. Begin, confirm and cancel an upload
	upBody, _ := json.Marshal(map[string]string{"file_name": "photo.png", "mime_type": "image/png"})
	resp = performRequest(r, http.MethodPost, "/uploads/begin", bytes.NewBuffer(upBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("begin upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var staged map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &staged)
	filePath, _ := staged["file_path"].(string)
	if filePath == "" || staged["signed_url"] == "" {
		t.Fatalf("incomplete staging response: %+v", staged)
	}

	confBody, _ := json.Marshal(map[string]any{"post_id": postID, "file_path": filePath, "file_name": "photo.png", "file_type": "image/png", "file_size": 1024})
	resp = performRequest(r, http.MethodPost, "/uploads/confirm", bytes.NewBuffer(confBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("confirm upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, "/uploads/status", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("upload status failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var st map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &st)
	if st["file_name"] != "photo.png" || st["download_url"] == "" {
		t.Fatalf("unexpected status after confirm: %+v", st)
	}

	cancelBody, _ := json.Marshal(map[string]any{"post_id": postID, "file_path": filePath})
	resp = performRequest(r, http.MethodPost, "/uploads/cancel", bytes.NewBuffer(cancelBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("cancel upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/contacts", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
