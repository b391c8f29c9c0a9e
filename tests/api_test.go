// End-to-end smoke test. Requires a running server (and its MongoDB and
// MinIO) at API_BASE (default http://localhost:4000); skipped otherwise.
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

func apiBase() string {
	if v := os.Getenv("API_BASE"); v != "" {
		return v
	}
	return "http://localhost:4000"
}

func doJSON(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, apiBase()+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestAPIEndpoints(t *testing.T) {
	if _, err := http.Get(apiBase() + "/health"); err != nil {
		t.Skipf("API server not running at %s: %v", apiBase(), err)
	}

	email := fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())
	college := "Delhi University"
	var token string

	t.Run("Signup", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name":     "Smoke Tester",
			"email":    email,
			"password": "secret1",
			"phone":    "9876543210",
			"college":  college,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("signup status %d: %s", resp.StatusCode, body)
		}
		var out struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("decode signup response: %v", err)
		}
		if out.Token == "" {
			t.Fatal("no token in signup response")
		}
		if bytes.Contains(body, []byte("passwordHash")) {
			t.Fatal("signup response leaked the password hash")
		}
		token = out.Token
	})

	t.Run("Login wrong password", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    email,
			"password": "wrong-password",
			"college":  college,
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Login wrong college", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    email,
			"password": "secret1",
			"college":  "IIT Bombay",
		})
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("Me", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, "/api/auth/me", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("me status %d: %s", resp.StatusCode, body)
		}
	})

	var itemID string
	t.Run("Create item", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, "/api/items", token, map[string]interface{}{
			"type":        "lost",
			"title":       "Smoke test wallet",
			"description": "Black leather wallet lost during the smoke test",
			"category":    "accessories",
			"location":    "Library",
			"date":        time.Now().UTC().Format(time.RFC3339),
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status %d: %s", resp.StatusCode, body)
		}
		var item struct {
			ID      string `json:"id"`
			College string `json:"college"`
			Status  string `json:"status"`
		}
		if err := json.Unmarshal(body, &item); err != nil {
			t.Fatalf("decode item: %v", err)
		}
		if item.College != college {
			t.Fatalf("item college %q, want %q", item.College, college)
		}
		if item.Status != "active" {
			t.Fatalf("item status %q, want active", item.Status)
		}
		itemID = item.ID
	})

	t.Run("List includes item", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, "/api/items?search=smoke+test+wallet", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list status %d: %s", resp.StatusCode, body)
		}
		if !bytes.Contains(body, []byte(itemID)) {
			t.Fatalf("listing does not include created item %s", itemID)
		}
	})

	t.Run("Resolve item", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPut, "/api/items/"+itemID, token, map[string]string{
			"status": "resolved",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("update status %d: %s", resp.StatusCode, body)
		}
		if !bytes.Contains(body, []byte(`"status":"resolved"`)) {
			t.Fatalf("item not resolved: %s", body)
		}
	})

	t.Run("Delete twice", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodDelete, "/api/items/"+itemID, token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("first delete status %d: %s", resp.StatusCode, body)
		}
		resp, _ = doJSON(t, http.MethodDelete, "/api/items/"+itemID, token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("second delete status %d, want 404", resp.StatusCode)
		}
	})

	t.Run("Campuses", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, "/api/campuses", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("campuses status %d: %s", resp.StatusCode, body)
		}
		if !bytes.Contains(body, []byte("delhi-university")) {
			t.Fatalf("campuses missing seeded college: %s", body)
		}
	})
}
