//go:build integration
// +build integration

package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestKeyringTokenReachesExpenseService(t *testing.T) {
	t.Setenv("MONTHLENS_TOKEN", "")

	tok, err := loadFromKeyring(tokenAccount())
	if err != nil {
		t.Fatalf("failed to load token from keyring: %v", err)
	}
	if tok == "" {
		t.Fatal("keyring returned an empty token")
	}

	baseURL := os.Getenv("MONTHLENS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000/api"
	}
	req, err := http.NewRequest(http.MethodGet, strings.TrimRight(baseURL, "/")+"/categories/getCategories", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("categories request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if !payload.Success {
		t.Fatalf("service reported failure: %s", strings.TrimSpace(string(body)))
	}

	t.Logf("token accepted, %d categories", len(payload.Data))
}

func Example_integrationTestCommand() {
	fmt.Println("go test -tags=integration ./internal/auth -run TestKeyringTokenReachesExpenseService -v")
	// Output: go test -tags=integration ./internal/auth -run TestKeyringTokenReachesExpenseService -v
}
