//go:build integration
// +build integration

package records

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lachiem1/monthlens/internal/auth"
)

func integrationClient(t *testing.T) *Client {
	t.Helper()
	if _, err := auth.LoadToken(); err != nil {
		t.Fatalf("failed to load API token: %v", err)
	}
	baseURL := os.Getenv("MONTHLENS_API_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return New(baseURL, auth.Keyring{}, 15*time.Second)
}

func Example_integrationRecordsCommand() {
	fmt.Println("go test -tags=integration ./internal/records -v")
	// Output: go test -tags=integration ./internal/records -v
}
