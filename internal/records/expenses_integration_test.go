//go:build integration
// +build integration

package records

import (
	"context"
	"testing"
	"time"

	"github.com/lachiem1/monthlens/internal/period"
	"github.com/shopspring/decimal"
)

func TestExpensesRoundTripIntegration(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	now := time.Now()
	p := period.Current(now)
	created, err := client.Create(ctx, Draft{
		Amount:      decimal.RequireFromString("1.23"),
		Date:        NewDate(now.Year(), now.Month(), now.Day()),
		Description: "monthlens integration",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Delete(context.Background(), created.ID); err != nil {
			t.Logf("Delete(%s) failed: %v", created.ID, err)
		}
	})

	col, err := client.Fetch(ctx, p, Filters{})
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	found := false
	for _, r := range col.Records {
		if r.ID == created.ID {
			found = true
			if !r.Amount.Equal(created.Amount) {
				t.Fatalf("fetched amount = %s, want %s", r.Amount, created.Amount)
			}
		}
	}
	if !found {
		t.Fatalf("Fetch(%s) did not return created record %s", p, created.ID)
	}
}

func TestCategoriesIntegration(t *testing.T) {
	client := integrationClient(t)

	if _, err := client.ListCategories(context.Background()); err != nil {
		t.Fatalf("ListCategories() failed: %v", err)
	}
	if _, err := client.ListPaymentMethods(context.Background()); err != nil {
		t.Fatalf("ListPaymentMethods() failed: %v", err)
	}
}
