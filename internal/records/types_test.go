package records

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-05", want: "2024-03-05"},
		{in: "2024-03-31T23:59:59.000Z", want: "2024-03-31"},
		{in: "2024-03-01T00:00:00+11:00", want: "2024-03-01"},
		{in: "", wantErr: true},
		{in: "05/03/2024", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDate(%q) error = nil, want non-nil", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseDate(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestCategoryKeyFallsBackToEmbedded(t *testing.T) {
	r := Record{Category: &CategoryRef{ID: "5"}}
	if r.CategoryKey() != "5" {
		t.Fatalf("CategoryKey() = %q, want 5", r.CategoryKey())
	}
	if (Record{}).CategoryKey() != "" {
		t.Fatal("CategoryKey() of bare record should be empty")
	}
}
