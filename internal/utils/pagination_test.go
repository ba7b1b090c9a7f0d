package utils

import "testing"

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		wantLast int
		wantFrom int
		wantTo   int
		wantMore bool
	}{
		{"first of many", 1, 25, 100, 4, 1, 25, true},
		{"middle page", 2, 25, 100, 4, 26, 50, true},
		{"last full page", 4, 25, 100, 4, 76, 100, false},
		{"partial last page", 3, 25, 55, 3, 51, 55, false},
		{"empty result", 1, 25, 0, 0, 0, 0, false},
		{"single row", 1, 10, 1, 1, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := CalculatePagination(tt.page, tt.limit, tt.total)
			if meta.LastPage != tt.wantLast {
				t.Errorf("LastPage = %d, want %d", meta.LastPage, tt.wantLast)
			}
			if meta.From != tt.wantFrom || meta.To != tt.wantTo {
				t.Errorf("From/To = %d/%d, want %d/%d", meta.From, meta.To, tt.wantFrom, tt.wantTo)
			}
			if meta.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", meta.HasMore, tt.wantMore)
			}
		})
	}
}

func TestGetOffset(t *testing.T) {
	if got := GetOffset(1, 25); got != 0 {
		t.Errorf("GetOffset(1, 25) = %d, want 0", got)
	}
	if got := GetOffset(3, 10); got != 20 {
		t.Errorf("GetOffset(3, 10) = %d, want 20", got)
	}
}
