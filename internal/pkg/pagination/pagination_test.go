package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, 1, DefaultLimit, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"limit capped", 2, 500, 2, MaxLimit, MaxLimit},
		{"plain", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.page, tt.limit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
				t.Errorf("Normalize(%d, %d) = %+v, want page %d limit %d offset %d",
					tt.page, tt.limit, p, tt.wantPage, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 35)

	if meta.TotalPages != 4 {
		t.Errorf("TotalPages = %d, want 4", meta.TotalPages)
	}
	if !meta.HasNext {
		t.Error("HasNext = false, want true")
	}
	if !meta.HasPrev {
		t.Error("HasPrev = false, want true")
	}

	last := GetMeta(&Params{Page: 4, Limit: 10}, 35)
	if last.HasNext {
		t.Error("HasNext on last page = true, want false")
	}

	empty := GetMeta(&Params{Page: 1, Limit: 10}, 0)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrev {
		t.Errorf("empty meta = %+v, want no pages and no neighbours", empty)
	}
}
