package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextFor(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/", DefaultLimit, 0},
		{"explicit", "/?limit=10&skip=30", 10, 30},
		{"offset alias", "/?limit=10&offset=5", 10, 5},
		{"limit capped", "/?limit=9999", MaxLimit, 0},
		{"negative ignored", "/?limit=-5&skip=-5", DefaultLimit, 0},
		{"non-numeric ignored", "/?limit=abc&skip=xyz", DefaultLimit, 0},
	}

	for _, tt := range tests {
		p := FromContext(contextFor(tt.target))
		if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("%s: got limit=%d offset=%d, want limit=%d offset=%d",
				tt.name, p.Limit, p.Offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]string{"a", "b"}, 10, 2, 0)
	if !r.HasMore {
		t.Error("HasMore = false, want true")
	}

	r = NewResponse([]string{"a", "b"}, 2, 50, 0)
	if r.HasMore {
		t.Error("HasMore = true, want false")
	}
}
