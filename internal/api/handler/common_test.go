package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidhub/internal/api/response"
	"vidhub/internal/service"

	"github.com/gin-gonic/gin"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", service.ErrVideoNotFound, http.StatusNotFound, "NotFound"},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrUserNotFound), http.StatusNotFound, "NotFound"},
		{"invalid operation", service.ErrCannotSubscribeSelf, http.StatusBadRequest, "BadRequest"},
		{"forbidden", service.ErrVideoNoPermission, http.StatusForbidden, "Forbidden"},
		{"conflict", service.ErrConcurrentUpdate, http.StatusConflict, "Conflict"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "InternalServerError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleServiceError(c, "test", tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body response.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Type != tt.wantType || body.Error.Code != tt.wantStatus {
				t.Errorf("error body = %+v", body.Error)
			}
			if tt.wantStatus == http.StatusInternalServerError && body.Error.Message == tt.err.Error() {
				t.Errorf("internal error message leaked to client")
			}
		})
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{1, 10, 1, 10},
		{0, 0, 1, defaultPageSize},
		{-3, 500, 1, defaultPageSize},
		{4, maxPageSize, 4, maxPageSize},
		{math.MaxInt, 10, maxPage(), 10},
		{92233720368547760, maxPageSize, maxPage(), maxPageSize},
	}
	for _, tt := range tests {
		page, size := normalizePage(tt.page, tt.size)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)", tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
		if page-1 > math.MaxInt/size {
			t.Errorf("normalizePage(%d, %d): offset overflows", tt.page, tt.size)
		}
	}
}
