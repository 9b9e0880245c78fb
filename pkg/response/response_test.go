package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		write     func(c *gin.Context)
		status    int
		wantError string
	}{
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "nope") }, http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden, "Forbidden"},
		{"not found", func(c *gin.Context) { NotFound(c, "nope") }, http.StatusNotFound, "Not Found"},
		{"conflict", func(c *gin.Context) { Conflict(c, "nope") }, http.StatusConflict, "Conflict"},
		{"bad request", func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest, "Bad Request"},
		{"internal", func(c *gin.Context) { InternalError(c) }, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.write(c)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}

			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if body.StatusCode != tt.status {
				t.Errorf("statusCode = %d, want %d", body.StatusCode, tt.status)
			}
			if tt.name != "internal" && body.Message != "nope" {
				t.Errorf("message = %q, want %q", body.Message, "nope")
			}
		})
	}
}

func TestAbortError(t *testing.T) {
	router := gin.New()
	reached := false
	router.GET("/x", func(c *gin.Context) {
		AbortError(c, http.StatusUnauthorized, "stop")
	}, func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if reached {
		t.Error("handler after abort was executed")
	}
}
