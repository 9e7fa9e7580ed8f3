package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseTaskID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(raw string) (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		return c, w
	}

	t.Run("numeric id passes through", func(t *testing.T) {
		c, w := newCtx("42")
		id, ok := parseTaskID(c)
		assert.True(t, ok)
		assert.Equal(t, uint(42), id)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-numeric id is rejected", func(t *testing.T) {
		c, w := newCtx("abc")
		_, ok := parseTaskID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid task ID")
	})

	t.Run("zero id is rejected", func(t *testing.T) {
		c, w := newCtx("0")
		_, ok := parseTaskID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, b ,"))
	assert.Nil(t, splitCSV(""))
}
