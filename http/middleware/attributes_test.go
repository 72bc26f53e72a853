package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/middleware"
)

func TestAttributes(t *testing.T) {
	t.Run("Installs", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

		// Act
		middleware.Attributes()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
			// Assert
			attrs, ok := paramconv.AttributesFromContext(rx.Context())
			require.True(t, ok)
			require.Empty(t, attrs)
		})).ServeHTTP(w, r)
	})

	t.Run("Keeps-Existing", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
		r = r.WithContext(paramconv.NewAttributesContext(r.Context()))
		existing, _ := paramconv.AttributesFromContext(r.Context())
		existing.Set("job", "kept")

		// Act
		middleware.Attributes()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
			// Assert
			attrs, ok := paramconv.AttributesFromContext(rx.Context())
			require.True(t, ok)
			val, ok := attrs.Get("job")
			require.True(t, ok)
			require.Equal(t, "kept", val)
		})).ServeHTTP(w, r)
	})
}
