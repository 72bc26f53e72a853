package resp_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/resp"
)

func TestStatusCode(t *testing.T) {
	tcs := []struct {
		name     string
		err      error
		expected int
	}{
		{"Nil", nil, http.StatusOK},
		{"Req-Error", req.UnsupportedMediaType(errors.New("bad")), http.StatusUnsupportedMediaType},
		{"Not-Valid", req.ValidationErrors{}, http.StatusUnprocessableEntity},
		{"Bad-Request", paramconv.ErrBadRequest, http.StatusBadRequest},
		{"Unsupported-Media-Type", paramconv.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"Bad-Config", paramconv.ErrBadConfig, http.StatusInternalServerError},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, resp.StatusCode(tc.err))
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()
		d := resp.NewResponder(resp.WithLogger(newTestLogger(b)))

		// Act
		err := d.Json(w, r, resp.Err(nil))

		// Assert
		require.Nil(t, err)
		require.Equal(t, http.StatusOK, w.Code)
		require.Zero(t, b.Len())
	})

	t.Run("Server-Error-Logs-Error", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()
		d := resp.NewResponder(resp.WithLogger(newTestLogger(b)))

		// Act
		err := d.Json(w, r, resp.Err(errors.New("boom")))

		// Assert
		require.Nil(t, err)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, b.String(), `"level":"ERROR"`)
		require.NotContains(t, w.Body.String(), "boom")
	})

	t.Run("Client-Error-Logs-Debug", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()
		d := resp.NewResponder(resp.WithLogger(newTestLogger(b)))

		// Act
		err := d.Json(w, r, resp.Err(req.BadRequest(errors.New("syntax error"))))

		// Assert
		require.Nil(t, err)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, b.String(), `"level":"DEBUG"`)
		require.Contains(t, w.Body.String(), "syntax error")
	})
}

func TestCode(t *testing.T) {
	tcs := []struct {
		name string
		code int
		err  error
	}{
		{"Too-Low", 99, resp.ErrInvalid},
		{"Too-High", 600, resp.ErrInvalid},
		{"Teapot", http.StatusTeapot, nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
			w := httptest.NewRecorder()
			d := resp.NewResponder()

			// Act
			err := d.Json(w, r, resp.Code(tc.code))

			// Assert
			require.ErrorIs(t, err, tc.err)
			if tc.err == nil {
				require.Equal(t, tc.code, w.Code)
			}
		})
	}
}
