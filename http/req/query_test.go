package req_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/logger"
)

type testSearch struct {
	Type   string   `json:"type" validate:"required"`
	Limit  int64    `json:"limit" validate:"gt=10,required"`
	Tags   []string `json:"tags" validate:"len=2,required"`
	Secret string   `json:"-"`
}

func newTestQueryBinder(opts ...req.BinderOptFn) *req.QueryBinder {
	quiet := logger.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	opts = append([]req.BinderOptFn{req.WithType[testSearch]("search"), req.WithLogger(quiet)}, opts...)
	return req.NewQueryBinder(opts...)
}

func newTestQueryRequest(query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "https://example.com/jobs?"+query, nil)
	return r.WithContext(paramconv.NewAttributesContext(r.Context()))
}

func TestQueryBinderSupports(t *testing.T) {
	q := newTestQueryBinder()

	require.False(t, q.Supports(req.Configuration{}))
	require.False(t, q.Supports(req.Configuration{Options: map[string]any{req.QueryKey: "yes"}}))
	require.False(t, q.Supports(req.Configuration{Options: map[string]any{req.QueryKey: false}}))
	require.True(t, q.Supports(req.Configuration{Options: map[string]any{req.QueryKey: true}}))
}

func TestQueryBinderApply(t *testing.T) {
	// Arrange
	q := newTestQueryBinder(req.WithValidator(req.NewValidator()))
	cfg := req.Configuration{Name: "search", Class: "search", Options: map[string]any{req.QueryKey: true}}
	r := newTestQueryRequest("type=mail&limit=20&tags=a&tags=b&secret=ignore")

	// Act
	ok, err := q.Apply(r, cfg)

	// Assert
	require.Nil(t, err)
	require.True(t, ok)

	actual, ok := req.Bound[*testSearch](r.Context(), "search")
	require.True(t, ok)
	require.Equal(t, &testSearch{Type: "mail", Limit: 20, Tags: []string{"a", "b"}}, actual)

	errs, ok := req.ValidationErrorsFromContext(r.Context())
	require.True(t, ok)
	require.Empty(t, errs)
}

func TestQueryBinderApplyInvalid(t *testing.T) {
	// Arrange
	q := newTestQueryBinder(req.WithValidator(req.NewValidator()))
	cfg := req.Configuration{Name: "search", Class: "search", Options: map[string]any{req.QueryKey: true}}
	r := newTestQueryRequest("type=mail&limit=1&tags=a")

	// Act
	ok, err := q.Apply(r, cfg)

	// Assert
	require.Nil(t, err)
	require.True(t, ok)

	errs, ok := req.ValidationErrorsFromContext(r.Context())
	require.True(t, ok)
	require.Len(t, errs, 2)
	require.Equal(t, "limit", errs[0].Field)
	require.Equal(t, "tags", errs[1].Field)
}

func TestQueryBinderApplyBadValue(t *testing.T) {
	// Arrange
	q := newTestQueryBinder()
	cfg := req.Configuration{Name: "search", Class: "search", Options: map[string]any{req.QueryKey: true}}
	r := newTestQueryRequest("type=mail&limit=lots")

	// Act
	ok, err := q.Apply(r, cfg)

	// Assert
	require.False(t, ok)
	require.ErrorIs(t, err, paramconv.ErrBadRequest)
	require.ErrorIs(t, err, paramconv.ErrNotValid)

	var reqErr *req.Error
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusBadRequest, reqErr.Code)

	var actual req.ValidationErrors
	require.ErrorAs(t, err, &actual)
	require.Equal(t, req.ValidationErrors{{
		Field: "limit",
		Got:   "bad value at index 0",
		Rule:  "must be int64",
	}}, actual)
	require.Empty(t, attrsOf(t, r))
}

func TestQueryBinderApplyMisconfigured(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []req.BinderOptFn
		cfg  req.Configuration
		err  error
	}{
		{
			"Unregistered-Class",
			nil,
			req.Configuration{Name: "x", Class: "never-registered"},
			paramconv.ErrBadConfig,
		},
		{
			"Not-A-Struct",
			[]req.BinderOptFn{req.WithFactory("str", func() any { return new(string) })},
			req.Configuration{Name: "x", Class: "str"},
			paramconv.ErrBadAny,
		},
		{
			"Unsupported-Field",
			[]req.BinderOptFn{req.WithFactory("nested", func() any {
				return new(struct {
					Type struct{} `json:"type"`
				})
			})},
			req.Configuration{Name: "x", Class: "nested"},
			paramconv.ErrNotImplemented,
		},
		{
			"Required-By-Schema",
			[]req.BinderOptFn{req.WithFactory("required", func() any {
				return new(struct {
					Missing string `json:"missing,required"`
				})
			})},
			req.Configuration{Name: "x", Class: "required"},
			paramconv.ErrNotImplemented,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			q := newTestQueryBinder(tc.opts...)
			r := newTestQueryRequest("type=mail")

			// Act
			ok, err := q.Apply(r, tc.cfg)

			// Assert
			require.False(t, ok)
			require.ErrorIs(t, err, tc.err)

			var reqErr *req.Error
			require.False(t, errors.As(err, &reqErr))
			require.Empty(t, attrsOf(t, r))
		})
	}
}
