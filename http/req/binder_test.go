package req_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/req/mock_req"
	"github.com/xy-planning-network/paramconv/logger"
	"github.com/xy-planning-network/paramconv/serializer"
)

type testJob struct {
	Type     string `json:"type" validate:"required" validate_groups:"create"`
	Priority int    `json:"priority" validate:"gte=1,lte=5"`
	Schedule string `json:"schedule" groups:"admin"`
	Timeout  int    `json:"timeout" since:"2.0"`
}

func newTestRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "https://example.com/jobs", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	return r.WithContext(paramconv.NewAttributesContext(r.Context()))
}

func attrsOf(t *testing.T, r *http.Request) paramconv.Attributes {
	attrs, ok := paramconv.AttributesFromContext(r.Context())
	require.True(t, ok)
	return attrs
}

func newTestBinder(opts ...req.BinderOptFn) *req.Binder {
	quiet := logger.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	opts = append([]req.BinderOptFn{req.WithType[testJob]("job"), req.WithLogger(quiet)}, opts...)
	return req.NewBinder(serializer.New(), opts...)
}

func TestBinderSupports(t *testing.T) {
	b := newTestBinder()
	for _, cfg := range []req.Configuration{
		{},
		{Name: "job", Class: "job"},
		{Name: "x", Class: "never-registered"},
	} {
		require.True(t, b.Supports(cfg))
	}
}

func TestBinderContext(t *testing.T) {
	// Arrange
	defaults := map[string]any{"version": "1.0", "tenant": "acme"}
	b := newTestBinder(req.WithDefaultContext(defaults))
	expected, err := serializer.NewContext(defaults)
	require.Nil(t, err)

	for _, opts := range []map[string]any{
		nil,
		{},
		{req.ValidatorKey: map[string]any{}},
		{req.DeserializationContextKey: "not a mapping"},
	} {
		// Act
		actual, err := b.Context(req.Configuration{Options: opts})

		// Assert
		require.Nil(t, err)
		require.Equal(t, expected, actual)
	}

	// Act
	actual, err := b.Context(req.Configuration{Options: map[string]any{
		req.DeserializationContextKey: map[string]any{"groups": []string{"g1"}, "version": "2.0", "extra": "x"},
	}})

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"g1"}, actual.Groups)
	require.Equal(t, "2.0", actual.Version)
	require.Equal(t, map[string]any{"tenant": "acme", "extra": "x"}, actual.Attributes)

	// Arrange
	defaults["version"] = "9.9"

	// Act
	actual, err = b.Context(req.Configuration{})

	// Assert
	require.Nil(t, err)
	require.Equal(t, "1.0", actual.Version)
}

func TestBinderApply(t *testing.T) {
	// Arrange
	b := newTestBinder(req.WithDefaultContext(map[string]any{"version": "1.0"}))
	body := `{"type":"mail","priority":3,"schedule":"daily","timeout":30}`
	r := newTestRequest(body, "application/json; charset=utf-8")

	// Act
	ok, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

	// Assert
	require.Nil(t, err)
	require.True(t, ok)

	actual, ok := req.Bound[*testJob](r.Context(), "job")
	require.True(t, ok)
	require.Equal(t, &testJob{Type: "mail", Priority: 3, Schedule: "daily"}, actual)
	require.False(t, attrsOf(t, r).Has(paramconv.ValidationErrorsAttr))

	_, ok = req.ValidationErrorsFromContext(r.Context())
	require.False(t, ok)

	rest, err := io.ReadAll(r.Body)
	require.Nil(t, err)
	require.Equal(t, body, string(rest))
}

func TestBinderApplyContextOptions(t *testing.T) {
	// Arrange
	b := newTestBinder()
	r := newTestRequest("type=mail&priority=3&schedule=daily", "application/x-www-form-urlencoded")
	cfg := req.Configuration{
		Name:    "job",
		Class:   "job",
		Options: map[string]any{req.DeserializationContextKey: map[string]any{"groups": []any{"admin"}}},
	}

	// Act
	ok, err := b.Apply(r, cfg)

	// Assert
	require.Nil(t, err)
	require.True(t, ok)

	actual, ok := req.Bound[*testJob](r.Context(), "job")
	require.True(t, ok)
	require.Equal(t, &testJob{Schedule: "daily"}, actual)
}

func TestBinderApplyUnsupportedMediaType(t *testing.T) {
	// Arrange
	b := newTestBinder()
	r := newTestRequest("type,priority\nmail,3\n", "text/csv")

	// Act
	ok, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

	// Assert
	require.False(t, ok)
	require.ErrorIs(t, err, paramconv.ErrUnsupportedMediaType)
	require.ErrorIs(t, err, serializer.ErrUnsupportedFormat)
	require.Equal(t, `unsupported format "csv"`, err.Error())

	var reqErr *req.Error
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusUnsupportedMediaType, reqErr.Code)
	require.Empty(t, attrsOf(t, r))
}

func TestBinderApplyBadRequest(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		ct   string
	}{
		{"Truncated", `{"type":`, "application/json"},
		{"Wrong-Type", `{"priority":"high"}`, "application/json"},
		{"Bad-XML", `<job><type>mail</job>`, "application/xml"},
		{"Number-For-String", `{"type":12}`, "application/json"},
		{"Trailing-Data", `{"type":"mail"} trailing`, "application/json"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			b := newTestBinder(req.WithValidator(req.NewValidator()))
			r := newTestRequest(tc.body, tc.ct)

			// Act
			ok, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

			// Assert
			require.False(t, ok)
			require.ErrorIs(t, err, paramconv.ErrBadRequest)
			require.ErrorIs(t, err, serializer.ErrMalformed)

			var reqErr *req.Error
			require.ErrorAs(t, err, &reqErr)
			require.Equal(t, http.StatusBadRequest, reqErr.Code)
			require.Empty(t, attrsOf(t, r))
		})
	}
}

func TestBinderApplyExcludedKeyCase(t *testing.T) {
	// Arrange
	b := newTestBinder(req.WithDefaultContext(map[string]any{"groups": []string{"Default"}, "version": "1.0"}))
	r := newTestRequest(`{"type":"mail","schedule":"@daily","Schedule":"@hourly","timeout":1,"TIMEOUT":99}`, "application/json")

	// Act
	ok, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

	// Assert
	require.Nil(t, err)
	require.True(t, ok)

	actual, ok := req.Bound[*testJob](r.Context(), "job")
	require.True(t, ok)
	require.Equal(t, &testJob{Type: "mail"}, actual)
}

func TestBinderApplyBadContextVersion(t *testing.T) {
	// Arrange
	b := newTestBinder(req.WithDefaultContext(map[string]any{"version": "latest"}))
	r := newTestRequest(`{"type":"mail"}`, "application/json")

	// Act
	ok, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

	// Assert
	require.False(t, ok)
	require.ErrorIs(t, err, paramconv.ErrBadConfig)

	var reqErr *req.Error
	require.False(t, errors.As(err, &reqErr))
}

func TestBinderApplyBodyTooLarge(t *testing.T) {
	// Arrange
	b := newTestBinder(req.WithMaxBodySize(8))
	r := newTestRequest(`{"type":"mail"}`, "application/json")

	// Act
	_, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

	// Assert
	require.ErrorIs(t, err, paramconv.ErrBadRequest)
}

func TestBinderApplyMisconfigured(t *testing.T) {
	// Arrange
	b := newTestBinder()
	r := httptest.NewRequest(http.MethodPost, "https://example.com/jobs", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")

	// Act
	_, err := b.Apply(r, req.Configuration{Name: "job", Class: "job"})

	// Assert
	require.ErrorIs(t, err, paramconv.ErrBadConfig)

	// Arrange
	r = newTestRequest(`{}`, "application/json")

	// Act
	ok, err := b.Apply(r, req.Configuration{Name: "job", Class: "never-registered"})

	// Assert
	require.False(t, ok)
	require.ErrorIs(t, err, paramconv.ErrBadConfig)
	require.ErrorIs(t, err, paramconv.ErrNotExist)

	// Act
	_, err = b.Apply(r, req.Configuration{
		Name:    "job",
		Class:   "job",
		Options: map[string]any{req.DeserializationContextKey: map[string]any{"groups": 7}},
	})

	// Assert
	require.ErrorIs(t, err, paramconv.ErrBadConfig)
	require.Empty(t, attrsOf(t, r))
}

func TestBinderApplyValidation(t *testing.T) {
	// Arrange
	b := newTestBinder(req.WithValidator(req.NewValidator()))
	cfg := req.Configuration{
		Name:    "job",
		Class:   "job",
		Options: map[string]any{req.ValidatorKey: map[string]any{"groups": []string{"create"}}},
	}
	r := newTestRequest(`{"priority":9}`, "application/json")

	// Act
	ok, err := b.Apply(r, cfg)

	// Assert
	require.Nil(t, err)
	require.True(t, ok)

	actual, ok := req.ValidationErrorsFromContext(r.Context())
	require.True(t, ok)
	require.Equal(t, req.ValidationErrors{{Field: "type", Got: "", Rule: "required; string"}}, actual)

	// Arrange
	cfg.Options = nil
	r = newTestRequest(`{"priority":9}`, "application/json")

	// Act
	_, err = b.Apply(r, cfg)

	// Assert
	require.Nil(t, err)
	actual, ok = req.ValidationErrorsFromContext(r.Context())
	require.True(t, ok)
	require.Equal(t, req.ValidationErrors{{Field: "priority", Got: 9, Rule: "lte=5; int"}}, actual)

	// Arrange
	r = newTestRequest(`{"type":"mail","priority":2}`, "application/json")

	// Act
	_, err = b.Apply(r, cfg)

	// Assert
	require.Nil(t, err)
	actual, ok = req.ValidationErrorsFromContext(r.Context())
	require.True(t, ok)
	require.NotNil(t, actual)
	require.Empty(t, actual)
}

func TestBinderApplyMockValidator(t *testing.T) {
	for _, tc := range []struct {
		name     string
		returned req.ValidationErrors
		expected req.ValidationErrors
	}{
		{"Valid", nil, req.ValidationErrors{}},
		{"Invalid", req.ValidationErrors{{Field: "type", Rule: "custom"}}, req.ValidationErrors{{Field: "type", Rule: "custom"}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctrl := gomock.NewController(t)
			v := mock_req.NewMockValidator(ctrl)
			b := newTestBinder(req.WithValidator(v))
			r := newTestRequest(`{"type":"mail"}`, "application/json")
			cfg := req.Configuration{
				Name:  "job",
				Class: "job",
				Options: map[string]any{req.ValidatorKey: map[string]any{
					"groups":   []string{"create"},
					"traverse": true,
				}},
			}

			v.EXPECT().
				Validate(&testJob{Type: "mail"}, gomock.Nil(), []string{"create"}).
				Return(tc.returned)

			// Act
			ok, err := b.Apply(r, cfg)

			// Assert
			require.Nil(t, err)
			require.True(t, ok)

			actual, ok := req.ValidationErrorsFromContext(r.Context())
			require.True(t, ok)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestBinderApplyBadValidatorOptions(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	s := mock_req.NewMockDeserializer(ctrl)
	v := mock_req.NewMockValidator(ctrl)
	b := req.NewBinder(s, req.WithType[testJob]("job"), req.WithValidator(v))
	r := newTestRequest(`{"type":"mail"}`, "application/json")
	cfg := req.Configuration{
		Name:    "job",
		Class:   "job",
		Options: map[string]any{req.ValidatorKey: map[string]any{"groups": nil, "bogus": 1}},
	}

	// Act
	ok, err := b.Apply(r, cfg)

	// Assert
	require.False(t, ok)
	require.ErrorIs(t, err, paramconv.ErrBadConfig)
	require.Empty(t, attrsOf(t, r))
}

func TestBinderApplyMockDeserializer(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	s := mock_req.NewMockDeserializer(ctrl)
	b := req.NewBinder(
		s,
		req.WithType[testJob]("job"),
		req.WithDefaultContext(map[string]any{"version": "1.0"}),
		req.WithLogger(logger.New(slog.New(slog.NewTextHandler(io.Discard, nil)))),
	)
	r := newTestRequest(`{"type":"mail"}`, "application/json")
	cfg := req.Configuration{
		Name:    "job",
		Class:   "job",
		Options: map[string]any{req.DeserializationContextKey: map[string]any{"groups": []string{"g1"}, "extra": "x"}},
	}
	dctx := serializer.Context{Groups: []string{"g1"}, Version: "1.0", Attributes: map[string]any{"extra": "x"}}
	underlying := errors.New("the library's own words")

	gomock.InOrder(
		s.EXPECT().Params("json", gomock.Any()).Return(map[string]any{"type": "mail"}, nil),
		s.EXPECT().Deserialize([]byte(`{"type":"mail"}`), gomock.Any(), "json", dctx).Return(underlying),
	)

	// Act
	ok, err := b.Apply(r, cfg)

	// Assert
	require.False(t, ok)
	require.ErrorIs(t, err, paramconv.ErrBadRequest)
	require.ErrorIs(t, err, underlying)
	require.Equal(t, underlying.Error(), err.Error())
}

func TestBound(t *testing.T) {
	// Arrange
	ctx := context.Background()

	// Act
	_, ok := req.Bound[*testJob](ctx, "job")

	// Assert
	require.False(t, ok)

	// Arrange
	ctx = paramconv.NewAttributesContext(ctx)
	attrs, _ := paramconv.AttributesFromContext(ctx)
	attrs.Set("job", "not a job")

	// Act
	_, ok = req.Bound[*testJob](ctx, "job")

	// Assert
	require.False(t, ok)
}

func TestErrorUnwrap(t *testing.T) {
	// Arrange
	cause := errors.New("cause")

	// Act
	err := req.BadRequest(cause)

	// Assert
	require.Equal(t, "cause", err.Error())
	require.Equal(t, http.StatusBadRequest, err.Code)
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, paramconv.ErrBadRequest)
	require.False(t, errors.Is(err, paramconv.ErrUnsupportedMediaType))
}
