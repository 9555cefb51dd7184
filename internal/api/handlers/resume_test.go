package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/latex"
	"resumeforge/pkg/models"
)

type stubCompiler struct {
	pdf []byte
	err error
}

func (s *stubCompiler) Compile(ctx context.Context, source string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "compiler output", s.err
	}
	return s.pdf, "compiler output", nil
}

func newHandlerEngine(t *testing.T, compiler latex.Compiler) *latex.Engine {
	t.Helper()
	store, err := latex.NewStore("")
	require.NoError(t, err)
	pool := latex.NewCompilePool(latex.PoolConfig{MaxConcurrent: 1})
	return latex.NewEngine(store, compiler, pool)
}

func postResume(t *testing.T, engine *latex.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, CreateResumeHandler(engine)(c))
	return rec
}

const validBody = `{
	"information": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"experience": [{"title": "Engineer", "company": "ACME", "start_date": "2020"}],
	"output_format": "both"
}`

func TestCreateResumeHandlerSuccess(t *testing.T) {
	rec := postResume(t, newHandlerEngine(t, &stubCompiler{pdf: []byte("%PDF-1.4 ok")}), validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CreateResumeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.ID, "rsm_"))
	assert.Equal(t, models.FormatBoth, resp.Format)
	assert.Contains(t, resp.TexFile, "Ada Lovelace")
	assert.NotEmpty(t, resp.RequestID)

	pdf, err := base64.StdEncoding.DecodeString(resp.PDFFile)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 ok", string(pdf))
}

func TestCreateResumeHandlerSourceOnly(t *testing.T) {
	body := strings.Replace(validBody, `"both"`, `"source"`, 1)
	rec := postResume(t, newHandlerEngine(t, &stubCompiler{}), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CreateResumeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TexFile)
	assert.Empty(t, resp.PDFFile)
}

func TestCreateResumeHandlerMalformedBody(t *testing.T) {
	rec := postResume(t, newHandlerEngine(t, &stubCompiler{}), `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error)
}

func TestCreateResumeHandlerValidationFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing name",
			body: `{"information": {"email": "a@example.com"}}`,
		},
		{
			name: "bad email",
			body: `{"information": {"name": "A", "email": "not-an-email"}}`,
		},
		{
			name: "bad template id",
			body: `{"information": {"name": "A", "email": "a@example.com"}, "template_id": "../etc"}`,
		},
		{
			name: "bad output format",
			body: `{"information": {"name": "A", "email": "a@example.com"}, "output_format": "docx"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postResume(t, newHandlerEngine(t, &stubCompiler{}), tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_FAILED", resp.Error)
		})
	}
}

func TestCreateResumeHandlerUnknownTemplate(t *testing.T) {
	body := `{
		"information": {"name": "A", "email": "a@example.com"},
		"template_id": "missing-template"
	}`
	rec := postResume(t, newHandlerEngine(t, &stubCompiler{pdf: []byte("x")}), body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
}

func TestCreateResumeHandlerCompilationFailed(t *testing.T) {
	stub := &stubCompiler{err: &latex.Error{
		Kind: latex.KindCompilationFailed,
		Msg:  "pdflatex exited with an error",
		Log:  "! Undefined control sequence.",
	}}
	rec := postResume(t, newHandlerEngine(t, stub), validBody)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "COMPILATION_FAILED", resp.Error)
	assert.Contains(t, resp.Log, "Undefined control sequence")
}

func TestCreateResumeHandlerTimeout(t *testing.T) {
	stub := &stubCompiler{err: &latex.Error{
		Kind: latex.KindCompilationTimeout,
		Msg:  "pdflatex exceeded 60s",
		Log:  "partial log",
	}}
	rec := postResume(t, newHandlerEngine(t, stub), validBody)
	require.Equal(t, http.StatusRequestTimeout, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "COMPILATION_TIMEOUT", resp.Error)
	assert.Equal(t, "partial log", resp.Log)
}

func TestCreateResumeHandlerBusy(t *testing.T) {
	engine := newHandlerEngine(t, &stubCompiler{pdf: []byte("x")})
	engine.Shutdown()

	rec := postResume(t, engine, validBody)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RESOURCE_EXHAUSTED", resp.Error)
}

func TestTemplatesHandler(t *testing.T) {
	engine := newHandlerEngine(t, &stubCompiler{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, TemplatesHandler(engine)(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TemplateListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, latex.DefaultTemplateID, resp.Default)
	assert.Contains(t, resp.Templates, latex.DefaultTemplateID)
}

func TestCompilerStatsHandler(t *testing.T) {
	engine := newHandlerEngine(t, &stubCompiler{pdf: []byte("x")})
	_, err := engine.Compile(context.Background(), latex.CompilationRequest{
		Resume: models.ResumeData{
			Info: models.PersonalInfo{Name: "A", Email: "a@example.com"},
		},
		OutputFormat: models.FormatRendered,
	})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/compiler/stats", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, CompilerStatsHandler(engine)(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats latex.PoolStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsSuccessful)
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, HealthHandler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Minute)
}
