package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

func newParameterApp(t *testing.T, classifier *stubClassifier) (*fiber.App, repositories.ParameterStore) {
	t.Helper()
	store := repositories.NewParameterStore(filepath.Join(t.TempDir(), "parameters.json"))
	h := NewParameterHandler(store, classifier, nil)

	app := fiber.New()
	app.Get("/parameters", h.HandleList)
	app.Post("/parameters", h.HandleUpsert)
	app.Post("/parameters/classify", h.HandleClassify)
	app.Delete("/parameters/:key", h.HandleDelete)
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestParameterUpsertWithExplicitType(t *testing.T) {
	classifier := &stubClassifier{}
	app, store := newParameterApp(t, classifier)

	resp, body := doJSON(t, app, http.MethodPost, "/parameters",
		`{"name":"Years of Experience","type":"Quantitative","weight":2,"max_value":10,"benefit_type":"higher"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var got models.ParameterResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "years_of_experience", got.Key)
	assert.Equal(t, "quantitative", got.Type)
	require.NotNil(t, got.MaxValue)
	assert.Equal(t, 10.0, *got.MaxValue)
	assert.Zero(t, classifier.calls)

	params, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, params, 1)
}

func TestParameterUpsertWithDescription(t *testing.T) {
	app, store := newParameterApp(t, &stubClassifier{})

	resp, body := doJSON(t, app, http.MethodPost, "/parameters",
		`{"name":"Notice Period","type":"quantitative","weight":1,"max_value":12,"benefit_type":"lower","description":"notice period in weeks"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var got models.ParameterResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "notice_period", got.Key)
	assert.Equal(t, "notice period in weeks", got.Description)

	params, err := store.Load()
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "notice period in weeks", params[0].Description)
}

func TestParameterUpsertPortfolio(t *testing.T) {
	classifier := &stubClassifier{}
	app, store := newParameterApp(t, classifier)

	resp, body := doJSON(t, app, http.MethodPost, "/parameters",
		`{"name":"Open Source Work","type":"Portfolio","weight":2,"description":"distributed systems in go"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	assert.Zero(t, classifier.calls)

	params, err := store.Load()
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, scoring.Portfolio, params[0].Category)
	assert.Equal(t, "distributed systems in go", params[0].Description)
	assert.Nil(t, params[0].MaxValue)
}

func TestParameterUpsertClassifiesWhenTypeOmitted(t *testing.T) {
	classifier := &stubClassifier{category: scoring.Boolean}
	app, store := newParameterApp(t, classifier)

	resp, body := doJSON(t, app, http.MethodPost, "/parameters", `{"name":"Has Degree","weight":1}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, 1, classifier.calls)

	params, err := store.Load()
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, scoring.Boolean, params[0].Category)
}

func TestParameterUpsertErrors(t *testing.T) {
	tests := []struct {
		name       string
		classifier *stubClassifier
		body       string
		wantStatus int
	}{
		{
			name:       "missing name",
			classifier: &stubClassifier{},
			body:       `{"weight":1,"type":"boolean"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "non-positive weight",
			classifier: &stubClassifier{},
			body:       `{"name":"Has Degree","type":"boolean","weight":0}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "quantitative without max",
			classifier: &stubClassifier{},
			body:       `{"name":"GPA","type":"quantitative","weight":1,"benefit_type":"higher"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unknown type",
			classifier: &stubClassifier{},
			body:       `{"name":"GPA","type":"numeric","weight":1}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "ambiguous classification",
			classifier: &stubClassifier{err: &scoring.AmbiguousClassificationError{Name: "Vibes", Response: "both"}},
			body:       `{"name":"Vibes","weight":1}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name: "missing credential",
			classifier: &stubClassifier{err: &scoring.ConfigError{
				Parameter: "Vibes", Field: "credential", Reason: "none", Err: scoring.ErrMissingCredential,
			}},
			body:       `{"name":"Vibes","weight":1}`,
			wantStatus: fiber.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := newParameterApp(t, tt.classifier)

			resp, body := doJSON(t, app, http.MethodPost, "/parameters", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(body))

			params, err := store.Load()
			require.NoError(t, err)
			assert.Empty(t, params)
		})
	}
}

func TestParameterListAndDelete(t *testing.T) {
	app, _ := newParameterApp(t, &stubClassifier{})

	resp, _ := doJSON(t, app, http.MethodPost, "/parameters", `{"name":"Leadership","type":"textual","weight":1.5}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/parameters", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed struct {
		Parameters []models.ParameterResponse `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed.Parameters, 1)
	assert.Equal(t, "leadership", listed.Parameters[0].Key)
	assert.Nil(t, listed.Parameters[0].MaxValue)

	resp, _ = doJSON(t, app, http.MethodDelete, "/parameters/leadership", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/parameters/leadership", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestParameterClassify(t *testing.T) {
	app, _ := newParameterApp(t, &stubClassifier{category: scoring.Textual})

	resp, body := doJSON(t, app, http.MethodPost, "/parameters/classify", `{"name":"Communication Skills"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.ClassifyResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Textual", got.Type)

	resp, _ = doJSON(t, app, http.MethodPost, "/parameters/classify", `{"name":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
