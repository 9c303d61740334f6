package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/internal/prompt"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

type scriptedDriver struct {
	inputs  []string
	selects []int
}

func (s *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	out := s.inputs[0]
	s.inputs = s.inputs[1:]
	return out, nil
}

func (s *scriptedDriver) Password(context.Context, prompt.InputConfig) (string, error) {
	return "", nil
}

func (s *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	out := s.selects[0]
	s.selects = s.selects[1:]
	return out, nil
}

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.yaml")
	require.NoError(t, os.WriteFile(path, articlesDocument, 0o644))
	return path
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFieldsCommand(t *testing.T) {
	out, err := execute(t, newApp(), "fields", writeDocument(t), "Article")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"title\ttextline\tTitle\t[required]",
		"link\turi\tLink",
		"category\tchoice\tCategory",
		"summary\ttextline\tSummary",
	}, lines)
}

func TestFieldsCommand_UnknownSchema(t *testing.T) {
	_, err := execute(t, newApp(), "fields", writeDocument(t), "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Missing"`)
}

func TestFillCommand(t *testing.T) {
	vocabDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(vocabDir, "categories.yaml"), []byte(`
vocabularies:
  categories:
    - token: news
      title: News
    - token: howto
      title: How-to
`), 0o644))

	a := &app{
		driver: &scriptedDriver{inputs: []string{"Hello", "", ""}, selects: []int{2}},
		logger: logging.NewNop(),
	}
	out, err := execute(t, a, "fill", "--vocabularies", vocabDir, writeDocument(t), "Article")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "Hello", "category": "howto"}`, out)
}

func TestFillCommand_ReportsFieldErrors(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(`
openapi: 3.0.3
info:
  title: t
  version: "1"
paths: {}
components:
  schemas:
    Link:
      type: object
      properties:
        href:
          type: string
          format: uri
`), 0o644))

	a := &app{driver: &scriptedDriver{inputs: []string{"not a uri"}}, logger: logging.NewNop()}
	out, err := execute(t, a, "fill", doc, "Link")
	require.ErrorIs(t, err, errInvalidSubmission)
	assert.True(t, strings.HasPrefix(out, "href: "), "got %q", out)
}

func TestDemoRoutes_AddEditAndMetrics(t *testing.T) {
	cfg, err := config.LoadServerFrom(map[string]string{})
	require.NoError(t, err)
	d, err := newDemo(context.Background(), cfg, vocabulary.NewRegistry(), logging.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(d.routes())
	defer srv.Close()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	resp, err := client.Get(srv.URL + "/articles/add")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/articles/add", url.Values{
		"form.field.title":    {"Hello World"},
		"form.field.category": {"news"},
		"form.action.add":     {"Add"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/articles/hello-world/edit", resp.Header.Get("Location"))

	doc, ok := d.store.Get("hello-world")
	require.True(t, ok)
	assert.Equal(t, article{Title: "Hello World", Category: "news"}, *doc)

	resp, err = client.PostForm(srv.URL+"/articles/hello-world/edit", url.Values{
		"form.field.title":    {""},
		"form.field.category": {"news"},
		"form.action.save":    {"Save"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/articles/missing/edit")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `formbind_action_runs_total{action="add",result="success"} 1`)
	assert.Contains(t, string(body), `formbind_action_runs_total{action="save",result="failure"} 1`)
	assert.Contains(t, string(body), `formbind_field_errors_total{field="title"} 1`)
}
