package render

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejgyurisan/boar-server/logger"
)

func writeView(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_AndRender(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "index.gohtml", "<h1>{{.Title}}</h1>")
	writeView(t, dir, "users/show.gohtml", "user: {{.Name}}")

	r, err := Load(dir, ".gohtml", logger.Nop())
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, r.Render(&buf, "index", map[string]string{"Title": "Boar"}))
	assert.Equal(t, "<h1>Boar</h1>", buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, "users/show", map[string]string{"Name": "piglet"}))
	assert.Equal(t, "user: piglet", buf.String())
}

func TestLoad_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "index.gohtml", "view")
	writeView(t, dir, "notes.txt", "not a view")

	r, err := Load(dir, ".gohtml", logger.Nop())
	require.NoError(t, err)

	var buf strings.Builder
	assert.Error(t, r.Render(&buf, "notes", nil))
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), ".gohtml", logger.Nop())
	require.Error(t, err)
}

func TestLoad_BrokenTemplate(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "broken.gohtml", "{{.Unclosed")

	_, err := Load(dir, ".gohtml", logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.gohtml")
}

func TestRender_UnknownView(t *testing.T) {
	r, err := Load(t.TempDir(), ".gohtml", logger.Nop())
	require.NoError(t, err)

	var buf strings.Builder
	err = r.Render(&buf, "ghost", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not loaded")
}

func TestHTML_WritesResponse(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "page.gohtml", "<p>{{.}}</p>")

	r, err := Load(dir, ".gohtml", logger.Nop())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.HTML(rr, http.StatusCreated, "page", "hello")

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "<p>hello</p>", rr.Body.String())
}

func TestHTML_RenderErrorYields500(t *testing.T) {
	r, err := Load(t.TempDir(), ".gohtml", logger.Nop())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.HTML(rr, http.StatusOK, "missing", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
