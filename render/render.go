// Package render loads HTML view templates from a directory at bootstrap
// time and executes them by name, mirroring how the bootstrap's other
// asset directories (static files, migrations) are wired in at startup.
package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ejgyurisan/boar-server/logger"
)

// Renderer holds a parsed template set. Templates are addressed by their
// path relative to the views directory with the extension stripped, so
// "views/users/show.gohtml" becomes "users/show".
type Renderer struct {
	templates *template.Template
	log       *logger.Logger
}

// Load walks dir recursively and parses every file with the given
// extension (e.g. ".gohtml") into one template set. Returns an error when
// the directory cannot be read or any template fails to parse; an empty
// directory is fine.
func Load(dir, ext string, log *logger.Logger) (*Renderer, error) {
	root := template.New("")

	fsys := os.DirFS(dir)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ext) {
			return nil
		}

		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("error reading view %q: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.ToSlash(path), ext)
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return fmt.Errorf("error parsing view %q: %w", path, err)
		}

		log.Debug().Str("view", name).Msg("view template loaded")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error loading views from %q: %w", dir, err)
	}

	return &Renderer{templates: root, log: log}, nil
}

// Render executes the named template into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if r.templates.Lookup(name) == nil {
		return fmt.Errorf("view %q is not loaded", name)
	}

	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("error rendering view %q: %w", name, err)
	}

	return nil
}

// HTML renders the named template as a full HTTP response with the given
// status code. Render failures after the header has been written cannot be
// undone, so the template is executed into a buffer first.
func (r *Renderer) HTML(w http.ResponseWriter, status int, name string, data any) {
	var buf strings.Builder
	if err := r.Render(&buf, name, data); err != nil {
		r.log.Err(err).Str("view", name).Msg("view rendering failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}
