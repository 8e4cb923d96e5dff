package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	boar "github.com/ejgyurisan/boar-server"
)

// pagesController renders the HTML front page through the view templates.
type pagesController struct {
	app *boar.App
}

func (c *pagesController) Prefix() string { return "/" }

func (c *pagesController) Routes(r chi.Router) {
	r.Get("/", c.index)
}

func (c *pagesController) index(w http.ResponseWriter, r *http.Request) {
	views := c.app.Views()
	if views == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("boar-server demo\n"))
		return
	}

	views.HTML(w, http.StatusOK, "index", map[string]string{
		"Title": "boar-server demo",
	})
}
