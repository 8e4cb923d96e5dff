package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	boar "github.com/ejgyurisan/boar-server"
	"github.com/ejgyurisan/boar-server/logger"
	"github.com/ejgyurisan/boar-server/middleware"
)

// entriesModel declares the demo journal table.
type entriesModel struct{}

func (entriesModel) Name() string { return "entries" }

func (entriesModel) Schema() string {
	return `CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}

type entry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// entriesController is a JSON CRUD surface over the entries table.
type entriesController struct {
	app *boar.App
}

func (c *entriesController) Prefix() string { return "/api/entries" }

func (c *entriesController) Routes(r chi.Router) {
	r.Get("/", c.list)
	r.Post("/", c.create)
	r.Get("/{id}", c.get)
	r.Delete("/{id}", c.delete)
}

func (c *entriesController) list(w http.ResponseWriter, r *http.Request) {
	store := c.app.Store()

	query, args, err := store.Builder().
		Select("id", "title", "body", "created_at").
		From("entries").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "query build failed")
		return
	}

	rows, err := store.QueryContext(r.Context(), query, args...)
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("error listing entries")
		middleware.WriteError(w, http.StatusInternalServerError, "storage error")
		return
	}
	defer rows.Close()

	entries := []entry{}
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &e.CreatedAt); err != nil {
			logger.FromRequest(r).Err(err).Msg("error scanning entry")
			middleware.WriteError(w, http.StatusInternalServerError, "storage error")
			return
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		logger.FromRequest(r).Err(err).Msg("error iterating entries")
		middleware.WriteError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (c *entriesController) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Title == "" {
		middleware.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	store := c.app.Store()
	query, args, err := store.Builder().
		Insert("entries").
		Columns("title", "body").
		Values(in.Title, in.Body).
		ToSql()
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "query build failed")
		return
	}

	res, err := store.ExecContext(r.Context(), query, args...)
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("error creating entry")
		middleware.WriteError(w, http.StatusInternalServerError, "storage error")
		return
	}

	id, _ := res.LastInsertId()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (c *entriesController) get(w http.ResponseWriter, r *http.Request) {
	store := c.app.Store()

	query, args, err := store.Builder().
		Select("id", "title", "body", "created_at").
		From("entries").
		Where("id = ?", chi.URLParam(r, "id")).
		ToSql()
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "query build failed")
		return
	}

	var e entry
	err = store.QueryRowContext(r.Context(), query, args...).
		Scan(&e.ID, &e.Title, &e.Body, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.WriteError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("error fetching entry")
		middleware.WriteError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (c *entriesController) delete(w http.ResponseWriter, r *http.Request) {
	store := c.app.Store()

	query, args, err := store.Builder().
		Delete("entries").
		Where("id = ?", chi.URLParam(r, "id")).
		ToSql()
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "query build failed")
		return
	}

	if _, err := store.ExecContext(r.Context(), query, args...); err != nil {
		logger.FromRequest(r).Err(err).Msg("error deleting entry")
		middleware.WriteError(w, http.StatusInternalServerError, "storage error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
