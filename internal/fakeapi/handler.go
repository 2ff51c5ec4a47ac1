// Package fakeapi is an in-memory stand-in for the catalog REST API, for tests.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bookcatalog/internal/types"
)

const WelcomeMessage = "Welcome to the Book Management API"

// Request is what the API saw of one incoming request
type Request struct {
	Method      string
	Path        string
	ContentType string
	RequestId   string
	Body        []byte
}

// API keeps books in memory and records every request it serves
type API struct {
	mu       sync.Mutex
	books    map[int64]types.Book
	nextId   int64
	requests []Request
	failWith int

	rr     *responder
	router chi.Router
}

func New(l *slog.Logger) *API {
	a := &API{
		books:  make(map[int64]types.Book),
		nextId: 1,
		rr:     &responder{logger: l},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.record)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		a.rr.sendJson(w, r.Context(), http.StatusOK, map[string]string{"message": WelcomeMessage})
	})
	r.Get("/books", a.list)
	r.Post("/books", a.create)
	r.Get("/books/{id}", a.get)
	r.Put("/books/{id}", a.update)
	r.Delete("/books/{id}", a.delete)

	a.router = r
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Seed stores books as given, ids included, and moves the id sequence past them
func (a *API) Seed(books ...types.Book) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, b := range books {
		a.books[b.Id] = b
		if b.Id >= a.nextId {
			a.nextId = b.Id + 1
		}
	}
}

// SetNextId makes the next created book get id
func (a *API) SetNextId(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextId = id
}

// FailWith makes every following request answer with status; zero restores normal operation
func (a *API) FailWith(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failWith = status
}

func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

func (a *API) Book(id int64) (types.Book, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.books[id]
	return b, ok
}

func (a *API) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		a.mu.Lock()
		a.requests = append(a.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			RequestId:   middleware.GetReqID(r.Context()),
			Body:        body,
		})
		failWith := a.failWith
		a.mu.Unlock()

		if failWith != 0 {
			a.rr.respondDetail(w, r.Context(), failWith, http.StatusText(failWith))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	rows := make([]types.Book, 0, len(a.books))
	for _, b := range a.books {
		rows = append(rows, b)
	}
	a.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Id < rows[j].Id
	})

	a.rr.sendJson(w, r.Context(), http.StatusOK, rows)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	id, ok := a.bookId(w, r)
	if !ok {
		return
	}

	b, found := a.Book(id)
	if !found {
		a.rr.respondDetail(w, r.Context(), http.StatusNotFound, "Book not found")
		return
	}

	a.rr.sendJson(w, r.Context(), http.StatusOK, b)
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	var in types.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.rr.respondDetail(w, r.Context(), http.StatusUnprocessableEntity, "Invalid body: "+err.Error())
		return
	}

	a.mu.Lock()
	b := types.Book{Id: a.nextId, BookInput: in}
	a.books[b.Id] = b
	a.nextId++
	a.mu.Unlock()

	a.rr.sendJson(w, r.Context(), http.StatusCreated, b)
}

func (a *API) update(w http.ResponseWriter, r *http.Request) {
	id, ok := a.bookId(w, r)
	if !ok {
		return
	}

	var in types.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.rr.respondDetail(w, r.Context(), http.StatusUnprocessableEntity, "Invalid body: "+err.Error())
		return
	}

	a.mu.Lock()
	_, found := a.books[id]
	b := types.Book{Id: id, BookInput: in}
	if found {
		a.books[id] = b
	}
	a.mu.Unlock()

	if !found {
		a.rr.respondDetail(w, r.Context(), http.StatusNotFound, "Book not found")
		return
	}

	a.rr.sendJson(w, r.Context(), http.StatusOK, b)
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.bookId(w, r)
	if !ok {
		return
	}

	a.mu.Lock()
	_, found := a.books[id]
	delete(a.books, id)
	a.mu.Unlock()

	if !found {
		a.rr.respondDetail(w, r.Context(), http.StatusNotFound, "Book not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) bookId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.rr.respondDetail(w, r.Context(), http.StatusUnprocessableEntity, "Invalid book id")
		return 0, false
	}

	return id, true
}
