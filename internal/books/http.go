package books

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bookcatalog/internal/types"
)

const (
	headerRequestId = "X-Request-Id"
	contentTypeJson = "application/json"

	pathBooks = "/books"
)

type ctxKey uint8

// RequestIdKey is the context key holding the id of the request in flight.
// A caller may set it to correlate its own logs, otherwise a fresh uuid is generated per request.
const RequestIdKey ctxKey = 1

// NewHTTPRepository returns Repository talking to the API at baseUrl.
// A nil client means http.DefaultClient, a nil logger means slog.Default().
func NewHTTPRepository(baseUrl *url.URL, client *http.Client, l *slog.Logger) Repository {
	if client == nil {
		client = http.DefaultClient
	}

	if l == nil {
		l = slog.Default()
	}

	return &httpRepo{base: baseUrl, c: client, l: l}
}

type httpRepo struct {
	base *url.URL
	c    *http.Client
	l    *slog.Logger
}

type call struct {
	op      string
	failMsg string
	method  string
	path    string
	bookId  int64
	hasId   bool
	payload any
}

func (r *httpRepo) List(ctx context.Context) ([]*types.Book, error) {
	var rows []*types.Book
	err := r.do(ctx, call{
		op:      "list",
		failMsg: "Error fetching books",
		method:  http.MethodGet,
		path:    pathBooks,
	}, &rows)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = make([]*types.Book, 0)
	}

	return rows, nil
}

func (r *httpRepo) GetById(ctx context.Context, id int64) (*types.Book, error) {
	var b types.Book
	err := r.do(ctx, call{
		op:      "get",
		failMsg: "Error fetching book with ID " + strconv.FormatInt(id, 10),
		method:  http.MethodGet,
		path:    bookPath(id),
		bookId:  id,
		hasId:   true,
	}, &b)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *httpRepo) Create(ctx context.Context, in *types.BookInput) (*types.Book, error) {
	var b types.Book
	err := r.do(ctx, call{
		op:      "create",
		failMsg: "Error creating book",
		method:  http.MethodPost,
		path:    pathBooks,
		payload: in,
	}, &b)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *httpRepo) Update(ctx context.Context, book *types.Book) (*types.Book, error) {
	var b types.Book
	err := r.do(ctx, call{
		op:      "update",
		failMsg: "Error updating book with ID " + strconv.FormatInt(book.Id, 10),
		method:  http.MethodPut,
		path:    bookPath(book.Id),
		bookId:  book.Id,
		hasId:   true,
		payload: book,
	}, &b)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *httpRepo) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, call{
		op:      "delete",
		failMsg: "Error deleting book with ID " + strconv.FormatInt(id, 10),
		method:  http.MethodDelete,
		path:    bookPath(id),
		bookId:  id,
		hasId:   true,
	}, nil)
}

func (r *httpRepo) Welcome(ctx context.Context) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	err := r.do(ctx, call{
		op:      "welcome",
		failMsg: "Error fetching API root",
		method:  http.MethodGet,
		path:    "/",
	}, &body)
	if err != nil {
		return "", err
	}

	return body.Message, nil
}

// do performs the call and logs its failure. The error goes back to the caller untouched.
func (r *httpRepo) do(ctx context.Context, c call, out any) error {
	requestId, ok := ctx.Value(RequestIdKey).(string)
	if !ok || requestId == "" {
		requestId = uuid.NewString()
		ctx = context.WithValue(ctx, RequestIdKey, requestId)
	}

	err := r.roundTrip(ctx, requestId, c, out)
	if err != nil {
		attrs := []slog.Attr{
			slog.String("op", c.op),
			slog.String("method", c.method),
			slog.String("path", c.path),
			slog.String("request_id", requestId),
		}
		if c.hasId {
			attrs = append(attrs, slog.Int64("book_id", c.bookId))
		}

		r.l.LogAttrs(ctx, slog.LevelError, c.failMsg+": "+err.Error(), attrs...)
	}

	return err
}

func (r *httpRepo) roundTrip(ctx context.Context, requestId string, c call, out any) error {
	var body io.Reader
	if c.payload != nil {
		bs, err := json.Marshal(c.payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, r.endpoint(c.path), body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentTypeJson)
	req.Header.Set("Accept", contentTypeJson)
	req.Header.Set(headerRequestId, requestId)

	r.l.DebugContext(ctx, "Sending "+c.method+" "+c.path)

	res, err := r.c.Do(req)
	if err != nil {
		return err
	}

	var bs []byte
	func() {
		defer res.Body.Close()
		bs, err = io.ReadAll(res.Body)
	}()

	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{
			Method:     c.method,
			Path:       c.path,
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       bs,
		}
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(bs, out)
}

// endpoint appends path to the base address, keeping any path prefix the base carries
func (r *httpRepo) endpoint(path string) string {
	u := *r.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}

func bookPath(id int64) string {
	return pathBooks + "/" + strconv.FormatInt(id, 10)
}
