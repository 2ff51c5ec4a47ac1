package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"bookcatalog/internal/books"
	"bookcatalog/internal/types"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usageText = `Usage: bookctl COMMAND [ARGS]

Commands:
  ping                                  check the API answers
  list   [-format text|json|opds]       list all books
  get    ID [-format text|json]         show one book
  create -title T -author A -year Y -genre G -description D
  update ID [-title T] [-author A] [-year Y] [-genre G] [-description D]
  delete ID

Environment:
  BOOKS_API_URL  API base address (default http://localhost:8000)
  LOG_LEVEL      debug, info, warn or error (default info)
  LOG_FORMAT     text or json (default text)
  HTTP_TRACE     log every HTTP round trip when yes/on/true
`

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

type app struct {
	repo   books.Repository
	base   *url.URL
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		_, _ = io.WriteString(a.stderr, usageText)
		return exitUsage
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "ping":
		err = a.ping(ctx, rest)
	case "list":
		err = a.list(ctx, rest)
	case "get":
		err = a.get(ctx, rest)
	case "create":
		err = a.create(ctx, rest)
	case "update":
		err = a.update(ctx, rest)
	case "delete":
		err = a.delete(ctx, rest)
	case "help", "-h", "-help", "--help":
		_, _ = io.WriteString(a.stdout, usageText)
		return exitOK
	default:
		err = &usageError{msg: "unknown command " + strconv.Quote(cmd)}
	}

	if err == nil {
		return exitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(a.stderr, "bookctl: %s\n\n%s", ue.msg, usageText)
		return exitUsage
	}

	msg := err.Error()
	var se *books.StatusError
	if errors.As(err, &se) && se.Detail() != "" {
		msg += ": " + se.Detail()
	}
	fmt.Fprintf(a.stderr, "bookctl: %s\n", msg)

	return exitError
}

func (a *app) ping(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return &usageError{msg: "ping takes no arguments"}
	}

	msg, err := a.repo.Welcome(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, msg)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	format := fs.String("format", formatText, "output format: text, json or opds")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	if fs.NArg() != 0 {
		return &usageError{msg: "list takes no positional arguments"}
	}

	if !validFormat(*format, formatText, formatJson, formatOpds) {
		return &usageError{msg: "unknown format " + strconv.Quote(*format)}
	}

	rows, err := a.repo.List(ctx)
	if err != nil {
		return err
	}

	return a.renderList(rows, *format)
}

func (a *app) get(ctx context.Context, args []string) error {
	id, rest, err := takeId("get", args)
	if err != nil {
		return err
	}

	fs := a.flagSet("get")
	format := fs.String("format", formatText, "output format: text or json")
	if err := a.parse(fs, rest); err != nil {
		return err
	}

	if !validFormat(*format, formatText, formatJson) {
		return &usageError{msg: "unknown format " + strconv.Quote(*format)}
	}

	b, err := a.repo.GetById(ctx, id)
	if err != nil {
		return err
	}

	return a.renderBook(b, *format)
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := a.flagSet("create")
	var in types.BookInput
	bindInput(fs, &in)
	if err := a.parse(fs, args); err != nil {
		return err
	}

	if fs.NArg() != 0 {
		return &usageError{msg: "create takes no positional arguments"}
	}

	b, err := a.repo.Create(ctx, &in)
	if err != nil {
		return err
	}

	return a.renderBook(b, formatText)
}

// update fills the fields not given on the command line from the stored record,
// the API expects the whole record
func (a *app) update(ctx context.Context, args []string) error {
	id, rest, err := takeId("update", args)
	if err != nil {
		return err
	}

	fs := a.flagSet("update")
	var in types.BookInput
	bindInput(fs, &in)
	if err := a.parse(fs, rest); err != nil {
		return err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if len(set) == 0 {
		return &usageError{msg: "update needs at least one field flag"}
	}

	b := &types.Book{Id: id, BookInput: in}
	if len(set) < 5 {
		current, err := a.repo.GetById(ctx, id)
		if err != nil {
			return err
		}
		b = mergeInput(current, in, set)
	}

	updated, err := a.repo.Update(ctx, b)
	if err != nil {
		return err
	}

	return a.renderBook(updated, formatText)
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, rest, err := takeId("delete", args)
	if err != nil {
		return err
	}

	if len(rest) != 0 {
		return &usageError{msg: "delete takes only the book ID"}
	}

	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Deleted book %d\n", id)
	return nil
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return &usageError{msg: fs.Name() + ": " + err.Error()}
	}

	return nil
}

func bindInput(fs *flag.FlagSet, in *types.BookInput) {
	fs.StringVar(&in.Title, "title", "", "book title")
	fs.StringVar(&in.Author, "author", "", "book author")
	fs.IntVar(&in.Year, "year", 0, "publication year")
	fs.StringVar(&in.Genre, "genre", "", "genre")
	fs.StringVar(&in.Description, "description", "", "description")
}

func mergeInput(current *types.Book, in types.BookInput, set map[string]bool) *types.Book {
	b := *current
	if set["title"] {
		b.Title = in.Title
	}
	if set["author"] {
		b.Author = in.Author
	}
	if set["year"] {
		b.Year = in.Year
	}
	if set["genre"] {
		b.Genre = in.Genre
	}
	if set["description"] {
		b.Description = in.Description
	}

	return &b
}

func takeId(cmd string, args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, &usageError{msg: cmd + " needs a book ID"}
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, nil, &usageError{msg: "invalid book ID " + strconv.Quote(args[0])}
	}

	return id, args[1:], nil
}
