package fieldsearch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

type HTTPError interface {
	error
	StatusCode() int
}

// StatusError lets a guard choose the response status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type searchResponse struct {
	Data []library.Match `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds a handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		lib := opts.Library
		if lib == nil {
			lib = library.Default()
		}

		q := r.URL.Query()
		category := library.Category(strings.TrimSpace(q.Get(opts.CategoryParam)))
		if category != "" && !lib.HasCategory(category) {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "unknown category " + strconv.Quote(string(category))})
			return
		}

		results := lib.Search(q.Get(opts.SearchParam), parseInt(q.Get(opts.LimitParam)), opts.searchOptions(category))
		if results == nil {
			results = []library.Match{}
		}
		writeJSON(w, r, http.StatusOK, searchResponse{Data: results})
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if c := httpErr.StatusCode(); c > 0 {
			code = c
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: http.StatusText(code)})
}

// parseInt reads the limit parameter; anything unparsable means "default".
func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	return value
}
