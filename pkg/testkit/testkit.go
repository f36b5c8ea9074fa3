// Package testkit holds helpers shared by the storefront's tests: a
// migrated SQLite database per test and a small JSON request driver for
// http.Handlers.
//
//	db := testkit.OpenDB(t, migrations.Apply)
//	res := testkit.Do(t, handler, testkit.Request{
//	    Method: http.MethodPost,
//	    URL:    "/api/cart",
//	    Body:   map[string]any{"comicId": 1},
//	    Token:  token,
//	})
//	testkit.AssertStatus(t, res, http.StatusOK)
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazinga/storefront/pkg/database"
)

// OpenDB opens a SQLite database in a temp file owned by t and applies
// migrate to it. The pool is closed on cleanup.
func OpenDB(t testing.TB, migrate func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "testkit: open sqlite")
	t.Cleanup(func() { _ = database.Close(db) })

	if migrate != nil {
		require.NoError(t, migrate(db), "testkit: migrate")
	}
	return db
}

// Request describes one call fired by Do. Body is JSON-encoded unless it is
// already an io.Reader, in which case ContentType should be set.
type Request struct {
	Method      string
	URL         string
	Body        any
	Token       string
	ContentType string
	Headers     map[string]string
}

// Do fires req against handler and returns the recorded response.
func Do(t testing.TB, handler http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	contentType := req.ContentType
	switch b := req.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "testkit: encode request body")
		body = bytes.NewReader(data)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := httptest.NewRequest(method, req.URL, body)
	r.Header.Set("Accept", "application/json")
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}
