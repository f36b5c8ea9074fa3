package testkit_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazinga/storefront/pkg/testkit"
)

func TestDoSendsJSONAndBearer(t *testing.T) {
	var gotAuth, gotType string
	var gotBody map[string]any

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"n":2}`))
	})

	res := testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		URL:    "/anything",
		Body:   map[string]any{"comicId": 7},
		Token:  "abc",
	})

	testkit.AssertStatus(t, res, http.StatusOK)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.EqualValues(t, 7, gotBody["comicId"])

	testkit.AssertJSONBody(t, `{"n": 2, "ok": true}`, res)
	testkit.AssertSubset(t, map[string]any{"ok": true}, res)
}

func TestDiffJSON(t *testing.T) {
	exp := map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}}
	act := map[string]interface{}{"a": 2.0, "b": []interface{}{"x", "y"}, "c": true}

	diffs := testkit.DiffJSON("", exp, act)
	assert.Len(t, diffs, 2)
}
