package testkit

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatus checks the response code and prints the body on mismatch.
func AssertStatus(t testing.TB, res *httptest.ResponseRecorder, want int) bool {
	t.Helper()
	return assert.Equal(t, want, res.Code, "HTTP status mismatch\nbody: %s", res.Body.String())
}

// Decode unmarshals the response body into a fresh T.
func Decode[T any](t testing.TB, res *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out), "decode body: %s", res.Body.String())
	return out
}

// AssertJSONBody compares the response body with expected after normalising
// both through json.Unmarshal, so key order and whitespace never matter.
func AssertJSONBody(t testing.TB, expected string, res *httptest.ResponseRecorder) {
	t.Helper()

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expVal), "expected body is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &actVal), "actual body is not valid JSON\nbody: %s", res.Body.String()) {
		return
	}

	if !assert.Equal(t, expVal, actVal, "response body mismatch") {
		t.Logf("diff:\n%s", strings.Join(DiffJSON("", expVal, actVal), "\n"))
	}
}

// AssertSubset checks that every key in expected appears in the response
// body object with an equal value. Extra keys in the body are ignored.
func AssertSubset(t testing.TB, expected map[string]any, res *httptest.ResponseRecorder) {
	t.Helper()

	var actual interface{}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &actual), "decode body: %s", res.Body.String())

	exp, err := json.Marshal(expected)
	require.NoError(t, err)
	var expVal interface{}
	require.NoError(t, json.Unmarshal(exp, &expVal))

	if diffs := DiffJSON("", expVal, actual); len(diffs) > 0 {
		t.Errorf("response body does not contain expected fields:\n%s", strings.Join(diffs, "\n"))
	}
}

// DiffJSON lists the places where actual lacks or differs from expected.
// Keys present only in actual are not reported.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
