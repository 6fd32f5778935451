package gq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/niklasfasching/webq/soup"
	"github.com/stretchr/testify/require"
)

func TestEvalSelectFanOut(t *testing.T) {
	url := serve(t, `<ul><li>A</li><li>B</li></ul>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { select(select: "li") { t: text } }`, url))
	require.Equal(t, `{"select":[{"t":"A"},{"t":"B"}]}`, bs)
}

func TestEvalQuerySelectorMiss(t *testing.T) {
	url := serve(t, `<p>no such id</p>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { q: querySelector(select: "#missing") { text } }`, url))
	require.Equal(t, `{"q":null}`, bs)
}

func TestEvalQuerySelectorFirstMatch(t *testing.T) {
	url := serve(t, `<p>one</p><p>two</p>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { p: querySelector(select: "p") { text } }`, url))
	require.Equal(t, `{"p":{"text":"one"}}`, bs)
}

func TestEvalSelectorNegation(t *testing.T) {
	url := serve(t, `<ul><li class="a">one</li><li class="delimiter">|</li><li>two</li></ul>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { select(select: "li:not(.delimiter)") { t: text } }`, url))
	require.Equal(t, `{"select":[{"t":"one"},{"t":"two"}]}`, bs)
}

func TestEvalCompoundSelector(t *testing.T) {
	url := serve(t, `<ul><li class="a">one</li><li>two</li></ul><p class="a">not a li</p>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { select(select: "li.a") { t: text } }`, url))
	require.Equal(t, `{"select":[{"t":"one"}]}`, bs)
}

func TestEvalAttributes(t *testing.T) {
	url := serve(t, `<a href="/x" class="a b" data-k="v">link</a>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) {
	  a: querySelector(select: "a") {
	    href
	    k: attr(attr: "data-k")
	    missing: attr(attr: "nope")
	    name
	    class
	  }
	}`, url))
	require.Equal(t, `{"a":{"href":"/x","k":"v","missing":null,"name":"a","class":["a","b"]}}`, bs)
}

func TestEvalHTML(t *testing.T) {
	url := serve(t, `<p><b>x</b></p>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { p: querySelector(select: "p") { html thisText } }`, url))
	require.Equal(t, `{"p":{"html":"<p><b>x</b></p>","thisText":null}}`, bs)
}

func TestEvalEmptySelection(t *testing.T) {
	// zero matches is an empty array, not an error
	url := serve(t, `<p>no list here</p>`)
	bs := eval(t, fmt.Sprintf(`get(url: %q) { select(select: "li") { t: text } }`, url))
	require.Equal(t, `{"select":[]}`, bs)
}

func TestEvalFieldOrder(t *testing.T) {
	url := serve(t, `<ul><li>A</li></ul>`)
	query := fmt.Sprintf(`get(url: %q) {
	  li: querySelector(select: "li") { z: text y: name x: html w: class }
	  all: select(select: "li") { text }
	}`, url)
	expected := `{"li":{"z":"A","y":"li","x":"<li>A</li>","w":[]},"all":[{"text":"A"}]}`
	// sibling fields evaluate concurrently; declared order must hold anyway
	for i := 0; i < 10; i++ {
		require.Equal(t, expected, eval(t, query))
	}
}

func TestEvalFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()
	c, err := Parse(fmt.Sprintf(`get(url: %q) { select(select: "li") { text } }`, server.URL))
	require.NoError(t, err)
	ev := &Evaluator{Fetcher: &soup.Fetcher{}}
	_, err = ev.Eval(context.Background(), c)
	fetchErr := &soup.FetchError{}
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestEvalValidatesBeforeFetching(t *testing.T) {
	fetched := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
	}))
	defer server.Close()
	c, err := Parse(fmt.Sprintf(`get(url: %q) { frob }`, server.URL))
	require.NoError(t, err)
	ev := &Evaluator{Fetcher: &soup.Fetcher{}}
	_, err = ev.Eval(context.Background(), c)
	unknownErr := &UnknownFunctionError{}
	require.True(t, errors.As(err, &unknownErr))
	require.False(t, fetched)
}

func TestEvalIsIdempotent(t *testing.T) {
	url := serve(t, `<ul><li>A</li><li>B</li><li>C</li></ul>`)
	query := fmt.Sprintf(`get(url: %q) { select(select: "li") { t: text n: name } }`, url)
	first := eval(t, query)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, eval(t, query))
	}
}

func serve(t *testing.T, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func eval(t *testing.T, query string) string {
	t.Helper()
	c, err := Parse(query)
	require.NoError(t, err)
	ev := &Evaluator{Fetcher: &soup.Fetcher{}}
	v, err := ev.Eval(context.Background(), c)
	require.NoError(t, err)
	bs, err := Render(v)
	require.NoError(t, err)
	return string(bs)
}
