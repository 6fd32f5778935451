package soup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	n := MustParse(strings.NewReader(`<ul><li>A</li><li>B</li></ul>`))
	if actual := n.All("li").Text(","); actual != "A,B" {
		t.Errorf("got %q, expected %q", actual, "A,B")
	}
}

func TestParseRepairsMalformedMarkup(t *testing.T) {
	// unclosed tags must not fail, tree repair is best effort
	n := MustParse(strings.NewReader(`<ul><li>A<li>B`))
	if actual := n.All("li").Len(); actual != 2 {
		t.Errorf("got %d li nodes, expected 2", actual)
	}
}

func TestText(t *testing.T) {
	n := MustParse(strings.NewReader(`<div>a<span>b</span><!-- c -->d</div>`))
	if actual := n.First("div").Text(); actual != "abd" {
		t.Errorf("got %q, expected %q", actual, "abd")
	}
}

func TestAttribute(t *testing.T) {
	n := MustParse(strings.NewReader(`<a href="/x" class="a b">link</a>`))
	a := n.First("a")
	if v, ok := a.Attribute("href"); !ok || v != "/x" {
		t.Errorf("got %q/%t, expected /x", v, ok)
	}
	if v, ok := a.Attribute("missing"); ok {
		t.Errorf("got %q, expected absent attribute", v)
	}
	if cs := a.ClassList(); !reflect.DeepEqual(cs, []string{"a", "b"}) {
		t.Errorf("got %#v, expected [a b]", cs)
	}
	if cs := n.First("html").ClassList(); !reflect.DeepEqual(cs, []string{}) {
		t.Errorf("got %#v, expected empty class list", cs)
	}
}

func TestName(t *testing.T) {
	n := MustParse(strings.NewReader(`<p>hi</p>`))
	if name := n.First("p").Name(); name != "p" {
		t.Errorf("got %q, expected p", name)
	}
	if _, ok := n.First("p").OwnText(); ok {
		t.Error("expected no own text for element node")
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul><li>A</li><li>B</li></ul>`)
	}))
	defer server.Close()
	f := &Fetcher{}
	n, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if actual := n.All("li").Text(""); actual != "AB" {
		t.Errorf("got %q, expected AB", actual)
	}
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()
	f := &Fetcher{}
	_, err := f.Fetch(context.Background(), server.URL)
	fetchErr := &FetchError{}
	if !errors.As(err, &fetchErr) || fetchErr.Status != http.StatusNotFound {
		t.Errorf("expected 404 FetchError, got %v", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()
	f := &Fetcher{Timeout: 50 * time.Millisecond}
	_, err := f.Fetch(context.Background(), server.URL)
	timeoutErr := &FetchTimeoutError{}
	if !errors.As(err, &timeoutErr) {
		t.Errorf("expected FetchTimeoutError, got %v", err)
	}
}

func TestFetchCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	f := &Fetcher{}
	_, err := f.Fetch(ctx, server.URL)
	fetchErr := &FetchError{}
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected FetchError after cancellation, got %v", err)
	}
}
