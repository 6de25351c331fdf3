package provider_test

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

type capture struct {
	mu     sync.Mutex
	method string
	url    string
	body   []byte
	calls  int
}

// fakeTransport answers every request with a canned response and records the last request.
type fakeTransport struct {
	respStatus  int
	respBody    []byte
	contentType string
	captured    *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if f.captured != nil {
		f.captured.mu.Lock()
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.body = b
		f.captured.calls++
		f.captured.mu.Unlock()
	}
	ct := f.contentType
	if ct == "" {
		ct = "application/json"
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", ct)
	return resp, nil
}

func httpClient(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt}
}
