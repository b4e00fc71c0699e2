package api

import (
	"encoding/json"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHttpClient is a Doer that records the request and replays a canned response
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error

	// DoFunc, when set, overrides Response/Err
	DoFunc func(req *fhttp.Request) (*fhttp.Response, error)

	LastRequest *fhttp.Request
	LastBody    []byte
	Calls       int
}

// Do implements the Doer interface
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Calls++
	m.LastRequest = req
	if req.Body != nil {
		m.LastBody, _ = io.ReadAll(req.Body)
	}
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return m.Response, m.Err
}

// jsonResponse builds a response with the given status and body
func jsonResponse(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{"Content-Type": []string{"application/json"}},
		Body:       NewMockResponseBody([]byte(body)),
	}
}

// answerResponse builds a 200 response carrying answer the way the backend encodes it
func answerResponse(answer string) *fhttp.Response {
	body, _ := json.Marshal(map[string]string{PathAnswer: answer})
	return jsonResponse(200, string(body))
}
