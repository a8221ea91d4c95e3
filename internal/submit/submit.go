// Package submit posts contact form submissions the same way the contact page
// does: a single multipart POST with Accept: application/json, and exactly one
// outcome per attempt. Failures are never retried.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"time"

	"formd/pkg/types"
)

// Outcome classifies one submission attempt.
type Outcome int

const (
	// Success means the server answered with a 2xx status.
	Success Outcome = iota
	// HTTPFailure means the server answered with a non-2xx status.
	HTTPFailure
	// NetworkFailure means no response arrived at all.
	NetworkFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case HTTPFailure:
		return "http_failure"
	case NetworkFailure:
		return "network_failure"
	}
	return "unknown"
}

// User-facing failure messages, matching the contact page script.
const (
	MsgHTTPFailure    = "送信に失敗しました。"
	MsgNetworkFailure = "通信エラーが発生しました。"
)

// Result describes one submission attempt.
type Result struct {
	Outcome Outcome
	Status  int    // HTTP status when a response arrived
	ID      int64  // stored submission id on success
	Message string // user-facing message for failures
}

// Form is the data to submit. Name, Email, Phone, Subject and Message are
// always sent, mirroring the browser form, even when empty.
type Form struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	Fields      map[string]string // extra form fields
	Attachments []Attachment
}

// Attachment is one file part.
type Attachment struct {
	FieldName string // defaults to "attachment"
	Filename  string
	Reader    io.Reader
}

// Client posts submissions to a form endpoint.
type Client struct {
	URL  string // form action URL
	HTTP *http.Client
}

func NewClient(url string) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Submit performs one attempt. Transport and HTTP failures are reported in
// the Result, not as an error; err is reserved for failing to build the
// request in the first place.
func (c *Client) Submit(ctx context.Context, form Form) (Result, error) {
	body, contentType, err := encodeMultipart(form)
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return Result{Outcome: NetworkFailure, Message: MsgNetworkFailure}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Result{Outcome: HTTPFailure, Status: resp.StatusCode, Message: MsgHTTPFailure}, nil
	}

	res := Result{Outcome: Success, Status: resp.StatusCode}
	var accepted types.ContactResponse
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err == nil {
		res.ID = accepted.ID
	}
	return res, nil
}

func encodeMultipart(form Form) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"email", form.Email},
		{"phone", form.Phone},
		{"subject", form.Subject},
		{"message", form.Message},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	extra := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		if err := w.WriteField(k, form.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, a := range form.Attachments {
		field := a.FieldName
		if field == "" {
			field = "attachment"
		}
		part, err := w.CreateFormFile(field, a.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, a.Reader); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
