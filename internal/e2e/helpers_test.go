package e2e

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"formd/internal/contact"
	"formd/internal/httpapi"
	"formd/internal/linebot"
	"formd/internal/notify"
	"formd/internal/reservation"
	"formd/internal/storage/sqlite"
)

const e2eSecret = "e2e-channel-secret"

// lineMessage is the wire shape the fake Messaging API records.
type lineMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	AltText string `json:"altText"`
	QuickReply *struct {
		Items []struct {
			Action struct {
				Type string `json:"type"`
				Data string `json:"data"`
			} `json:"action"`
		} `json:"items"`
	} `json:"quickReply"`
	Template *struct {
		Type    string `json:"type"`
		Text    string `json:"text"`
		Actions []struct {
			Data string `json:"data"`
		} `json:"actions"`
	} `json:"template"`
}

type lineCall struct {
	Token    string
	To       string
	Messages []lineMessage
}

// lineCapture is a fake LINE Messaging API that records reply and push calls.
type lineCapture struct {
	mu      sync.Mutex
	replies []lineCall
	pushes  []lineCall
}

func (c *lineCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ReplyToken string        `json:"replyToken"`
			To         string        `json:"to"`
			Messages   []lineMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		switch r.URL.Path {
		case "/v2/bot/message/reply":
			c.replies = append(c.replies, lineCall{Token: body.ReplyToken, Messages: body.Messages})
		case "/v2/bot/message/push":
			c.pushes = append(c.pushes, lineCall{To: body.To, Messages: body.Messages})
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func (c *lineCapture) replyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.replies)
}

func (c *lineCapture) lastReply(t *testing.T) lineCall {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.replies) == 0 {
		t.Fatal("no replies captured")
	}
	return c.replies[len(c.replies)-1]
}

// waitPush polls until the fake API has received at least one push.
func (c *lineCapture) waitPush(t *testing.T) lineCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.pushes) > 0 {
			p := c.pushes[0]
			c.mu.Unlock()
			return p
		}
		c.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no push delivered within deadline")
	return lineCall{}
}

type stack struct {
	srv   *httptest.Server
	store *sqlite.Store
	line  *lineCapture
}

// newStack assembles the full service against a temp database and a fake
// LINE endpoint. now fixes the reservation clock for deterministic slots.
func newStack(t *testing.T, now func() time.Time) *stack {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "formd.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	line := &lineCapture{}
	lineSrv := httptest.NewServer(line.handler())
	t.Cleanup(lineSrv.Close)
	lc := &linebot.Client{Base: lineSrv.URL, Token: "e2e-token", HTTP: lineSrv.Client()}

	queue := notify.NewQueue(linebot.PushSink{Client: lc, To: "Uowner"}, 16, zerolog.Nop())
	queue.Start()
	t.Cleanup(queue.Stop)

	resvSvc, err := reservation.New(reservation.Config{Store: store, Notifier: queue, Now: now})
	if err != nil {
		t.Fatalf("reservation service: %v", err)
	}
	mux := httpapi.NewMux(httpapi.Config{
		Contact:     contact.NewService(store, queue),
		Reservation: resvSvc,
		Replier:     lc,
		LineSecret:  e2eSecret,
		Ready: func() bool {
			return store.Ping(context.Background()) == nil
		},
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &stack{srv: srv, store: store, line: line}
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func signE2E(body string) string {
	mac := hmac.New(sha256.New, []byte(e2eSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// postWebhook signs and delivers one webhook body to the stack.
func postWebhook(t *testing.T, s *stack, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.srv.URL+"/line/webhook", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signE2E(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp
}

func textEvent(userID, text string) string {
	b, _ := json.Marshal(map[string]any{
		"destination": "Ubot",
		"events": []map[string]any{{
			"type":       "message",
			"replyToken": "rtok-" + text,
			"timestamp":  1700000000000,
			"source":     map[string]string{"type": "user", "userId": userID},
			"message":    map[string]string{"id": "m1", "type": "text", "text": text},
		}},
	})
	return string(b)
}

func postbackEvent(userID, data string, params map[string]string) string {
	pb := map[string]any{"data": data}
	if params != nil {
		pb["params"] = params
	}
	b, _ := json.Marshal(map[string]any{
		"destination": "Ubot",
		"events": []map[string]any{{
			"type":       "postback",
			"replyToken": "rtok-" + data,
			"timestamp":  1700000000000,
			"source":     map[string]string{"type": "user", "userId": userID},
			"postback":   pb,
		}},
	})
	return string(b)
}
