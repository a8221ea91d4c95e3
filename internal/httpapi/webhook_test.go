package httpapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"formd/internal/linebot"
)

const webhookSecret = "testsecret"

type mockReplier struct {
	tokens []string
	sent   [][]linebot.Message
	err    error
}

func (m *mockReplier) Reply(ctx context.Context, replyToken string, msgs []linebot.Message) error {
	m.tokens = append(m.tokens, replyToken)
	m.sent = append(m.sent, msgs)
	return m.err
}

func signWebhook(body string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(r http.Handler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/line/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const textEventBody = `{"destination":"Ubot","events":[{"type":"message","replyToken":"rtok-1","source":{"type":"user","userId":"U1"},"timestamp":1700000000000,"message":{"id":"m1","type":"text","text":"予約"}}]}`

func TestWebhookRepliesToTextMessage(t *testing.T) {
	res := &mockReservation{textMsgs: []linebot.Message{linebot.NewText("ご予約ですね。")}}
	rep := &mockReplier{}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	w := postWebhook(r, textEventBody, signWebhook(textEventBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "OK" {
		t.Fatalf("body=%q", w.Body.String())
	}
	if res.gotUser != "U1" || res.gotText != "予約" {
		t.Fatalf("handler got user=%q text=%q", res.gotUser, res.gotText)
	}
	if len(rep.tokens) != 1 || rep.tokens[0] != "rtok-1" {
		t.Fatalf("reply tokens=%v", rep.tokens)
	}
	if len(rep.sent) != 1 || len(rep.sent[0]) != 1 {
		t.Fatalf("sent=%v", rep.sent)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	res := &mockReservation{}
	rep := &mockReplier{}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	for name, sig := range map[string]string{"missing": "", "bogus": "Ym9ndXM="} {
		w := postWebhook(r, textEventBody, sig)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s signature: status=%d", name, w.Code)
		}
	}
	if res.textCalls != 0 || len(rep.tokens) != 0 {
		t.Fatalf("handler ran on rejected request: calls=%d tokens=%v", res.textCalls, rep.tokens)
	}
}

func TestWebhookBadPayloadMaps500(t *testing.T) {
	r := NewMux(Config{Reservation: &mockReservation{}, Replier: &mockReplier{}, LineSecret: webhookSecret})
	body := "not-json"
	w := postWebhook(r, body, signWebhook(body))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestWebhookRoutesPostback(t *testing.T) {
	res := &mockReservation{pbMsgs: []linebot.Message{linebot.NewText("18時ですね。")}}
	rep := &mockReplier{}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	body := `{"events":[{"type":"postback","replyToken":"rtok-2","source":{"type":"user","userId":"U1"},"postback":{"data":"select_datetime","params":{"datetime":"2026-09-01T18:00"}}}]}`
	w := postWebhook(r, body, signWebhook(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if res.pbCalls != 1 || res.gotData != "select_datetime" {
		t.Fatalf("postback calls=%d data=%q", res.pbCalls, res.gotData)
	}
	if res.gotParams["datetime"] != "2026-09-01T18:00" {
		t.Fatalf("params=%v", res.gotParams)
	}
	if len(rep.tokens) != 1 || rep.tokens[0] != "rtok-2" {
		t.Fatalf("reply tokens=%v", rep.tokens)
	}
}

func TestWebhookSkipsUnhandledEventTypes(t *testing.T) {
	res := &mockReservation{textMsgs: []linebot.Message{linebot.NewText("どうも")}}
	rep := &mockReplier{}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	body := `{"events":[{"type":"follow","replyToken":"rtok-0","source":{"type":"user","userId":"U1"}},{"type":"message","replyToken":"rtok-1","source":{"type":"user","userId":"U1"},"message":{"id":"m1","type":"text","text":"こんにちは"}}]}`
	w := postWebhook(r, body, signWebhook(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if res.textCalls != 1 {
		t.Fatalf("text calls=%d", res.textCalls)
	}
	if len(rep.tokens) != 1 || rep.tokens[0] != "rtok-1" {
		t.Fatalf("reply tokens=%v", rep.tokens)
	}
}

func TestWebhookHandlerErrorMaps500(t *testing.T) {
	res := &mockReservation{textErr: context.DeadlineExceeded}
	rep := &mockReplier{}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	w := postWebhook(r, textEventBody, signWebhook(textEventBody))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	if len(rep.tokens) != 0 {
		t.Fatalf("reply tokens=%v", rep.tokens)
	}
}

func TestWebhookReplyFailureStillAcks(t *testing.T) {
	res := &mockReservation{textMsgs: []linebot.Message{linebot.NewText("どうも")}}
	rep := &mockReplier{err: context.DeadlineExceeded}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	w := postWebhook(r, textEventBody, signWebhook(textEventBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestWebhookNoReplyWithoutMessages(t *testing.T) {
	res := &mockReservation{}
	rep := &mockReplier{}
	r := NewMux(Config{Reservation: res, Replier: rep, LineSecret: webhookSecret})

	w := postWebhook(r, textEventBody, signWebhook(textEventBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if len(rep.tokens) != 0 {
		t.Fatalf("reply tokens=%v", rep.tokens)
	}
}

func TestWebhookNotMountedWithoutCredentials(t *testing.T) {
	r := NewMux(Config{Reservation: &mockReservation{}})
	w := postWebhook(r, textEventBody, signWebhook(textEventBody))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}
