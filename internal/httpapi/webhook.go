package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"formd/internal/linebot"
)

// webhookHandler verifies and processes LINE webhook requests. The signature
// is checked against the raw body before any parsing.
//
// @Summary      Process LINE webhook events
// @Description  Receives LINE Messaging API webhook events. The request body must be signed with the channel secret.
// @Tags         line
// @Accept       json
// @Produce      plain
// @Param        X-Line-Signature  header  string  true  "Base64 HMAC-SHA256 of the raw body"
// @Success      200  {string}  string  "OK"
// @Failure      400  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /line/webhook [post]
func webhookHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			IncrementWebhookReject("unreadable_body")
			writeJSONError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		logDebugBody(r, "line webhook", body)

		sig := r.Header.Get("X-Line-Signature")
		if !linebot.ValidateSignature(cfg.LineSecret, body, sig) {
			IncrementWebhookReject("bad_signature")
			writeJSONError(w, http.StatusBadRequest, "invalid signature")
			logEnd(r, "line webhook", http.StatusBadRequest, start, nil)
			return
		}

		req, err := linebot.ParseWebhook(body)
		if err != nil {
			IncrementWebhookReject("bad_payload")
			writeJSONError(w, http.StatusInternalServerError, "failed to process webhook")
			logEnd(r, "line webhook", http.StatusInternalServerError, start, err)
			return
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if webhookTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, time.Duration(webhookTimeout)*time.Second)
			defer tcancel()
		}

		for _, ev := range req.Events {
			var msgs []linebot.Message
			var err error
			switch {
			case ev.Type == "message" && ev.Message != nil && ev.Message.Type == "text":
				IncrementWebhookEvent("message")
				msgs, err = cfg.Reservation.HandleText(ctx, ev.Source.UserID, ev.Message.Text)
			case ev.Type == "postback" && ev.Postback != nil:
				IncrementWebhookEvent("postback")
				msgs, err = cfg.Reservation.HandlePostback(ctx, ev.Source.UserID, ev.Postback.Data, ev.Postback.Params)
			default:
				IncrementWebhookEvent(ev.Type)
				continue
			}
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "failed to process webhook")
				logEnd(r, "line webhook", http.StatusInternalServerError, start, err)
				return
			}
			if len(msgs) == 0 {
				continue
			}
			if err := cfg.Replier.Reply(ctx, ev.ReplyToken, msgs); err != nil {
				// Reply tokens are single use, so there is nothing to retry.
				if zlog != nil {
					zlog.Error().Err(err).Msg("line reply failed")
				}
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		logEnd(r, "line webhook", http.StatusOK, start, nil)
	}
}
