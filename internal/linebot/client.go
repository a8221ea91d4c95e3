package linebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBase is the production Messaging API endpoint. Tests point Base at a
// local server instead.
const DefaultBase = "https://api.line.me"

// Client calls the LINE Messaging API with a channel access token.
type Client struct {
	Base  string
	Token string
	HTTP  *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		Base:  DefaultBase,
		Token: token,
		HTTP:  &http.Client{Timeout: 10 * time.Second},
	}
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Reply answers a webhook event. Reply tokens are single use and expire
// quickly, so failures are not retried.
func (c *Client) Reply(ctx context.Context, replyToken string, msgs []Message) error {
	return c.post(ctx, "/v2/bot/message/reply", replyRequest{ReplyToken: replyToken, Messages: msgs})
}

// Push sends messages to a user outside of a reply context.
func (c *Client) Push(ctx context.Context, to string, msgs []Message) error {
	return c.post(ctx, "/v2/bot/message/push", pushRequest{To: to, Messages: msgs})
}

func (c *Client) post(ctx context.Context, path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("line post %s: %s", path, resp.Status)
	}
	return nil
}
