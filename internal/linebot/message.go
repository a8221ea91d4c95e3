package linebot

import "strings"

// Message is any outgoing LINE message. The concrete types marshal to the
// Messaging API wire format.
type Message interface{ message() }

type TextMessage struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	QuickReply *QuickReply `json:"quickReply,omitempty"`
}

func (TextMessage) message() {}

type TemplateMessage struct {
	Type     string          `json:"type"`
	AltText  string          `json:"altText"`
	Template ConfirmTemplate `json:"template"`
}

func (TemplateMessage) message() {}

type ConfirmTemplate struct {
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Actions []Action `json:"actions"`
}

// Action covers the action kinds the bot emits: "postback" buttons and the
// "datetimepicker" quick reply.
type Action struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Data        string `json:"data"`
	DisplayText string `json:"displayText,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

// NewText builds a plain text message.
func NewText(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// NewTextWithQuickReply builds a text message carrying a quick reply bar.
func NewTextWithQuickReply(text string, qr *QuickReply) TextMessage {
	return TextMessage{Type: "text", Text: text, QuickReply: qr}
}

// NewConfirm builds a yes/no confirm template. The first line of text becomes
// the alt text shown on devices that cannot render templates.
func NewConfirm(text, yesLabel, yesData, noLabel, noData string) TemplateMessage {
	alt := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		alt = text[:i]
	}
	return TemplateMessage{
		Type:    "template",
		AltText: alt,
		Template: ConfirmTemplate{
			Type: "confirm",
			Text: text,
			Actions: []Action{
				{Type: "postback", Label: yesLabel, Data: yesData, DisplayText: yesLabel},
				{Type: "postback", Label: noLabel, Data: noData, DisplayText: noLabel},
			},
		},
	}
}

// NewDatetimePicker builds a quick reply with a single datetime picker action.
func NewDatetimePicker(label, data string) *QuickReply {
	return &QuickReply{Items: []QuickReplyItem{{
		Type:   "action",
		Action: Action{Type: "datetimepicker", Label: label, Data: data, Mode: "datetime"},
	}}}
}
