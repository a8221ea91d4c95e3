package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"formd/internal/linebot"
	"formd/internal/notify"
	"formd/pkg/types"
)

// Conversation states as stored in user_states.state.
const (
	stateAskingDatetime = "ASKING_DATETIME"
	stateAskingPeople   = "ASKING_PEOPLE"
	stateConfirming     = "CONFIRMING_RESERVATION"
)

const (
	// pickerLayout is what the LINE datetime picker sends.
	pickerLayout = "2006-01-02T15:04"
	// storedLayout is how slots are kept in state and in the database.
	storedLayout = "2006-01-02T15:04:05"
	// displayLayout is how slots are shown to the user.
	displayLayout = "2006年01月02日 15時04分"
)

// pending is the in-progress reservation carried between messages.
type pending struct {
	DatetimeISO string `json:"datetime_obj_iso,omitempty"`
	People      int    `json:"people,omitempty"`
}

// HandleText advances the conversation for a plain text message and returns
// the replies. An empty slice means no reply.
func (s *Service) HandleText(ctx context.Context, userID, text string) ([]linebot.Message, error) {
	text = strings.TrimSpace(text)
	state, data, _, err := s.store.GetUserState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if text == "予約" {
		if err := s.store.SetUserState(ctx, userID, stateAskingDatetime, nil); err != nil {
			return nil, err
		}
		qr := linebot.NewDatetimePicker("日時を選択", "select_datetime")
		return []linebot.Message{
			linebot.NewTextWithQuickReply("ご予約ですね。ご希望の日時を選択してください。", qr),
		}, nil
	}

	if state == stateAskingPeople {
		return s.handlePeople(ctx, userID, text, data)
	}

	return []linebot.Message{
		linebot.NewText("「" + text + "」ですね。\n「予約」と入力すると予約を開始できます。"),
	}, nil
}

func (s *Service) handlePeople(ctx context.Context, userID, text string, data []byte) ([]linebot.Message, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return []linebot.Message{linebot.NewText("人数を正しく入力してください (例: 2)。")}, nil
	}
	if n < s.set.MinPeople || n > s.set.MaxPeople {
		msg := fmt.Sprintf("人数を正しく入力してください (例: 2)。\nエラー: 人数は%d名から%d名の間で入力してください。",
			s.set.MinPeople, s.set.MaxPeople)
		return []linebot.Message{linebot.NewText(msg)}, nil
	}

	p := s.decodePending(userID, data)
	p.People = n
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetUserState(ctx, userID, stateConfirming, raw); err != nil {
		s.log.Error().Err(err).Str("user", userID).Msg("save party size failed")
		_ = s.store.DeleteUserState(ctx, userID)
		return []linebot.Message{linebot.NewText("エラーが発生しました。もう一度お試しください。")}, nil
	}

	display := "未選択"
	if p.DatetimeISO != "" {
		if at, err := time.ParseInLocation(storedLayout, p.DatetimeISO, time.Local); err == nil {
			display = at.Format(displayLayout)
		}
	}
	confirm := fmt.Sprintf("以下の内容で予約しますか？\n日時: %s\n人数: %d名様", display, n)
	return []linebot.Message{
		linebot.NewConfirm(confirm, "はい", "confirm_yes", "いいえ", "confirm_no"),
	}, nil
}

// HandlePostback advances the conversation for a postback action. Unknown or
// out-of-sequence postbacks return no reply.
func (s *Service) HandlePostback(ctx context.Context, userID, data string, params map[string]string) ([]linebot.Message, error) {
	state, raw, _, err := s.store.GetUserState(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := s.decodePending(userID, raw)

	switch {
	case data == "select_datetime":
		return s.handleDatetime(ctx, userID, state, p, params)
	case data == "confirm_yes" && state == stateConfirming:
		return s.handleConfirm(ctx, userID, p)
	case data == "confirm_no" && state == stateConfirming:
		if err := s.store.DeleteUserState(ctx, userID); err != nil {
			return nil, err
		}
		reservationsTotal.WithLabelValues("cancelled").Inc()
		return []linebot.Message{
			linebot.NewText("予約をキャンセルしました。最初からやり直す場合は「予約」と入力してください。"),
		}, nil
	}
	return nil, nil
}

func (s *Service) handleDatetime(ctx context.Context, userID, state string, p pending, params map[string]string) ([]linebot.Message, error) {
	if state != stateAskingDatetime {
		if err := s.store.DeleteUserState(ctx, userID); err != nil {
			return nil, err
		}
		return []linebot.Message{
			linebot.NewText("予期せぬ操作です。最初から「予約」と入力してください。"),
		}, nil
	}

	raw := params["datetime"]
	if raw == "" {
		return []linebot.Message{linebot.NewText("日時が選択されませんでした。")}, nil
	}
	at, err := time.ParseInLocation(pickerLayout, raw, time.Local)
	if err != nil {
		return []linebot.Message{linebot.NewText("日時の形式が正しくありません。もう一度選択してください。")}, nil
	}

	if at.Before(s.now().Add(s.set.MinLead)) {
		msg := fmt.Sprintf("過去の日時、または直近すぎる時間は指定できません。%d分後以降でお願いします。",
			int(s.set.MinLead.Minutes()))
		return []linebot.Message{linebot.NewText(msg)}, nil
	}
	if !s.set.withinHours(at) {
		msg := fmt.Sprintf("申し訳ありません。その時間は営業時間外です。\n(営業時間: %s～%s)",
			s.set.OpenTime, s.set.CloseTime)
		return []linebot.Message{linebot.NewText(msg)}, nil
	}
	if !s.set.onGrid(at) {
		msg := fmt.Sprintf("申し訳ありません。ご予約は%d分単位で承っております。(例: 10:00, 10:30)",
			s.set.SlotMinutes)
		return []linebot.Message{linebot.NewText(msg)}, nil
	}

	count, err := s.store.CountConfirmedAt(ctx, at)
	if err != nil {
		s.log.Error().Err(err).Msg("slot availability check failed")
		return []linebot.Message{linebot.NewText("日時の処理中にエラーが発生しました。")}, nil
	}
	if count >= s.set.Capacity {
		return []linebot.Message{
			linebot.NewText("申し訳ありません。その時間帯は既に満席です。別の日時をお試しください。"),
		}, nil
	}

	p.DatetimeISO = at.Format(storedLayout)
	next, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetUserState(ctx, userID, stateAskingPeople, next); err != nil {
		s.log.Error().Err(err).Msg("save selected slot failed")
		return []linebot.Message{linebot.NewText("日時の処理中にエラーが発生しました。")}, nil
	}
	return []linebot.Message{
		linebot.NewText(at.Format(displayLayout) + "ですね。次に、ご希望の人数を半角数字で入力してください。(例: 2)"),
	}, nil
}

func (s *Service) handleConfirm(ctx context.Context, userID string, p pending) ([]linebot.Message, error) {
	if p.DatetimeISO == "" || p.People == 0 {
		if err := s.store.DeleteUserState(ctx, userID); err != nil {
			return nil, err
		}
		return []linebot.Message{
			linebot.NewText("予約情報が不足しています。最初からやり直してください。"),
		}, nil
	}
	at, err := time.ParseInLocation(storedLayout, p.DatetimeISO, time.Local)
	if err != nil {
		return nil, err
	}

	// The slot may have filled while the user was deciding.
	count, err := s.store.CountConfirmedAt(ctx, at)
	if err != nil {
		return nil, err
	}
	if count >= s.set.Capacity {
		if err := s.store.DeleteUserState(ctx, userID); err != nil {
			return nil, err
		}
		reservationsTotal.WithLabelValues("slot_full").Inc()
		return []linebot.Message{
			linebot.NewText("申し訳ありません。最終確認中に満席となってしまいました。お手数ですが、別の日時で再度お試しください。"),
		}, nil
	}

	if _, err := s.store.InsertReservation(ctx, types.Reservation{
		UserID:     userID,
		ReservedAt: at,
		NumPeople:  p.People,
		Status:     "confirmed",
	}); err != nil {
		s.log.Error().Err(err).Str("user", userID).Msg("create reservation failed")
		return []linebot.Message{
			linebot.NewText("申し訳ありません、予約の処理中にエラーが発生しました。お手数ですが、少し時間をおいて再度お試しください。"),
		}, nil
	}

	reservationsTotal.WithLabelValues("confirmed").Inc()

	s.pub.Publish(notify.Event{
		Kind:  "reservation",
		Title: "新しい予約が入りました",
		Body:  fmt.Sprintf("日時: %s\n人数: %d名様", at.Format(displayLayout), p.People),
	})
	if err := s.store.DeleteUserState(ctx, userID); err != nil {
		return nil, err
	}
	return []linebot.Message{
		linebot.NewText("ご予約ありがとうございます！予約を確定しました。"),
	}, nil
}

func (s *Service) decodePending(userID string, raw []byte) pending {
	var p pending
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Error().Err(err).Str("user", userID).Msg("pending state corrupt")
	}
	return p
}
