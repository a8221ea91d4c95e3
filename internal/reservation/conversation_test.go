package reservation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"formd/internal/linebot"
	"formd/internal/notify"
	"formd/pkg/types"
)

type stateRow struct {
	state string
	data  []byte
}

type fakeStore struct {
	states       map[string]stateRow
	reservations []types.Reservation
	nextID       int64
	insertErr    error
	countErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[string]stateRow{}, nextID: 1}
}

func (f *fakeStore) GetUserState(_ context.Context, userID string) (string, []byte, bool, error) {
	row, ok := f.states[userID]
	if !ok {
		return "", nil, false, nil
	}
	return row.state, row.data, true, nil
}

func (f *fakeStore) SetUserState(_ context.Context, userID, state string, data []byte) error {
	f.states[userID] = stateRow{state: state, data: data}
	return nil
}

func (f *fakeStore) DeleteUserState(_ context.Context, userID string) error {
	delete(f.states, userID)
	return nil
}

func (f *fakeStore) InsertReservation(_ context.Context, r types.Reservation) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	r.ID = f.nextID
	f.nextID++
	f.reservations = append(f.reservations, r)
	return r.ID, nil
}

func (f *fakeStore) CountConfirmedAt(_ context.Context, at time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, r := range f.reservations {
		if r.Status == "confirmed" && r.ReservedAt.Equal(at) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListConfirmedOn(_ context.Context, day time.Time) ([]types.Reservation, error) {
	var out []types.Reservation
	y, m, d := day.Date()
	for _, r := range f.reservations {
		ry, rm, rd := r.ReservedAt.Date()
		if r.Status == "confirmed" && ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out, nil
}

// testNow is well before the slots the tests pick.
var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.Local)

func newTestService(t *testing.T, store Store, pub notify.Publisher) *Service {
	t.Helper()
	svc, err := New(Config{
		Store:    store,
		Notifier: pub,
		Now:      func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func textOf(t *testing.T, m linebot.Message) string {
	t.Helper()
	tm, ok := m.(linebot.TextMessage)
	if !ok {
		t.Fatalf("message type %T, want TextMessage", m)
	}
	return tm.Text
}

func oneText(t *testing.T, msgs []linebot.Message, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages=%d want 1", len(msgs))
	}
	return textOf(t, msgs[0])
}

func TestKeywordStartsConversation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandleText(context.Background(), "U1", " 予約 ")
	if err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages=%d want 1", len(msgs))
	}
	tm := msgs[0].(linebot.TextMessage)
	if tm.Text != "ご予約ですね。ご希望の日時を選択してください。" {
		t.Fatalf("text=%q", tm.Text)
	}
	if tm.QuickReply == nil || len(tm.QuickReply.Items) != 1 {
		t.Fatal("datetime picker missing")
	}
	if act := tm.QuickReply.Items[0].Action; act.Type != "datetimepicker" || act.Data != "select_datetime" {
		t.Fatalf("action=%+v", act)
	}
	if row := store.states["U1"]; row.state != stateAskingDatetime {
		t.Fatalf("state=%q", row.state)
	}
}

func TestFallbackEchoesKeywordHint(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil)
	msgs, err := svc.HandleText(context.Background(), "U1", "こんにちは")
	got := oneText(t, msgs, err)
	if got != "「こんにちは」ですね。\n「予約」と入力すると予約を開始できます。" {
		t.Fatalf("text=%q", got)
	}
}

func TestFullReservationFlow(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := notify.NewMemory()
	svc := newTestService(t, store, pub)

	if _, err := svc.HandleText(ctx, "U1", "予約"); err != nil {
		t.Fatalf("start: %v", err)
	}

	pickMsgs, pickErr := svc.HandlePostback(ctx, "U1", "select_datetime",
		map[string]string{"datetime": "2026-09-01T18:00"})
	got := oneText(t, pickMsgs, pickErr)
	if got != "2026年09月01日 18時00分ですね。次に、ご希望の人数を半角数字で入力してください。(例: 2)" {
		t.Fatalf("pick reply=%q", got)
	}
	if row := store.states["U1"]; row.state != stateAskingPeople {
		t.Fatalf("state=%q", row.state)
	}
	if !strings.Contains(string(store.states["U1"].data), `"2026-09-01T18:00:00"`) {
		t.Fatalf("pending data=%s", store.states["U1"].data)
	}

	msgs, err := svc.HandleText(ctx, "U1", "3")
	if err != nil {
		t.Fatalf("people: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages=%d want 1", len(msgs))
	}
	confirm, ok := msgs[0].(linebot.TemplateMessage)
	if !ok {
		t.Fatalf("message type %T, want TemplateMessage", msgs[0])
	}
	if confirm.Template.Text != "以下の内容で予約しますか？\n日時: 2026年09月01日 18時00分\n人数: 3名様" {
		t.Fatalf("confirm text=%q", confirm.Template.Text)
	}
	if row := store.states["U1"]; row.state != stateConfirming {
		t.Fatalf("state=%q", row.state)
	}

	confirmMsgs, confirmErr := svc.HandlePostback(ctx, "U1", "confirm_yes", nil)
	got = oneText(t, confirmMsgs, confirmErr)
	if got != "ご予約ありがとうございます！予約を確定しました。" {
		t.Fatalf("confirm reply=%q", got)
	}
	if len(store.reservations) != 1 {
		t.Fatalf("reservations=%d want 1", len(store.reservations))
	}
	r := store.reservations[0]
	want := time.Date(2026, 9, 1, 18, 0, 0, 0, time.Local)
	if r.UserID != "U1" || !r.ReservedAt.Equal(want) || r.NumPeople != 3 || r.Status != "confirmed" {
		t.Fatalf("reservation=%+v", r)
	}
	if _, ok := store.states["U1"]; ok {
		t.Fatal("state not cleared after confirmation")
	}
	events := pub.Events()
	if len(events) != 1 || events[0].Kind != "reservation" {
		t.Fatalf("events=%+v", events)
	}
}

func TestPickRejectsTooSoon(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateAskingDatetime}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime",
		map[string]string{"datetime": "2026-08-23T12:15"})
	got := oneText(t, msgs, err)
	if got != "過去の日時、または直近すぎる時間は指定できません。30分後以降でお願いします。" {
		t.Fatalf("text=%q", got)
	}
	if row := store.states["U1"]; row.state != stateAskingDatetime {
		t.Fatalf("state=%q, want unchanged", row.state)
	}
}

func TestPickBoundaryHours(t *testing.T) {
	outside := "申し訳ありません。その時間は営業時間外です。\n(営業時間: 10:00～22:00)"
	cases := []struct {
		datetime string
		rejected bool
	}{
		{"2026-09-01T10:00", false},
		{"2026-09-01T21:30", false},
		{"2026-09-01T22:00", true},
		{"2026-09-01T09:30", true},
	}
	for _, tc := range cases {
		store := newFakeStore()
		store.states["U1"] = stateRow{state: stateAskingDatetime}
		svc := newTestService(t, store, nil)

		msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime",
			map[string]string{"datetime": tc.datetime})
		got := oneText(t, msgs, err)
		if tc.rejected && got != outside {
			t.Fatalf("%s: text=%q", tc.datetime, got)
		}
		if !tc.rejected && !strings.Contains(got, "ですね。次に") {
			t.Fatalf("%s: text=%q", tc.datetime, got)
		}
	}
}

func TestPickRejectsOffGrid(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateAskingDatetime}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime",
		map[string]string{"datetime": "2026-09-01T18:15"})
	got := oneText(t, msgs, err)
	if got != "申し訳ありません。ご予約は30分単位で承っております。(例: 10:00, 10:30)" {
		t.Fatalf("text=%q", got)
	}
}

func TestPickRejectsFullSlot(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateAskingDatetime}
	slot := time.Date(2026, 9, 1, 18, 0, 0, 0, time.Local)
	store.reservations = []types.Reservation{
		{UserID: "U8", ReservedAt: slot, NumPeople: 2, Status: "confirmed"},
		{UserID: "U9", ReservedAt: slot, NumPeople: 4, Status: "confirmed"},
	}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime",
		map[string]string{"datetime": "2026-09-01T18:00"})
	got := oneText(t, msgs, err)
	if got != "申し訳ありません。その時間帯は既に満席です。別の日時をお試しください。" {
		t.Fatalf("text=%q", got)
	}
}

func TestPickWithoutContextResets(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateConfirming}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime",
		map[string]string{"datetime": "2026-09-01T18:00"})
	got := oneText(t, msgs, err)
	if got != "予期せぬ操作です。最初から「予約」と入力してください。" {
		t.Fatalf("text=%q", got)
	}
	if _, ok := store.states["U1"]; ok {
		t.Fatal("state not cleared")
	}
}

func TestPickMissingParam(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateAskingDatetime}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime", nil)
	got := oneText(t, msgs, err)
	if got != "日時が選択されませんでした。" {
		t.Fatalf("text=%q", got)
	}
}

func TestPickMalformedDatetime(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateAskingDatetime}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "select_datetime",
		map[string]string{"datetime": "09/01 18:00"})
	got := oneText(t, msgs, err)
	if got != "日時の形式が正しくありません。もう一度選択してください。" {
		t.Fatalf("text=%q", got)
	}
}

func TestPeopleRejectsNonNumeric(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{
		state: stateAskingPeople,
		data:  []byte(`{"datetime_obj_iso":"2026-09-01T18:00:00"}`),
	}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandleText(context.Background(), "U1", "ふたり")
	got := oneText(t, msgs, err)
	if got != "人数を正しく入力してください (例: 2)。" {
		t.Fatalf("text=%q", got)
	}
	if row := store.states["U1"]; row.state != stateAskingPeople {
		t.Fatalf("state=%q, want unchanged", row.state)
	}
}

func TestPeopleRejectsOutOfRange(t *testing.T) {
	want := "人数を正しく入力してください (例: 2)。\nエラー: 人数は1名から10名の間で入力してください。"
	for _, input := range []string{"0", "11", "-3"} {
		store := newFakeStore()
		store.states["U1"] = stateRow{
			state: stateAskingPeople,
			data:  []byte(`{"datetime_obj_iso":"2026-09-01T18:00:00"}`),
		}
		svc := newTestService(t, store, nil)

		msgs, err := svc.HandleText(context.Background(), "U1", input)
		got := oneText(t, msgs, err)
		if got != want {
			t.Fatalf("input %q: text=%q", input, got)
		}
	}
}

func TestConfirmNoCancels(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{
		state: stateConfirming,
		data:  []byte(`{"datetime_obj_iso":"2026-09-01T18:00:00","people":2}`),
	}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "confirm_no", nil)
	got := oneText(t, msgs, err)
	if got != "予約をキャンセルしました。最初からやり直す場合は「予約」と入力してください。" {
		t.Fatalf("text=%q", got)
	}
	if _, ok := store.states["U1"]; ok {
		t.Fatal("state not cleared")
	}
	if len(store.reservations) != 0 {
		t.Fatal("cancelled flow created a reservation")
	}
}

func TestConfirmRaceDetectsFullSlot(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{
		state: stateConfirming,
		data:  []byte(`{"datetime_obj_iso":"2026-09-01T18:00:00","people":2}`),
	}
	slot := time.Date(2026, 9, 1, 18, 0, 0, 0, time.Local)
	store.reservations = []types.Reservation{
		{UserID: "U8", ReservedAt: slot, NumPeople: 2, Status: "confirmed"},
		{UserID: "U9", ReservedAt: slot, NumPeople: 2, Status: "confirmed"},
	}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "confirm_yes", nil)
	got := oneText(t, msgs, err)
	if got != "申し訳ありません。最終確認中に満席となってしまいました。お手数ですが、別の日時で再度お試しください。" {
		t.Fatalf("text=%q", got)
	}
	if _, ok := store.states["U1"]; ok {
		t.Fatal("state not cleared")
	}
	if len(store.reservations) != 2 {
		t.Fatal("reservation created despite full slot")
	}
}

func TestConfirmInsertFailureKeepsState(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("disk full")
	store.states["U1"] = stateRow{
		state: stateConfirming,
		data:  []byte(`{"datetime_obj_iso":"2026-09-01T18:00:00","people":2}`),
	}
	pub := notify.NewMemory()
	svc := newTestService(t, store, pub)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "confirm_yes", nil)
	got := oneText(t, msgs, err)
	if got != "申し訳ありません、予約の処理中にエラーが発生しました。お手数ですが、少し時間をおいて再度お試しください。" {
		t.Fatalf("text=%q", got)
	}
	if row := store.states["U1"]; row.state != stateConfirming {
		t.Fatalf("state=%q, want kept for retry", row.state)
	}
	if len(pub.Events()) != 0 {
		t.Fatal("failed reservation was notified")
	}
}

func TestConfirmWithIncompleteData(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{state: stateConfirming, data: []byte(`{}`)}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandlePostback(context.Background(), "U1", "confirm_yes", nil)
	got := oneText(t, msgs, err)
	if got != "予約情報が不足しています。最初からやり直してください。" {
		t.Fatalf("text=%q", got)
	}
	if _, ok := store.states["U1"]; ok {
		t.Fatal("state not cleared")
	}
}

func TestConfirmYesIgnoredWithoutState(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil)
	msgs, err := svc.HandlePostback(context.Background(), "U1", "confirm_yes", nil)
	if err != nil {
		t.Fatalf("HandlePostback: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("messages=%d want 0", len(msgs))
	}
}

func TestKeywordRestartsMidFlow(t *testing.T) {
	store := newFakeStore()
	store.states["U1"] = stateRow{
		state: stateConfirming,
		data:  []byte(`{"datetime_obj_iso":"2026-09-01T18:00:00","people":2}`),
	}
	svc := newTestService(t, store, nil)

	msgs, err := svc.HandleText(context.Background(), "U1", "予約")
	if err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages=%d want 1", len(msgs))
	}
	if row := store.states["U1"]; row.state != stateAskingDatetime {
		t.Fatalf("state=%q", row.state)
	}
}

func TestConfirmedOnListsDay(t *testing.T) {
	store := newFakeStore()
	day1 := time.Date(2026, 9, 1, 18, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 9, 2, 18, 0, 0, 0, time.Local)
	store.reservations = []types.Reservation{
		{UserID: "U1", ReservedAt: day1, NumPeople: 2, Status: "confirmed"},
		{UserID: "U2", ReservedAt: day2, NumPeople: 3, Status: "confirmed"},
	}
	svc := newTestService(t, store, nil)

	got, err := svc.ConfirmedOn(context.Background(), day1)
	if err != nil {
		t.Fatalf("ConfirmedOn: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "U1" {
		t.Fatalf("got=%+v", got)
	}
}
