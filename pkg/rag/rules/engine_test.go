package rules

import (
	"context"
	"testing"
	"time"

	"website-chatbot-be/pkg/store"
)

// recordingSaver counts Save calls so tests can assert which rules persist.
type recordingSaver struct {
	saves []*store.Session
}

func (r *recordingSaver) Save(_ context.Context, s *store.Session) error {
	r.saves = append(r.saves, s)
	return nil
}

func newTestEngine(saver *recordingSaver) *Engine {
	e := NewEngine(saver, nil)
	e.now = func() time.Time {
		return time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	}
	return e
}

func TestHandleCannedReplies(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantReply string
	}{
		{"polite thanks", "Thanks", ReplyCourtesy},
		{"polite ok", "ok", ReplyCourtesy},
		{"identity", "Who are you", ReplyIdentity},
		{"time", "What time is it", "The current time is 02:30 PM (UTC)."},
		{"out of scope weather", "How is the weather today", ReplyOutOfScope},
		{"out of scope president", "who is the president of france", ReplyOutOfScope},
		{"greeting", "Hello", ReplyGreeting},
		{"founder", "Who is the founder of CORtracker", ReplyFounder},
		{"headcount", "How many employees does the company have", ReplyHeadcount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &recordingSaver{}
			e := newTestEngine(saver)
			sess := store.NewSession("s1")

			res, err := e.Handle(context.Background(), tt.query, sess)
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if res == nil {
				t.Fatalf("Handle() = nil, want reply %q", tt.wantReply)
			}
			if res.Reply != tt.wantReply {
				t.Errorf("Handle() reply = %q, want %q", res.Reply, tt.wantReply)
			}
		})
	}
}

func TestHandlePassesUnmatchedToRetrieval(t *testing.T) {
	saver := &recordingSaver{}
	e := newTestEngine(saver)
	sess := store.NewSession("s1")

	res, err := e.Handle(context.Background(), "What services does the company offer?", sess)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if res != nil {
		t.Fatalf("Handle() = %+v, want nil (pass to retrieval)", res)
	}
	if len(saver.saves) != 0 {
		t.Errorf("unmatched query persisted session %d times, want 0", len(saver.saves))
	}
}

func TestEmployeeFlow(t *testing.T) {
	saver := &recordingSaver{}
	e := newTestEngine(saver)
	sess := store.NewSession("s1")
	ctx := context.Background()

	// Entry
	res, err := e.Handle(ctx, "I need employee information", sess)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if res == nil || res.Reply != ReplyAskEmployeeID {
		t.Fatalf("entry reply = %+v, want %q", res, ReplyAskEmployeeID)
	}
	if sess.Mode != store.ModeEmployee || sess.Stage != store.StageAwaitingEmployeeID {
		t.Fatalf("entry session = %s/%s, want employee/awaiting_employee_id", sess.Mode, sess.Stage)
	}
	if len(saver.saves) != 1 {
		t.Fatalf("entry saves = %d, want 1", len(saver.saves))
	}

	// Non-numeric id re-prompts without persisting or advancing
	res, err = e.Handle(ctx, "abc", sess)
	if err != nil {
		t.Fatalf("invalid id: %v", err)
	}
	if res == nil || res.Reply != ReplyInvalidEmployeeID {
		t.Fatalf("invalid id reply = %+v, want %q", res, ReplyInvalidEmployeeID)
	}
	if sess.Stage != store.StageAwaitingEmployeeID {
		t.Fatalf("invalid id advanced stage to %s", sess.Stage)
	}
	if len(saver.saves) != 1 {
		t.Fatalf("invalid id persisted, saves = %d, want 1", len(saver.saves))
	}

	// Numeric id moves to menu and keeps the raw string
	res, err = e.Handle(ctx, "007", sess)
	if err != nil {
		t.Fatalf("valid id: %v", err)
	}
	if res == nil || res.Reply != "Employee ID 007 noted. What would you like to view?" {
		t.Fatalf("valid id reply = %+v", res)
	}
	if len(res.Buttons) != len(MenuButtons) {
		t.Fatalf("valid id buttons = %v, want %v", res.Buttons, MenuButtons)
	}
	if sess.Stage != store.StageMenu {
		t.Fatalf("valid id stage = %s, want menu", sess.Stage)
	}
	if sess.EmployeeID == nil || *sess.EmployeeID != "007" {
		t.Fatalf("employee id = %v, want 007 with leading zero kept", sess.EmployeeID)
	}

	// Menu selection is case-insensitive and echoes the stored id
	res, err = e.Handle(ctx, "salary", sess)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	want := "Salary details for Employee ID 007 will be available soon."
	if res == nil || res.Reply != want {
		t.Fatalf("menu reply = %+v, want %q", res, want)
	}
	if sess.Stage != store.StageMenu {
		t.Fatalf("menu selection changed stage to %s", sess.Stage)
	}
}

func TestEmployeeMenuAbandonFallsThrough(t *testing.T) {
	saver := &recordingSaver{}
	e := newTestEngine(saver)
	sess := store.NewSession("s1")
	ctx := context.Background()

	id := "12345"
	sess.Mode = store.ModeEmployee
	sess.Stage = store.StageMenu
	sess.EmployeeID = &id

	// A non-menu question resets the session and the same turn still
	// reaches the later rules.
	res, err := e.Handle(ctx, "who is the founder", sess)
	if err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if res == nil || res.Reply != ReplyFounder {
		t.Fatalf("abandon reply = %+v, want founder reply after fall-through", res)
	}
	if sess.Mode != store.ModeGeneral || sess.Stage != store.StageIdle {
		t.Fatalf("abandon session = %s/%s, want general/idle", sess.Mode, sess.Stage)
	}
	// Reset drops mode/stage only; a later re-entry into the employee
	// flow re-prompts for the id, but the last provided one stays on
	// the record.
	if sess.EmployeeID == nil || *sess.EmployeeID != "12345" {
		t.Fatalf("abandon cleared employee id, got %v", sess.EmployeeID)
	}
	if len(saver.saves) != 1 {
		t.Fatalf("abandon saves = %d, want 1", len(saver.saves))
	}
}

func TestEmployeeMenuAbandonToRetrieval(t *testing.T) {
	saver := &recordingSaver{}
	e := newTestEngine(saver)
	sess := store.NewSession("s1")

	id := "9"
	sess.Mode = store.ModeEmployee
	sess.Stage = store.StageMenu
	sess.EmployeeID = &id

	res, err := e.Handle(context.Background(), "tell me about your services", sess)
	if err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if res != nil {
		t.Fatalf("abandon reply = %+v, want nil (pass to retrieval)", res)
	}
	if sess.Mode != store.ModeGeneral {
		t.Fatalf("abandon mode = %s, want general", sess.Mode)
	}
}
