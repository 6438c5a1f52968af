package rules

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"website-chatbot-be/pkg/store"
)

// Result is a resolved turn: a reply plus optional UI button suggestions.
type Result struct {
	Reply   string
	Buttons []string
}

// SessionSaver persists session mutations. Every rule that changes
// mode/stage/employee_id saves synchronously before returning its reply.
type SessionSaver interface {
	Save(ctx context.Context, session *store.Session) error
}

// Engine intercepts turns that don't need retrieval and drives the
// multi-turn employee-lookup sub-dialog. Rules run in priority order;
// the first rule producing a Result wins. A nil Result from every rule
// means the caller should proceed to retrieval.
type Engine struct {
	sessions SessionSaver
	logger   *log.Logger
	now      func() time.Time

	chain []ruleFunc
}

type input struct {
	raw    string // trimmed, original casing (echoed values keep it)
	folded string // trimmed and lowercased, used for matching
}

type ruleFunc func(ctx context.Context, in input, sess *store.Session) (*Result, error)

var digitRe = regexp.MustCompile(`\d+`)

func NewEngine(sessions SessionSaver, logger *log.Logger) *Engine {
	e := &Engine{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
	// Priority order matters: the employee-flow stage rules must run
	// after the entry rule, and founder/headcount only after a menu
	// abandon has fallen through.
	e.chain = []ruleFunc{
		e.politeRule,
		e.identityRule,
		e.timeRule,
		e.outOfScopeRule,
		e.greetingRule,
		e.employeeEntryRule,
		e.employeeIDRule,
		e.employeeMenuRule,
		e.founderRule,
		e.headcountRule,
	}
	return e
}

// Handle evaluates the rule chain. A nil Result with nil error means no
// rule matched and the caller should pass the query to retrieval.
func (e *Engine) Handle(ctx context.Context, query string, sess *store.Session) (*Result, error) {
	in := input{
		raw:    strings.TrimSpace(query),
		folded: strings.ToLower(strings.TrimSpace(query)),
	}

	for _, rule := range e.chain {
		res, err := rule(ctx, in, sess)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

func (e *Engine) politeRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	if containsExact(politeAcks, in.folded) {
		return &Result{Reply: ReplyCourtesy}, nil
	}
	return nil, nil
}

func (e *Engine) identityRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	if containsExact(identityQuestions, in.folded) {
		return &Result{Reply: ReplyIdentity}, nil
	}
	return nil, nil
}

func (e *Engine) timeRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	if !strings.Contains(in.folded, "time") {
		return nil, nil
	}
	now := e.now().UTC()
	return &Result{Reply: fmt.Sprintf("The current time is %s (UTC).", now.Format("03:04 PM"))}, nil
}

func (e *Engine) outOfScopeRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	for _, term := range outOfScopeTerms {
		if strings.Contains(in.folded, term) {
			return &Result{Reply: ReplyOutOfScope}, nil
		}
	}
	return nil, nil
}

func (e *Engine) greetingRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	if containsExact(greetings, in.folded) {
		return &Result{Reply: ReplyGreeting}, nil
	}
	return nil, nil
}

func (e *Engine) employeeEntryRule(ctx context.Context, in input, sess *store.Session) (*Result, error) {
	if !strings.Contains(in.folded, "employee information") && !strings.Contains(in.folded, "employee profile") {
		return nil, nil
	}
	sess.Mode = store.ModeEmployee
	sess.Stage = store.StageAwaitingEmployeeID
	if err := e.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &Result{Reply: ReplyAskEmployeeID}, nil
}

func (e *Engine) employeeIDRule(ctx context.Context, in input, sess *store.Session) (*Result, error) {
	if sess.Mode != store.ModeEmployee || sess.Stage != store.StageAwaitingEmployeeID {
		return nil, nil
	}
	if !digitRe.MatchString(in.folded) {
		// Validation failure re-prompts without touching the stage.
		return &Result{Reply: ReplyInvalidEmployeeID}, nil
	}

	// Stored as provided, never parsed: leading zeros and formatting
	// are part of the id.
	id := in.raw
	sess.EmployeeID = &id
	sess.Stage = store.StageMenu
	if err := e.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &Result{
		Reply:   fmt.Sprintf("Employee ID %s noted. What would you like to view?", id),
		Buttons: MenuButtons,
	}, nil
}

func (e *Engine) employeeMenuRule(ctx context.Context, in input, sess *store.Session) (*Result, error) {
	if sess.Mode != store.ModeEmployee || sess.Stage != store.StageMenu {
		return nil, nil
	}
	for _, option := range MenuButtons {
		if strings.EqualFold(in.folded, option) {
			employeeID := ""
			if sess.EmployeeID != nil {
				employeeID = *sess.EmployeeID
			}
			return &Result{
				Reply: fmt.Sprintf("%s details for Employee ID %s will be available soon.", option, employeeID),
			}, nil
		}
	}

	// The user abandoned the menu by asking something else: reset and
	// fall through so the same input still reaches the remaining rules
	// and retrieval instead of burning a dead turn.
	sess.Reset()
	if err := e.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if e.logger != nil {
		e.logger.Printf("[RULES] session %s left employee menu, falling through", sess.ID)
	}
	return nil, nil
}

func (e *Engine) founderRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	if strings.Contains(in.folded, "founder") {
		return &Result{Reply: ReplyFounder}, nil
	}
	return nil, nil
}

func (e *Engine) headcountRule(_ context.Context, in input, _ *store.Session) (*Result, error) {
	if strings.Contains(in.folded, "employees") {
		return &Result{Reply: ReplyHeadcount}, nil
	}
	return nil, nil
}

func containsExact(set []string, s string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
