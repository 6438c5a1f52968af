package store

// Session represents the conversational state tracked per session id.
// Created lazily on first contact, mutated only by the rule engine, and
// persisted after every mutation.
type Session struct {
	ID         string  `json:"-"`
	Mode       string  `json:"mode"`
	Stage      string  `json:"stage"`
	EmployeeID *string `json:"employee_id"`
	LastTopic  *string `json:"last_topic"`
}

const (
	ModeGeneral  = "general"
	ModeEmployee = "employee"

	StageIdle               = "idle"
	StageAwaitingEmployeeID = "awaiting_employee_id"
	StageMenu               = "menu"
)

// NewSession returns the default record for a previously-unseen session id.
func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Mode:  ModeGeneral,
		Stage: StageIdle,
	}
}

// Reset drops the session back to general handling. The awaiting/menu
// stages are only valid in employee mode, so leaving it forces stage idle.
func (s *Session) Reset() {
	s.Mode = ModeGeneral
	s.Stage = StageIdle
}
