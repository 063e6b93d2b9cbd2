package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxHistoryTurns bounds every persisted session.
const MaxHistoryTurns = 12

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatSession struct {
	Version int64      `json:"version"`
	History []ChatTurn `json:"history"`
}

func (d *ChatSession) GetVersion() int64  { return d.Version }
func (d *ChatSession) SetVersion(v int64) { d.Version = v }

func (d *ChatSession) Append(role, content string) {
	d.History = append(d.History, ChatTurn{Role: role, Content: content})
}

// Truncate keeps the trailing MaxHistoryTurns entries.
func (d *ChatSession) Truncate() {
	if len(d.History) > MaxHistoryTurns {
		d.History = append([]ChatTurn(nil), d.History[len(d.History)-MaxHistoryTurns:]...)
	}
}

// Recent returns at most n trailing turns.
func (d *ChatSession) Recent(n int) []ChatTurn {
	if len(d.History) <= n {
		return d.History
	}
	return d.History[len(d.History)-n:]
}
