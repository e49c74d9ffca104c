package lexer

// LexerState names one mode of the lexer's mode-stack-driven tokenizer.
type LexerState int

const (
	// ST_INITIAL scans raw HTML/text outside a <?php tag.
	ST_INITIAL LexerState = iota

	// ST_IN_SCRIPTING scans PHP code between tags.
	ST_IN_SCRIPTING

	// ST_DOUBLE_QUOTES scans the body of a double-quoted string with interpolation.
	ST_DOUBLE_QUOTES

	// ST_HEREDOC scans the body of a heredoc with interpolation.
	ST_HEREDOC

	// ST_NOWDOC scans the body of a nowdoc (no interpolation).
	ST_NOWDOC

	// ST_VAR_OFFSET scans the bracketed index of a simple interpolation,
	// e.g. "index" in "$arr[index]".
	ST_VAR_OFFSET

	// ST_BACKQUOTE scans the body of a shell-exec string with interpolation.
	ST_BACKQUOTE

	// ST_DOC_BLOCK is used only by DocBlockLexer, a second, much smaller
	// lexer instance docblock.go starts over the text inside /** ... */.
	ST_DOC_BLOCK
)

// StateNames maps a state to its name, for debugging.
var StateNames = map[LexerState]string{
	ST_INITIAL:       "ST_INITIAL",
	ST_IN_SCRIPTING:  "ST_IN_SCRIPTING",
	ST_DOUBLE_QUOTES: "ST_DOUBLE_QUOTES",
	ST_HEREDOC:       "ST_HEREDOC",
	ST_NOWDOC:        "ST_NOWDOC",
	ST_VAR_OFFSET:    "ST_VAR_OFFSET",
	ST_BACKQUOTE:     "ST_BACKQUOTE",
	ST_DOC_BLOCK:     "ST_DOC_BLOCK",
}

// String returns the state's debug name.
func (s LexerState) String() string {
	if name, exists := StateNames[s]; exists {
		return name
	}
	return "UNKNOWN_STATE"
}

// StateStack tracks the states a scripting excursion should return to,
// e.g. re-entering ST_HEREDOC after a "{$expr}" interpolation closes.
type StateStack struct {
	states []LexerState
}

// NewStateStack creates an empty state stack.
func NewStateStack() *StateStack {
	return &StateStack{
		states: make([]LexerState, 0, 8),
	}
}

// Push pushes a state onto the stack.
func (s *StateStack) Push(state LexerState) {
	s.states = append(s.states, state)
}

// Pop pops the top state, or ST_INITIAL if the stack is empty.
func (s *StateStack) Pop() LexerState {
	if len(s.states) == 0 {
		return ST_INITIAL
	}

	last := len(s.states) - 1
	state := s.states[last]
	s.states = s.states[:last]
	return state
}

// IsEmpty reports whether the stack has no saved states.
func (s *StateStack) IsEmpty() bool {
	return len(s.states) == 0
}
