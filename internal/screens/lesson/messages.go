package lesson

// advanceCheckMsg is sent once the feedback delay has passed so the screen
// can pick up the advanced session. Index is the question that was answered.
type advanceCheckMsg struct {
	SessionID string
	Index     int
}
