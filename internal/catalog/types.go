package catalog

// NodeKind distinguishes lesson nodes from review quizzes.
type NodeKind string

const (
	KindLesson     NodeKind = "lesson"
	KindQuizReview NodeKind = "quiz_review"
)

// Option is one answer choice of a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// Question is a prompt with ordered options, exactly one of them correct.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// CorrectOption returns the single correct option.
func (q Question) CorrectOption() (Option, bool) {
	for _, o := range q.Options {
		if o.Correct {
			return o, true
		}
	}
	return Option{}, false
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Block is one piece of lesson content: a TextBlock or a QuizBlock.
type Block interface {
	isBlock()
}

// TextBlock is display text.
type TextBlock struct {
	Text string
}

// QuizBlock is a single question embedded in a lesson.
type QuizBlock struct {
	Question Question
}

func (TextBlock) isBlock() {}
func (QuizBlock) isBlock() {}

// Node is the atomic learning item.
type Node struct {
	ID    string
	Title string
	Kind  NodeKind

	// Content is set for lessons.
	Content []Block

	// Questions is set for quiz reviews.
	Questions []Question
}

// SessionQuestions returns the questions a session presents for this node:
// the review questions, the first embedded quiz of a lesson, or nothing for
// a text-only lesson.
func (n Node) SessionQuestions() []Question {
	switch n.Kind {
	case KindQuizReview:
		out := make([]Question, len(n.Questions))
		copy(out, n.Questions)
		return out
	case KindLesson:
		for _, b := range n.Content {
			if qb, ok := b.(QuizBlock); ok {
				return []Question{qb.Question}
			}
		}
	}
	return nil
}

// Texts returns the text blocks of a lesson in order.
func (n Node) Texts() []string {
	var out []string
	for _, b := range n.Content {
		switch b := b.(type) {
		case TextBlock:
			out = append(out, b.Text)
		case QuizBlock:
		}
	}
	return out
}

// Unit is an ordered, named group of nodes.
type Unit struct {
	ID          string
	Title       string
	Description string
	Nodes       []Node
}
