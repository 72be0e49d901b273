package trivia

import (
	"encoding/json"

	"golang.org/x/net/html"
)

// Difficulty is the difficulty level reported for a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionTypeMultiple is the only question type requested from the API.
const QuestionTypeMultiple = "multiple"

// MaxAmount is the largest batch the questions endpoint serves.
const MaxAmount = 50

// TokenKey names the persisted session token entry.
const TokenKey = "trivia_token"

// Question is one trivia item as delivered by the API. Text fields may
// contain HTML entities; use DecodeHTML before display.
type Question struct {
	Category         string     `json:"category"`
	Type             string     `json:"type"`
	Difficulty       Difficulty `json:"difficulty"`
	Question         string     `json:"question"`
	CorrectAnswer    string     `json:"correct_answer"`
	IncorrectAnswers []string   `json:"incorrect_answers"`
}

// DecodedCategory returns the category with HTML entities decoded.
func (q Question) DecodedCategory() string {
	return DecodeHTML(q.Category)
}

// Category is an entry of the categories endpoint.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ResponseCode is the status field embedded in every API payload.
type ResponseCode int

const (
	CodeSuccess          ResponseCode = 0
	CodeNoResults        ResponseCode = 1
	CodeInvalidParameter ResponseCode = 2
	CodeTokenNotFound    ResponseCode = 3
	CodeTokenEmpty       ResponseCode = 4
	CodeRateLimit        ResponseCode = 5
)

// TokenInvalid reports whether the code means the session token is unknown
// or exhausted.
func (c ResponseCode) TokenInvalid() bool {
	return c == CodeTokenNotFound || c == CodeTokenEmpty
}

func (c ResponseCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeNoResults:
		return "no results"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeTokenNotFound:
		return "token not found"
	case CodeTokenEmpty:
		return "token empty"
	case CodeRateLimit:
		return "rate limit"
	default:
		return "unknown"
	}
}

// Envelope is a validated API payload: its response code plus the raw body
// for endpoint-specific decoding.
type Envelope struct {
	ResponseCode ResponseCode
	Body         json.RawMessage
}

// DecodeHTML replaces HTML character references such as &amp; and &#039;
// with the characters they stand for.
func DecodeHTML(s string) string {
	return html.UnescapeString(s)
}
