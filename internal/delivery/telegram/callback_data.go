package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz  = "quiz"
	actionCard  = "card"
	actionStats = "stats"
)

// Quiz sub-actions.
const (
	quizSelect = "select"
	quizSubmit = "submit"
	quizNext   = "next"
	quizReset  = "reset"
)

// Flashcard sub-actions.
const (
	cardFlip  = "flip"
	cardMark  = "mark"
	cardReset = "reset"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// sub returns the sub-action, if any.
func (cd callbackData) sub() string {
	if len(cd.Params) == 0 {
		return ""
	}
	return cd.Params[0]
}

// intParam parses the parameter after the sub-action.
func (cd callbackData) intParam() (int, bool) {
	if len(cd.Params) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildQuizCallback(sub string) string {
	return callbackData{Action: actionQuiz, Params: []string{sub}}.encode()
}

func buildQuizSelectCallback(option int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizSelect, strconv.Itoa(option)},
	}.encode()
}

func buildCardCallback(sub string) string {
	return callbackData{Action: actionCard, Params: []string{sub}}.encode()
}

func buildCardMarkCallback(correct bool) string {
	v := "0"
	if correct {
		v = "1"
	}
	return callbackData{Action: actionCard, Params: []string{cardMark, v}}.encode()
}

func buildStatsCallback() string {
	return callbackData{Action: actionStats}.encode()
}
