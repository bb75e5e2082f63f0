package telegram

import "testing"

func TestCallbackData_RoundTrip(t *testing.T) {
	data := decodeCallback(buildQuizSelectCallback(2))
	if data.Action != actionQuiz || data.sub() != quizSelect {
		t.Fatalf("unexpected decode: %+v", data)
	}
	if n, ok := data.intParam(); !ok || n != 2 {
		t.Errorf("expected option 2, got %d (%v)", n, ok)
	}

	data = decodeCallback(buildStatsCallback())
	if data.Action != actionStats || data.sub() != "" {
		t.Errorf("unexpected decode: %+v", data)
	}
}

func TestCallbackData_BadParam(t *testing.T) {
	if _, ok := decodeCallback("card:mark").intParam(); ok {
		t.Error("expected missing parameter")
	}
	if _, ok := decodeCallback("quiz:select:x").intParam(); ok {
		t.Error("expected non-numeric parameter to fail")
	}
}
