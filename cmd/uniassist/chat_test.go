package main

import (
	"strings"
	"testing"
	"time"

	"uniassist/internal/workflow"
)

func testChatModel() chatModel {
	m := initChat(nil)
	m.ready = true
	return m
}

func TestClearCommandResetsSession(t *testing.T) {
	m := testChatModel()
	m.messages = []chatMessage{{role: "user", content: "hi", time: time.Now()}}
	m.history = []workflow.Turn{{University: workflow.UniversityNUST, Question: "q", Answer: "a"}}
	m.university = workflow.UniversityNUST
	m.turnCount = 2

	model, _ := m.handleCommand("/clear")
	cleared := model.(chatModel)

	if len(cleared.messages) != 0 || len(cleared.history) != 0 {
		t.Error("clear did not empty conversation state")
	}
	if cleared.university != workflow.DefaultContext {
		t.Errorf("university = %v, want default context", cleared.university)
	}
	if cleared.turnCount != 0 {
		t.Errorf("turnCount = %d, want 0", cleared.turnCount)
	}
}

func TestUnknownCommandShowsHint(t *testing.T) {
	m := testChatModel()

	model, _ := m.handleCommand("/bogus")
	got := model.(chatModel)

	if len(got.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(got.messages))
	}
	if !strings.Contains(got.messages[0].content, "/help") {
		t.Errorf("hint missing /help: %q", got.messages[0].content)
	}
}

func TestRenderMessagesShowsUniversityLabel(t *testing.T) {
	m := testChatModel()
	m.renderer = nil
	m.messages = []chatMessage{
		{role: "user", content: "When do NUST admissions open?"},
		{role: "assistant", content: "In June.", university: string(workflow.UniversityNUST)},
	}

	out := m.renderMessages()
	if !strings.Contains(out, "NUST") {
		t.Errorf("rendered output missing university label:\n%s", out)
	}
	if !strings.Contains(out, "In June.") {
		t.Errorf("rendered output missing answer:\n%s", out)
	}
}

func TestDisplayLabelShowsUnknownInstitution(t *testing.T) {
	tests := []struct {
		name string
		res  workflow.Result
		want string
	}{
		{"known university", workflow.Result{University: workflow.UniversityNUST, RawLabel: "NUST"}, "NUST"},
		{"plain general", workflow.Result{University: workflow.UniversityGeneral, RawLabel: "GENERAL"}, "GENERAL"},
		{"out-of-set institution", workflow.Result{University: workflow.UniversityGeneral, RawLabel: "BAHRIA"}, "BAHRIA"},
		{"empty raw label", workflow.Result{University: workflow.UniversityGeneral}, "GENERAL"},
	}

	for _, tt := range tests {
		if got := displayLabel(tt.res); got != tt.want {
			t.Errorf("%s: displayLabel = %q, want %q", tt.name, got, tt.want)
		}
	}
}
