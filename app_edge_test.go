package main

import (
	"strings"
	"testing"
)

const kitchen = `
(room "kitchen" (vec2 0 0) (vec2 6 0) (vec2 6 4) (vec2 0 4))
(wall "south" :from (vec2 0 0) :to (vec2 6 0) :width 0.2)
`

func hasMessage(msgs []MessageData, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

func TestEvaluateEmptySource(t *testing.T) {
	report := NewApp(nil).Evaluate("")
	if len(report.Errors) != 0 {
		t.Errorf("expected no errors, got %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("empty scene should not warn, got %v", report.Warnings)
	}
	if report.Results == nil || report.Errors == nil || report.Warnings == nil {
		t.Error("report slices should be non-nil so they encode as []")
	}
	if report.Primary != nil {
		t.Error("empty scene has no primary")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	report := NewApp(nil).Evaluate("(wall \"w\" :from (vec2 0 0)")
	if len(report.Errors) == 0 {
		t.Fatal("expected a syntax error")
	}
	if report.Masters != 0 || len(report.Results) != 0 {
		t.Error("nothing should be extracted after a syntax error")
	}
}

func TestEvaluateRuntimeError(t *testing.T) {
	report := NewApp(nil).Evaluate(kitchen + "(staircase \"s1\")")
	if len(report.Errors) == 0 {
		t.Fatal("expected an error for an unknown function")
	}
}

func TestEvaluateValidationBlocksSnapping(t *testing.T) {
	src := kitchen + `(drag (wall "thin" :from (vec2 1 1) :to (vec2 2 1) :width 0))`
	report := NewApp(nil).Evaluate(src)
	if !hasMessage(report.Errors, "wall width") {
		t.Fatalf("errors = %v, want a wall width error", report.Errors)
	}
	if report.Dragged != "" || report.Primary != nil {
		t.Error("an invalid scene should not be snapped")
	}
}

func TestEvaluateWithoutDrag(t *testing.T) {
	report := NewApp(nil).Evaluate(kitchen)
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if !hasMessage(report.Warnings, "no dragged element") {
		t.Errorf("warnings = %v, want a missing drag warning", report.Warnings)
	}
}

func TestEvaluateDragUnknownTag(t *testing.T) {
	report := NewApp(nil).Evaluate(kitchen + `(drag "ghost")`)
	if !hasMessage(report.Errors, "dragged element does not exist") {
		t.Fatalf("errors = %v, want a missing dragged element error", report.Errors)
	}
}

func TestEvaluateNothingInReach(t *testing.T) {
	src := kitchen + `(drag (beam "b1" :at (vec2 50 50) :length 2 :depth 0.1))`
	report := NewApp(nil).Evaluate(src)
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.Masters == 0 {
		t.Error("dragged beam should still produce master geometry")
	}
	if len(report.Results) != 0 || report.Primary != nil || report.Secondary != nil {
		t.Errorf("expected no results, got %d", len(report.Results))
	}
}
