package summarizer

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestClassifyEvent_IntermediateEvents(t *testing.T) {
	acc := &anthropic.Message{}

	for _, eventType := range []string{"message_start", "content_block_start", "content_block_delta", "content_block_stop", "message_delta"} {
		event := anthropic.MessageStreamEventUnion{Type: eventType}
		got := classifyEvent(event, acc)
		if got.kind != eventIntermediate {
			t.Errorf("classifyEvent(%q).kind = %v, want intermediate", eventType, got.kind)
		}
	}
}

func TestClassifyEvent_FinalTextOnStop(t *testing.T) {
	acc := &anthropic.Message{
		StopReason: anthropic.StopReasonEndTurn,
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "The summary "},
			{Type: "text", Text: "continues."},
		},
	}
	event := anthropic.MessageStreamEventUnion{Type: "message_stop"}

	got := classifyEvent(event, acc)
	if got.kind != eventFinal {
		t.Fatalf("kind = %v, want final", got.kind)
	}
	if got.text != "The summary continues." {
		t.Errorf("text = %q", got.text)
	}
}

func TestClassifyEvent_RefusalEscalates(t *testing.T) {
	acc := &anthropic.Message{StopReason: anthropic.StopReasonRefusal}
	event := anthropic.MessageStreamEventUnion{Type: "message_stop"}

	got := classifyEvent(event, acc)
	if got.kind != eventEscalation {
		t.Fatalf("kind = %v, want escalation", got.kind)
	}
	if got.reason == "" {
		t.Error("reason is empty, want refusal description")
	}
}

func TestClassifyEvent_EmptyFinalEscalates(t *testing.T) {
	acc := &anthropic.Message{StopReason: anthropic.StopReasonEndTurn}
	event := anthropic.MessageStreamEventUnion{Type: "message_stop"}

	got := classifyEvent(event, acc)
	if got.kind != eventEscalation {
		t.Fatalf("kind = %v, want escalation for empty text", got.kind)
	}
}
