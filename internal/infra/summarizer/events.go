package summarizer

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// eventKind partitions the response stream into the three cases the
// adapter cares about: events to keep waiting through, the final text
// payload, and an escalation in place of a result.
type eventKind int

const (
	eventIntermediate eventKind = iota
	eventFinal
	eventEscalation
)

// streamEvent is the closed variant consumed by the Claude adapter. Text
// is set for eventFinal; Reason is set for eventEscalation.
type streamEvent struct {
	kind   eventKind
	text   string
	reason string
}

// classifyEvent maps one raw API stream event onto the closed variant.
// Only the message-stop event is terminal; everything before it is an
// intermediate event regardless of its concrete type. The accumulated
// message carries the stop reason and the collected text blocks.
func classifyEvent(event anthropic.MessageStreamEventUnion, acc *anthropic.Message) streamEvent {
	switch event.AsAny().(type) {
	case anthropic.MessageStopEvent:
		if acc.StopReason == anthropic.StopReasonRefusal {
			return streamEvent{kind: eventEscalation, reason: "model refused to summarize the input"}
		}

		var b strings.Builder
		for _, block := range acc.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			return streamEvent{kind: eventEscalation, reason: "final response contained no text"}
		}
		return streamEvent{kind: eventFinal, text: text}
	default:
		return streamEvent{kind: eventIntermediate}
	}
}
