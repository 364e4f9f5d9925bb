package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/buynlarge/console/internal/model/chat"
	chatservice "github.com/buynlarge/console/internal/service/chat"
	"github.com/buynlarge/console/internal/service/chatapi"
)

func userTurn(content string) chatservice.Turn {
	return chatservice.Turn{Sender: chat.SenderUser, Content: content}
}

func TestServiceSaveAndLoad(t *testing.T) {
	svc := chatservice.NewService()
	ctx := context.Background()

	stored, err := svc.SaveMessages(ctx, "abc", userTurn("hola"), chatservice.Turn{Sender: chat.SenderBot, Content: "¡Hola!"})
	if err != nil {
		t.Fatalf("SaveMessages err: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(stored))
	}
	first, second := stored[0], stored[1]
	if second.ID <= first.ID {
		t.Fatalf("ids must increase: %d then %d", first.ID, second.ID)
	}
	if chatapi.ParseTimestamp(first.Timestamp).IsZero() {
		t.Fatalf("timestamp %q does not parse", first.Timestamp)
	}

	conv, err := svc.GetConversation(ctx, "abc")
	if err != nil {
		t.Fatalf("GetConversation err: %v", err)
	}
	if conv.SessionID != "abc" || len(conv.Messages) != 2 {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
	if conv.Messages[0].Content != "hola" || conv.Messages[1].Sender != chat.SenderBot {
		t.Fatalf("unexpected order: %+v", conv.Messages)
	}
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	svc := chatservice.NewService()
	ctx := context.Background()

	if _, err := svc.SaveMessages(ctx, "a", userTurn("uno")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SaveMessages(ctx, "b", userTurn("dos")); err != nil {
		t.Fatal(err)
	}

	a, _ := svc.GetConversation(ctx, "a")
	b, _ := svc.GetConversation(ctx, "b")
	if a.ID == b.ID || len(a.Messages) != 1 || len(b.Messages) != 1 {
		t.Fatalf("sessions leaked: %+v %+v", a, b)
	}
}

func TestServiceValidation(t *testing.T) {
	svc := chatservice.NewService()
	ctx := context.Background()

	if _, err := svc.SaveMessages(ctx, "", userTurn("hola")); !errors.Is(err, chatservice.ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
	if _, err := svc.SaveMessages(ctx, "abc", userTurn("  ")); !errors.Is(err, chatservice.ErrMessageRequired) {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}
	if _, err := svc.SaveMessages(ctx, "abc", chatservice.Turn{Sender: "system", Content: "hola"}); !errors.Is(err, chatservice.ErrInvalidSender) {
		t.Fatalf("expected ErrInvalidSender, got %v", err)
	}
	if _, err := svc.GetConversation(ctx, "missing"); !errors.Is(err, chatservice.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceRejectedBatchStoresNothing(t *testing.T) {
	svc := chatservice.NewService()
	ctx := context.Background()

	_, err := svc.SaveMessages(ctx, "abc", userTurn("hola"), chatservice.Turn{Sender: chat.SenderBot, Content: " "})
	if !errors.Is(err, chatservice.ErrMessageRequired) {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}
	if _, err := svc.LoadTranscript(ctx, "abc"); !errors.Is(err, chatservice.ErrSessionNotFound) {
		t.Fatalf("expected no conversation after a rejected batch, got %v", err)
	}
}
