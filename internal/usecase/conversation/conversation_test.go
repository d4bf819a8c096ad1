package conversation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/testutil/memstore"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/conversation"
)

func createTestGig(authorID uuid.UUID) *entity.Gig {
	return &entity.Gig{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    "Test Gig",
		Price:    100,
		Status:   valueobject.GigStatusApproved,
	}
}

func TestGetOrCreateConversationUseCase_ReusesExisting(t *testing.T) {
	repo := memstore.NewConversations()
	uc := conversation.NewGetOrCreateConversationUseCase(repo)

	gig := createTestGig(uuid.New())
	providerID := uuid.New()

	first, err := uc.Execute(context.Background(), gig, providerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), gig, providerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same conversation, got %s and %s", first.ID, second.ID)
	}
	if repo.Count() != 1 {
		t.Errorf("expected 1 conversation, got %d", repo.Count())
	}
}

func TestGetOrCreateConversationUseCase_SelfConversation(t *testing.T) {
	uc := conversation.NewGetOrCreateConversationUseCase(memstore.NewConversations())
	gig := createTestGig(uuid.New())

	_, err := uc.Execute(context.Background(), gig, gig.AuthorID)
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetConversationUseCase_NotParticipant(t *testing.T) {
	repo := memstore.NewConversations()
	gig := createTestGig(uuid.New())
	conv, _ := conversation.NewGetOrCreateConversationUseCase(repo).Execute(context.Background(), gig, uuid.New())

	uc := conversation.NewGetConversationUseCase(repo)
	if _, err := uc.Execute(context.Background(), conv.ID, uuid.New()); !apperror.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), conv.ID, gig.AuthorID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListMyConversationsUseCase_Success(t *testing.T) {
	repo := memstore.NewConversations()
	create := conversation.NewGetOrCreateConversationUseCase(repo)
	providerID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := create.Execute(context.Background(), createTestGig(uuid.New()), providerID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	convs, err := conversation.NewListMyConversationsUseCase(repo).Execute(context.Background(), providerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(convs) != 2 {
		t.Errorf("expected 2 conversations, got %d", len(convs))
	}
}
