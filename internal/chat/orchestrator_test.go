package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gachipet/internal/db"
	"gachipet/internal/history"
	"gachipet/internal/models"
	"gachipet/internal/oracle"
	"gachipet/pkg/logger"
)

type fakeOracle struct {
	text       string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeOracle) Generate(ctx context.Context, prompt string) (oracle.Result, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return oracle.Result{}, f.err
	}
	return oracle.Result{Text: f.text, OK: true}, nil
}

func (f *fakeOracle) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (oracle.Result, error) {
	return f.Generate(ctx, prompt)
}

// fakeStore is an in-memory stand-in for the Postgres store.
type fakeStore struct {
	turns     []models.Turn
	lastEvent *models.FoodEvent
}

func (f *fakeStore) SaveTurn(ctx context.Context, turn *models.Turn) error {
	turn.ID = int64(len(f.turns) + 1)
	f.turns = append(f.turns, *turn)
	return nil
}

func (f *fakeStore) LastFoodEvent(ctx context.Context, userID int64) (*models.FoodEvent, error) {
	if f.lastEvent == nil {
		return nil, db.ErrNotFound
	}
	return f.lastEvent, nil
}

func (f *fakeStore) RecentTurns(ctx context.Context, userID int64, tags []string, limit int) ([]models.Turn, error) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	var matched []models.Turn
	for i := len(f.turns) - 1; i >= 0 && len(matched) < limit; i-- {
		if f.turns[i].UserID == userID && tagSet[f.turns[i].StateTag] {
			matched = append(matched, f.turns[i])
		}
	}
	return matched, nil
}

func newTestOrchestrator(o oracle.Oracle, store *fakeStore) *Orchestrator {
	return NewOrchestrator(o, history.NewStore(store), store, logger.Nop())
}

func testUser() *models.User {
	return &models.User{ID: 1, Username: "sam", Health: 20}
}

func TestFoodIntentFromInitialStartsFoodFlow(t *testing.T) {
	fake := &fakeOracle{text: "ooh what are you eating? how does it taste? :3"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "I'm hungry", models.StateInitial)
	require.NoError(t, err)

	assert.Equal(t, models.StateAwaitingDescription, reply.NextState)
	assert.Equal(t, models.TagFoodDiscussion, reply.StateTag)
	assert.True(t, reply.IsFoodQuery)
	assert.False(t, reply.ShowUpload)

	require.Len(t, store.turns, 1)
	assert.Equal(t, models.TagFoodDiscussion, store.turns[0].StateTag)
	assert.Equal(t, "I'm hungry", store.turns[0].UserMessage)
}

func TestDescriptionLeadsToImageRequest(t *testing.T) {
	fake := &fakeOracle{text: "that sounds delicious! Let me see! ^_^"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "it's crunchy and sweet", models.StateAwaitingDescription)
	require.NoError(t, err)

	assert.Equal(t, models.StateAwaitingImage, reply.NextState)
	assert.Equal(t, models.TagFoodImageRequest, reply.StateTag)
	assert.True(t, reply.ShowUpload)
	assert.True(t, reply.IsFoodQuery)
}

func TestDeclineBeatsFoodIntentWhileAwaitingDescription(t *testing.T) {
	fake := &fakeOracle{text: "aw, okay. maybe next time :)"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	// Contains both a food keyword and a decline keyword; the decline
	// check inside the state rule runs first.
	reply, err := orch.Respond(context.Background(), testUser(), "no thanks, no food today", models.StateAwaitingDescription)
	require.NoError(t, err)

	assert.Equal(t, models.StateInitial, reply.NextState)
	assert.Equal(t, models.TagGeneralChat, reply.StateTag)
	assert.True(t, reply.HideUpload)
	assert.False(t, reply.IsFoodQuery)
}

func TestAwaitingImageRemindsToUpload(t *testing.T) {
	fake := &fakeOracle{text: "show me the picture when you can! :3"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "it was really tasty", models.StateAwaitingImage)
	require.NoError(t, err)

	assert.Equal(t, models.StateAwaitingImage, reply.NextState)
	assert.Equal(t, models.TagFoodImageRequest, reply.StateTag)
	assert.True(t, reply.ShowUpload)
}

func TestDeclineWhileAwaitingImageResets(t *testing.T) {
	fake := &fakeOracle{text: "aww okay... another time then :("}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "never mind", models.StateAwaitingImage)
	require.NoError(t, err)

	assert.Equal(t, models.StateInitial, reply.NextState)
	assert.True(t, reply.HideUpload)
	assert.Equal(t, models.TagGeneralChat, reply.StateTag)
}

func TestLastAteQueryWinsFromAnyState(t *testing.T) {
	fake := &fakeOracle{text: "you ate a banana! very healthy ^_^"}
	store := &fakeStore{lastEvent: &models.FoodEvent{
		UserID: 1, FoodName: "banana", Category: models.CategoryFruit, HealthScore: 5,
	}}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "what did i eat last time", models.StateAwaitingImage)
	require.NoError(t, err)

	assert.Equal(t, models.StateInitial, reply.NextState, "last-ate resets the state regardless of where it was")
	assert.Equal(t, models.TagFoodLogLookup, reply.StateTag)
	assert.Contains(t, fake.lastPrompt, "banana")
	assert.Contains(t, fake.lastPrompt, "5")
}

func TestLastAteQueryWithNoRecordStatesAbsence(t *testing.T) {
	fake := &fakeOracle{text: "you haven't shown me any food yet!"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "what did i eat last time", models.StateInitial)
	require.NoError(t, err)

	assert.Equal(t, models.StateInitial, reply.NextState)
	assert.Equal(t, models.TagFoodLogLookup, reply.StateTag)
	assert.Contains(t, fake.lastPrompt, "no record")
}

func TestFinanceIntentFromInitial(t *testing.T) {
	fake := &fakeOracle{text: "save your crumbs for later! budget wisely :)"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "help me budget my money", models.StateInitial)
	require.NoError(t, err)

	assert.Equal(t, models.StateInitial, reply.NextState)
	assert.Equal(t, models.TagFinancialAdvice, reply.StateTag)
	assert.False(t, reply.IsFoodQuery)
}

func TestGeneralChatFallback(t *testing.T) {
	fake := &fakeOracle{text: "squeak squeak! ^_^"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	reply, err := orch.Respond(context.Background(), testUser(), "tell me a story", models.StateInitial)
	require.NoError(t, err)

	assert.Equal(t, models.StateInitial, reply.NextState)
	assert.Equal(t, models.TagGeneralChat, reply.StateTag)
}

func TestOracleFailureLeavesNoOrphanTurn(t *testing.T) {
	fake := &fakeOracle{err: errors.New("generation backend down")}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	_, err := orch.Respond(context.Background(), testUser(), "I'm hungry", models.StateInitial)
	require.Error(t, err)
	assert.Empty(t, store.turns, "turns must only be persisted after a successful response")
}

func TestHistoryContextIsInjectedChronologically(t *testing.T) {
	fake := &fakeOracle{text: "yum!"}
	store := &fakeStore{
		turns: []models.Turn{
			{UserID: 1, UserMessage: "first", BotResponse: "one", StateTag: models.TagFoodDiscussion},
			{UserID: 1, UserMessage: "second", BotResponse: "two", StateTag: models.TagFoodImageRequest},
		},
	}
	orch := newTestOrchestrator(fake, store)

	_, err := orch.Respond(context.Background(), testUser(), "time to eat", models.StateInitial)
	require.NoError(t, err)

	assert.Contains(t, fake.lastPrompt, "User: first")
	assert.Contains(t, fake.lastPrompt, "User: second")
	assert.Less(t,
		strings.Index(fake.lastPrompt, "first"),
		strings.Index(fake.lastPrompt, "second"),
		"older turns come first in the transcript")
}

func TestEmptyHistoryOmitsContextSection(t *testing.T) {
	fake := &fakeOracle{text: "squeak!"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	_, err := orch.Respond(context.Background(), testUser(), "time to eat", models.StateInitial)
	require.NoError(t, err)

	assert.NotContains(t, fake.lastPrompt, "recent conversation")
}

func TestStateSequenceIsDeterministic(t *testing.T) {
	fake := &fakeOracle{text: "squeak!"}
	store := &fakeStore{}
	orch := newTestOrchestrator(fake, store)

	steps := []struct {
		input string
		prior string
		want  string
	}{
		{"I'm hungry", models.StateInitial, models.StateAwaitingDescription},
		{"it's crunchy and sweet", models.StateAwaitingDescription, models.StateAwaitingImage},
		{"it was really tasty", models.StateAwaitingImage, models.StateAwaitingImage},
		{"never mind", models.StateAwaitingImage, models.StateInitial},
		{"hello again", models.StateInitial, models.StateInitial},
	}

	for _, step := range steps {
		reply, err := orch.Respond(context.Background(), testUser(), step.input, step.prior)
		require.NoError(t, err, step.input)
		assert.Equal(t, step.want, reply.NextState, "input %q from %q", step.input, step.prior)
	}
}
