// Package chat implements the conversation state machine: intent
// detection, retrieval-augmented prompt assembly, oracle invocation and
// turn persistence.
package chat

import (
	"context"
	"errors"
	"fmt"

	"gachipet/internal/db"
	"gachipet/internal/history"
	"gachipet/internal/models"
	"gachipet/internal/oracle"
	"gachipet/pkg/logger"
)

// historyLimit caps how many past turns are injected into a prompt.
const historyLimit = 5

// Store is the persistence surface the orchestrator needs.
type Store interface {
	SaveTurn(ctx context.Context, turn *models.Turn) error
	LastFoodEvent(ctx context.Context, userID int64) (*models.FoodEvent, error)
}

// Reply is the outcome of one conversation turn.
type Reply struct {
	Text        string
	NextState   string
	StateTag    string
	IsFoodQuery bool
	ShowUpload  bool
	HideUpload  bool
}

type Orchestrator struct {
	oracle  oracle.Oracle
	history *history.Store
	store   Store
	logger  *logger.Logger
}

func NewOrchestrator(o oracle.Oracle, h *history.Store, store Store, l *logger.Logger) *Orchestrator {
	return &Orchestrator{
		oracle:  o,
		history: h,
		store:   store,
		logger:  l,
	}
}

// Respond runs one turn of the conversation. Rules are evaluated top to
// bottom and the first match wins:
//
//  1. last-ate query, from any state
//  2. food intent while idle
//  3. awaiting a description (decline checked first)
//  4. awaiting an image (decline checked first)
//  5. finance intent
//  6. general chat
//
// The turn is persisted only after the oracle produced a response, so a
// failed generation never leaves an orphan turn.
func (o *Orchestrator) Respond(ctx context.Context, user *models.User, userText, priorState string) (*Reply, error) {
	switch {
	case isLastAteQuery(userText):
		return o.lastAte(ctx, user, userText)

	case priorState == models.StateInitial && isFoodIntent(userText):
		return o.startFoodFlow(ctx, user, userText)

	case priorState == models.StateAwaitingDescription:
		if isDeclineIntent(userText) {
			return o.finishTurn(ctx, user, userText, declineDescriptionPrompt(userText), &Reply{
				NextState:  models.StateInitial,
				StateTag:   models.TagGeneralChat,
				HideUpload: true,
			})
		}
		return o.requestImage(ctx, user, userText)

	case priorState == models.StateAwaitingImage:
		if isDeclineIntent(userText) {
			return o.finishTurn(ctx, user, userText, declineImagePrompt(userText), &Reply{
				NextState:  models.StateInitial,
				StateTag:   models.TagGeneralChat,
				HideUpload: true,
			})
		}
		return o.finishTurn(ctx, user, userText, uploadReminderPrompt(userText), &Reply{
			NextState:   models.StateAwaitingImage,
			StateTag:    models.TagFoodImageRequest,
			IsFoodQuery: true,
			ShowUpload:  true,
		})

	case isFinanceIntent(userText):
		return o.financeAdvice(ctx, user, userText)

	default:
		return o.generalChat(ctx, user, userText)
	}
}

func (o *Orchestrator) lastAte(ctx context.Context, user *models.User, userText string) (*Reply, error) {
	event, err := o.store.LastFoodEvent(ctx, user.ID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up last food event: %w", err)
	}

	return o.finishTurn(ctx, user, userText, lastAtePrompt(userText, event), &Reply{
		NextState:   models.StateInitial,
		StateTag:    models.TagFoodLogLookup,
		IsFoodQuery: true,
	})
}

func (o *Orchestrator) startFoodFlow(ctx context.Context, user *models.User, userText string) (*Reply, error) {
	transcript := o.fetchContext(ctx, user.ID, history.GroupFood)

	return o.finishTurn(ctx, user, userText, foodDiscussionPrompt(userText, transcript), &Reply{
		NextState:   models.StateAwaitingDescription,
		StateTag:    models.TagFoodDiscussion,
		IsFoodQuery: true,
	})
}

func (o *Orchestrator) requestImage(ctx context.Context, user *models.User, userText string) (*Reply, error) {
	transcript := o.fetchContext(ctx, user.ID, history.GroupFood)

	return o.finishTurn(ctx, user, userText, imageRequestPrompt(userText, transcript), &Reply{
		NextState:   models.StateAwaitingImage,
		StateTag:    models.TagFoodImageRequest,
		IsFoodQuery: true,
		ShowUpload:  true,
	})
}

func (o *Orchestrator) financeAdvice(ctx context.Context, user *models.User, userText string) (*Reply, error) {
	transcript := o.fetchContext(ctx, user.ID, history.GroupFinancial)

	return o.finishTurn(ctx, user, userText, financePrompt(userText, transcript), &Reply{
		NextState: models.StateInitial,
		StateTag:  models.TagFinancialAdvice,
	})
}

func (o *Orchestrator) generalChat(ctx context.Context, user *models.User, userText string) (*Reply, error) {
	transcript := o.fetchContext(ctx, user.ID, history.GroupGeneral)

	return o.finishTurn(ctx, user, userText, generalPrompt(userText, transcript), &Reply{
		NextState: models.StateInitial,
		StateTag:  models.TagGeneralChat,
	})
}

// fetchContext retrieves the transcript for a category group. Retrieval
// failures degrade to an empty context instead of failing the turn.
func (o *Orchestrator) fetchContext(ctx context.Context, userID int64, group string) string {
	turns, err := o.history.Fetch(ctx, userID, group, historyLimit)
	if err != nil {
		o.logger.Error("failed to fetch history context", "group", group, "error", err)
		return ""
	}
	return history.Transcript(turns)
}

// finishTurn asks the oracle for the branch's response, fills in the
// reply text and persists the turn.
func (o *Orchestrator) finishTurn(ctx context.Context, user *models.User, userText, prompt string, reply *Reply) (*Reply, error) {
	res, err := o.oracle.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, errors.New("oracle returned an empty response")
	}
	reply.Text = res.Text

	turn := &models.Turn{
		UserID:      user.ID,
		UserMessage: userText,
		BotResponse: reply.Text,
		StateTag:    reply.StateTag,
	}
	if err := o.store.SaveTurn(ctx, turn); err != nil {
		// The user already has their response; losing one history row is
		// not worth failing the request over.
		o.logger.Error("failed to persist turn", "user_id", user.ID, "error", err)
	}

	return reply, nil
}

// FeedReaction produces the pet's in-character reaction to a feeding.
func (o *Orchestrator) FeedReaction(ctx context.Context, foodName, category string, healthScore int) (string, error) {
	res, err := o.oracle.Generate(ctx, feedReactionPrompt(foodName, category, healthScore))
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", errors.New("oracle returned an empty response")
	}
	return res.Text, nil
}
