package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"gachipet/internal/chat"
	"gachipet/internal/health"
	"gachipet/internal/models"
	"gachipet/internal/nutrition"
	"gachipet/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Conversation is the orchestrator surface the handlers use.
type Conversation interface {
	Respond(ctx context.Context, user *models.User, userText, priorState string) (*chat.Reply, error)
	FeedReaction(ctx context.Context, foodName, category string, healthScore int) (string, error)
}

// FoodClassifier is the image classification cascade.
type FoodClassifier interface {
	Classify(ctx context.Context, image []byte, mimeType string) (label string, confidence float64)
}

// UserStore covers user bootstrap and the feed pipeline's writes.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, username string) (*models.User, error)
	UpdateUserHealth(ctx context.Context, userID int64, health int) error
	SaveFoodEvent(ctx context.Context, event *models.FoodEvent) error
}

// DisplayNotifier pushes emotion codes to the pet display.
type DisplayNotifier interface {
	Send(host string, port, emotion int) error
}

// DisplayConfig tells the feed pipeline where the display lives, if one
// is attached at all.
type DisplayConfig struct {
	Enabled bool
	Host    string
	Port    int
}

type Handlers struct {
	conversation Conversation
	classifier   FoodClassifier
	store        UserStore
	notifier     DisplayNotifier
	display      DisplayConfig
	logger       *logger.Logger
}

func NewHandlers(conv Conversation, cls FoodClassifier, store UserStore, notifier DisplayNotifier, display DisplayConfig, l *logger.Logger) *Handlers {
	return &Handlers{
		conversation: conv,
		classifier:   cls,
		store:        store,
		notifier:     notifier,
		display:      display,
		logger:       l,
	}
}

type chatRequest struct {
	Input             string `json:"input"`
	ConversationState string `json:"conversation_state"`
	Username          string `json:"username"`
}

// HandleChat serves the conversation endpoint.
func (h *Handlers) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": "Invalid request body."})
		return
	}

	if req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"response": "No username provided."})
		return
	}
	if req.Input == "" {
		c.JSON(http.StatusBadRequest, gin.H{"response": "No input provided."})
		return
	}

	state := req.ConversationState
	if state == "" {
		state = models.StateInitial
	}

	ctx := c.Request.Context()

	user, err := h.store.GetOrCreateUser(ctx, req.Username)
	if err != nil {
		h.logger.Error("failed to load user", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": fmt.Sprintf("Error: %v", err)})
		return
	}

	reply, err := h.conversation.Respond(ctx, user, req.Input, state)
	if err != nil {
		h.logger.Error("conversation turn failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": fmt.Sprintf("Error: %v", err)})
		return
	}

	resp := gin.H{
		"response":           reply.Text,
		"is_food_query":      reply.IsFoodQuery,
		"conversation_state": reply.NextState,
		"health":             user.Health,
	}
	if reply.ShowUpload {
		resp["show_upload"] = true
	}
	if reply.HideUpload {
		resp["hide_upload"] = true
	}

	c.JSON(http.StatusOK, resp)
}

// HandleFeed serves the image upload endpoint: classify, resolve
// nutrition, update health, log the event, then let the pet react.
func (h *Handlers) HandleFeed(c *gin.Context) {
	username := c.PostForm("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"response": "No username provided."})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": "No image provided."})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"response": "No image selected."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": "Could not read image."})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"response": "Could not read image."})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ctx := c.Request.Context()

	user, err := h.store.GetOrCreateUser(ctx, username)
	if err != nil {
		h.logger.Error("failed to load user", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": fmt.Sprintf("Error: %v", err)})
		return
	}

	// The cascade absorbs its own failures and degrades to an unknown
	// label; the pipeline continues regardless.
	label, confidence := h.classifier.Classify(ctx, image, mimeType)
	info := nutrition.Resolve(label)

	newHealth, delta := health.Apply(user.Health, info.Category, info.HealthScore)

	// Read-modify-write without isolation: concurrent feeds for the same
	// user can race and the last write wins.
	if err := h.store.UpdateUserHealth(ctx, user.ID, newHealth); err != nil {
		h.logger.Error("failed to update health", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": fmt.Sprintf("Error: %v", err)})
		return
	}

	event := &models.FoodEvent{
		UserID:      user.ID,
		FoodName:    label,
		Category:    info.Category,
		HealthScore: info.HealthScore,
		Confidence:  confidence,
	}
	if err := h.store.SaveFoodEvent(ctx, event); err != nil {
		// Health was already written; the missing log row is an accepted
		// gap rather than a reason to fail the feeding.
		h.logger.Error("failed to persist food event", "user_id", user.ID, "error", err)
	}

	reaction, err := h.conversation.FeedReaction(ctx, label, info.Category, info.HealthScore)
	if err != nil {
		h.logger.Error("feed reaction failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": fmt.Sprintf("Error: %v", err)})
		return
	}

	h.notifyDisplay(newHealth)

	c.JSON(http.StatusOK, gin.H{
		"response":        reaction,
		"food_name":       label,
		"category":        info.Category,
		"health_score":    info.HealthScore,
		"confidence":      confidence,
		"health":          newHealth,
		"health_change":   delta,
		"is_healthy_food": health.IsHealthy(info.Category, info.HealthScore),
		"hide_upload":     true,
	})
}

type displayRequest struct {
	Emotion *int   `json:"emotion"`
	IP      string `json:"ip"`
	Port    int    `json:"port"`
}

// HandleDisplay relays an emotion code from the frontend to the pet
// display over UDP.
func (h *Handlers) HandleDisplay(c *gin.Context) {
	var req displayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": "Invalid request body."})
		return
	}

	if req.Emotion == nil || *req.Emotion < 0 || *req.Emotion > 4 {
		c.JSON(http.StatusBadRequest, gin.H{"response": "Invalid emotion code."})
		return
	}
	if req.IP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"response": "No display address provided."})
		return
	}

	if err := h.notifier.Send(req.IP, req.Port, *req.Emotion); err != nil {
		h.logger.Error("failed to notify display", "ip", req.IP, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": fmt.Sprintf("Error: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// notifyDisplay pushes the mood for the new health value to the
// configured display. Best effort; errors are only logged.
func (h *Handlers) notifyDisplay(newHealth int) {
	if !h.display.Enabled || h.notifier == nil {
		return
	}
	mood := health.Mood(newHealth)
	if err := h.notifier.Send(h.display.Host, h.display.Port, mood); err != nil {
		h.logger.Warn("display notification failed", "error", err)
	}
}
