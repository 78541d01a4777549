// internal/models/models.go
package models

import (
	"time"
)

// Conversation states carried on the wire between frontend and backend.
const (
	StateInitial             = "initial"
	StateAwaitingDescription = "awaiting_description"
	StateAwaitingImage       = "awaiting_image"
)

// Turn state tags. Every persisted turn carries exactly one of these.
const (
	TagFoodDiscussion   = "food_discussion"
	TagFoodImageRequest = "food_image_request"
	TagGeneralChat      = "general_chat"
	TagFinancialAdvice  = "financial_advice"
	TagFoodLogLookup    = "food_log_lookup"
)

// Food categories assigned by the nutrition table.
const (
	CategoryFruit     = "fruit"
	CategoryVegetable = "vegetable"
	CategoryFastFood  = "fast food"
	CategoryDessert   = "dessert"
	CategoryUnknown   = "unknown"
)

// Health score bounds.
const (
	MinHealth = 0
	MaxHealth = 20
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Health    int       `json:"health"`
	CreatedAt time.Time `json:"created_at"`
}

type Turn struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	StateTag    string    `json:"state_tag"`
	Timestamp   time.Time `json:"timestamp"`
}

type FoodEvent struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	FoodName    string    `json:"food_name"`
	Category    string    `json:"category"`
	HealthScore int       `json:"health_score"`
	Confidence  float64   `json:"confidence"`
	Timestamp   time.Time `json:"timestamp"`
}
