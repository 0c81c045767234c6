package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"pecas/internal/config"
	"pecas/internal/service"

	"github.com/gin-gonic/gin"
)

const welcomeText = "Olá! Sou o assistente de peças. Me diga o que você procura, " +
	"por exemplo: \"filtro de ar para MS162\" ou o código do material (4147-141-0300)."

// TelegramUpdate is the subset of the Bot API update payload we consume.
type TelegramUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64 `json:"message_id"`
		Chat      struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// TelegramHandler bridges Bot API webhooks to the assistant pipeline
type TelegramHandler struct {
	assistant  *service.PartsAssistant
	cfg        *config.TelegramConfig
	httpClient *http.Client
}

// NewTelegramHandler creates a new Telegram webhook handler
func NewTelegramHandler(assistant *service.PartsAssistant, cfg *config.TelegramConfig) *TelegramHandler {
	return &TelegramHandler{
		assistant:  assistant,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Health handles GET /bot/telegram/webhook
func (h *TelegramHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"configured": h.cfg.BotToken != "",
	})
}

// Webhook handles POST /bot/telegram/webhook
func (h *TelegramHandler) Webhook(c *gin.Context) {
	if h.cfg.SecretToken != "" {
		if c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != h.cfg.SecretToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret token"})
			return
		}
	}

	var update TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update: " + err.Error()})
		return
	}

	// Telegram retries on non-200, so edits, stickers and other textless
	// updates are acknowledged and dropped.
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	var reply string
	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		reply = welcomeText
	default:
		resp := h.assistant.SearchAndFormat(c.Request.Context(), text)
		reply = resp.ReplyText
	}

	if err := h.sendMessage(c.Request.Context(), chatID, reply); err != nil {
		log.Printf("failed to send telegram reply to chat %d: %v", chatID, err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *TelegramHandler) sendMessage(ctx context.Context, chatID int64, text string) error {
	if h.cfg.BotToken == "" {
		return fmt.Errorf("telegram bot token is not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", h.cfg.APIBase, h.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}
