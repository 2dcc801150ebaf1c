package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billie-coop/genomechat/internal/chat"
	"github.com/billie-coop/genomechat/internal/llm"
)

type chatRequest struct {
	Messages []chat.Turn `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.reject(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := validate(req.Messages); err != nil {
		s.reject(c, err.Error())
		return
	}

	messages := make([]llm.Message, 0, len(req.Messages)+1)
	if s.systemPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.systemPrompt})
	}
	for _, t := range req.Messages {
		messages = append(messages, llm.Message{Role: string(t.Role), Content: t.Content})
	}

	start := time.Now()
	reply, err := s.completer.Complete(c.Request.Context(), messages)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err == nil && strings.TrimSpace(reply) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		s.metrics.requests.WithLabelValues(outcomeProvider).Inc()
		s.log.Error("completion failed", "error", err, "turns", len(req.Messages))
		c.JSON(http.StatusBadGateway, gin.H{"detail": fmt.Sprintf("model provider failed: %v", err)})
		return
	}

	s.metrics.requests.WithLabelValues(outcomeOK).Inc()
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) reject(c *gin.Context, detail string) {
	s.metrics.requests.WithLabelValues(outcomeInvalid).Inc()
	s.log.Warn("rejected chat request", "detail", detail)
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}

func validate(turns []chat.Turn) error {
	if len(turns) == 0 {
		return errors.New("messages must not be empty")
	}
	for i, t := range turns {
		if t.Role != chat.RoleUser && t.Role != chat.RoleAssistant {
			return fmt.Errorf("messages[%d]: role must be \"user\" or \"assistant\", got %q", i, t.Role)
		}
		// Assistant turns may be blank; clients replay whatever they received.
		if t.Role == chat.RoleUser && strings.TrimSpace(t.Content) == "" {
			return fmt.Errorf("messages[%d]: user content must not be empty", i)
		}
	}
	if turns[len(turns)-1].Role != chat.RoleUser {
		return errors.New("last message must come from the user")
	}
	return nil
}
