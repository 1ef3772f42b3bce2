package handlers

import (
	"net/http"

	"github.com/pandupatra/math-tug-of-war/internal/middleware"
	"github.com/pandupatra/math-tug-of-war/internal/models"
	"github.com/pandupatra/math-tug-of-war/internal/problems"
	"github.com/pandupatra/math-tug-of-war/internal/services"
	"github.com/pandupatra/math-tug-of-war/internal/ws"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions   *services.SessionService
	hub        *ws.Hub
	pollActive int
	pollIdle   int
}

func NewSessionHandler(sessions *services.SessionService, hub *ws.Hub, pollActiveMS, pollIdleMS int) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		hub:        hub,
		pollActive: pollActiveMS,
		pollIdle:   pollIdleMS,
	}
}

type CreateSessionRequest struct {
	Name string `json:"name" binding:"required" example:"Alice"`
}

type JoinSessionRequest struct {
	Name string `json:"name" binding:"required" example:"Bob"`
}

type SubmitAnswerRequest struct {
	Answer *int   `json:"answer" binding:"required" example:"42"`
	Nonce  string `json:"nonce" binding:"required,min=8,max=64" example:"9f2c4d1ab0e37856"`
}

// CreateSession godoc
// @Summary      Create a session
// @Description  Open a new waiting session holding player one's seat
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body CreateSessionRequest true "Player name"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, token, err := h.sessions.Create(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session": session.View(),
		"token":   token,
		"role":    1,
	})
}

// JoinSession godoc
// @Summary      Join a session
// @Description  Claim the second seat; the session goes active
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body JoinSessionRequest true "Player name"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/join [post]
func (h *SessionHandler) JoinSession(c *gin.Context) {
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sessionID := c.Param("id")
	session, token, err := h.sessions.Join(c.Request.Context(), sessionID, req.Name)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(sessionID, ws.Message{
		Type: ws.EventPlayerJoined,
		Data: session.View(),
	})

	c.JSON(http.StatusOK, gin.H{
		"session": session.View(),
		"token":   token,
		"role":    2,
	})
}

// GetSession godoc
// @Summary      Get session state
// @Description  Load the session for one of its seats; role is derived from the bearer token
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	token := c.GetString(middleware.ContextPlayerToken)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "player token required"})
		return
	}

	session, role, err := h.sessions.GetForToken(c.Request.Context(), c.Param("id"), token)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	poll := h.pollIdle
	if session.Status == models.SessionStatusActive {
		poll = h.pollActive
	}

	c.JSON(http.StatusOK, gin.H{
		"session":          session.View(),
		"role":             role,
		"poll_interval_ms": poll,
	})
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Resolve an answer against the current problem; rejections carry a reason
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body SubmitAnswerRequest true "Answer and problem nonce"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/answer [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	token := c.GetString(middleware.ContextPlayerToken)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "player token required"})
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if *req.Answer < problems.AnswerMin || *req.Answer > problems.AnswerMax {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "answer out of range"})
		return
	}

	sessionID := c.Param("id")
	result, err := h.sessions.SubmitAnswer(c.Request.Context(), sessionID, token, *req.Answer, req.Nonce)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	if result.Accepted {
		msgType := ws.EventSessionUpdated
		if result.Session.Status == models.SessionStatusFinished {
			msgType = ws.EventMatchFinished
		}
		h.hub.Broadcast(sessionID, ws.Message{
			Type: msgType,
			Data: result.Session.View(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted": result.Accepted,
		"reason":   result.Reason,
		"session":  result.Session.View(),
	})
}

// Rematch godoc
// @Summary      Rematch
// @Description  Reset a finished session into a fresh active round
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/rematch [post]
func (h *SessionHandler) Rematch(c *gin.Context) {
	token := c.GetString(middleware.ContextPlayerToken)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "player token required"})
		return
	}

	sessionID := c.Param("id")
	session, err := h.sessions.Rematch(c.Request.Context(), sessionID, token)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(sessionID, ws.Message{
		Type: ws.EventRematchStarted,
		Data: session.View(),
	})

	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}
