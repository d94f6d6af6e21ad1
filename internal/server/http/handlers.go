package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loft/internal/board"
	"loft/internal/llmerrors"
	"loft/internal/orchestrator"
	"loft/internal/task"
)

type chatRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleChat runs the pipeline for one message. EmptyInput is the caller's
// fault; completion errors surface with their category so the UI can decide
// between "try again" and "contract breach" messaging.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	reply, err := s.orch.Handle(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, orchestrator.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		resp := errorResponse{Error: err.Error()}
		if ce, ok := llmerrors.AsCompletionError(err); ok {
			resp.Category = ce.Category.String()
		}
		c.JSON(http.StatusBadGateway, resp)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleListTasks(c *gin.Context) {
	var tasks []task.Task
	if kindParam := c.Query("kind"); kindParam != "" {
		tasks = s.registry.ListByKind(task.ParseKind(kindParam))
	} else {
		tasks = s.registry.List()
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) sinkFromParam(c *gin.Context) (kind task.Kind, ok bool) {
	kind = task.Kind(c.Param("kind"))
	if _, found := s.sinks.ForKind(kind); !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown content kind: " + kind.String()})
		return kind, false
	}
	return kind, true
}

func (s *Server) handleGetContent(c *gin.Context) {
	kind, ok := s.sinkFromParam(c)
	if !ok {
		return
	}
	sink, _ := s.sinks.ForKind(kind)
	text, present := sink.Content()
	c.JSON(http.StatusOK, gin.H{
		"kind":      kind,
		"content":   text,
		"present":   present,
		"edit_mode": sink.EditMode(),
	})
}

func (s *Server) handleSetEditMode(c *gin.Context) {
	kind, ok := s.sinkFromParam(c)
	if !ok {
		return
	}
	var req struct {
		EditMode bool `json:"edit_mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	sink, _ := s.sinks.ForKind(kind)
	sink.SetEditMode(req.EditMode)
	c.JSON(http.StatusOK, gin.H{"kind": kind, "edit_mode": req.EditMode})
}

type addCardRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      board.CardStatus `json:"status"`
}

func (s *Server) handleListCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": s.board.List()})
}

func (s *Server) handleAddCard(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Status == "" {
		req.Status = board.StatusTodo
	}
	card, err := s.board.Add(req.Title, req.Description, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *Server) handlePatchCard(c *gin.Context) {
	var patch board.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	card, err := s.board.Update(c.Param("id"), patch)
	if err != nil {
		status := http.StatusNotFound
		if patch.Status != nil && !board.ValidStatus(*patch.Status) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	if err := s.board.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
