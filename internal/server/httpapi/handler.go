// Package httpapi exposes the server's REST surface over gin. Rejections
// carry a JSON body with a single "detail" field.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/todoapp/internal/common"
	"github.com/dmitrijs2005/todoapp/internal/logging"
	"github.com/dmitrijs2005/todoapp/internal/server/models"
	"github.com/dmitrijs2005/todoapp/internal/server/services"
)

type Handler struct {
	users  *services.UserService
	todos  *services.TodoService
	logger logging.Logger
}

func NewHandler(users *services.UserService, todos *services.TodoService, logger logging.Logger) *Handler {
	return &Handler{users: users, todos: todos, logger: logger}
}

// NewRouter builds the gin engine with public and token-protected groups.
func (h *Handler) NewRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(h.logger))

	router.GET("/health", h.Health)
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)

	api := router.Group("")
	api.Use(Auth(h.users))
	{
		api.GET("/me", h.Me)
		api.GET("/todos/", h.ListTodos)
		api.GET("/todos/:id", h.GetTodo)
		api.POST("/todos/", h.CreateTodo)
		api.PUT("/todos/:id", h.UpdateTodo)
		api.DELETE("/todos/:id", h.DeleteTodo)
	}

	return router
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already registered"})
		case errors.Is(err, common.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(h.currentUser(c)))
}

func (h *Handler) ListTodos(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	todos, err := h.todos.List(c.Request.Context(), h.currentUser(c).ID, skip, limit)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTodoListResponse(todos))
}

func (h *Handler) GetTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid todo id"})
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), h.currentUser(c).ID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Todo not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var req createTodoRequest
	req.Priority = models.PriorityMedium
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), h.currentUser(c).ID, req.Title, req.Description, req.Priority)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid todo"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *Handler) UpdateTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid todo id"})
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return
	}

	patch := &models.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
	}

	todo, err := h.todos.Update(c.Request.Context(), h.currentUser(c).ID, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Todo not found"})
		case errors.Is(err, common.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid todo"})
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid todo id"})
		return
	}

	if err := h.todos.Delete(c.Request.Context(), h.currentUser(c).ID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Todo not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) currentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.Error(c.Request.Context(), "request failed",
		"request_id", c.GetString("requestID"), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}
