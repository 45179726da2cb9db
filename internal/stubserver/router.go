package stubserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gtuverse/clubdeck/internal/config"
	"github.com/gtuverse/clubdeck/internal/domain"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createRoomRequest struct {
	Name string `json:"name" binding:"required"`
}

type addMemberRequest struct {
	UserID int `json:"user_id" binding:"required"`
}

func SetupRouter(cfg *config.Config, store *Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "stubserver").Str("mode", cfg.Mode).Msg("router setup")

	r.POST("/register", func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid registration payload"})
			return
		}
		if _, err := store.CreateUser(req.Username, req.Email, req.Password); err != nil {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid login payload"})
			return
		}
		user, err := store.Authenticate(req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		token, err := issueToken(cfg.Secret, user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "token issue failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	})

	api := r.Group("/", authRequired(cfg.Secret))

	api.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Users())
	})

	api.GET("/users/:id/rooms", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, store.RoomsForUser(domain.UserID(id)))
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Rooms())
	})

	api.POST("/rooms", func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "room name is required"})
			return
		}
		room := store.CreateRoom(req.Name, DefaultCapacity)
		c.JSON(http.StatusCreated, room)
	})

	api.GET("/rooms/:id", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		room, err := store.Room(domain.RoomID(id))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, room)
	})

	api.DELETE("/rooms/:id", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		if err := store.DeleteRoom(domain.RoomID(id)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.POST("/rooms/:id/users", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var req addMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "user_id is required"})
			return
		}
		if err := store.AddMember(domain.RoomID(id), domain.UserID(req.UserID)); err != nil {
			c.JSON(memberErrStatus(err), gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/rooms/:id/users", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		members, err := store.Members(domain.RoomID(id))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, members)
	})

	api.DELETE("/rooms/:id/users/:userId", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		userID, ok := intParam(c, "userId")
		if !ok {
			return
		}
		if err := store.RemoveMember(domain.RoomID(id), domain.UserID(userID)); err != nil {
			c.JSON(memberErrStatus(err), gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	return r
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return v, true
}

func memberErrStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotMember):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRoomFull), errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
