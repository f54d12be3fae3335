package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relique/dynamicfields"
	"github.com/relique/dynamicfields/internal/observability"
)

// Profile is a nested relation of User. Its fields are never filtered
// by query parameters.
type Profile struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// User is the sample resource served by the demo.
type User struct {
	ID        int       `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	Profile   Profile   `json:"profile"`
}

// sampleUsers is the in-memory data set.
var sampleUsers = []User{
	{
		ID:        1,
		UserName:  "ada",
		Email:     "ada@example.com",
		IsActive:  true,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Profile:   Profile{Bio: "analyst", AvatarURL: "https://example.com/a/ada.png"},
	},
	{
		ID:        2,
		UserName:  "grace",
		Email:     "grace@example.com",
		IsActive:  false,
		CreatedAt: time.Date(2024, 5, 12, 14, 30, 0, 0, time.UTC),
		Profile:   Profile{Bio: "compiler engineer", AvatarURL: "https://example.com/a/grace.png"},
	},
}

// listUsers renders the collection through the serializer; field
// selection applies to each item.
func (a *app) listUsers(c *gin.Context) {
	_, _, usersSer := a.snapshot()

	out, _, err := usersSer.RenderContext(c.Request.Context(), sampleUsers,
		dynamicfields.RequestSource(c.Request))
	if err != nil {
		a.logger.Error("failed to render users", observability.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	c.JSON(http.StatusOK, out)
}

// getUser renders a single user; field selection applies at the root.
func (a *app) getUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	for _, u := range sampleUsers {
		if u.ID == id {
			_, userSer, _ := a.snapshot()
			out, _, err := userSer.RenderContext(c.Request.Context(), u,
				dynamicfields.RequestSource(c.Request))
			if err != nil {
				a.logger.Error("failed to render user", observability.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
				return
			}
			c.JSON(http.StatusOK, out)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
}

// listUsersRaw returns plain JSON; the field selection middleware on
// this route filters the rendered body.
func (a *app) listUsersRaw(c *gin.Context) {
	c.JSON(http.StatusOK, sampleUsers)
}
