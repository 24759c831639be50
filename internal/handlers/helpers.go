package handlers

import (
	"github.com/gin-gonic/gin"

	"projectzen/internal/models"
	"projectzen/internal/services"
)

func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, _ := v.(string)
	return id, id != ""
}

// resolveActor перечитывает актёра из живой коллекции: роль из токена
// может устареть, решения принимаем по текущей.
func resolveActor(c *gin.Context, users services.UserService) *models.User {
	id, ok := currentUserID(c)
	if !ok {
		return nil
	}
	user, err := users.GetUserByID(id)
	if err != nil {
		return nil
	}
	return user
}
