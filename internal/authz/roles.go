package authz

import "projectzen/internal/models"

// Числовые ранги ролей: старший может переопределять младшего.
const (
	RankTeamMember = 10
	RankManager    = 20
	RankAdmin      = 30
)

func Rank(role models.UserRole) int {
	switch role {
	case models.RoleAdmin:
		return RankAdmin
	case models.RoleManager:
		return RankManager
	case models.RoleTeamMember:
		return RankTeamMember
	}
	return 0
}

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

func IsManager(u *models.User) bool {
	return u != nil && u.Role == models.RoleManager
}
