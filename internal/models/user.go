package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "Admin"
	RoleManager    UserRole = "Manager"
	RoleTeamMember UserRole = "Team Member"
)

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"-"` // не отдаём наружу; сравнение в открытом виде (demo)
	AvatarURL string   `json:"avatarUrl"`
	Role      UserRole `json:"role"`

	// refresh-хранение (opaque строка)
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	// Telegram-доставка уведомлений (опционально)
	TelegramChatID int64 `json:"-"`
	NotifyTelegram bool  `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
