// Package models defines server-side domain models.
package models

import "time"

type User struct {
	ID            string
	Email         string
	Username      string
	Nickname      string
	Avatar        string
	PasswordHash  string
	GoogleSubject string
	CreatedAt     time.Time
}

// UserInfo is the public profile returned by GET /auth/user/info.
type UserInfo struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname,omitempty"`
	Email       string   `json:"email"`
	Avatar      string   `json:"avatar,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

const RoleUser = "user"

func (u *User) Info() *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Email:       u.Email,
		Avatar:      u.Avatar,
		Roles:       []string{RoleUser},
		Permissions: []string{},
	}
}
