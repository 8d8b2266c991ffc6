package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	HashedPassword   string    `json:"-"` // Not exposed
	Role             string    `json:"role"`
	CodeforcesHandle string    `json:"codeforces,omitempty"`
	LeetCodeHandle   string    `json:"leetcode,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasJudgeHandle reports whether the user linked at least one external judge
// account, which makes them eligible for background sync.
func (u *User) HasJudgeHandle() bool {
	return u.CodeforcesHandle != "" || u.LeetCodeHandle != ""
}
