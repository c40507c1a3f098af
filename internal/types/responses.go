package types

import "time"

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type TeamResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TeamMemberResponse struct {
	ID          uint      `json:"id"`
	TeamID      uint      `json:"team_id"`
	UserID      uint      `json:"user_id"`
	IsModerator bool      `json:"is_moderator"`
	JoinedAt    time.Time `json:"joined_at"`
}

type TaskResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	OwnerID     *uint      `json:"owner_id"`
	TeamID      *uint      `json:"team_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
