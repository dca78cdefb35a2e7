package api

import "time"

// Article is a blog post as served by the backend.
type Article struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	Description string    `json:"description,omitempty"`
	AuthorID    int64     `json:"authorId"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ArticleRequest creates or updates a post.
type ArticleRequest struct {
	ID      int64   `json:"id,omitempty"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Tags    []int64 `json:"tags"`
}

// Tag labels posts.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PostCount int64  `json:"postCount,omitempty"`
}

// User is a public user profile.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Nickname    string    `json:"nickname"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatarUrl"`
	DOB         string    `json:"dob"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

// UserWithAdminInfo extends User with moderation state, visible to admins.
type UserWithAdminInfo struct {
	User
	IsBanned  bool   `json:"isBanned"`
	BanReason string `json:"banReason,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}

// Comment is one comment or threaded reply.
type Comment struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	AuthorID       int64     `json:"authorId"`
	AuthorNickname string    `json:"authorNickname"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CommentRequest creates a comment or a reply.
type CommentRequest struct {
	Content string `json:"content"`
}

// BanRequest bans a user (or the user's IP) with a reason.
type BanRequest struct {
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

// BanIPRequest bans an IP address directly.
type BanIPRequest struct {
	IPAddress string `json:"ipAddress"`
	Reason    string `json:"reason"`
}

// BannedIP is one banned address listing.
type BannedIP struct {
	IPAddress string    `json:"ipAddress"`
	Reason    string    `json:"reason"`
	BannedAt  time.Time `json:"bannedAt"`
}

// PageStats aggregates the total count and page count pair the backend
// serves from separate endpoints.
type PageStats struct {
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// InitSystemParams performs first-run setup of a fresh deployment.
type InitSystemParams struct {
	VerificationCode string `json:"verificationCode"`
	BlogTitle        string `json:"blogTitle"`
	BlogSubtitle     string `json:"blogSubtitle"`
	AdminUsername    string `json:"adminUsername"`
	AdminPassword    string `json:"adminPassword"`
	AdminNickname    string `json:"adminNickname"`
}
