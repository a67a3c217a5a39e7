package models

// UserSummary is the short form embedded wherever another user is referenced
// (populated follower lists, post authors).
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
}

func Summarize(u *User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Avatar:    u.Avatar,
	}
}

// UserProfile is a User with its adjacency lists expanded into summaries.
// The outer fields shadow the embedded id lists during serialization.
type UserProfile struct {
	User
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
}

// PostView decorates a Post with its author, the derived like count and the
// viewer-specific liked flag.
type PostView struct {
	Post
	Author     *UserSummary `json:"author,omitempty"`
	LikesCount int          `json:"likesCount"`
	Liked      bool         `json:"liked"`
}

func NewPostView(p Post, author *UserSummary, viewerID uint) PostView {
	return PostView{
		Post:       p,
		Author:     author,
		LikesCount: len(p.Likes),
		Liked:      viewerID != 0 && p.Likes.Contains(viewerID),
	}
}
