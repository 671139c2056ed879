package schema

// SocialCommentTable represents the 'public.comments' table
type SocialCommentTable struct {
	Table     string
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for public.comments
var SocialComment = SocialCommentTable{
	Table:     "public.comments",
	ID:        "id",
	PostID:    "post_id",
	UserID:    "user_id",
	Content:   "content",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t SocialCommentTable) Columns() []string {
	return []string{t.ID, t.PostID, t.UserID, t.Content, t.CreatedAt, t.UpdatedAt}
}
