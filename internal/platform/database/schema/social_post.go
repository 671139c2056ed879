package schema

// SocialPostTable represents the 'public.posts' table
type SocialPostTable struct {
	Table     string
	ID        string
	UserID    string
	Title     string
	Content   string
	ImageURL  string
	CreatedAt string
	UpdatedAt string
}

// SocialPost is the schema definition for public.posts
var SocialPost = SocialPostTable{
	Table:     "public.posts",
	ID:        "id",
	UserID:    "user_id",
	Title:     "title",
	Content:   "content",
	ImageURL:  "image_url",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t SocialPostTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Title, t.Content, t.ImageURL, t.CreatedAt, t.UpdatedAt}
}
