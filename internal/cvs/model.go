package cvs

import "time"

// Record is a stored CV submission.
type Record struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Domain      string    `json:"domain"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileURL     string    `json:"file_url,omitempty"`
	PageCount   int       `json:"page_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
