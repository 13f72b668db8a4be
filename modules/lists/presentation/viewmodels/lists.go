package viewmodels

import "time"

type Item struct {
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type List struct {
	ID        string    `json:"id"`
	UploadID  string    `json:"upload_id"`
	AgentID   string    `json:"agent_id"`
	Position  int       `json:"position"`
	FileName  string    `json:"file_name"`
	ItemCount int       `json:"item_count"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadResult struct {
	Message     string  `json:"message"`
	UploadID    string  `json:"upload_id"`
	FileName    string  `json:"file_name"`
	RecordCount int     `json:"record_count"`
	Lists       []*List `json:"lists"`
}

type Agent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
