package types

import "time"

// AppSettings holds optional per-app ingestion settings
type AppSettings struct {
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
	RateLimit      int      `json:"rateLimit,omitempty"`
	EnableWebhooks bool     `json:"enableWebhooks,omitempty"`
}

// App represents a registered log source owned by an organization
type App struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Slug           string       `json:"slug,omitempty"`
	APIKey         string       `json:"apiKey"` // server-generated ingestion secret
	Description    string       `json:"description,omitempty"`
	RetentionDays  int          `json:"retentionDays"`
	OrganizationID string       `json:"organizationId"`
	CreatedBy      *User        `json:"createdBy,omitempty"`
	Settings       *AppSettings `json:"settings,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}
