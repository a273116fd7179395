// File: internal/profile/model.go
package profile

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap stores a free-form JSON object in a single column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONMap", value)
	}
	return json.Unmarshal(data, m)
}

// Profile is the service's own per-user document. It is always bound to
// exactly one app: AppID is set at creation and never changes.
type Profile struct {
	UserID             string    `gorm:"column:user_id;primaryKey;type:varchar(128)"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	AppID              string    `gorm:"column:app_id;type:varchar(100);index;not null"`
	UserName           string    `gorm:"type:varchar(100)"`
	FirstName          string    `gorm:"type:varchar(100)"`
	LastName           string    `gorm:"type:varchar(100)"`
	AvatarURL          string    `gorm:"column:avatar_url;type:text"`
	Provider           string    `gorm:"type:varchar(50);not null;default:'email'"`
	IsAdmin            bool      `gorm:"not null;default:false"`
	Credits            int       `gorm:"not null;default:0"`
	SubscriptionStatus string    `gorm:"type:varchar(50);not null;default:'free'"`
	Preferences        JSONMap   `gorm:"type:jsonb"`
	CreatedAt          time.Time `gorm:"column:created_at;not null"`
	UpdatedAt          time.Time `gorm:"column:updated_at;not null"`
	LastActiveAt       time.Time `gorm:"column:last_active_at;not null"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "user_profiles"
}

// Response is the profile document as sent in API responses. Field
// names follow the document schema the original clients consume.
type Response struct {
	UserID             string    `json:"userId"`
	Email              string    `json:"email"`
	AppID              string    `json:"app_id"`
	UserName           string    `json:"userName"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Avatar             string    `json:"avatar"`
	Provider           string    `json:"provider"`
	IsAdmin            bool      `json:"isAdmin"`
	Credits            int       `json:"credits"`
	SubscriptionStatus string    `json:"subscription_status"`
	Preferences        JSONMap   `json:"preferences"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	LastActiveAt       time.Time `json:"lastActiveTimestamp"`
}

// ToResponse converts a Profile model to its API representation.
func ToResponse(p *Profile) Response {
	return Response{
		UserID:             p.UserID,
		Email:              p.Email,
		AppID:              p.AppID,
		UserName:           p.UserName,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Avatar:             p.AvatarURL,
		Provider:           p.Provider,
		IsAdmin:            p.IsAdmin,
		Credits:            p.Credits,
		SubscriptionStatus: p.SubscriptionStatus,
		Preferences:        p.Preferences,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		LastActiveAt:       p.LastActiveAt,
	}
}
