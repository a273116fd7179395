// File: internal/user/model.go
package user

// RegisterRequest defines the payload for creating a new account.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	AppID     string `json:"app_id" binding:"required"`
	UserName  string `json:"userName,omitempty" binding:"omitempty,max=100"`
	FirstName string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName  string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	Avatar    string `json:"avatar,omitempty" binding:"omitempty,url"`
}

// LoginRequest defines the payload for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	AppID    string `json:"app_id" binding:"required"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	AppID  string `json:"app_id"`
}

// UpdatePreferencesRequest defines the payload for updating profile
// preferences. Only the preferences map is mutable through this path.
type UpdatePreferencesRequest struct {
	Preferences map[string]interface{} `json:"preferences" binding:"required"`
}
