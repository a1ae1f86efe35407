package auth

// PairRequest is the body of POST /token/pair.
type PairRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /token/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// UserSchema is the account summary returned with a token pair.
type UserSchema struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

// PairResponse carries a fresh access and refresh token.
type PairResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    UserSchema `json:"user"`
}

// RefreshResponse carries a new access token and the unchanged refresh token.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
