package model

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Id          int64  `json:"id"`
}

// Credentials is what the client keeps between sessions.
type Credentials struct {
	UserId      int64  `json:"user_id"`
	AccessToken string `json:"access_token"`
}
