package dto

// GoogleLoginRequest 客户端完成 Google 登录后提交的身份信息
type GoogleLoginRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Username string  `json:"username" binding:"required,min=1,max=255"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=500"`
}

// TokenData 登录成功返回的 Token 信息
type TokenData struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"`
	User      UserInfo `json:"user"`
}
