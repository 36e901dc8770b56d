package models

import "github.com/himart-next/internal/constants"

// SessionUser 远端会话中的用户信息
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Picture   string `json:"picture,omitempty"`
	IsSeller  bool   `json:"isSeller"`
}

// Session 远端认证会话记录
type Session struct {
	User *SessionUser `json:"user"`
}

// IsSeller 判断会话是否具备卖家权限
func (s *Session) IsSeller() bool {
	return s != nil && s.User != nil && s.User.IsSeller
}

// SessionSnapshot 会话解析结果（三态：loading / guest / authenticated）
type SessionSnapshot struct {
	State   string   `json:"state"`
	Session *Session `json:"session,omitempty"`
}

// Loading 判断会话是否仍在解析中
func (s SessionSnapshot) Loading() bool {
	return s.State == constants.SessionStateLoading
}

// Authenticated 判断会话是否已认证
func (s SessionSnapshot) Authenticated() bool {
	return s.State == constants.SessionStateAuthenticated && s.Session != nil && s.Session.User != nil
}
