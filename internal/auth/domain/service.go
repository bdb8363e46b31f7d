package domain

import (
	"context"
	"time"
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (*User, error)
}

type CreateUserRequest struct {
	Username   string
	Password   string
	FullName   string
	TaxID      string
	Department string
	Role       string
}

type LoginRequest struct {
	Username  string
	Password  string
	IPAddress string
}

// LoginResult is the OAuth2-style token response.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
	User        *User
}
