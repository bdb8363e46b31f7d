package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	authdomain "github.com/smallbiznis/payables/internal/auth/domain"
	"go.uber.org/zap"
)

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	ExpiresAt   time.Time        `json:"expires_at"`
	User        *authdomain.User `json:"user"`
}

type createUserRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	TaxID      string `json:"tax_id"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// IssueToken exchanges a username and password for a bearer token. It accepts
// the OAuth2 password form as well as a JSON body.
func (s *Server) IssueToken(c *gin.Context) {
	var req tokenRequest
	if c.ContentType() == binding.MIMEJSON {
		if err := bindJSON(c, &req); err != nil {
			AbortWithError(c, err)
			return
		}
	} else if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		AbortWithError(c, authdomain.ErrInvalidCredentials)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Username:  username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	})
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), authdomain.CreateUserRequest{
		Username:   req.Username,
		Password:   req.Password,
		FullName:   strings.TrimSpace(req.FullName),
		TaxID:      strings.TrimSpace(req.TaxID),
		Department: strings.TrimSpace(req.Department),
		Role:       strings.TrimSpace(req.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	actor, _ := actorFromContext(c)
	s.log.Info("user created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.Username),
	)
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.authsvc.ListUsers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}
