package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"kafka-governance/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims represents the JWT claims for an authenticated operator
type UserClaims struct {
	Email       string   `json:"email"`
	UserID      uint     `json:"user_id"`
	TenantID    *uint    `json:"tenant_id,omitempty"`
	TenantName  string   `json:"tenant_name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	AllowedEnvs []uint   `json:"allowed_envs,omitempty"`
	jwt.RegisteredClaims
}

var jwtConfig *config.JWTConfig

// Initialize sets up the JWT utility with the given configuration
func Initialize(cfg *config.JWTConfig) {
	jwtConfig = cfg
}

// GenerateToken creates a JWT token with user, tenant and permission information
func GenerateToken(email string, userID uint, tenantID *uint, tenantName string, role string, permissions []string, allowedEnvs []uint) (string, error) {
	if jwtConfig == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := UserClaims{
		Email:       email,
		UserID:      userID,
		TenantID:    tenantID,
		TenantName:  tenantName,
		Role:        role,
		Permissions: permissions,
		AllowedEnvs: allowedEnvs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(jwtConfig.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SigningKey))
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if jwtConfig == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtConfig.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
