package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"financas/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserUUID = "userUUID"
	ctxUserName = "userName"
)

var jwtSecret []byte

// Claims JWT 载荷，Subject 为用户 UUID
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// InitJWT 初始化签名密钥
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken 签发访问令牌
func GenerateToken(userUUID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "financas",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken 校验并解析令牌，只接受 HS256
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func abortWith(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"code":    code,
		"message": message,
		"data":    nil,
	})
}

// JWTAuth 校验 Authorization: Bearer <token>
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, "Token not provided")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, http.StatusUnauthorized, "Token not provided")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(ctxUserUUID, claims.Subject)
		c.Set(ctxUserName, claims.Name)
		c.Next()
	}
}

// SameUser 路径参数 param 必须与令牌中的用户一致
func SameUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) != GetCurrentUserUUID(c) {
			abortWith(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

// GetCurrentUserUUID 当前登录用户的 UUID
func GetCurrentUserUUID(c *gin.Context) string {
	return c.GetString(ctxUserUUID)
}

// GetCurrentUserName 当前登录用户的姓名
func GetCurrentUserName(c *gin.Context) string {
	return c.GetString(ctxUserName)
}
