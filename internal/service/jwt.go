package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// TokenTTL is the lifetime of issued API tokens.
const TokenTTL = 24 * time.Hour

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// Claims are the fields carried by an API token.
type Claims struct {
	UserID string
	Admin  bool
}

func GenerateJWT(userID string, admin bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"admin":   admin,
		"exp":     now.Add(TokenTTL).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}

	// validate time-based claims
	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok {
		if int64(exp) < now {
			return Claims{}, errors.New("token expired")
		}
	}
	if nbf, ok := claims["nbf"].(float64); ok {
		if int64(nbf) > now {
			return Claims{}, errors.New("token not valid yet")
		}
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, errors.New("user_id not found")
	}
	admin, _ := claims["admin"].(bool)

	return Claims{UserID: userID, Admin: admin}, nil
}
