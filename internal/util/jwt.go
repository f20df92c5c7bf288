package util

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	BearerPrefix            = "Bearer "
	TokenIssuer             = "github.com/ferdian3456/envisiontech"
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
)

// GenerateAccessToken signs an HS256 token for userId. The returned claims carry the jti
// the caller records as the session key.
func GenerateAccessToken(userId int64, jwtSecretKey string) (string, *model.Claims, error) {
	if jwtSecretKey == "" {
		return "", nil, errors.New("jwt secret key is not configured")
	}

	now := time.Now().UTC()
	claims := &model.Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(constant.ACCESS_TOKEN_DURATION)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			Subject:   strconv.FormatInt(userId, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(jwtSecretKey))
	if err != nil {
		return "", nil, err
	}

	return signedToken, claims, nil
}

// ValidateAccessToken checks the Authorization header value and returns the token claims.
func ValidateAccessToken(authHeader string, jwtSecretKey string) (*model.Claims, error) {
	if jwtSecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}

	tokenString, err := ExtractBearerToken(authHeader)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		return nil, handleParseError(err)
	}

	claims, ok := token.Claims.(*model.Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, unauthorized("Authentication token is invalid")
	}

	return claims, nil
}

func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", unauthorized("No authentication token is provided")
	}

	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", unauthorized("Authentication token format is not match")
	}

	token := strings.TrimPrefix(authHeader, BearerPrefix)
	if token == "" {
		return "", unauthorized("Authentication token is empty")
	}

	return token, nil
}

func handleParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return unauthorized("Authentication token is malformed")
	case errors.Is(err, jwt.ErrTokenExpired):
		return unauthorized("Authentication token is expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return unauthorized("Authentication token is not valid yet")
	case errors.Is(err, ErrInvalidSigningMethod):
		return unauthorized("Authentication token has invalid signing method")
	default:
		return unauthorized("Authentication token is invalid")
	}
}

func unauthorized(message string) *model.ValidationError {
	return &model.ValidationError{
		Code:    constant.ERR_UNAUTHORIZED_ERROR,
		Message: message,
		Param:   "accessToken",
	}
}
