package ticket

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims ties a signed ticket to one game
type Claims struct {
	GameID string `json:"game_id"`
	jwt.RegisteredClaims
}

// Issuer signs and checks game tickets with a shared HMAC secret
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a ticket proving the holder owns gameID
func (i *Issuer) Issue(gameID string) (string, error) {
	claims := &Claims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Validate parses a ticket and returns its claims
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid ticket")
}

// Verify checks that tokenString is a valid ticket for gameID
func (i *Issuer) Verify(tokenString, gameID string) error {
	claims, err := i.Validate(tokenString)
	if err != nil {
		return err
	}
	if claims.GameID != gameID {
		return errors.New("ticket belongs to another game")
	}
	return nil
}
