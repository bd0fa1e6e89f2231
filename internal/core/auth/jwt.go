package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // ADMIN / HOTEL_MANAGER / CUSTOMER
	Typ  string `json:"typ"`  // access / refresh
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration
	RefreshTTL time.Duration
}

var ErrWrongTokenType = errors.New("wrong token type")

func (j *JWTer) Issue(uid, role string) (string, error) {
	return j.issue(uid, role, TokenAccess, j.TTL)
}

// IssueRefresh 刷新令牌不带角色，刷新时重新读库
func (j *JWTer) IssueRefresh(uid string) (string, error) {
	ttl := j.RefreshTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return j.issue(uid, "", TokenRefresh, ttl)
}

func (j *JWTer) issue(uid, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		Typ:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// ParseAccess 拒绝把 refresh token 当 access 用
func (j *JWTer) ParseAccess(tokenStr string) (*Claims, error) {
	return j.parseTyped(tokenStr, TokenAccess)
}

func (j *JWTer) ParseRefresh(tokenStr string) (*Claims, error) {
	return j.parseTyped(tokenStr, TokenRefresh)
}

func (j *JWTer) parseTyped(tokenStr, typ string) (*Claims, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.Typ != typ {
		return nil, ErrWrongTokenType
	}
	return c, nil
}
