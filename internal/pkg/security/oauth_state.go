package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OAuth state 用 HMAC 签名的 JWT 承载品牌 ID，防止回调伪造归属
const stateTTL = 10 * time.Minute

var ErrStateInvalid = errors.New("state 无效或已过期")

type oauthStateClaims struct {
	BrandID string `json:"brand_id"`
	jwt.RegisteredClaims
}

// SignOAuthState 为指定品牌签发授权 state
func SignOAuthState(secret string, brandID uint64) (string, error) {
	now := time.Now()
	claims := oauthStateClaims{
		BrandID: strconv.FormatUint(brandID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseOAuthState 校验 state 并取回品牌 ID
func ParseOAuthState(secret string, state string) (uint64, error) {
	var claims oauthStateClaims
	token, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrStateInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrStateInvalid
	}
	brandID, err := strconv.ParseUint(claims.BrandID, 10, 64)
	if err != nil || brandID == 0 {
		return 0, ErrStateInvalid
	}
	return brandID, nil
}
