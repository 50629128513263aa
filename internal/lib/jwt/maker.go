// Package jwt реализует выпуск и разбор JWT токенов доступа и обновления.
//
// Maker выпускает пару токенов: короткоживущий access и долгоживущий refresh.
// Тип токена хранится в claim "typ", поэтому refresh нельзя предъявить
// вместо access и наоборот. Каждый токен получает уникальный jti, по которому
// refresh-токен может быть занесён в чёрный список.
package jwt

import (
	"time"
)

// TokenType — тип токена в claim "typ".
type TokenType string

const (
	// Access — токен доступа к API.
	Access TokenType = "access"
	// Refresh — токен для получения нового access.
	Refresh TokenType = "refresh"
)

// Maker описывает интерфейс для генерации и разбора JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен заданного типа для пользователя.
	GenerateToken(userID int64, email string, typ TokenType) (string, error)
	// ParseToken проверяет подпись, срок и тип токена и возвращает claims.
	ParseToken(tokenStr string, typ TokenType) (*CustomClaims, error)
}

// MakerImpl реализует Maker с подписью HS256.
type MakerImpl struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и времени жизни токенов.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (j *MakerImpl) ttl(typ TokenType) time.Duration {
	if typ == Refresh {
		return j.refreshTTL
	}
	return j.accessTTL
}
