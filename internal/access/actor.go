// Package access определяет, кто выполняет запрос и что ему разрешено.
//
// Набор возможностей субъекта (Actor) вычисляется один раз на запрос из
// записи пользователя. Политики ресурсов возвращают ошибки apperr:
// объект вне области видимости субъекта — NotFound, видимый объект с
// запрещённым действием — PermissionDenied.
package access

import (
	"context"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Capability возможность субъекта.
type Capability uint8

// Возможности.
const (
	Authenticated Capability = 1 << iota
	Moderator
	Staff
	Superuser
)

// Actor субъект запроса.
type Actor struct {
	UserID int64
	Email  string
	caps   Capability
}

// Anonymous возвращает неаутентифицированного субъекта.
func Anonymous() Actor {
	return Actor{}
}

// NewActor вычисляет возможности пользователя. Неактивный пользователь анонимен.
func NewActor(u *models.User) Actor {
	if u == nil || !u.IsActive {
		return Anonymous()
	}
	a := Actor{UserID: u.ID, Email: u.Email, caps: Authenticated}
	if u.IsModerator {
		a.caps |= Moderator
	}
	if u.IsStaff {
		a.caps |= Staff
	}
	if u.IsSuperuser {
		a.caps |= Superuser
	}
	return a
}

// NewActorWith создаёт аутентифицированного субъекта с заданными возможностями.
func NewActorWith(userID int64, caps ...Capability) Actor {
	a := Actor{UserID: userID, caps: Authenticated}
	for _, c := range caps {
		a.caps |= c
	}
	return a
}

// Has сообщает, есть ли у субъекта возможность c.
func (a Actor) Has(c Capability) bool {
	return a.caps&c == c
}

// IsAuthenticated сообщает, что субъект аутентифицирован.
func (a Actor) IsAuthenticated() bool {
	return a.Has(Authenticated)
}

// IsModerator сообщает о членстве в группе модераторов.
func (a Actor) IsModerator() bool {
	return a.IsAuthenticated() && a.Has(Moderator)
}

// IsAdmin сообщает о флаге staff или superuser.
func (a Actor) IsAdmin() bool {
	return a.IsAuthenticated() && (a.Has(Staff) || a.Has(Superuser))
}

// IsSuperuser сообщает о флаге superuser.
func (a Actor) IsSuperuser() bool {
	return a.IsAuthenticated() && a.Has(Superuser)
}

// Owns сообщает, что субъект владеет ресурсом ownerID.
func (a Actor) Owns(ownerID int64) bool {
	return a.IsAuthenticated() && a.UserID == ownerID
}

type ctxKey struct{}

// WithActor кладёт субъекта в контекст запроса.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext возвращает субъекта запроса или анонима.
func FromContext(ctx context.Context) Actor {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	if !ok {
		return Anonymous()
	}
	return a
}
