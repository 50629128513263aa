package access

import (
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
)

// Action действие над ресурсом.
type Action int

// Действия.
const (
	ActionList Action = iota
	ActionCreate
	ActionRetrieve
	ActionUpdate
	ActionDestroy
)

func (a Action) String() string {
	switch a {
	case ActionList:
		return "list"
	case ActionCreate:
		return "create"
	case ActionRetrieve:
		return "retrieve"
	case ActionUpdate:
		return "update"
	case ActionDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

var errNotAuthenticated = apperr.Unauthenticated("authentication credentials were not provided")

// Materials политика курсов и уроков.
//
// Модератор видит и изменяет всё, но не удаляет. Владелец делает со своим
// что угодно. Создавать может любой аутентифицированный пользователь.
type Materials struct{}

// ListScope область видимости списка.
func (Materials) ListScope(a Actor) Scope {
	switch {
	case !a.IsAuthenticated():
		return None()
	case a.IsModerator():
		return All()
	default:
		return OwnedBy(a.UserID)
	}
}

// Check проверяет действие над ресурсом владельца ownerID.
// Для ActionList и ActionCreate ownerID не используется.
func (p Materials) Check(a Actor, action Action, ownerID int64) error {
	if !a.IsAuthenticated() {
		return errNotAuthenticated
	}
	switch action {
	case ActionList, ActionCreate:
		return nil
	}
	if !p.ListScope(a).Allows(ownerID) {
		return apperr.NotFound("not found")
	}
	if action == ActionDestroy && !a.Owns(ownerID) {
		return apperr.PermissionDenied("only the owner can delete this object")
	}
	return nil
}

// Payments политика платежей.
//
// Платёж видят плательщик, staff, superuser и модераторы.
type Payments struct{}

// ListScope область видимости списка.
func (Payments) ListScope(a Actor) Scope {
	switch {
	case !a.IsAuthenticated():
		return None()
	case a.IsAdmin() || a.IsModerator():
		return All()
	default:
		return OwnedBy(a.UserID)
	}
}

// Check проверяет действие над платежом пользователя payerID.
func (p Payments) Check(a Actor, action Action, payerID int64) error {
	if !a.IsAuthenticated() {
		return errNotAuthenticated
	}
	switch action {
	case ActionList, ActionCreate:
		return nil
	}
	if !p.ListScope(a).Allows(payerID) {
		return apperr.NotFound("not found")
	}
	if action == ActionDestroy && !a.Owns(payerID) && !a.IsSuperuser() {
		return apperr.PermissionDenied("only the payer can delete this payment")
	}
	return nil
}

// Users политика учётных записей.
//
// Пользователь получает, изменяет и удаляет только себя. Superuser может
// получить любого, но менять и удалять чужие записи не может. Список
// доступен только staff и superuser.
type Users struct{}

// Check проверяет действие над записью пользователя targetID.
func (Users) Check(a Actor, action Action, targetID int64) error {
	if !a.IsAuthenticated() {
		return errNotAuthenticated
	}
	switch action {
	case ActionList:
		if !a.IsAdmin() {
			return apperr.PermissionDenied("you do not have permission to list users")
		}
		return nil
	case ActionCreate:
		return nil
	}
	if a.UserID == targetID {
		return nil
	}
	if !a.IsSuperuser() {
		return apperr.NotFound("not found")
	}
	if action != ActionRetrieve {
		return apperr.PermissionDenied("you can only modify your own account")
	}
	return nil
}
