package access

// ScopeKind вид области видимости для списков.
type ScopeKind int

// Области видимости.
const (
	ScopeNone ScopeKind = iota
	ScopeOwner
	ScopeAll
)

// Scope фильтр списка: ничего, только свои или всё.
type Scope struct {
	Kind    ScopeKind
	OwnerID int64
}

// None пустая область.
func None() Scope { return Scope{Kind: ScopeNone} }

// All всё.
func All() Scope { return Scope{Kind: ScopeAll} }

// OwnedBy только ресурсы пользователя userID.
func OwnedBy(userID int64) Scope { return Scope{Kind: ScopeOwner, OwnerID: userID} }

// Allows сообщает, входит ли ресурс с владельцем ownerID в область.
func (s Scope) Allows(ownerID int64) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeOwner:
		return s.OwnerID == ownerID
	default:
		return false
	}
}
