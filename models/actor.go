package models

// Actor identifies who is performing an operation. It is a closed set: an
// anonymous caller, an authenticated user, or an administrator. Every
// authorization decision in the service layer goes through the capability
// methods below rather than ad hoc role string checks.
type Actor struct {
	ID   uint
	Role string
}

func AnonymousActor() Actor {
	return Actor{Role: RoleAnonymous}
}

func UserActor(id uint) Actor {
	return Actor{ID: id, Role: RoleUser}
}

func AdminActor(id uint) Actor {
	return Actor{ID: id, Role: RoleAdmin}
}

func (a Actor) IsAnonymous() bool {
	return a.Role == RoleAnonymous || a.Role == ""
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor is the owning user of the record. Anonymous
// records have no owner, so nobody owns them.
func (a Actor) Owns(r *Record) bool {
	return !a.IsAnonymous() && r.UserID != nil && *r.UserID == a.ID
}

func (a Actor) CanCreateRecord() bool {
	return !a.IsAnonymous()
}

// CanModifyRecord covers update and delete: the owning user only, admins
// included only when they own the record themselves.
func (a Actor) CanModifyRecord(r *Record) bool {
	return a.Owns(r)
}

func (a Actor) CanTransitionStatus() bool {
	return a.IsAdmin()
}

func (a Actor) CanViewFullRecord(r *Record) bool {
	return a.IsAdmin() || a.Owns(r)
}

func (a Actor) CanViewHistory(r *Record) bool {
	return a.IsAdmin() || a.Owns(r)
}

// CanVote is a regular-user capability: admins moderate records, they do not
// vote on them.
func (a Actor) CanVote() bool {
	return !a.IsAnonymous() && !a.IsAdmin()
}

func (a Actor) CanViewAllRecords() bool {
	return a.IsAdmin()
}
