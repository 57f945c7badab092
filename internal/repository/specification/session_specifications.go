package specification

import "gorm.io/gorm"

// BySessionId filters rows belonging to one conversation session.
type BySessionId struct {
	SessionId string
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ActiveSessions keeps only conversations that have not ended.
type ActiveSessions struct{}

func (s ActiveSessions) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByRole filters conversation messages by author role.
type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}
