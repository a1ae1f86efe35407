package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LiveMarker is the is_deleted value carried by every record that has not
// been soft deleted.
const LiveMarker = "0"

// AuditModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type AuditModel struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Creator  *string   `gorm:"size:255" json:"creator"`
	Updater  *string   `gorm:"size:255" json:"updater"`
	CreateAt time.Time `gorm:"autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"autoUpdateTime" json:"update_at"`
}

// Identity returns the primary key.
func (m *AuditModel) Identity() uint { return m.ID }

// SetCreator records the principal that created the record.
func (m *AuditModel) SetCreator(actor string) { m.Creator = &actor }

// SoftDeleteModel is an AuditModel whose rows are retired by writing a unique
// token into is_deleted instead of being removed.
type SoftDeleteModel struct {
	AuditModel
	IsDeleted DeleteMarker `gorm:"type:varchar(36);not null;default:'0';index" json:"-"`
}

// DeleteMarker is the two-state value stored in is_deleted: either live
// ("0") or retired with a unique token. The zero value is live.
type DeleteMarker struct {
	token string
}

// NotDeleted returns the live marker.
func NotDeleted() DeleteMarker { return DeleteMarker{} }

// DeletedWith returns a retired marker carrying token. An empty token or "0"
// is rejected because it would read back as live.
func DeletedWith(token string) (DeleteMarker, error) {
	if token == "" || token == LiveMarker {
		return DeleteMarker{}, fmt.Errorf("invalid delete token %q", token)
	}
	return DeleteMarker{token: token}, nil
}

// IsDeleted reports whether the marker is in the retired state.
func (m DeleteMarker) IsDeleted() bool { return m.token != "" }

// Token returns the retire token, or "" for live records.
func (m DeleteMarker) Token() string { return m.token }

// String returns the wire representation.
func (m DeleteMarker) String() string {
	if m.token == "" {
		return LiveMarker
	}
	return m.token
}

// Value implements driver.Valuer.
func (m DeleteMarker) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *DeleteMarker) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		s = LiveMarker
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		s = fmt.Sprint(v)
	default:
		return fmt.Errorf("scan delete marker: unsupported type %T", src)
	}
	if s == "" || s == LiveMarker {
		m.token = ""
		return nil
	}
	m.token = s
	return nil
}

// MarshalJSON encodes the marker as its wire string.
func (m DeleteMarker) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes the wire string.
func (m *DeleteMarker) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return m.Scan(s)
}

// Page is one slice of a filtered list together with the size of the whole set.
type Page[T any] struct {
	Total     int64 `json:"total"`
	PageSize  int   `json:"page_size"`
	PageIndex int   `json:"page_index"`
	Details   []T   `json:"details"`
}
