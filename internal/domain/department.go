package domain

// Department groups employees. A title is unique among live departments; a
// retired department frees its title because its is_deleted token differs.
type Department struct {
	AuditModel
	Title     string       `gorm:"size:100;not null;uniqueIndex:idx_departments_title_live,priority:1" json:"title"`
	IsDeleted DeleteMarker `gorm:"type:varchar(36);not null;default:'0';uniqueIndex:idx_departments_title_live,priority:2" json:"-"`
}

// UniqueKeys returns the column groups that must be unique among live rows.
func (d *Department) UniqueKeys() []map[string]any {
	return []map[string]any{{"title": d.Title}}
}
