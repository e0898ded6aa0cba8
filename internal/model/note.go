package model

import "github.com/haierkeys/team-notes-service/pkg/timex"

const TableNameNote = "note"

// Note mapped from table <note>
type Note struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Title          string     `gorm:"column:title;not null;default:''" json:"title" form:"title"`
	Content        string     `gorm:"column:content;not null;default:''" json:"content" form:"content"`
	OwnerMemberID  string     `gorm:"column:owner_member_id;not null;index:idx_note_org_owner,priority:2" json:"ownerMemberId" form:"ownerMemberId"`
	OrganizationID string     `gorm:"column:organization_id;not null;index:idx_note_org_owner,priority:1;index:idx_note_org_visibility,priority:1" json:"organizationId" form:"organizationId"`
	Visibility     string     `gorm:"column:visibility;not null;default:private;index:idx_note_org_visibility,priority:2" json:"visibility" form:"visibility"`
	IsFavorite     bool       `gorm:"column:is_favorite;not null;default:false" json:"isFavorite" form:"isFavorite"`
	Tags           []string   `gorm:"column:tags;serializer:json" json:"tags" form:"tags"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;index:idx_note_updated_at" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
