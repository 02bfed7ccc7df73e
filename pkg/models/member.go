package models

type Member struct {
	ID         uint64 `gorm:"primaryKey" firestore:"id"`
	GuildID    uint64 `gorm:"index;not null" firestore:"guild_id"`
	MemberID   string `gorm:"not null;type:varchar(32)" firestore:"member_id"`
	Authorized bool   `gorm:"not null;default:false" firestore:"authorized"`
}

func (Member) TableName() string {
	return "members"
}
