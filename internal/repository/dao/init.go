package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Game{},
		&Punishment{},
		&Lanpa{},
		&LanpaMember{},
		&GameSuggestion{},
		&GameVote{},
		&Invitation{},
		&PunishmentNomination{},
		&PunishmentVote{},
		&UserPunishment{},
		&Notification{},
	)
}
