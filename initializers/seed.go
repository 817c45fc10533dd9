package initializers

import (
	"interview-platform-backend/db"
	usershandler "interview-platform-backend/lib/users"
)

func InitSeed() {
	db.InitPreload(usershandler.Instance.CreateAdmin)
}
