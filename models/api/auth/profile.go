package authapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	RoleName  string     `json:"role_name"`
	Phone     string     `json:"phone"`
	Skills    []string   `json:"skills"`
	Linkedin  string     `json:"linkedin"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type ProfileUpdate struct {
	Name     *string   `json:"name"`
	Phone    *string   `json:"phone"`
	Skills   *[]string `json:"skills"`
	Linkedin *string   `json:"linkedin"`
}

func (r ProfileUpdate) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("имя не может быть пустым")
	}
	return nil
}
