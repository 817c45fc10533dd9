package usershandler

import (
	"interview-platform-backend/db"
	activityhandler "interview-platform-backend/lib/activity"
	"interview-platform-backend/lib/apperr"
	userstore "interview-platform-backend/lib/users/store"
	authutils "interview-platform-backend/lib/utils/auth-utils"
	"interview-platform-backend/models"
	authapimodels "interview-platform-backend/models/api/auth"
	dbmodels "interview-platform-backend/models/db"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Register(request authapimodels.RegisterRequest) (authapimodels.JWTResponse, error)
	Login(request authapimodels.LoginRequest) (authapimodels.JWTResponse, error)
	GetProfile(userID string) (authapimodels.Profile, error)
	UpdateProfile(userID string, data authapimodels.ProfileUpdate) (authapimodels.Profile, error)
	GetByID(userID string) (*dbmodels.User, error)
	// CreateAdmin создание администратора, если пользователь с такой почтой еще не существует
	CreateAdmin(email, name, password string) error
}

var Instance Provider

func NewHandler() {
	Instance = NewProvider(userstore.NewInstance(db.DB), activityhandler.Instance)
}

func NewProvider(store userstore.Provider, activity activityhandler.Provider) Provider {
	return impl{
		store:    store,
		activity: activity,
	}
}

type impl struct {
	store    userstore.Provider
	activity activityhandler.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.
		WithField("user_id", userID)
}

func (i impl) Register(request authapimodels.RegisterRequest) (authapimodels.JWTResponse, error) {
	exist, err := i.store.GetByEmail(request.Email)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if exist != nil {
		return authapimodels.JWTResponse{}, apperr.Conflict("пользователь с такой почтой уже зарегистрирован")
	}
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка хеширования пароля")
	}
	rec := dbmodels.User{
		Email:       strings.ToLower(strings.TrimSpace(request.Email)),
		Name:        strings.TrimSpace(request.Name),
		Password:    hash,
		Role:        models.CandidateRole,
		PhoneNumber: request.Phone,
		Skills:      pq.StringArray(request.Skills),
		LinkedinUrl: request.Linkedin,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	rec.ID = id
	i.activity.Log(id, models.ActivityUserRegistration, "Регистрация пользователя "+rec.Email)
	i.getLogger(id).Info("зарегистрирован новый пользователь")
	return i.newToken(rec)
}

func (i impl) Login(request authapimodels.LoginRequest) (authapimodels.JWTResponse, error) {
	rec, err := i.store.GetByEmail(request.Email)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if rec == nil || !authutils.CheckPassword(rec.Password, request.Password) {
		return authapimodels.JWTResponse{}, apperr.AccessDenied("неверная почта или пароль")
	}
	now := time.Now()
	err = i.store.SetLastLogin(rec.ID, now)
	if err != nil {
		i.getLogger(rec.ID).WithError(err).Warn("ошибка сохранения времени входа")
	} else {
		rec.LastLogin = &now
	}
	i.activity.Log(rec.ID, models.ActivityUserLogin, "Вход в систему")
	return i.newToken(*rec)
}

func (i impl) GetProfile(userID string) (authapimodels.Profile, error) {
	rec, err := i.GetByID(userID)
	if err != nil {
		return authapimodels.Profile{}, err
	}
	return rec.ToProfile(), nil
}

func (i impl) UpdateProfile(userID string, data authapimodels.ProfileUpdate) (authapimodels.Profile, error) {
	updMap := map[string]interface{}{}
	if data.Name != nil {
		updMap["name"] = strings.TrimSpace(*data.Name)
	}
	if data.Phone != nil {
		updMap["phone_number"] = *data.Phone
	}
	if data.Skills != nil {
		updMap["skills"] = pq.StringArray(*data.Skills)
	}
	if data.Linkedin != nil {
		updMap["linkedin_url"] = *data.Linkedin
	}
	if _, err := i.GetByID(userID); err != nil {
		return authapimodels.Profile{}, err
	}
	err := i.store.Update(userID, updMap)
	if err != nil {
		return authapimodels.Profile{}, err
	}
	if len(updMap) > 0 {
		i.activity.Log(userID, models.ActivityProfileUpdate, "Обновление профиля")
	}
	return i.GetProfile(userID)
}

func (i impl) GetByID(userID string) (*dbmodels.User, error) {
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("пользователь не найден")
	}
	return rec, nil
}

func (i impl) CreateAdmin(email, name, password string) error {
	exist, err := i.store.GetByEmail(email)
	if err != nil {
		return err
	}
	if exist != nil {
		return nil
	}
	hash, err := authutils.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "ошибка хеширования пароля")
	}
	id, err := i.store.Create(dbmodels.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Role:     models.AdminRole,
	})
	if err != nil {
		return err
	}
	i.getLogger(id).WithField("email", email).Info("создан администратор")
	return nil
}

func (i impl) newToken(rec dbmodels.User) (authapimodels.JWTResponse, error) {
	token, err := authutils.GetToken(rec.ID, rec.Name, rec.Email, rec.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка генерации токена")
	}
	return authapimodels.JWTResponse{
		Token: token,
		User:  rec.ToProfile(),
	}, nil
}

