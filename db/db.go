package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

type ConnectConfig struct {
	Host      string
	Port      string
	Name      string
	User      string
	Password  string
	DebugMode bool
	Migrate   bool
}

func (c ConnectConfig) dsn() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", c.Host, c.Port, c.User, c.Name, c.Password)
}

// Connect подключение к БД интервью, повторный вызов ничего не делает
func Connect(cfg ConnectConfig) error {
	if DB != nil {
		return nil
	}
	entry := log.
		WithField("db_host", cfg.Host).
		WithField("db_name", cfg.Name)
	conn, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return errors.Wrapf(err, "ошибка подключения к БД интервью %s", cfg.Name)
	}
	if cfg.DebugMode {
		conn.Logger = logger.Default.LogMode(logger.Info)
		conn = conn.Debug()
	}
	DB = conn
	if cfg.Migrate {
		if err = AutoMigrateDB(); err != nil {
			return err
		}
	}
	entry.Info("платформа интервью подключена к БД")
	return nil
}
