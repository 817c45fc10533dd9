package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr   string `default:"" env:"APP_HOST"`
		Port         int    `default:"8080"  env:"APP_PORT"`
		CorsOrigins  string `default:"http://localhost:5173, http://localhost:5174, http://127.0.0.1:5173, http://127.0.0.1:5174" env:"APP_CORS_ORIGINS"`
		BodyLimitMb  int    `default:"50" env:"APP_BODY_LIMIT_MB"`
		FontDir      string `default:"static/font/" env:"APP_FONT_DIR"` // каталог с DejaVuSans.ttf для PDF-отчетов
		ErrNotifyUrl string `default:"" env:"APP_ERR_NOTIFY_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"interview-platform" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		SeedOnStart    *bool  `default:"true" env:"DB_SEED_ON_START"`
	}
	Auth struct {
		JWTSecret      string `default:"change-me-in-production" env:"JWT_SECRET_KEY"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
		AdminEmail     string `default:"admin@interview.local" env:"ADMIN_EMAIL"`
		AdminPassword  string `default:"admin123" env:"ADMIN_PASSWORD"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"interview-platform" env:"S3_BUCKET_NAME"`
		LinkExpireInSec int    `default:"3600" env:"S3_LINK_EXPIRE_IN_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	AI struct {
		Provider                string  `default:"yandexgpt" env:"AI_PROVIDER"` // yandexgpt | gemini
		RequestTimeoutSec       int     `default:"60" env:"AI_REQUEST_TIMEOUT_SEC"`
		Temperature             float64 `default:"0.3" env:"AI_TEMPERATURE"`
		PlainQuestionsCount     int     `default:"3" env:"AI_PLAIN_QUESTIONS_COUNT"`
		InterviewQuestionsCount int     `default:"5" env:"AI_INTERVIEW_QUESTIONS_COUNT"`
	}
	YandexGPT struct {
		IAMToken  string `default:"" env:"YANDEX_GPT_IAM_TOKEN"`
		CatalogID string `default:"" env:"YANDEX_GPT_CATALOG_ID"`
	}
	Gemini struct {
		APIKey string `default:"" env:"GEMINI_API_KEY"`
		Model  string `default:"gemini-2.5-flash" env:"GEMINI_MODEL"`
	}
	Speech struct {
		BaseUrl    string `default:"https://api.openai.com/v1" env:"SPEECH_BASE_URL"`
		APIKey     string `default:"" env:"SPEECH_API_KEY"`
		SttModel   string `default:"whisper-1" env:"SPEECH_STT_MODEL"`
		TtsModel   string `default:"tts-1" env:"SPEECH_TTS_MODEL"`
		TtsVoice   string `default:"alloy" env:"SPEECH_TTS_VOICE"`
		Language   string `default:"en" env:"SPEECH_LANGUAGE"`
		TimeoutSec int    `default:"60" env:"SPEECH_TIMEOUT_SEC"`
	}
	Interview struct {
		LockWaitSec          int   `default:"180" env:"INTERVIEW_LOCK_WAIT_SEC"`
		MaxResumeSizeMb      int   `default:"10" env:"INTERVIEW_MAX_RESUME_SIZE_MB"`
		MaxAudioSizeMb       int   `default:"25" env:"INTERVIEW_MAX_AUDIO_SIZE_MB"`
		ReminderEnabled      *bool `default:"true" env:"INTERVIEW_REMINDER_ENABLED"`
		ReminderIntervalMin  int   `default:"30" env:"INTERVIEW_REMINDER_INTERVAL_MIN"`
		ReminderAheadInHours int   `default:"24" env:"INTERVIEW_REMINDER_AHEAD_IN_HOURS"`
	}
	Notify struct {
		SenderEmail string `default:"" env:"NOTIFY_SENDER_EMAIL"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug("файл .env не найден, используются переменные окружения")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
