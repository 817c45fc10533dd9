package initializers

import (
	"context"
	s3client "interview-platform-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}

	// Проверка соединения и бакета
	if err = s3client.MakeBucket(ctx, minioClient); err != nil {
		log.WithError(err).Error("S3 соединение не удалось, бакет не создан")
	}

	s3client.Client = minioClient
	log.Info("S3 клиент успешно инициализирован")
}
