package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"interview-platform-backend/config"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type Folder string

const (
	ResumeFolder Folder = "resume"
	AnswerFolder Folder = "answer-audio"
	SpeechFolder Folder = "speech"
)

type Provider interface {
	UploadFile(ctx context.Context, folder Folder, fileName string, body []byte, contentType string) (key string, err error)
	GetFile(ctx context.Context, key string) ([]byte, error)
	GetFileUrl(ctx context.Context, key string) (string, error)
}

var Instance Provider

type impl struct {
	s3client   *minio.Client
	bucketName string
	linkExpire time.Duration
}

func NewHandler(s3client *minio.Client) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: config.Conf.S3.BucketName,
		linkExpire: time.Duration(config.Conf.S3.LinkExpireInSec) * time.Second,
	}
}

func (i impl) UploadFile(ctx context.Context, folder Folder, fileName string, body []byte, contentType string) (string, error) {
	if i.s3client == nil {
		return "", errors.New("файловое хранилище не настроено")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), strings.ToLower(filepath.Ext(fileName)))
	_, err := i.s3client.PutObject(ctx, i.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"file-name": url.QueryEscape(fileName)},
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	return key, nil
}

func (i impl) GetFile(ctx context.Context, key string) ([]byte, error) {
	if i.s3client == nil {
		return nil, errors.New("файловое хранилище не настроено")
	}
	object, err := i.s3client.GetObject(ctx, i.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	defer object.Close()
	body, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return body, nil
}

func (i impl) GetFileUrl(ctx context.Context, key string) (string, error) {
	if i.s3client == nil {
		return "", errors.New("файловое хранилище не настроено")
	}
	link, err := i.s3client.PresignedGetObject(ctx, i.bucketName, key, i.linkExpire, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения ссылки на файл")
	}
	return link.String(), nil
}
