package initializers

import (
	"context"
	"interview-platform-backend/config"
	"interview-platform-backend/fiberlog"
	activityhandler "interview-platform-backend/lib/activity"
	assessmenthandler "interview-platform-backend/lib/assessment"
	audiofeatures "interview-platform-backend/lib/audio-features"
	wavanalyzer "interview-platform-backend/lib/audio-features/wav-analyzer"
	"interview-platform-backend/lib/evaluator"
	xlsexport "interview-platform-backend/lib/export/xls"
	filestorage "interview-platform-backend/lib/file-storage"
	gpthandler "interview-platform-backend/lib/gpt"
	interviewhandler "interview-platform-backend/lib/interview"
	reminderworker "interview-platform-backend/lib/interview/reminder-worker"
	jobshandler "interview-platform-backend/lib/jobs"
	"interview-platform-backend/lib/notify"
	questionbank "interview-platform-backend/lib/question-bank"
	"interview-platform-backend/lib/resume"
	"interview-platform-backend/lib/speech"
	usershandler "interview-platform-backend/lib/users"
	connectionhub "interview-platform-backend/lib/ws/hub/connection-hub"
	s3client "interview-platform-backend/s3"
	"time"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	connectionhub.Init()
	filestorage.NewHandler(s3client.Client)
	activityhandler.NewHandler()
	usershandler.NewHandler()
	jobshandler.NewHandler()
	resume.NewHandler()
	gpthandler.NewHandler(ctx)
	questionbank.NewHandler(gpthandler.Instance)
	evaluator.NewHandler(gpthandler.Instance)
	audiofeatures.NewHandler(wavanalyzer.NewAnalyzer())
	speech.NewHandler()
	notify.NewHandler()
	interviewhandler.NewHandler()
	assessmenthandler.NewHandler()
	xlsexport.NewHandler()
	InitSeed()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	if !*config.Conf.Interview.ReminderEnabled {
		return
	}
	if makeTimeGap(ctx) {
		// Задача напоминаний о предстоящих интервью
		reminderworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
