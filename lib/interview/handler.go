package interviewhandler

import (
	"context"
	"interview-platform-backend/config"
	"interview-platform-backend/db"
	activityhandler "interview-platform-backend/lib/activity"
	"interview-platform-backend/lib/aggregator"
	"interview-platform-backend/lib/apperr"
	audiofeatures "interview-platform-backend/lib/audio-features"
	"interview-platform-backend/lib/evaluator"
	filestorage "interview-platform-backend/lib/file-storage"
	gpthandler "interview-platform-backend/lib/gpt"
	interviewstore "interview-platform-backend/lib/interview/store"
	jobshandler "interview-platform-backend/lib/jobs"
	"interview-platform-backend/lib/notify"
	questionbank "interview-platform-backend/lib/question-bank"
	"interview-platform-backend/lib/resume"
	"interview-platform-backend/lib/speech"
	usershandler "interview-platform-backend/lib/users"
	"interview-platform-backend/lib/utils/helpers"
	initchecker "interview-platform-backend/lib/utils/init-checker"
	"interview-platform-backend/lib/utils/lock"
	"interview-platform-backend/models"
	interviewapimodels "interview-platform-backend/models/api/interview"
	dbmodels "interview-platform-backend/models/db"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID string
	Role   models.UserRole
}

// AudioFile аудиозапись ответа кандидата
type AudioFile struct {
	FileName string
	Body     []byte
}

type Provider interface {
	Create(ctx context.Context, actor Actor, request interviewapimodels.CreateRequest) (interviewapimodels.InterviewView, error)
	Get(ctx context.Context, actor Actor, id string) (interviewapimodels.InterviewView, error)
	// List кандидат видит только свои интервью, администратор все
	List(ctx context.Context, actor Actor, filter interviewapimodels.InterviewFilter) ([]interviewapimodels.InterviewView, error)
	UploadResume(ctx context.Context, actor Actor, id, fileName string, body []byte) (interviewapimodels.UploadResumeResponse, error)
	Start(ctx context.Context, actor Actor, id string) (interviewapimodels.StartResponse, error)
	// SubmitAnswer ответ на текущий вопрос. Пустой ответ без аудио - вопрос пропущен
	SubmitAnswer(ctx context.Context, actor Actor, id, answerText string, audio *AudioFile) (interviewapimodels.SubmitAnswerResponse, error)
	Summary(ctx context.Context, actor Actor, id string) (interviewapimodels.Summary, error)
	AddMessage(ctx context.Context, actor Actor, id string, request interviewapimodels.MessageRequest) (interviewapimodels.Message, error)
	Tts(ctx context.Context, actor Actor, id, text string) (interviewapimodels.TtsResponse, error)
	Stt(ctx context.Context, actor Actor, id string, audio AudioFile) (interviewapimodels.SttResponse, error)
}

var Instance Provider

// JobSource вакансии для контекста интервью
type JobSource interface {
	GetRecord(id string) (*dbmodels.Job, error)
}

// UserSource проверка существования кандидата
type UserSource interface {
	GetByID(userID string) (*dbmodels.User, error)
}

type Deps struct {
	Store          interviewstore.Provider
	Jobs           JobSource
	Users          UserSource
	Extractor      resume.Provider
	Storage        filestorage.Provider
	Builder        questionbank.Provider
	Evaluator      evaluator.Provider
	Features       audiofeatures.Provider
	Speech         speech.Provider
	Notify         notify.Provider
	Activity       activityhandler.Provider
	LockWait       time.Duration
	QuestionsCount int
}

func NewHandler() {
	initchecker.CheckInit(
		"jobshandler", jobshandler.Instance,
		"usershandler", usershandler.Instance,
		"resume", resume.Instance,
		"filestorage", filestorage.Instance,
		"questionbank", questionbank.Instance,
		"evaluator", evaluator.Instance,
		"audiofeatures", audiofeatures.Instance,
		"speech", speech.Instance,
		"notify", notify.Instance,
		"activityhandler", activityhandler.Instance,
	)
	Instance = NewProvider(Deps{
		Store:          interviewstore.NewInstance(db.DB),
		Jobs:           jobshandler.Instance,
		Users:          usershandler.Instance,
		Extractor:      resume.Instance,
		Storage:        filestorage.Instance,
		Builder:        questionbank.Instance,
		Evaluator:      evaluator.Instance,
		Features:       audiofeatures.Instance,
		Speech:         speech.Instance,
		Notify:         notify.Instance,
		Activity:       activityhandler.Instance,
		LockWait:       time.Duration(config.Conf.Interview.LockWaitSec) * time.Second,
		QuestionsCount: config.Conf.AI.InterviewQuestionsCount,
	})
}

func NewProvider(deps Deps) Provider {
	return impl{
		deps: deps,
	}
}

type impl struct {
	deps Deps
}

func (i impl) getLogger(actor Actor, interviewID string) *log.Entry {
	logger := log.WithField("user_id", actor.UserID)
	if interviewID != "" {
		logger = logger.WithField("interview_id", interviewID)
	}
	return logger
}

func (i impl) Create(ctx context.Context, actor Actor, request interviewapimodels.CreateRequest) (interviewapimodels.InterviewView, error) {
	candidateID := actor.UserID
	if request.CandidateID != "" && request.CandidateID != actor.UserID {
		if !actor.Role.IsAdmin() {
			return interviewapimodels.InterviewView{}, apperr.AccessDenied("назначать интервью другому кандидату может только администратор")
		}
		candidateID = request.CandidateID
	}
	if _, err := i.deps.Users.GetByID(candidateID); err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	if _, err := i.deps.Jobs.GetRecord(request.JobID); err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	rec := dbmodels.Interview{
		CandidateID: candidateID,
		JobID:       request.JobID,
		Status:      models.InterviewStatusScheduled,
		ScheduledAt: request.ScheduledAt,
		Questions:   dbmodels.InterviewQuestions{},
		Answers:     dbmodels.InterviewAnswers{},
		Transcript:  dbmodels.InterviewTranscript{},
	}
	id, err := i.deps.Store.Create(rec)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	i.getLogger(actor, id).Info("интервью назначено")
	i.deps.Activity.Log(candidateID, models.ActivityInterviewScheduled, "Назначено интервью на "+request.ScheduledAt.Format("02.01.2006 15:04"))
	created, err := i.load(id)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	i.deps.Notify.InterviewScheduled(*created)
	return created.ToModel(), nil
}

func (i impl) Get(ctx context.Context, actor Actor, id string) (interviewapimodels.InterviewView, error) {
	rec, err := i.loadWithAccess(actor, id)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) List(ctx context.Context, actor Actor, filter interviewapimodels.InterviewFilter) ([]interviewapimodels.InterviewView, error) {
	storeFilter := interviewstore.Filter{
		JobID:    filter.JobID,
		Status:   models.InterviewStatus(filter.Status),
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}
	if actor.Role.IsAdmin() {
		storeFilter.CandidateID = filter.CandidateID
	} else {
		storeFilter.CandidateID = actor.UserID
	}
	list, err := i.deps.Store.List(storeFilter)
	if err != nil {
		return nil, err
	}
	result := make([]interviewapimodels.InterviewView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) UploadResume(ctx context.Context, actor Actor, id, fileName string, body []byte) (interviewapimodels.UploadResumeResponse, error) {
	logger := i.getLogger(actor, id)
	var result interviewapimodels.UploadResumeResponse
	var updated dbmodels.Interview
	err := i.withLock(ctx, id, func() error {
		rec, err := i.loadWithAccess(actor, id)
		if err != nil {
			return err
		}
		if rec.Status != models.InterviewStatusScheduled && rec.Status != models.InterviewStatusResumeUploaded {
			return apperr.Precondition("резюме можно загрузить только до начала интервью")
		}
		job, err := i.deps.Jobs.GetRecord(rec.JobID)
		if err != nil {
			return err
		}
		text, err := i.deps.Extractor.Extract(fileName, body)
		if err != nil {
			return err
		}
		fileKey, err := i.deps.Storage.UploadFile(ctx, filestorage.ResumeFolder, fileName, body, "")
		if err != nil {
			logger.WithError(err).Warn("не удалось сохранить файл резюме в хранилище")
			fileKey = ""
		}
		genCtx := gpthandler.WithLogData(ctx, rec.ID, dbmodels.AiQuestionsType)
		questions := i.deps.Builder.Build(genCtx, text, job.GetContext(), helpers.ClampInt(i.deps.QuestionsCount, 1, 10))

		rec.ResumeText = text
		if fileKey != "" {
			rec.ResumeFileKey = fileKey
		}
		rec.Questions = questions
		rec.CurrentQuestionIndex = 0
		rec.Answers = dbmodels.InterviewAnswers{}
		rec.Status = models.InterviewStatusResumeUploaded
		err = i.deps.Store.Save(rec)
		if err != nil {
			return err
		}
		updated = *rec
		result = interviewapimodels.UploadResumeResponse{
			Questions: rec.Questions.ToModel(),
			Count:     len(rec.Questions),
		}
		return nil
	})
	if err != nil {
		return interviewapimodels.UploadResumeResponse{}, err
	}
	logger.WithField("questions_count", result.Count).Info("резюме загружено, вопросы сформированы")
	i.deps.Activity.Log(updated.CandidateID, models.ActivityInterviewResumeUpload, "Загружено резюме "+fileName)
	i.deps.Notify.QuestionsReady(updated)
	return result, nil
}

func (i impl) Start(ctx context.Context, actor Actor, id string) (interviewapimodels.StartResponse, error) {
	var result interviewapimodels.StartResponse
	var candidateID string
	err := i.withLock(ctx, id, func() error {
		rec, err := i.loadWithAccess(actor, id)
		if err != nil {
			return err
		}
		if rec.Status != models.InterviewStatusResumeUploaded || len(rec.Questions) == 0 {
			return apperr.Precondition("сначала загрузите резюме")
		}
		now := time.Now()
		rec.Status = models.InterviewStatusInProgress
		rec.StartedAt = &now
		rec.CurrentQuestionIndex = 0
		question, ok := rec.CurrentQuestion()
		if !ok {
			return apperr.Precondition("нет текущего вопроса")
		}
		err = i.deps.Store.Save(rec)
		if err != nil {
			return err
		}
		candidateID = rec.CandidateID
		result = interviewapimodels.StartResponse{
			Question:       question.ToModel(),
			QuestionIndex:  0,
			TotalQuestions: len(rec.Questions),
		}
		return nil
	})
	if err != nil {
		return interviewapimodels.StartResponse{}, err
	}
	i.getLogger(actor, id).Info("интервью начато")
	i.deps.Activity.Log(candidateID, models.ActivityInterviewStarted, "Начато интервью")
	return result, nil
}

func (i impl) SubmitAnswer(ctx context.Context, actor Actor, id, answerText string, audio *AudioFile) (interviewapimodels.SubmitAnswerResponse, error) {
	logger := i.getLogger(actor, id)
	var result interviewapimodels.SubmitAnswerResponse
	var updated dbmodels.Interview
	err := i.withLock(ctx, id, func() error {
		rec, err := i.loadWithAccess(actor, id)
		if err != nil {
			return err
		}
		if rec.Status != models.InterviewStatusInProgress {
			return apperr.Precondition("интервью не начато или уже завершено")
		}
		question, ok := rec.CurrentQuestion()
		if !ok {
			return apperr.Precondition("нет текущего вопроса")
		}
		hasAudio := audio != nil && len(audio.Body) > 0
		text := strings.TrimSpace(answerText)
		if text == "" && hasAudio {
			text, err = i.deps.Speech.Transcribe(ctx, audio.FileName, audio.Body)
			if err != nil {
				return err
			}
			text = strings.TrimSpace(text)
		}

		var answer *dbmodels.InterviewAnswer
		if text != "" {
			answer = i.recordAnswer(ctx, logger, rec, question, text, audio)
			rec.Answers = append(rec.Answers, *answer)
		} else {
			logger.WithField("question_index", rec.CurrentQuestionIndex).Info("вопрос пропущен")
		}

		rec.CurrentQuestionIndex++
		if rec.CurrentQuestionIndex >= len(rec.Questions) {
			i.complete(rec)
		}
		err = i.deps.Store.Save(rec)
		if err != nil {
			return err
		}
		updated = *rec
		result = interviewapimodels.SubmitAnswerResponse{
			Completed:      rec.Status == models.InterviewStatusCompleted,
			QuestionIndex:  rec.CurrentQuestionIndex,
			TotalQuestions: len(rec.Questions),
		}
		if answer != nil {
			view := answer.ToModel()
			result.LastAnswer = &view
		}
		if next, ok := rec.CurrentQuestion(); ok && !result.Completed {
			view := next.ToModel()
			result.CurrentQuestion = &view
		}
		if rec.Summary != nil {
			summary := rec.Summary.ToModel()
			result.Summary = &summary
		}
		return nil
	})
	if err != nil {
		return interviewapimodels.SubmitAnswerResponse{}, err
	}
	if result.LastAnswer != nil {
		i.deps.Activity.Log(updated.CandidateID, models.ActivityInterviewAnswer, "Получен ответ на вопрос")
	}
	if result.Completed {
		logger.Info("интервью завершено")
		i.deps.Activity.Log(updated.CandidateID, models.ActivityInterviewCompleted, "Интервью завершено")
		i.deps.Notify.InterviewCompleted(updated)
	}
	return result, nil
}

func (i impl) recordAnswer(ctx context.Context, logger *log.Entry, rec *dbmodels.Interview, question dbmodels.InterviewQuestion, text string, audio *AudioFile) *dbmodels.InterviewAnswer {
	answer := dbmodels.InterviewAnswer{
		QuestionIndex: rec.CurrentQuestionIndex,
		Question:      question.Question,
		Answer:        text,
		Timestamp:     time.Now(),
	}
	if audio != nil && len(audio.Body) > 0 {
		features := i.deps.Features.Extract(ctx, audio.Body, text)
		answer.AudioFeatures = &features
		key, err := i.deps.Storage.UploadFile(ctx, filestorage.AnswerFolder, audio.FileName, audio.Body, "")
		if err != nil {
			logger.WithError(err).Warn("не удалось сохранить аудио ответа в хранилище")
		} else {
			answer.AudioFileKey = key
		}
	}
	scoreCtx := gpthandler.WithLogData(ctx, rec.ID, dbmodels.AiScoreType)
	verdict := i.deps.Evaluator.Evaluate(scoreCtx, question.Question, text, answer.AudioFeatures)
	answer.Score = verdict.Score
	answer.Feedback = verdict.Feedback
	return &answer
}

func (i impl) complete(rec *dbmodels.Interview) {
	now := time.Now()
	rec.Status = models.InterviewStatusCompleted
	rec.CompletedAt = &now
	summary, err := aggregator.Aggregate(rec.Answers, len(rec.Questions))
	if err != nil {
		summary = aggregator.EmptySummary(len(rec.Questions))
	}
	rec.Summary = &summary
}

func (i impl) Summary(ctx context.Context, actor Actor, id string) (interviewapimodels.Summary, error) {
	rec, err := i.loadWithAccess(actor, id)
	if err != nil {
		return interviewapimodels.Summary{}, err
	}
	if rec.Status != models.InterviewStatusCompleted || rec.Summary == nil {
		return interviewapimodels.Summary{}, apperr.Precondition("интервью еще не завершено")
	}
	return rec.Summary.ToModel(), nil
}

func (i impl) AddMessage(ctx context.Context, actor Actor, id string, request interviewapimodels.MessageRequest) (interviewapimodels.Message, error) {
	var result interviewapimodels.Message
	var candidateID string
	err := i.withLock(ctx, id, func() error {
		rec, err := i.loadWithAccess(actor, id)
		if err != nil {
			return err
		}
		msg := dbmodels.TranscriptMessage{
			ID:        uuid.New().String(),
			Sender:    strings.TrimSpace(request.Sender),
			Message:   strings.TrimSpace(request.Message),
			Timestamp: time.Now(),
		}
		rec.Transcript = append(rec.Transcript, msg)
		err = i.deps.Store.Save(rec)
		if err != nil {
			return err
		}
		candidateID = rec.CandidateID
		result = msg.ToModel()
		return nil
	})
	if err != nil {
		return interviewapimodels.Message{}, err
	}
	i.deps.Activity.Log(candidateID, models.ActivityInterviewMessage, "Добавлено сообщение в стенограмму")
	return result, nil
}

func (i impl) Tts(ctx context.Context, actor Actor, id, text string) (interviewapimodels.TtsResponse, error) {
	if _, err := i.loadWithAccess(actor, id); err != nil {
		return interviewapimodels.TtsResponse{}, err
	}
	key, err := i.deps.Speech.Synthesize(ctx, text)
	if err != nil {
		return interviewapimodels.TtsResponse{}, err
	}
	result := interviewapimodels.TtsResponse{AudioKey: key}
	url, err := i.deps.Storage.GetFileUrl(ctx, key)
	if err != nil {
		i.getLogger(actor, id).WithError(err).Warn("не удалось получить ссылку на аудио")
	} else {
		result.AudioUrl = url
	}
	return result, nil
}

func (i impl) Stt(ctx context.Context, actor Actor, id string, audio AudioFile) (interviewapimodels.SttResponse, error) {
	if _, err := i.loadWithAccess(actor, id); err != nil {
		return interviewapimodels.SttResponse{}, err
	}
	text, err := i.deps.Speech.Transcribe(ctx, audio.FileName, audio.Body)
	if err != nil {
		return interviewapimodels.SttResponse{}, err
	}
	return interviewapimodels.SttResponse{Text: text}, nil
}

func (i impl) withLock(ctx context.Context, id string, fn func() error) error {
	success, err := lock.WithDelay(ctx, "interview:"+id, i.deps.LockWait, fn)
	if err != nil {
		return err
	}
	if !success {
		return apperr.Conflict("интервью обрабатывается другим запросом, повторите попытку позже")
	}
	return nil
}

func (i impl) load(id string) (*dbmodels.Interview, error) {
	rec, err := i.deps.Store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения интервью")
	}
	if rec == nil {
		return nil, apperr.NotFound("интервью не найдено")
	}
	return rec, nil
}

func (i impl) loadWithAccess(actor Actor, id string) (*dbmodels.Interview, error) {
	rec, err := i.load(id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && !rec.IsOwner(actor.UserID) {
		return nil, apperr.AccessDenied("нет доступа к интервью")
	}
	return rec, nil
}
