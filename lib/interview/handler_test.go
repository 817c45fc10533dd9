package interviewhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"interview-platform-backend/lib/apperr"
	audiofeatures "interview-platform-backend/lib/audio-features"
	"interview-platform-backend/lib/evaluator"
	filestorage "interview-platform-backend/lib/file-storage"
	interviewstore "interview-platform-backend/lib/interview/store"
	questionbank "interview-platform-backend/lib/question-bank"
	"interview-platform-backend/models"
	activityapimodels "interview-platform-backend/models/api/activity"
	interviewapimodels "interview-platform-backend/models/api/interview"
	dbmodels "interview-platform-backend/models/db"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	candidateID = "candidate-1"
	otherID     = "candidate-2"
	adminID     = "admin-1"
	jobID       = "job-1"
)

var (
	candidate = Actor{UserID: candidateID, Role: models.CandidateRole}
	stranger  = Actor{UserID: otherID, Role: models.CandidateRole}
	admin     = Actor{UserID: adminID, Role: models.AdminRole}
)

type memStore struct {
	mu         sync.Mutex
	interviews map[string]dbmodels.Interview
	seq        int
}

func newMemStore() *memStore {
	return &memStore{interviews: map[string]dbmodels.Interview{}}
}

// clone имитирует чтение из БД: у копии свои срезы
func clone(rec dbmodels.Interview) dbmodels.Interview {
	body, _ := json.Marshal(rec)
	result := dbmodels.Interview{}
	_ = json.Unmarshal(body, &result)
	return result
}

func (m *memStore) Create(rec dbmodels.Interview) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec.ID = fmt.Sprintf("interview-%d", m.seq)
	rec.CreatedAt = time.Now()
	m.interviews[rec.ID] = clone(rec)
	return rec.ID, nil
}

func (m *memStore) GetByID(id string) (*dbmodels.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	result := clone(rec)
	result.Job = &dbmodels.Job{BaseModel: dbmodels.BaseModel{ID: rec.JobID}, Title: "Go Developer", Company: "Acme"}
	result.Candidate = &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: rec.CandidateID}, Email: rec.CandidateID + "@example.com"}
	return &result, nil
}

func (m *memStore) Save(rec *dbmodels.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.interviews[rec.ID]
	if !ok || current.Version != rec.Version {
		return apperr.Conflict("версия не совпадает")
	}
	rec.Version++
	saved := clone(*rec)
	saved.Job = nil
	saved.Candidate = nil
	m.interviews[rec.ID] = saved
	return nil
}

func (m *memStore) List(filter interviewstore.Filter) ([]dbmodels.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []dbmodels.Interview{}
	for _, rec := range m.interviews {
		if filter.CandidateID != "" && rec.CandidateID != filter.CandidateID {
			continue
		}
		result = append(result, clone(rec))
	}
	return result, nil
}

func (m *memStore) ListForReminder(from, to time.Time) ([]dbmodels.Interview, error) {
	return nil, nil
}

func (m *memStore) SetReminderSent(id string, at time.Time) error {
	return nil
}

type jobSource struct{}

func (jobSource) GetRecord(id string) (*dbmodels.Job, error) {
	if id != jobID {
		return nil, apperr.NotFound("вакансия не найдена")
	}
	return &dbmodels.Job{BaseModel: dbmodels.BaseModel{ID: jobID}, Title: "Go Developer", Company: "Acme", TechStack: []string{"go"}}, nil
}

type userSource struct{}

func (userSource) GetByID(userID string) (*dbmodels.User, error) {
	switch userID {
	case candidateID, otherID, adminID:
		return &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: userID}}, nil
	}
	return nil, apperr.NotFound("пользователь не найден")
}

type textExtractor struct{}

func (textExtractor) Extract(fileName string, body []byte) (string, error) {
	if strings.TrimSpace(string(body)) == "" {
		return "", apperr.Extraction(errors.New("empty"), "в резюме не найден текст")
	}
	return string(body), nil
}

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memStorage) UploadFile(ctx context.Context, folder filestorage.Folder, fileName string, body []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s/%d-%s", folder, len(m.files), fileName)
	m.files[key] = body
	return key, nil
}

func (m *memStorage) GetFile(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[key], nil
}

func (m *memStorage) GetFileUrl(ctx context.Context, key string) (string, error) {
	return "http://storage/" + key, nil
}

// fakeGpt отвечает на запросы генерации вопросов и оценки ответов
type fakeGpt struct {
	questions int
	score     string
	calls     atomic.Int32
}

func (f *fakeGpt) GenerateByPromtAndText(ctx context.Context, sysPromt, text string) (string, error) {
	f.calls.Add(1)
	if strings.Contains(sysPromt, "interview questions") {
		items := []string{}
		for n := 0; n < f.questions; n++ {
			items = append(items, fmt.Sprintf(`{"question": "Question %d?", "type": "technical"}`, n+1))
		}
		return "```json\n{\"questions\": [" + strings.Join(items, ",") + "]}\n```", nil
	}
	return `{"score": ` + f.score + `, "feedback": "Solid answer."}`, nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) DetectSilence(ctx context.Context, audio []byte) ([]audiofeatures.Interval, float64, error) {
	return []audiofeatures.Interval{{Start: 0, End: 8}}, 10, nil
}

func (fakeAnalyzer) PitchAndTempo(ctx context.Context, audio []byte) (float64, float64, error) {
	return 120, 180, nil
}

type fakeSpeech struct{}

func (fakeSpeech) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	if string(audio) == "noise" {
		return "", apperr.Transcription(errors.New("no speech"), "речь в аудиозаписи не распознана")
	}
	return "um I built a scheduler in Go", nil
}

func (fakeSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	return "speech/1.mp3", nil
}

type notifyCounter struct {
	scheduled, ready, completed atomic.Int32
}

func (n *notifyCounter) InterviewScheduled(rec dbmodels.Interview) { n.scheduled.Add(1) }
func (n *notifyCounter) QuestionsReady(rec dbmodels.Interview)     { n.ready.Add(1) }
func (n *notifyCounter) InterviewCompleted(rec dbmodels.Interview) { n.completed.Add(1) }
func (n *notifyCounter) InterviewReminder(rec dbmodels.Interview) bool {
	return true
}

type noopActivity struct{}

func (noopActivity) Log(userID string, activityType models.ActivityType, description string) {}

func (noopActivity) List(userID string, role models.UserRole) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

type testEnv struct {
	provider Provider
	store    *memStore
	gpt      *fakeGpt
	notify   *notifyCounter
}

func newEnv(questions int, score string) testEnv {
	gpt := &fakeGpt{questions: questions, score: score}
	store := newMemStore()
	counter := &notifyCounter{}
	provider := NewProvider(Deps{
		Store:          store,
		Jobs:           jobSource{},
		Users:          userSource{},
		Extractor:      textExtractor{},
		Storage:        &memStorage{files: map[string][]byte{}},
		Builder:        questionbank.NewBuilder(gpt),
		Evaluator:      evaluator.NewEvaluator(gpt),
		Features:       audiofeatures.NewExtractor(fakeAnalyzer{}),
		Speech:         fakeSpeech{},
		Notify:         counter,
		Activity:       noopActivity{},
		LockWait:       5 * time.Second,
		QuestionsCount: questions,
	})
	return testEnv{provider: provider, store: store, gpt: gpt, notify: counter}
}

func (e testEnv) create(t *testing.T) string {
	view, err := e.provider.Create(context.Background(), candidate, interviewapimodels.CreateRequest{
		JobID:       jobID,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return view.ID
}

func (e testEnv) started(t *testing.T) string {
	id := e.create(t)
	_, err := e.provider.UploadResume(context.Background(), candidate, id, "cv.txt", []byte("Go developer, 5 years"))
	require.NoError(t, err)
	_, err = e.provider.Start(context.Background(), candidate, id)
	require.NoError(t, err)
	return id
}

func TestInterviewFlow(t *testing.T) {
	ctx := context.Background()
	env := newEnv(2, "8")
	id := env.create(t)

	t.Run("старт без резюме", func(t *testing.T) {
		_, err := env.provider.Start(ctx, candidate, id)
		require.True(t, apperr.Is(err, apperr.KindPrecondition))
	})
	t.Run("ответ до старта", func(t *testing.T) {
		_, err := env.provider.SubmitAnswer(ctx, candidate, id, "answer", nil)
		require.True(t, apperr.Is(err, apperr.KindPrecondition))
	})
	t.Run("итоги до завершения", func(t *testing.T) {
		_, err := env.provider.Summary(ctx, candidate, id)
		require.True(t, apperr.Is(err, apperr.KindPrecondition))
	})
	t.Run("пустое резюме", func(t *testing.T) {
		_, err := env.provider.UploadResume(ctx, candidate, id, "cv.txt", []byte("  "))
		require.True(t, apperr.Is(err, apperr.KindExtraction))
		view, err := env.provider.Get(ctx, candidate, id)
		require.NoError(t, err)
		require.Equal(t, string(models.InterviewStatusScheduled), view.Status)
	})
	t.Run("загрузка резюме", func(t *testing.T) {
		resp, err := env.provider.UploadResume(ctx, candidate, id, "cv.txt", []byte("Go developer"))
		require.NoError(t, err)
		require.Equal(t, 2, resp.Count)
		require.Equal(t, "Question 1?", resp.Questions[0].Question)
		require.Equal(t, int32(1), env.notify.ready.Load())
	})
	t.Run("повторная загрузка до старта", func(t *testing.T) {
		resp, err := env.provider.UploadResume(ctx, candidate, id, "cv.txt", []byte("Go developer, updated"))
		require.NoError(t, err)
		require.Equal(t, 2, resp.Count)
	})
	t.Run("старт", func(t *testing.T) {
		resp, err := env.provider.Start(ctx, candidate, id)
		require.NoError(t, err)
		require.Equal(t, 0, resp.QuestionIndex)
		require.Equal(t, 2, resp.TotalQuestions)
		require.Equal(t, "Question 1?", resp.Question.Question)
	})
	t.Run("повторная загрузка после старта", func(t *testing.T) {
		_, err := env.provider.UploadResume(ctx, candidate, id, "cv.txt", []byte("Go developer"))
		require.True(t, apperr.Is(err, apperr.KindPrecondition))
	})
	t.Run("первый ответ", func(t *testing.T) {
		resp, err := env.provider.SubmitAnswer(ctx, candidate, id, "I use goroutines", nil)
		require.NoError(t, err)
		require.False(t, resp.Completed)
		require.Equal(t, 1, resp.QuestionIndex)
		require.Equal(t, "Question 2?", resp.CurrentQuestion.Question)
		require.Equal(t, 8.0, resp.LastAnswer.Score)
		require.Nil(t, resp.LastAnswer.AudioFeatures)
	})
	t.Run("последний ответ голосом", func(t *testing.T) {
		resp, err := env.provider.SubmitAnswer(ctx, candidate, id, "", &AudioFile{FileName: "a.wav", Body: []byte("wav")})
		require.NoError(t, err)
		require.True(t, resp.Completed)
		require.Nil(t, resp.CurrentQuestion)
		require.Equal(t, "um I built a scheduler in Go", resp.LastAnswer.Answer)
		require.NotNil(t, resp.LastAnswer.AudioFeatures)
		require.Equal(t, 1, resp.LastAnswer.AudioFeatures.FillerCount)
		require.InDelta(t, 0.2, resp.LastAnswer.AudioFeatures.SilenceRatio, 1e-9)
		require.NotNil(t, resp.Summary)
		require.Equal(t, 8.0, resp.Summary.AverageScore)
		require.Equal(t, "Good", resp.Summary.ScoreLabel)
		require.Equal(t, int32(1), env.notify.completed.Load())
	})
	t.Run("итоги", func(t *testing.T) {
		summary, err := env.provider.Summary(ctx, candidate, id)
		require.NoError(t, err)
		require.Equal(t, 2, summary.AnsweredCount)
		view, err := env.provider.Get(ctx, admin, id)
		require.NoError(t, err)
		require.Equal(t, string(models.InterviewStatusCompleted), view.Status)
		require.NotNil(t, view.CompletedAt)
		require.Len(t, view.Answers, 2)
	})
	t.Run("ответ после завершения", func(t *testing.T) {
		_, err := env.provider.SubmitAnswer(ctx, candidate, id, "late", nil)
		require.True(t, apperr.Is(err, apperr.KindPrecondition))
	})
}

func TestInterviewAccess(t *testing.T) {
	ctx := context.Background()
	env := newEnv(3, "5")
	id := env.create(t)

	t.Run("чужое интервью", func(t *testing.T) {
		_, err := env.provider.Get(ctx, stranger, id)
		require.True(t, apperr.Is(err, apperr.KindAccessDenied))
		_, err = env.provider.UploadResume(ctx, stranger, id, "cv.txt", []byte("text"))
		require.True(t, apperr.Is(err, apperr.KindAccessDenied))
	})
	t.Run("администратор имеет доступ", func(t *testing.T) {
		_, err := env.provider.Get(ctx, admin, id)
		require.NoError(t, err)
	})
	t.Run("не найдено", func(t *testing.T) {
		_, err := env.provider.Get(ctx, admin, "unknown")
		require.True(t, apperr.Is(err, apperr.KindNotFound))
	})
	t.Run("назначение другому кандидату", func(t *testing.T) {
		_, err := env.provider.Create(ctx, candidate, interviewapimodels.CreateRequest{JobID: jobID, ScheduledAt: time.Now(), CandidateID: otherID})
		require.True(t, apperr.Is(err, apperr.KindAccessDenied))
		view, err := env.provider.Create(ctx, admin, interviewapimodels.CreateRequest{JobID: jobID, ScheduledAt: time.Now(), CandidateID: otherID})
		require.NoError(t, err)
		require.Equal(t, otherID, view.CandidateID)
	})
	t.Run("несуществующая вакансия", func(t *testing.T) {
		_, err := env.provider.Create(ctx, candidate, interviewapimodels.CreateRequest{JobID: "missing", ScheduledAt: time.Now()})
		require.True(t, apperr.Is(err, apperr.KindNotFound))
	})
	t.Run("список кандидата", func(t *testing.T) {
		list, err := env.provider.List(ctx, candidate, interviewapimodels.InterviewFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		all, err := env.provider.List(ctx, admin, interviewapimodels.InterviewFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
	})
}

func TestSubmitAnswerSkips(t *testing.T) {
	ctx := context.Background()

	t.Run("пропуск не записывает ответ", func(t *testing.T) {
		env := newEnv(2, "6")
		id := env.started(t)
		resp, err := env.provider.SubmitAnswer(ctx, candidate, id, "   ", nil)
		require.NoError(t, err)
		require.Nil(t, resp.LastAnswer)
		require.Equal(t, 1, resp.QuestionIndex)
		resp, err = env.provider.SubmitAnswer(ctx, candidate, id, "answer", nil)
		require.NoError(t, err)
		require.True(t, resp.Completed)
		require.Equal(t, 1, resp.Summary.AnsweredCount)
		require.Equal(t, 6.0, resp.Summary.AverageScore)
	})
	t.Run("все вопросы пропущены", func(t *testing.T) {
		env := newEnv(2, "6")
		id := env.started(t)
		_, err := env.provider.SubmitAnswer(ctx, candidate, id, "", nil)
		require.NoError(t, err)
		resp, err := env.provider.SubmitAnswer(ctx, candidate, id, "", nil)
		require.NoError(t, err)
		require.True(t, resp.Completed)
		require.Equal(t, 0.0, resp.Summary.AverageScore)
		require.Equal(t, "Poor", resp.Summary.ScoreLabel)
		require.Equal(t, 0, resp.Summary.AnsweredCount)
	})
	t.Run("ошибка распознавания не меняет состояние", func(t *testing.T) {
		env := newEnv(2, "6")
		id := env.started(t)
		_, err := env.provider.SubmitAnswer(ctx, candidate, id, "", &AudioFile{FileName: "a.wav", Body: []byte("noise")})
		require.True(t, apperr.Is(err, apperr.KindTranscription))
		view, err := env.provider.Get(ctx, candidate, id)
		require.NoError(t, err)
		require.Equal(t, 0, view.CurrentQuestionIndex)
		require.Empty(t, view.Answers)
	})
	t.Run("оценка вне диапазона ограничивается", func(t *testing.T) {
		env := newEnv(1, "15")
		id := env.started(t)
		resp, err := env.provider.SubmitAnswer(ctx, candidate, id, "answer", nil)
		require.NoError(t, err)
		require.Equal(t, 10.0, resp.LastAnswer.Score)
		require.Equal(t, "Excellent", resp.Summary.ScoreLabel)
	})
}

func TestSubmitAnswerConcurrent(t *testing.T) {
	ctx := context.Background()
	env := newEnv(5, "7")
	id := env.started(t)

	const workers = 7
	var ok, precondition, other atomic.Int32
	wg := sync.WaitGroup{}
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := env.provider.SubmitAnswer(ctx, candidate, id, fmt.Sprintf("answer %d", n), nil)
			switch {
			case err == nil:
				ok.Add(1)
			case apperr.Is(err, apperr.KindPrecondition):
				precondition.Add(1)
			default:
				other.Add(1)
			}
		}(n)
	}
	wg.Wait()

	require.Equal(t, int32(5), ok.Load())
	require.Equal(t, int32(2), precondition.Load())
	require.Equal(t, int32(0), other.Load())

	view, err := env.provider.Get(ctx, candidate, id)
	require.NoError(t, err)
	require.Equal(t, string(models.InterviewStatusCompleted), view.Status)
	require.Len(t, view.Answers, 5)
	seen := map[int]bool{}
	for _, answer := range view.Answers {
		require.False(t, seen[answer.QuestionIndex])
		seen[answer.QuestionIndex] = true
	}
	require.Equal(t, int32(1), env.notify.completed.Load())
}

func TestMessagesAndSpeech(t *testing.T) {
	ctx := context.Background()
	env := newEnv(2, "7")
	id := env.create(t)

	t.Run("сообщение в стенограмме", func(t *testing.T) {
		msg, err := env.provider.AddMessage(ctx, candidate, id, interviewapimodels.MessageRequest{Sender: "candidate", Message: "Hello"})
		require.NoError(t, err)
		require.NotEmpty(t, msg.ID)
		view, err := env.provider.Get(ctx, candidate, id)
		require.NoError(t, err)
		require.Len(t, view.Transcript, 1)
		require.Equal(t, "Hello", view.Transcript[0].Message)
	})
	t.Run("озвучивание", func(t *testing.T) {
		resp, err := env.provider.Tts(ctx, candidate, id, "Question 1?")
		require.NoError(t, err)
		require.Equal(t, "speech/1.mp3", resp.AudioKey)
		require.Equal(t, "http://storage/speech/1.mp3", resp.AudioUrl)
	})
	t.Run("распознавание", func(t *testing.T) {
		resp, err := env.provider.Stt(ctx, candidate, id, AudioFile{FileName: "a.wav", Body: []byte("wav")})
		require.NoError(t, err)
		require.Equal(t, "um I built a scheduler in Go", resp.Text)
		_, err = env.provider.Stt(ctx, stranger, id, AudioFile{FileName: "a.wav", Body: []byte("wav")})
		require.True(t, apperr.Is(err, apperr.KindAccessDenied))
	})
}
