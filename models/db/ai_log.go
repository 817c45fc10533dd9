package dbmodels

type AiLog struct {
	BaseModel
	SysPromt    string       `comment:"System промт"`
	UserPromt   string       `comment:"User промт"`
	Answer      string       `comment:"Ответ ИИ"`
	InterviewID string       `gorm:"type:varchar(36);index" comment:"Идентификатор интервью"`
	ReqestType  AiReqestType `gorm:"type:varchar(255)" comment:"Тип запроса к ИИ"`
	AiName      AiName       `gorm:"type:varchar(255)" comment:"Название ИИ"`
	Error       string       `comment:"Ошибка запроса"`
}

type AiName string

const (
	AiYaGptType  AiName = "yandexgpt"
	AiGeminiType AiName = "gemini"
)

type AiReqestType string

const (
	AiQuestionsType AiReqestType = "InterviewQuestions"
	AiScoreType     AiReqestType = "ScoreAnswer"
)
