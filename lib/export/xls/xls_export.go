package xlsexport

import (
	"bytes"
	interviewapimodels "interview-platform-backend/models/api/interview"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportInterviewList(list []interviewapimodels.InterviewView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var interviewHeaders = []string{"Кандидат", "Вакансия", "Компания", "Дата интервью", "Статус", "Вопросов", "Ответов", "Средняя оценка", "Итог", "Отзыв"}

func (i impl) ExportInterviewList(list []interviewapimodels.InterviewView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, interviewHeaders, 22)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		_, err = writeInterviewData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err = f.SetSheetName(sheet, "Интервью"); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа xlsx")
	}
	return f.WriteToBuffer()
}

func writeInterviewData(f *excelize.File, sheet string, list []interviewapimodels.InterviewView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(interviewHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.CandidateName,
			item.JobTitle,
			item.Company,
			item.ScheduledAt.Format("02.01.2006 15:04"),
			item.StatusName,
			len(item.Questions),
			len(item.Answers),
			nil,
			"",
			"",
		}
		if item.Summary != nil {
			values[7] = item.Summary.AverageScore
			values[8] = item.Summary.ScoreLabel
			values[9] = item.Summary.Feedback
		}
		for idx, value := range values {
			if value == nil {
				continue
			}
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
