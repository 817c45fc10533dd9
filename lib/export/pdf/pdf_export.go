package pdfexport

import (
	"bytes"
	"fmt"
	interviewapimodels "interview-platform-backend/models/api/interview"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	utf8FontName = "DejaVu"
	utf8FontFile = "DejaVuSans.ttf"
	utf8BoldFile = "DejaVuSans-Bold.ttf"
	coreFontName = "Helvetica"
)

type reportWriter struct {
	pdf       *fpdf.Fpdf
	font      string
	translate func(string) string
}

// InterviewReport PDF-отчет по интервью. Если в fontDir нет шрифта DejaVu, используется встроенный Helvetica (только латиница)
func InterviewReport(view interviewapimodels.InterviewView, fontDir string) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("InterviewReport panic recover: %v", r)
		}
	}()
	w := newReportWriter(fontDir)
	w.pdf.AddPage()
	if w.pdf.Error() != nil {
		return nil, w.pdf.Error()
	}

	w.title("Interview report")
	w.field("Candidate", view.CandidateName)
	w.field("Job", view.JobTitle)
	w.field("Company", view.Company)
	w.field("Scheduled at", view.ScheduledAt.Format("02.01.2006 15:04"))
	if view.CompletedAt != nil {
		w.field("Completed at", view.CompletedAt.Format("02.01.2006 15:04"))
	}
	w.field("Status", view.Status)

	if view.Summary != nil {
		w.section("Summary")
		w.field("Average score", fmt.Sprintf("%.2f / 10", view.Summary.AverageScore))
		w.field("Label", view.Summary.ScoreLabel)
		w.field("Answered", fmt.Sprintf("%d of %d", view.Summary.AnsweredCount, view.Summary.TotalQuestions))
		w.text(view.Summary.Feedback)
	}

	w.section("Answers")
	answered := map[int]interviewapimodels.Answer{}
	for _, answer := range view.Answers {
		answered[answer.QuestionIndex] = answer
	}
	for idx, question := range view.Questions {
		w.bold(fmt.Sprintf("%d. %s (%s)", idx+1, question.Question, question.Type))
		answer, ok := answered[idx]
		if !ok {
			w.text("Skipped")
			continue
		}
		w.text("Answer: " + answer.Answer)
		w.text(fmt.Sprintf("Score: %.1f. %s", answer.Score, answer.Feedback))
		if answer.AudioFeatures != nil {
			f := answer.AudioFeatures
			w.text(fmt.Sprintf("Delivery: fillers %d, silence %.0f%%, tempo %.0f BPM, pitch %.0f Hz, confidence %.2f",
				f.FillerCount, f.SilenceRatio*100, f.Tempo, f.AvgPitch, f.ConfidenceScore))
		}
	}

	if w.pdf.Error() != nil {
		return nil, w.pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = w.pdf.Output(buf)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования pdf")
	}
	return buf.Bytes(), nil
}

func newReportWriter(fontDir string) *reportWriter {
	pdf := fpdf.New("P", "mm", "A4", fontDir)
	w := &reportWriter{pdf: pdf}
	if fontExists(fontDir, utf8FontFile) {
		pdf.AddUTF8Font(utf8FontName, "", utf8FontFile)
		boldFile := utf8FontFile
		if fontExists(fontDir, utf8BoldFile) {
			boldFile = utf8BoldFile
		}
		pdf.AddUTF8Font(utf8FontName, "B", boldFile)
		w.font = utf8FontName
		w.translate = func(s string) string { return s }
		return w
	}
	w.font = coreFontName
	w.translate = pdf.UnicodeTranslatorFromDescriptor("")
	return w
}

func fontExists(fontDir, fileName string) bool {
	if fontDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(fontDir, fileName))
	return err == nil
}

func (w *reportWriter) title(text string) {
	w.pdf.SetFont(w.font, "B", 16)
	w.pdf.CellFormat(0, 10, w.translate(text), "", 1, "C", false, 0, "")
	w.pdf.Ln(4)
}

func (w *reportWriter) section(text string) {
	w.pdf.Ln(4)
	w.pdf.SetFont(w.font, "B", 13)
	w.pdf.CellFormat(0, 8, w.translate(text), "B", 1, "L", false, 0, "")
	w.pdf.Ln(2)
}

func (w *reportWriter) field(name, value string) {
	if value == "" {
		return
	}
	w.pdf.SetFont(w.font, "B", 11)
	w.pdf.CellFormat(45, 6, w.translate(name+":"), "", 0, "L", false, 0, "")
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.MultiCell(0, 6, w.translate(value), "", "L", false)
}

func (w *reportWriter) bold(text string) {
	w.pdf.SetFont(w.font, "B", 11)
	w.pdf.MultiCell(0, 6, w.translate(text), "", "L", false)
}

func (w *reportWriter) text(text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.MultiCell(0, 6, w.translate(text), "", "L", false)
}
