package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/brightpath/institute-api/internal/model"
)

// Sentinel errors for hall tickets.
var (
	ErrPaymentNotCompleted    = errors.New("payment not completed")
	ErrHallTicketNotAvailable = errors.New("hall ticket not yet available")
)

// HallTicketExam is the exam summary printed on a ticket.
type HallTicketExam struct {
	Title     string    `json:"title"`
	ExamDate  time.Time `json:"examDate"`
	ExamFee   float64   `json:"examFee"`
	Centers   []string  `json:"centers"`
	Languages []string  `json:"languages"`
}

// HallTicket is the registration merged with its exam and a QR code.
type HallTicket struct {
	model.ExamRegistration
	Exam   HallTicketExam `json:"exam"`
	QRCode string         `json:"qrCode"`

	qrPNG []byte
}

// HallTicketService issues admission tickets for paid registrations.
type HallTicketService struct {
	regs   RegistrationStore
	exams  ExamGetter
	window time.Duration
	now    func() time.Time
}

// NewHallTicketService creates a new HallTicketService. Tickets become
// available once the exam is at most window away.
func NewHallTicketService(regs RegistrationStore, exams ExamGetter, window time.Duration) *HallTicketService {
	return &HallTicketService{regs: regs, exams: exams, window: window, now: time.Now}
}

// Issue builds the hall ticket for a registration number. Past exam dates are
// still issued.
func (s *HallTicketService) Issue(ctx context.Context, registrationNumber string) (*HallTicket, error) {
	reg, err := s.regs.FindByNumber(ctx, registrationNumber)
	if err != nil {
		return nil, errRegistrationLookup(err)
	}
	if reg.PaymentStatus != model.PaymentCompleted {
		return nil, ErrPaymentNotCompleted
	}

	exam, err := s.exams.Get(ctx, reg.ExamID.Hex())
	if err != nil {
		if isMissing(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}
	if exam.ExamDate.Sub(s.now()) > s.window {
		return nil, ErrHallTicketNotAvailable
	}

	png, err := qrcode.Encode(reg.RegistrationNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return &HallTicket{
		ExamRegistration: *reg,
		Exam: HallTicketExam{
			Title:     exam.Title,
			ExamDate:  exam.ExamDate,
			ExamFee:   exam.ExamFee,
			Centers:   exam.Centers,
			Languages: exam.Languages,
		},
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		qrPNG:  png,
	}, nil
}

// RenderPDF lays the ticket out on one A4 page. Nothing is stored.
func (s *HallTicketService) RenderPDF(t *HallTicket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Hall Ticket "+t.RegistrationNumber, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "HALL TICKET", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, t.Exam.Title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(t.qrPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(t.qrPNG))
		pdf.ImageOptions("qr", 150, 35, 40, 40, false, opts, 0, "")
	}

	rows := [][2]string{
		{"Registration No.", t.RegistrationNumber},
		{"Name", t.Name},
		{"Father's Name", t.FatherName},
		{"Date of Birth", t.DateOfBirth},
		{"Gender", t.Gender},
		{"Exam Date", t.Exam.ExamDate.Format("02 Jan 2006, 15:04")},
		{"Center", t.Center},
		{"Language", t.Language},
		{"Mobile", t.Mobile},
		{"Email", t.Email},
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(90, 8, r[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, strings.Join([]string{
		"Bring this hall ticket and a valid photo ID to the exam center.",
		"Report at least 30 minutes before the exam starts.",
	}, "\n"), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
