package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// ReceiptService renders a booking receipt as a PDF: the booking header,
// its item lines and the billing ledger. Ownership is enforced by the
// repository lookup, so a user can only render their own bookings.
type ReceiptService struct {
	bookings *repository.BookingRepo
	billing  *repository.BillingRepo
}

// NewReceiptService wires the repositories the receipt needs.
func NewReceiptService(bookings *repository.BookingRepo, billing *repository.BillingRepo) *ReceiptService {
	return &ReceiptService{bookings: bookings, billing: billing}
}

// Render produces the PDF bytes and a download filename for one booking.
// Returns repository.ErrBookingNotFound when the booking does not exist or
// belongs to another user.
func (s *ReceiptService) Render(ctx context.Context, bookingID, userID uint64) ([]byte, string, error) {
	det, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, "", err
	}
	charges, err := s.billing.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	return buildReceiptPDF(det, charges)
}

func buildReceiptPDF(det *repository.BookingDetail, charges []model.BillingTransaction) ([]byte, string, error) {
	b := det.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Reference : %s", b.Reference),
		fmt.Sprintf("Status    : %s", b.Status),
		fmt.Sprintf("Booked at : %s", b.CreatedAt.UTC().Format("2006-01-02 15:04")),
		fmt.Sprintf("Coverage  : %s to %s",
			b.StartsAt.UTC().Format("2006-01-02"), b.EndsAt.UTC().Format("2006-01-02")),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Items:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, it := range det.Items {
		desc := fmt.Sprintf("%d) %s x%d @ %.2f %s = %.2f %s",
			i+1, itemLabel(it), it.Quantity, it.UnitPrice, it.Currency, it.TotalPrice, it.Currency)
		pdf.MultiCell(0, 6, desc, "", "", false)
		pdf.Ln(1)
	}
	pdf.Ln(4)

	if len(charges) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Payments:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, c := range charges {
			line := fmt.Sprintf("%s  %s  %.2f %s  ref %s",
				c.CreatedAt.UTC().Format("2006-01-02 15:04"), c.Status, c.Amount, c.Currency, c.ProviderRef)
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f %s", b.TotalAmount, b.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Generated %s. Keep the reference at hand when contacting support.",
		time.Now().UTC().Format("2006-01-02 15:04")), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", b.Reference), nil
}

// itemLabel flattens an item into a short human description using the kind
// and a few well-known metadata keys.
func itemLabel(it model.BookingItem) string {
	label := string(it.Kind)
	switch it.Kind {
	case model.ItemKindFlight:
		label = "Flight"
	case model.ItemKindHotel:
		label = "Hotel stay"
	case model.ItemKindCar:
		label = "Car rental"
	}
	window := fmt.Sprintf("%s to %s",
		it.StartDate.UTC().Format("2006-01-02"), it.EndDate.UTC().Format("2006-01-02"))
	return strings.TrimSpace(label + " " + window)
}
