package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// ShareURL is the public page of a listing.
func (s *Service) ShareURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/hostel/%s", s.cfg.GetAppBaseURL(), id)
}

// QRCode renders a PNG QR code pointing at the listing's public page.
func (s *Service) QRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(s.ShareURL(id), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode listing qr code: %w", err)
	}
	return png, nil
}
