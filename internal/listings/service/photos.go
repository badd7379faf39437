package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"

	"stayfinder_backend/internal/adapters/storage"
	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/listings/transport"
	"stayfinder_backend/platform/apperr"
)

const msgStorageDisabled = "photo storage is not configured"

// PhotoFolder is the object prefix for a listing's photos.
func PhotoFolder(id uuid.UUID) string {
	return fmt.Sprintf("hostels/%s", id)
}

// PresignPhoto returns a direct-upload URL for a listing photo. The client
// reports the resulting public URL back through Update.
func (s *Service) PresignPhoto(ctx context.Context, userID, id uuid.UUID, req transport.PresignPhotoRequest) (*storage.PresignedURL, error) {
	if s.storage == nil {
		return nil, apperr.Unavailable(msgStorageDisabled, nil)
	}
	if _, err := s.ownedListing(ctx, userID, id); err != nil {
		return nil, err
	}

	if err := s.storage.ValidateContentType(req.ContentType); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(req.SizeBytes); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, s.cfg.GetMinioBucketListingPhotos(), PhotoFolder(id), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return nil, apperr.Unavailable("could not prepare upload", err)
	}
	return presigned, nil
}

// UploadPhoto stores a photo and appends it to the listing. A JPEG with GPS
// tags fills the listing's coordinates when it has none.
func (s *Service) UploadPhoto(ctx context.Context, userID, id uuid.UUID, fileName, contentType string, data []byte) (model.Listing, error) {
	if s.storage == nil {
		return model.Listing{}, apperr.Unavailable(msgStorageDisabled, nil)
	}
	listing, err := s.ownedListing(ctx, userID, id)
	if err != nil {
		return model.Listing{}, err
	}

	if err := s.storage.ValidateContentType(contentType); err != nil {
		return model.Listing{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(int64(len(data))); err != nil {
		return model.Listing{}, apperr.Validation(err.Error())
	}

	bucket := s.cfg.GetMinioBucketListingPhotos()
	key, err := s.storage.UploadFile(ctx, bucket, PhotoFolder(id), fileName, storage.NormalizeContentType(contentType), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.Listing{}, apperr.Unavailable("could not store photo", err)
	}

	if !listing.HasCoordinates() && storage.IsJPEG(contentType) {
		if lat, lon, ok := PhotoLocation(data); ok {
			if _, err := s.repo.SetCoordinatesIfMissing(ctx, id, lat, lon); err != nil {
				s.log.Warn("failed to apply photo coordinates", "listing", id, "error", err)
			} else {
				s.log.Info("listing coordinates filled from photo", "listing", id)
			}
		}
	}

	updated, err := s.repo.AppendPhoto(ctx, id, s.storage.ObjectURL(bucket, key))
	if err != nil {
		return model.Listing{}, err
	}

	s.log.Info("listing photo uploaded", "listing", id, "key", key)
	s.publish(ctx, listingUpdated(updated, userID, "photos"))
	return updated, nil
}

// PhotoLocation reads GPS coordinates from EXIF data. Photos without a
// readable, in-range position report false.
func PhotoLocation(data []byte) (float64, float64, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	lat, lon, err := x.LatLong()
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || (lat == 0 && lon == 0) {
		return 0, 0, false
	}
	return lat, lon, true
}
