package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder_backend/internal/adapters/storage"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/listings/repository"
	"stayfinder_backend/internal/listings/transport"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
)

type memRepo struct {
	items  map[uuid.UUID]model.Listing
	list   repository.ListParams
	coords int
}

func newMemRepo(seed ...model.Listing) *memRepo {
	r := &memRepo{items: map[uuid.UUID]model.Listing{}}
	for _, l := range seed {
		r.items[l.ID] = l
	}
	return r
}

func (r *memRepo) Create(_ context.Context, l model.Listing) (model.Listing, error) {
	r.items[l.ID] = l
	return l, nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (model.Listing, error) {
	l, ok := r.items[id]
	if !ok {
		return model.Listing{}, apperr.NotFound(repository.MsgListingNotFound)
	}
	return l, nil
}

func (r *memRepo) List(_ context.Context, p repository.ListParams) ([]model.Listing, error) {
	r.list = p
	return []model.Listing{}, nil
}

func (r *memRepo) ListByOwner(context.Context, uuid.UUID) ([]model.Listing, error) {
	return []model.Listing{}, nil
}

func (r *memRepo) Update(_ context.Context, p repository.UpdateParams) (model.Listing, error) {
	l, ok := r.items[p.ID]
	if !ok {
		return model.Listing{}, apperr.NotFound(repository.MsgListingNotFound)
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.ContactPhone != nil {
		l.ContactPhone = *p.ContactPhone
	}
	r.items[p.ID] = l
	return l, nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memRepo) SetCoordinatesIfMissing(_ context.Context, id uuid.UUID, lat, lon float64) (bool, error) {
	l := r.items[id]
	if l.HasCoordinates() {
		return false, nil
	}
	l.Latitude, l.Longitude = &lat, &lon
	r.items[id] = l
	r.coords++
	return true, nil
}

func (r *memRepo) AppendPhoto(_ context.Context, id uuid.UUID, url string) (model.Listing, error) {
	l := r.items[id]
	l.Photos = append(l.Photos, url)
	if l.Image == "" {
		l.Image = url
	}
	r.items[id] = l
	return l, nil
}

type memStorage struct {
	uploaded map[string][]byte
}

func (m *memStorage) GenerateUploadURL(_ context.Context, bucket, folder, fileName, _ string, _ int64) (*storage.PresignedURL, error) {
	key := folder + "/" + fileName
	return &storage.PresignedURL{URL: "https://minio.test/upload/" + key, FileKey: key, PublicURL: m.ObjectURL(bucket, key)}, nil
}

func (m *memStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := folder + "/" + fileName
	m.uploaded[key] = data
	return key, nil
}

func (m *memStorage) DeleteObject(context.Context, string, string) error { return nil }
func (m *memStorage) ObjectURL(bucket, key string) string {
	return "https://minio.test/" + bucket + "/" + key
}
func (m *memStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (m *memStorage) ValidateContentType(ct string) error {
	if !storage.AllowedContentTypes[storage.NormalizeContentType(ct)] {
		return errors.New("content type not allowed")
	}
	return nil
}
func (m *memStorage) ValidateFileSize(n int64) error {
	if n <= 0 {
		return errors.New("empty file")
	}
	return nil
}

type stubGeocoder struct {
	lat, lon float64
	err      error
	queries  []string
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (float64, float64, error) {
	g.queries = append(g.queries, address)
	return g.lat, g.lon, g.err
}

type collectBus struct{ names []string }

func (b *collectBus) Publish(_ context.Context, e events.Event) {
	b.names = append(b.names, e.EventName())
}
func (b *collectBus) PublishSync(_ context.Context, e events.Event) error {
	b.names = append(b.names, e.EventName())
	return nil
}
func (b *collectBus) Subscribe(string, events.Handler) {}

type testConfig struct{}

func (testConfig) GetAppBaseURL() string                  { return "https://stayfinder.test" }
func (testConfig) GetSearchDefaultMaxDistanceKm() float64 { return 5 }
func (testConfig) GetSearchMaxDistanceLimitKm() float64   { return 100 }
func (testConfig) GetSearchDefaultMinPrice() int          { return 0 }
func (testConfig) GetSearchDefaultMaxPrice() int          { return 10000 }
func (testConfig) GetMinioBucketListingPhotos() string    { return "stayfinder-hostels" }

func intPtr(v int) *int { return &v }

func validCreate() transport.CreateListingRequest {
	return transport.CreateListingRequest{
		Name:         "  <b>Green Leaf</b> Hostel ",
		City:         "Pune",
		Location:     "Kothrud",
		Description:  "Quiet rooms near campus<script>alert(1)</script>",
		Address:      "12 Karve Road",
		PropertyType: "hostel",
		Price:        intPtr(6500),
		Amenities:    []string{"WiFi", " ", "AC"},
		ContactPhone: "098765 43210",
	}
}

func TestCreateSanitizesAndGeocodes(t *testing.T) {
	repo := newMemRepo()
	geo := &stubGeocoder{lat: 18.5074, lon: 73.8077}
	bus := &collectBus{}
	svc := New(repo, nil, geo, phone.NewNormalizer("IN"), bus, testConfig{}, logger.Discard())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, validCreate())
	require.NoError(t, err)

	assert.Equal(t, "Green Leaf Hostel", created.Name)
	assert.NotContains(t, created.Description, "script")
	assert.Equal(t, "Hostel", created.PropertyType)
	assert.Equal(t, []string{"WiFi", "AC"}, created.Amenities)
	assert.Equal(t, "+919876543210", created.ContactPhone)
	assert.True(t, created.OwnedBy(owner))
	require.True(t, created.HasCoordinates())
	assert.InDelta(t, 18.5074, *created.Latitude, 1e-9)
	assert.Equal(t, []string{"12 Karve Road, Pune"}, geo.queries)
	assert.Equal(t, []string{"listing.created"}, bus.names)
}

func TestCreateKeepsGoingWhenGeocoderFails(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil, &stubGeocoder{err: errors.New("circuit open")}, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	created, err := svc.Create(context.Background(), uuid.New(), validCreate())
	require.NoError(t, err)
	assert.False(t, created.HasCoordinates())
}

func TestUpdateRequiresOwner(t *testing.T) {
	owner := uuid.New()
	listing := model.Listing{ID: uuid.New(), CreatedBy: &owner, Name: "Old"}
	svc := New(newMemRepo(listing), nil, nil, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	name := "New"
	_, err := svc.Update(context.Background(), uuid.New(), listing.ID, transport.UpdateListingRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "Permission denied", apperr.PublicMessage(err, ""))

	updated, err := svc.Update(context.Background(), owner, listing.ID, transport.UpdateListingRequest{Name: &name, Price: intPtr(7000)})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, 7000, updated.Price)
}

func TestUpdateRejectsHalfCoordinates(t *testing.T) {
	owner := uuid.New()
	listing := model.Listing{ID: uuid.New(), CreatedBy: &owner}
	svc := New(newMemRepo(listing), nil, nil, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	lat := 12.9
	_, err := svc.Update(context.Background(), owner, listing.ID, transport.UpdateListingRequest{Latitude: &lat})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	svc := New(newMemRepo(), nil, nil, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Hostel not found", apperr.PublicMessage(err, ""))
}

func TestListAppliesDefaultPriceRange(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil, nil, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	_, err := svc.List(context.Background(), transport.ListRequest{City: "Pune", Amenities: "WiFi, AC,"})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.list.MinPrice)
	assert.Equal(t, 10000, repo.list.MaxPrice)
	assert.Equal(t, []string{"WiFi", "AC"}, repo.list.Amenities)

	_, err = svc.List(context.Background(), transport.ListRequest{MinPrice: intPtr(900), MaxPrice: intPtr(100)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUploadPhotoWithoutStorageIsUnavailable(t *testing.T) {
	owner := uuid.New()
	listing := model.Listing{ID: uuid.New(), CreatedBy: &owner}
	svc := New(newMemRepo(listing), nil, nil, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	_, err := svc.UploadPhoto(context.Background(), owner, listing.ID, "room.png", "image/png", []byte{1})
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestUploadPhotoStoresUnderListingFolder(t *testing.T) {
	owner := uuid.New()
	listing := model.Listing{ID: uuid.New(), CreatedBy: &owner}
	store := &memStorage{uploaded: map[string][]byte{}}
	bus := &collectBus{}
	repo := newMemRepo(listing)
	svc := New(repo, store, nil, phone.NewNormalizer("IN"), bus, testConfig{}, logger.Discard())

	updated, err := svc.UploadPhoto(context.Background(), owner, listing.ID, "room.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	key := "hostels/" + listing.ID.String() + "/room.png"
	assert.Contains(t, store.uploaded, key)
	assert.Equal(t, []string{"https://minio.test/stayfinder-hostels/" + key}, updated.Photos)
	assert.Equal(t, updated.Photos[0], updated.Image)
	assert.Equal(t, 0, repo.coords, "png files carry no exif position")
	assert.Equal(t, []string{"listing.updated"}, bus.names)

	_, err = svc.UploadPhoto(context.Background(), owner, listing.ID, "notes.pdf", "application/pdf", []byte("pdf"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPhotoLocationIgnoresNonExifData(t *testing.T) {
	_, _, ok := PhotoLocation([]byte("not a jpeg"))
	assert.False(t, ok)
}

func TestQRCodeIsPNG(t *testing.T) {
	listing := model.Listing{ID: uuid.New()}
	svc := New(newMemRepo(listing), nil, nil, phone.NewNormalizer("IN"), nil, testConfig{}, logger.Discard())

	png, err := svc.QRCode(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Equal(t, "https://stayfinder.test/hostel/"+listing.ID.String(), svc.ShareURL(listing.ID))

	_, err = svc.QRCode(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
