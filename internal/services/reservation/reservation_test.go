package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/unireserva/unireserva-backend/internal/lib/apperr"
	"github.com/unireserva/unireserva-backend/internal/lib/rabbitmq"
	"github.com/unireserva/unireserva-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateReservation(ctx context.Context, r models.Reservation) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *RepoMock) FindReservationsByLab(ctx context.Context, labID string) ([]*models.Reservation, error) {
	args := m.Called(ctx, labID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) FindReservationsByUser(ctx context.Context, userID string) ([]*models.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ExistsLab(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) ExistsUser(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) ListLabs(ctx context.Context) ([]*models.Lab, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lab), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *RepoMock, cache *CacheMock, pub *PublisherMock) *ReservationService {
	return NewReservationService(repo, cache, pub, newNoopLogger())
}

// tomorrow даёт дату в будущем, чтобы проверки даты и времени проходили.
func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
}

func TestCreateReservation_Success(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)
	svc := newService(repo, cache, pub)

	req := models.DummyReservation{
		UserID:      "user123",
		LabID:       "lab01",
		Date:        tomorrow(),
		StartTime:   "10:00",
		EndTime:     "12:00",
		Description: "circuits practice",
	}

	repo.On("ExistsLab", mock.Anything, "lab01").Return(true, nil).Once()
	repo.On("ExistsUser", mock.Anything, "user123").Return(true, nil).Once()
	repo.On("FindReservationsByLab", mock.Anything, "lab01").Return([]*models.Reservation{}, nil).Once()
	repo.On("CreateReservation", mock.Anything, mock.MatchedBy(func(r models.Reservation) bool {
		return r.Status == models.StatusConfirmed && r.LabID == "lab01" && r.UserID == "user123"
	})).Return("res-1", nil).Once()
	cache.On("Invalidate", "reservations:user:user123").Return(nil).Once()
	pub.On("Publish", rabbitmq.RoutingKeyConfirmed, mock.Anything).Return(nil).Once()

	got, err := svc.CreateReservation(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "res-1", got.ID)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateReservation_Validation(t *testing.T) {
	date := tomorrow()

	tests := []struct {
		name       string
		req        models.DummyReservation
		setupMocks func(r *RepoMock)
		wantMsg    string
	}{
		{
			name: "lab does not exist",
			req: models.DummyReservation{
				UserID: "user123", LabID: "lab99",
				Date: date, StartTime: "10:00", EndTime: "12:00",
			},
			setupMocks: func(r *RepoMock) {
				r.On("ExistsLab", mock.Anything, "lab99").Return(false, nil).Once()
			},
			wantMsg: "The lab does not exist",
		},
		{
			name: "user does not exist",
			req: models.DummyReservation{
				UserID: "ghost", LabID: "lab01",
				Date: date, StartTime: "10:00", EndTime: "12:00",
			},
			setupMocks: func(r *RepoMock) {
				r.On("ExistsLab", mock.Anything, "lab01").Return(true, nil).Once()
				r.On("ExistsUser", mock.Anything, "ghost").Return(false, nil).Once()
			},
			wantMsg: "The user does not exist",
		},
		{
			name: "past date",
			req: models.DummyReservation{
				UserID: "user123", LabID: "lab01",
				Date: "2025-05-01", StartTime: "10:00", EndTime: "12:00",
			},
			setupMocks: func(r *RepoMock) {
				r.On("ExistsLab", mock.Anything, "lab01").Return(true, nil).Once()
				r.On("ExistsUser", mock.Anything, "user123").Return(true, nil).Once()
			},
			wantMsg: "You cannot select a past date for your reservation",
		},
		{
			name: "today with past start time",
			req: models.DummyReservation{
				UserID: "user123", LabID: "lab01",
				Date: time.Now().Format(models.DateLayout), StartTime: "00:00", EndTime: "00:30",
			},
			setupMocks: func(r *RepoMock) {
				r.On("ExistsLab", mock.Anything, "lab01").Return(true, nil).Once()
				r.On("ExistsUser", mock.Anything, "user123").Return(true, nil).Once()
			},
			wantMsg: "The start time must be in the future. You cannot create a reservation with a past time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newService(repo, new(CacheMock), new(PublisherMock))

			tt.setupMocks(repo)

			got, err := svc.CreateReservation(context.Background(), tt.req)
			assert.Nil(t, got)
			assert.True(t, apperr.IsInvalidArgument(err))
			assert.Equal(t, tt.wantMsg, err.Error())

			repo.AssertExpectations(t)
		})
	}
}

func TestCreateReservation_Overlap(t *testing.T) {
	date := tomorrow()
	confirmed := func(start, end string) *models.Reservation {
		return &models.Reservation{
			ID: "existing", UserID: "other", LabID: "lab01",
			Date: date, StartTime: start, EndTime: end,
			Status: models.StatusConfirmed,
		}
	}

	tests := []struct {
		name     string
		existing []*models.Reservation
		start    string
		end      string
		wantErr  bool
	}{
		{
			name:     "exact same slot rejected",
			existing: []*models.Reservation{confirmed("10:00", "12:00")},
			start:    "10:00", end: "12:00",
			wantErr: true,
		},
		{
			name:     "partial overlap rejected",
			existing: []*models.Reservation{confirmed("10:00", "12:00")},
			start:    "11:00", end: "13:00",
			wantErr: true,
		},
		{
			name:     "touching endpoints allowed",
			existing: []*models.Reservation{confirmed("10:00", "12:00")},
			start:    "12:00", end: "14:00",
			wantErr: false,
		},
		{
			name: "cancelled reservation does not block the slot",
			existing: []*models.Reservation{{
				ID: "existing", UserID: "other", LabID: "lab01",
				Date: date, StartTime: "10:00", EndTime: "12:00",
				Status: models.StatusCanceled,
			}},
			start: "10:00", end: "12:00",
			wantErr: false,
		},
		{
			name: "other date does not block the slot",
			existing: []*models.Reservation{{
				ID: "existing", UserID: "other", LabID: "lab01",
				Date:      time.Now().AddDate(0, 0, 2).Format(models.DateLayout),
				StartTime: "10:00", EndTime: "12:00",
				Status: models.StatusConfirmed,
			}},
			start: "10:00", end: "12:00",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			pub := new(PublisherMock)
			svc := newService(repo, cache, pub)

			repo.On("ExistsLab", mock.Anything, "lab01").Return(true, nil).Once()
			repo.On("ExistsUser", mock.Anything, "user123").Return(true, nil).Once()
			repo.On("FindReservationsByLab", mock.Anything, "lab01").Return(tt.existing, nil).Once()
			if !tt.wantErr {
				repo.On("CreateReservation", mock.Anything, mock.Anything).Return("res-new", nil).Once()
				cache.On("Invalidate", "reservations:user:user123").Return(nil).Once()
				pub.On("Publish", rabbitmq.RoutingKeyConfirmed, mock.Anything).Return(nil).Once()
			}

			got, err := svc.CreateReservation(context.Background(), models.DummyReservation{
				UserID: "user123", LabID: "lab01",
				Date: date, StartTime: tt.start, EndTime: tt.end,
			})
			if tt.wantErr {
				assert.Nil(t, got)
				assert.True(t, apperr.IsInvalidArgument(err))
				assert.Equal(t, "There is already a reservation in the lab selected in the time selected", err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "res-new", got.ID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestCreateReservation_SameSlotDifferentLab(t *testing.T) {
	date := tomorrow()

	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)
	svc := newService(repo, cache, pub)

	// lab01 занята на этот слот другим пользователем.
	repo.On("ExistsLab", mock.Anything, "lab02").Return(true, nil).Once()
	repo.On("ExistsUser", mock.Anything, "user123").Return(true, nil).Once()
	repo.On("FindReservationsByLab", mock.Anything, "lab02").Return([]*models.Reservation{}, nil).Once()
	repo.On("CreateReservation", mock.Anything, mock.MatchedBy(func(r models.Reservation) bool {
		return r.LabID == "lab02" && r.Status == models.StatusConfirmed
	})).Return("res-lab02", nil).Once()
	cache.On("Invalidate", "reservations:user:user123").Return(nil).Once()
	pub.On("Publish", rabbitmq.RoutingKeyConfirmed, mock.Anything).Return(nil).Once()

	got, err := svc.CreateReservation(context.Background(), models.DummyReservation{
		UserID: "user123", LabID: "lab02",
		Date: date, StartTime: "10:00", EndTime: "12:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, "res-lab02", got.ID)

	// Проверяются только брони выбранной лаборатории.
	repo.AssertNotCalled(t, "FindReservationsByLab", mock.Anything, "lab01")
	repo.AssertExpectations(t)
}

func TestCreateReservation_BrokerDownDoesNotFail(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)
	svc := newService(repo, cache, pub)

	repo.On("ExistsLab", mock.Anything, "lab01").Return(true, nil).Once()
	repo.On("ExistsUser", mock.Anything, "user123").Return(true, nil).Once()
	repo.On("FindReservationsByLab", mock.Anything, "lab01").Return([]*models.Reservation{}, nil).Once()
	repo.On("CreateReservation", mock.Anything, mock.Anything).Return("res-1", nil).Once()
	cache.On("Invalidate", "reservations:user:user123").Return(nil).Once()
	pub.On("Publish", rabbitmq.RoutingKeyConfirmed, mock.Anything).Return(assert.AnError).Once()

	got, err := svc.CreateReservation(context.Background(), models.DummyReservation{
		UserID: "user123", LabID: "lab01",
		Date: tomorrow(), StartTime: "10:00", EndTime: "12:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, "res-1", got.ID)
}

func TestListByUser(t *testing.T) {
	stored := []*models.Reservation{
		{ID: "res-1", UserID: "user123", LabID: "lab01", Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00", Status: models.StatusConfirmed},
		{ID: "res-2", UserID: "user123", LabID: "lab02", Date: "2026-09-02", StartTime: "14:00", EndTime: "16:00", Status: models.StatusCanceled},
	}

	t.Run("cache miss then repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(PublisherMock))

		cache.On("Get", "reservations:user:user123", mock.Anything).Return(false, nil).Once()
		repo.On("FindReservationsByUser", mock.Anything, "user123").Return(stored, nil).Once()
		cache.On("Set", "reservations:user:user123", stored, time.Hour).Return(nil).Once()

		got, err := svc.ListByUser(context.Background(), "user123")
		assert.NoError(t, err)
		assert.Len(t, got, 2)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(PublisherMock))

		cache.On("Get", "reservations:user:user123", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
			ptr := args.Get(1).(*[]*models.Reservation)
			*ptr = stored
		}).Once()

		got, err := svc.ListByUser(context.Background(), "user123")
		assert.NoError(t, err)
		assert.Equal(t, stored, got)

		repo.AssertExpectations(t)
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(PublisherMock))

		cache.On("Get", "reservations:user:nobody", mock.Anything).Return(false, nil).Once()
		repo.On("FindReservationsByUser", mock.Anything, "nobody").Return([]*models.Reservation{}, nil).Once()
		cache.On("Set", "reservations:user:nobody", mock.Anything, time.Hour).Return(nil).Once()

		got, err := svc.ListByUser(context.Background(), "nobody")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("blank user id", func(t *testing.T) {
		svc := newService(new(RepoMock), new(CacheMock), new(PublisherMock))

		got, err := svc.ListByUser(context.Background(), " ")
		assert.Nil(t, got)
		assert.True(t, apperr.IsInvalidArgument(err))
	})
}

func TestListLabs(t *testing.T) {
	stored := []*models.Lab{
		{ID: "lab01", Name: "Electronics Lab"},
		{ID: "lab02", Name: "Chemistry Lab"},
	}

	t.Run("cache miss then repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(PublisherMock))

		cache.On("Get", "labs", mock.Anything).Return(false, nil).Once()
		repo.On("ListLabs", mock.Anything).Return(stored, nil).Once()
		cache.On("Set", "labs", stored, time.Hour).Return(nil).Once()

		got, err := svc.ListLabs(context.Background())
		assert.NoError(t, err)
		assert.Len(t, got, 2)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(PublisherMock))

		cache.On("Get", "labs", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
			ptr := args.Get(1).(*[]*models.Lab)
			*ptr = stored
		}).Once()

		got, err := svc.ListLabs(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, stored, got)

		repo.AssertExpectations(t)
	})
}

func TestCancelReservation(t *testing.T) {
	confirmed := func() *models.Reservation {
		return &models.Reservation{
			ID: "res-1", UserID: "user123", LabID: "lab01",
			Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00",
			Status: models.StatusConfirmed,
		}
	}

	t.Run("success cancel", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		pub := new(PublisherMock)
		svc := newService(repo, cache, pub)

		repo.On("GetReservationByID", mock.Anything, "res-1").Return(confirmed(), nil).Once()
		repo.On("UpdateReservationStatus", mock.Anything, "res-1", models.StatusCanceled).Return(1, nil).Once()
		cache.On("Invalidate", "reservations:user:user123").Return(nil).Once()
		pub.On("Publish", rabbitmq.RoutingKeyCanceled, mock.Anything).Return(nil).Once()

		got, err := svc.CancelReservation(context.Background(), "res-1")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, got.Status)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(PublisherMock))

		repo.On("GetReservationByID", mock.Anything, "missing-id").Return(nil, nil).Once()

		got, err := svc.CancelReservation(context.Background(), "missing-id")
		assert.Nil(t, got)
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, "Reservation with id missing-id not found.", err.Error())
	})

	t.Run("reservation vanished between read and update", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(PublisherMock))

		repo.On("GetReservationByID", mock.Anything, "res-1").Return(confirmed(), nil).Once()
		repo.On("UpdateReservationStatus", mock.Anything, "res-1", models.StatusCanceled).Return(0, nil).Once()

		got, err := svc.CancelReservation(context.Background(), "res-1")
		assert.Nil(t, got)
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, "Reservation with id res-1 not found.", err.Error())

		repo.AssertExpectations(t)
	})

	t.Run("already cancelled", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(PublisherMock))

		r := confirmed()
		r.Status = models.StatusCanceled
		repo.On("GetReservationByID", mock.Anything, "res-1").Return(r, nil).Once()

		got, err := svc.CancelReservation(context.Background(), "res-1")
		assert.Nil(t, got)
		assert.True(t, apperr.IsInvalidArgument(err))
		assert.Equal(t, "This reservation is already cancelled", err.Error())
	})

	t.Run("blank id", func(t *testing.T) {
		svc := newService(new(RepoMock), new(CacheMock), new(PublisherMock))

		got, err := svc.CancelReservation(context.Background(), "")
		assert.Nil(t, got)
		assert.True(t, apperr.IsInvalidArgument(err))
	})
}
