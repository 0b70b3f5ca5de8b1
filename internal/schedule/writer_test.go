package schedule

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSetSlotCapacityOverride_CreatesWhenMissing(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)
	mockRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(nil, nil)
	mockRepo.On("CreateException", mock.Anything, mock.MatchedBy(func(e *Exception) bool {
		return e.ServiceID == 1 &&
			e.Date == testDate &&
			e.DefaultSlotID != nil && *e.DefaultSlotID == 10 &&
			e.StartTime != nil && *e.StartTime == "09:00" &&
			e.Capacity != nil && *e.Capacity == 8 &&
			!e.IsBlocked
	})).Return(&Exception{ID: 20, ServiceID: 1, Date: testDate, DefaultSlotID: num(10), Capacity: num(8)}, nil)

	service := NewService(mockRepo)
	ex, err := service.SetSlotCapacityOverride(context.Background(), 1, testDate, 10, 8)

	assert.NoError(t, err)
	assert.Equal(t, 20, ex.ID)
	mockRepo.AssertExpectations(t)
}

func TestSetSlotCapacityOverride_UpdatesExisting(t *testing.T) {
	// Second call with the same capacity updates the existing row instead of
	// inserting a duplicate.
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)
	mockRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(&Exception{
		ID: 20, ServiceID: 1, Date: testDate, DefaultSlotID: num(10), Capacity: num(8),
	}, nil)
	mockRepo.On("UpdateException", mock.Anything, mock.MatchedBy(func(e *Exception) bool {
		return e.ID == 20 && e.Capacity != nil && *e.Capacity == 8
	})).Return(nil)

	service := NewService(mockRepo)
	ex, err := service.SetSlotCapacityOverride(context.Background(), 1, testDate, 10, 8)

	assert.NoError(t, err)
	assert.Equal(t, 20, ex.ID)
	mockRepo.AssertNotCalled(t, "CreateException", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestSetSlotCapacityOverride_SlotFromOtherService(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 2, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)

	service := NewService(mockRepo)
	_, err := service.SetSlotCapacityOverride(context.Background(), 1, testDate, 10, 8)

	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSetSlotCapacityOverride_NegativeCapacity(t *testing.T) {
	service := NewService(new(MockRepository))

	_, err := service.SetSlotCapacityOverride(context.Background(), 1, testDate, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestBlockSlotForDate_CreatesBlockingException(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)
	mockRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(nil, nil)
	mockRepo.On("CreateException", mock.Anything, mock.MatchedBy(func(e *Exception) bool {
		return e.IsBlocked && e.DefaultSlotID != nil && *e.DefaultSlotID == 10
	})).Return(&Exception{ID: 21, ServiceID: 1, Date: testDate, DefaultSlotID: num(10), IsBlocked: true}, nil)

	service := NewService(mockRepo)
	ex, err := service.BlockSlotForDate(context.Background(), 1, testDate, 10)

	assert.NoError(t, err)
	assert.True(t, ex.IsBlocked)
	mockRepo.AssertExpectations(t)
}

func TestBlockSlotForDate_FlipsExistingOverride(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)
	mockRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(&Exception{
		ID: 20, ServiceID: 1, Date: testDate, DefaultSlotID: num(10), Capacity: num(8),
	}, nil)
	mockRepo.On("UpdateException", mock.Anything, mock.MatchedBy(func(e *Exception) bool {
		return e.ID == 20 && e.IsBlocked
	})).Return(nil)

	service := NewService(mockRepo)
	ex, err := service.BlockSlotForDate(context.Background(), 1, testDate, 10)

	assert.NoError(t, err)
	assert.True(t, ex.IsBlocked)
	mockRepo.AssertNotCalled(t, "CreateException", mock.Anything, mock.Anything)
}

func TestUnblockSlotForDate_DeletesException(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(&Exception{
		ID: 21, ServiceID: 1, Date: testDate, DefaultSlotID: num(10), IsBlocked: true,
	}, nil)
	mockRepo.On("DeleteException", mock.Anything, 21).Return(nil)

	service := NewService(mockRepo)
	err := service.UnblockSlotForDate(context.Background(), 1, testDate, 10)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUnblockSlotForDate_NoException(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(nil, nil)

	service := NewService(mockRepo)
	err := service.UnblockSlotForDate(context.Background(), 1, testDate, 10)

	assert.ErrorIs(t, err, ErrExceptionNotFound)
}

func TestAddAdHocSlot(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		start     string
		end       string
		capacity  int
		wantErr   error
		wantsCall bool
	}{
		{name: "valid", date: testDate, start: "18:00", end: "19:00", capacity: 4, wantsCall: true},
		{name: "bad date", date: "soon", start: "18:00", end: "19:00", capacity: 4, wantErr: ErrInvalidDate},
		{name: "end before start", date: testDate, start: "19:00", end: "18:00", capacity: 4, wantErr: ErrInvalidTimeRange},
		{name: "zero length", date: testDate, start: "18:00", end: "18:00", capacity: 4, wantErr: ErrInvalidTimeRange},
		{name: "bad clock", date: testDate, start: "6pm", end: "19:00", capacity: 4, wantErr: ErrInvalidTimeRange},
		{name: "negative capacity", date: testDate, start: "18:00", end: "19:00", capacity: -1, wantErr: ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			if tt.wantsCall {
				mockRepo.On("CreateException", mock.Anything, mock.MatchedBy(func(e *Exception) bool {
					return e.DefaultSlotID == nil &&
						e.StartTime != nil && *e.StartTime == tt.start &&
						e.Capacity != nil && *e.Capacity == tt.capacity &&
						!e.IsBlocked
				})).Return(&Exception{ID: 40}, nil)
			}

			service := NewService(mockRepo)
			_, err := service.AddAdHocSlot(context.Background(), 1, tt.date, tt.start, tt.end, tt.capacity)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRemoveAdHocSlot_RejectsDefaultLinked(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetExceptionByID", mock.Anything, 20).Return(&Exception{
		ID: 20, ServiceID: 1, Date: testDate, DefaultSlotID: num(10),
	}, nil)

	service := NewService(mockRepo)
	err := service.RemoveAdHocSlot(context.Background(), 20)

	assert.ErrorIs(t, err, ErrNotAdHoc)
	mockRepo.AssertNotCalled(t, "DeleteException", mock.Anything, mock.Anything)
}

func TestRemoveAdHocSlot_DeletesAdHoc(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetExceptionByID", mock.Anything, 40).Return(&Exception{
		ID: 40, ServiceID: 1, Date: testDate, StartTime: str("18:00"), EndTime: str("19:00"), Capacity: num(4),
	}, nil)
	mockRepo.On("DeleteException", mock.Anything, 40).Return(nil)

	service := NewService(mockRepo)
	err := service.RemoveAdHocSlot(context.Background(), 40)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestBlockEntireDate(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetBlockedDate", mock.Anything, testDate).Return(nil, nil)
	mockRepo.On("CreateBlockedDate", mock.Anything, testDate, "Maintenance").Return(&BlockedDate{
		ID: 1, Date: testDate, Reason: "Maintenance",
	}, nil)

	service := NewService(mockRepo)
	blocked, err := service.BlockEntireDate(context.Background(), testDate, "Maintenance")

	assert.NoError(t, err)
	assert.Equal(t, "Maintenance", blocked.Reason)
	mockRepo.AssertExpectations(t)
}

func TestBlockEntireDate_AlreadyBlocked(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetBlockedDate", mock.Anything, testDate).Return(&BlockedDate{
		ID: 1, Date: testDate, Reason: "Maintenance",
	}, nil)

	service := NewService(mockRepo)
	_, err := service.BlockEntireDate(context.Background(), testDate, "Again")

	assert.ErrorIs(t, err, ErrDateAlreadyBlocked)
	mockRepo.AssertNotCalled(t, "CreateBlockedDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteDefaultSlot_Cascades(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)
	mockRepo.On("DeleteDefaultSlot", mock.Anything, 10).Return(nil)
	mockRepo.On("DeleteExceptionsForDefaultSlot", mock.Anything, 10).Return(nil)

	service := NewService(mockRepo)
	err := service.DeleteDefaultSlot(context.Background(), 10)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteDefaultSlot_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDefaultSlotByID", mock.Anything, 999).Return(nil, sql.ErrNoRows)

	service := NewService(mockRepo)
	err := service.DeleteDefaultSlot(context.Background(), 999)

	assert.ErrorIs(t, err, ErrSlotNotFound)
	mockRepo.AssertNotCalled(t, "DeleteDefaultSlot", mock.Anything, mock.Anything)
}

func TestWriter_RepositoryErrorsAreNotNotFound(t *testing.T) {
	// A missing row maps to a not-found sentinel; any other repository error
	// must surface as-is instead of masquerading as a 404.
	t.Run("DeleteDefaultSlot", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(nil, assert.AnError)

		err := NewService(mockRepo).DeleteDefaultSlot(context.Background(), 10)

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrSlotNotFound)
		mockRepo.AssertNotCalled(t, "DeleteDefaultSlot", mock.Anything, mock.Anything)
	})

	t.Run("SetSlotCapacityOverride", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(nil, assert.AnError)

		_, err := NewService(mockRepo).SetSlotCapacityOverride(context.Background(), 1, testDate, 10, 8)

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("RemoveAdHocSlot", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("GetExceptionByID", mock.Anything, 40).Return(nil, assert.AnError)

		err := NewService(mockRepo).RemoveAdHocSlot(context.Background(), 40)

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrExceptionNotFound)
	})
}

func TestRemoveAdHocSlot_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetExceptionByID", mock.Anything, 404).Return(nil, sql.ErrNoRows)

	err := NewService(mockRepo).RemoveAdHocSlot(context.Background(), 404)

	assert.ErrorIs(t, err, ErrExceptionNotFound)
}

func TestBlockThenResolve_RoundTrip(t *testing.T) {
	// After blocking, the resolved entry is blocked with remaining 0; after
	// unblocking, the slot reverts to its default shape.
	blockedEx := &Exception{ID: 21, ServiceID: 1, Date: testDate, DefaultSlotID: num(10), IsBlocked: true}

	writeRepo := new(MockRepository)
	writeRepo.On("GetDefaultSlotByID", mock.Anything, 10).Return(&DefaultSlot{
		ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5,
	}, nil)
	writeRepo.On("GetExceptionForSlot", mock.Anything, 1, testDate, 10).Return(nil, nil).Once()
	writeRepo.On("CreateException", mock.Anything, mock.Anything).Return(blockedEx, nil)

	writer := NewService(writeRepo)
	_, err := writer.BlockSlotForDate(context.Background(), 1, testDate, 10)
	assert.NoError(t, err)

	readRepo := new(MockRepository)
	openDay(readRepo)
	readRepo.On("GetDefaultSlots", mock.Anything, 1).Return([]DefaultSlot{
		{ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5},
	}, nil)
	readRepo.On("GetExceptions", mock.Anything, 1, testDate).Return([]Exception{*blockedEx}, nil)
	readRepo.On("GetReservationCounts", mock.Anything, 1, testDate).Return([]ReservationCount{
		{DefaultSlotID: num(10), Count: 4},
	}, nil)

	availability, err := NewService(readRepo).Resolve(context.Background(), 1, testDate)
	assert.NoError(t, err)
	assert.Len(t, availability.Slots, 1)
	assert.Equal(t, KindBlocked, availability.Slots[0].Kind)
	assert.Equal(t, 0, availability.Slots[0].Remaining)

	afterRepo := new(MockRepository)
	openDay(afterRepo)
	afterRepo.On("GetDefaultSlots", mock.Anything, 1).Return([]DefaultSlot{
		{ID: 10, ServiceID: 1, StartTime: "09:00", EndTime: "10:00", Capacity: 5},
	}, nil)
	afterRepo.On("GetExceptions", mock.Anything, 1, testDate).Return([]Exception{}, nil)
	afterRepo.On("GetReservationCounts", mock.Anything, 1, testDate).Return([]ReservationCount{}, nil)

	availability, err = NewService(afterRepo).Resolve(context.Background(), 1, testDate)
	assert.NoError(t, err)
	assert.Equal(t, KindDefault, availability.Slots[0].Kind)
	assert.Equal(t, 5, availability.Slots[0].Remaining)
}
