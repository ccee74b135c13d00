package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"announcebot/internal/domain"
)

func TestPendingEventRepository_Insert(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.PendingEvent
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name:  "success",
			event: domain.NewPendingEvent("ウィンターフェス", 20231225, created),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO pending_events \(name, end_date, created_at\)`).
					WithArgs("ウィンターフェス", 20231225, created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			},
			wantID: 7,
		},
		{
			name:  "db error",
			event: domain.NewPendingEvent("x", 20231225, created),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO pending_events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewPendingEventRepository(db)
			err = repo.Insert(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPendingEventRepository_ListDue(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    int
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.PendingEvent
		wantErr bool
	}{
		{
			name: "rows",
			date: 20231225,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, end_date, created_at\s+FROM pending_events\s+WHERE end_date = \$1`).
					WithArgs(20231225).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "end_date", "created_at"}).
						AddRow(1, "A", 20231225, created).
						AddRow(2, "A", 20231225, created))
			},
			want: []*domain.PendingEvent{
				{ID: 1, Name: "A", EndDate: 20231225, CreatedAt: created},
				{ID: 2, Name: "A", EndDate: 20231225, CreatedAt: created},
			},
		},
		{
			name: "empty",
			date: 20231226,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM pending_events`).
					WithArgs(20231226).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "end_date", "created_at"}))
			},
			want: []*domain.PendingEvent{},
		},
		{
			name: "query error",
			date: 20231225,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM pending_events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewPendingEventRepository(db).ListDue(ctx, tt.date)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPendingEventRepository_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM pending_events WHERE end_date < \$1`).
		WithArgs(20240101).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewPendingEventRepository(db).DeleteBefore(ctx, 20240101)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
