package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSettingsSQLite_Get(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantVal string
		wantOK  bool
		wantErr bool
	}{
		{
			name: "present",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSettingSQL)).
					WithArgs("appSettings.targetDeviceName").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Desk"))
			},
			wantVal: "Desk",
			wantOK:  true,
		},
		{
			name: "missing key is not an error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSettingSQL)).
					WithArgs("appSettings.targetDeviceName").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "db error propagates",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSettingSQL)).
					WithArgs("appSettings.targetDeviceName").
					WillReturnError(errors.New("disk I/O"))
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMock(t)
			tc.setup(mock)

			val, ok, err := NewSettingsSQLite(db).Get(ctx(t), "appSettings.targetDeviceName")
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if val != tc.wantVal || ok != tc.wantOK {
				t.Fatalf("got (%q, %v), want (%q, %v)", val, ok, tc.wantVal, tc.wantOK)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSettingsSQLite_Set(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs("appSettings.gifFileType", "url", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewSettingsSQLite(db).Set(ctx(t), "appSettings.gifFileType", "url"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsSQLite_SetMany_CommitsInOrder(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs("a", "1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs("b", "2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := NewSettingsSQLite(db).SetMany(ctx(t), []Setting{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}})
	if err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsSQLite_SetMany_RollsBackOnError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs("a", "1", sqlmock.AnyArg()).
		WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := NewSettingsSQLite(db).SetMany(ctx(t), []Setting{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
