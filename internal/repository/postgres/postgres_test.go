package postgres

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func setupMockStore(t *testing.T, seed repository.SeedConfig) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := database.Wrap(sqlx.NewDb(mockDB, "sqlmock"))
	store := New(db, repository.Options{
		Verifier: auth.BcryptVerifier{Cost: bcrypt.MinCost},
		Clock:    clockwork.NewFakeClockAt(testNow),
		Seed:     seed,
	})
	return store, mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

var siteCols = []string{"id", "name", "address", "latitude", "longitude", "sensor_count", "building_size",
	"building_year", "notes", "status", "construction_state", "created_at", "updated_at"}

func sampleSiteRow(rows *sqlmock.Rows, id, status string) *sqlmock.Rows {
	return rows.AddRow(id, "Tower", "Seoul", 37.5, nil, 2, "10F", "2001", "", status, "done", testNow, testNow)
}

func patchOf(t *testing.T, raw string) *models.SitePatch {
	t.Helper()
	var p models.SitePatch
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func TestListSitesNormalizes(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	rows := sampleSiteRow(sqlmock.NewRows(siteCols), "s1", "alert")
	rows = sampleSiteRow(rows, "s2", "bogus")
	mock.ExpectQuery(q("FROM sites ORDER BY created_at ASC")).WillReturnRows(rows)

	sites, err := store.ListSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, models.SiteStatusAlert, sites[0].Status)
	assert.Equal(t, models.SiteStatusSafe, sites[1].Status)
	assert.Equal(t, models.ConstructionDone, sites[0].ConstructionState)
	require.NotNil(t, sites[0].Latitude)
	assert.Nil(t, sites[0].Longitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSiteMissing(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})
	mock.ExpectQuery(q("FROM sites WHERE id = $1")).WithArgs("nope").WillReturnRows(sqlmock.NewRows(siteCols))

	site, err := store.GetSite(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, site)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSite(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectExec(q("INSERT INTO sites")).
		WithArgs(sqlmock.AnyArg(), "Tower", "Seoul", nil, nil, 0, "", "", "", "SAFE", "IN_PROGRESS", testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	site, err := store.AddSite(context.Background(), patchOf(t, `{"name":"Tower","address":"Seoul","latitude":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, models.SiteStatusSafe, site.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSiteValidationSkipsDatabase(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	_, err := store.AddSite(context.Background(), patchOf(t, `{"name":"Tower"}`))
	assert.True(t, errors.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSiteMergesInsideTransaction(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM sites WHERE id = $1 FOR UPDATE")).WithArgs("s1").
		WillReturnRows(sampleSiteRow(sqlmock.NewRows(siteCols), "s1", "SAFE"))
	mock.ExpectExec(q("UPDATE sites")).
		WithArgs("s1", "Tower", "Seoul", 37.5, nil, 2, "10F", "2001", "", "CAUTION", "DONE", testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	site, err := store.UpdateSite(context.Background(), "s1", patchOf(t, `{"status":"caution"}`))
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, models.SiteStatusCaution, site.Status)
	assert.Equal(t, "2001", site.BuildingYear)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSiteValidationRollsBack(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).WithArgs("s1").
		WillReturnRows(sampleSiteRow(sqlmock.NewRows(siteCols), "s1", "SAFE"))
	mock.ExpectRollback()

	_, err := store.UpdateSite(context.Background(), "s1", patchOf(t, `{"name":""}`))
	assert.True(t, errors.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSiteDetachesUsersAtomically(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM sites WHERE id = $1")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE users")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM sites WHERE id = $1")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := store.DeleteSite(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.DeleteSite(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var userCols = []string{"id", "username", "email", "name", "role", "site_ids", "password", "created_at"}

func TestCreateUserDuplicate(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)")).WithArgs("kim").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := store.CreateUser(context.Background(), &models.NewUser{Username: "kim", Password: "pw"})
	assert.True(t, errors.IsDuplicate(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDefaults(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectQuery(q("SELECT EXISTS")).WithArgs("kim").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(q("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "kim", "", "", "CLIENT", "[]", sqlmock.AnyArg(), testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.CreateUser(context.Background(), &models.NewUser{Username: "kim", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserProtectsAdmins(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT role FROM users WHERE id = $1 FOR UPDATE")).WithArgs("admin-operator").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("ADMIN"))
	mock.ExpectRollback()

	ok, err := store.DeleteUser(context.Background(), "admin-operator")
	assert.False(t, ok)
	assert.True(t, errors.IsProtected(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserMissing(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT role FROM users")).WithArgs("ghost").WillReturnRows(sqlmock.NewRows([]string{"role"}))
	mock.ExpectCommit()

	ok, err := store.DeleteUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserSites(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})
	ctx := context.Background()

	mock.ExpectExec(q("UPDATE users SET site_ids = $2::jsonb WHERE id = $1")).WithArgs("u1", `["a","b"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE users SET site_ids")).WithArgs("ghost", "[]").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ids, found, err := store.UpdateUserSites(ctx, "u1", []string{"a", "b", "a"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, found, err = store.UpdateUserSites(ctx, "ghost", nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByCredentialsLegacyPlaintext(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectQuery(q("FROM users")).WithArgs("operator").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("admin-operator", "operator", "", "", "ADMIN", []byte(`[]`), "beds2025!", testNow))

	u, err := store.FindUserByCredentials(context.Background(), "operator", "beds2025!")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, []string{}, u.SiteIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMeasurementStampsSensor(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE sensors SET last_seen_at = $2 WHERE id = $1")).WithArgs("sns1", testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO measurements")).
		WithArgs(sqlmock.AnyArg(), "sns1", testNow, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(q("SELECT COUNT(*) FROM measurements")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(repository.MaxMeasurements + 1))
	mock.ExpectExec(q("DELETE FROM measurements")).WithArgs(repository.RetainMeasurements).
		WillReturnResult(sqlmock.NewResult(0, 1001))

	shake := 0.2
	m, err := store.AddMeasurement(context.Background(), "sns1", models.Metrics{Shake: &shake})
	require.NoError(t, err)
	assert.Equal(t, testNow, m.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMeasurementUnknownSensor(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE sensors SET last_seen_at")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.AddMeasurement(context.Background(), "ghost", models.Metrics{})
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestMeasurementsAscending(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	rows := sqlmock.NewRows([]string{"id", "sensor_id", "created_at", "metrics"}).
		AddRow("m2", "sns1", testNow, []byte(`{"shake":0.2,"bending":null,"raw":null}`)).
		AddRow("m1", "sns1", testNow.Add(-time.Second), []byte(`{"shake":null,"bending":0.1,"raw":{"t":1}}`))
	mock.ExpectQuery(q("JOIN sensors s ON s.id = m.sensor_id")).WithArgs("s1", 2).WillReturnRows(rows)

	list, err := store.LatestMeasurementsForSite(context.Background(), "s1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m1", list[0].ID)
	assert.Equal(t, "m2", list[1].ID)
	require.NotNil(t, list[1].Metrics.Shake)
	assert.Equal(t, 0.2, *list[1].Metrics.Shake)
	assert.JSONEq(t, `{"t":1}`, string(list[0].Metrics.Raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterSensorIsIdempotent(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	mock.ExpectExec(q("ON CONFLICT (code) DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "s1", "S-1", testNow).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("FROM sensors WHERE code = $1")).WithArgs("S-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_id", "code", "installed_at", "last_seen_at"}).
			AddRow("sns-existing", "s1", "S-1", testNow.Add(-time.Hour), nil))

	sensor, err := store.RegisterSensor(context.Background(), "s1", " S-1 ")
	require.NoError(t, err)
	assert.Equal(t, "sns-existing", sensor.ID)
	assert.Nil(t, sensor.LastSeenAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitCreatesSchemaAndSeeds(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{DemoSensor: true})

	for range schemaStatements {
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT COUNT(*) FROM users")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(q("INSERT INTO users")).
		WithArgs(repository.AdminUserID, "operator", "", "Operator", "ADMIN", "[]", sqlmock.AnyArg(), testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM sites")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(q("INSERT INTO sites")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM sensors")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM sites WHERE id = $1)")).WithArgs(repository.SampleSiteID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(q("INSERT INTO sensors")).
		WithArgs(sqlmock.AnyArg(), repository.SampleSiteID, repository.DemoSensorCode, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Init(context.Background()))
	assert.Equal(t, repository.KindPostgres, store.Kind())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitSkipsSeedWhenPopulated(t *testing.T) {
	store, mock := setupMockStore(t, repository.SeedConfig{})

	for range schemaStatements {
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT COUNT(*) FROM users")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM sites")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, store.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
