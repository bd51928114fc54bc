// FilePath: internal/repository/files/files.storage.go
package files

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const (
	sitesFileName     = "sites.json"
	usersFileName     = "users.json"
	telemetryFileName = "telemetry.json"
	defaultDirPerm    = 0755
	defaultFilePerm   = 0644
)

// Store is the JSON file backend. All state lives in memory behind mu and every
// mutation rewrites the affected files in full.
type Store struct {
	dir  string
	opts repository.Options

	mu       sync.Mutex
	sites    []*models.Site
	users    []*userRecord
	sensors  []*models.Sensor
	readings []*models.Measurement
	loaded   bool
}

type sitesFile struct {
	Sites []*models.Site `json:"sites"`
}

type usersFile struct {
	Users []*userRecord `json:"users"`
}

type telemetryFile struct {
	Sensors      []*models.Sensor      `json:"sensors"`
	Measurements []*models.Measurement `json:"measurements"`
}

// New creates a file store rooted at dir. Nothing is read until Init.
func New(dir string, opts repository.Options) *Store {
	return &Store{dir: dir, opts: opts.WithDefaults()}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Kind() string { return repository.KindFile }

func (s *Store) Close() error { return nil }

// Init loads all files and seeds whatever is empty.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, defaultDirPerm); err != nil {
		return errors.NewInternalError("failed to create data directory", err)
	}

	var sf sitesFile
	s.load(sitesFileName, &sf)
	var uf usersFile
	s.load(usersFileName, &uf)
	var tf telemetryFile
	s.load(telemetryFileName, &tf)

	s.sites = compactSites(sf.Sites)
	s.users = compactUsers(uf.Users)
	s.sensors = compactSensors(tf.Sensors)
	s.readings = compactReadings(tf.Measurements)
	s.loaded = true

	return s.seed()
}

func (s *Store) seed() error {
	now := s.opts.Clock.Now().UTC()

	if len(s.users) == 0 {
		users, err := repository.SeedUsers(s.opts, now)
		if err != nil {
			return errors.NewInternalError("failed to seed users", err)
		}
		for _, u := range users {
			s.users = append(s.users, recordFromUser(u))
		}
		if err := s.saveUsers(); err != nil {
			return err
		}
		nuts.L.Infof("[FileStore] Seeded %d user(s), admin %q", len(users), s.opts.Seed.AdminUsername)
	}

	if len(s.sites) == 0 {
		s.sites = append(s.sites, repository.SampleSite(now))
		if err := s.saveSites(); err != nil {
			return err
		}
		nuts.L.Infof("[FileStore] Seeded sample site %s", repository.SampleSiteID)
	}

	if s.opts.Seed.DemoSensor && len(s.sensors) == 0 && s.findSite(repository.SampleSiteID) >= 0 {
		s.sensors = append(s.sensors, &models.Sensor{
			ID:          repository.NewID(repository.SensorPrefix),
			SiteID:      repository.SampleSiteID,
			Code:        repository.DemoSensorCode,
			InstalledAt: now,
		})
		if err := s.saveTelemetry(); err != nil {
			return err
		}
		nuts.L.Infof("[FileStore] Seeded demo sensor %s", repository.DemoSensorCode)
	}
	return nil
}

// load decodes name into v. A missing or unreadable file leaves v empty.
func (s *Store) load(name string, v any) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			nuts.L.Warnf("[FileStore] Failed to read %s, starting empty: %v", path, err)
		}
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		nuts.L.Warnf("[FileStore] Failed to parse %s, starting empty: %v", path, err)
	}
}

// write replaces name atomically via a temp file in the same directory.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to encode %s", name), err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to write %s", name), err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewInternalError(fmt.Sprintf("failed to write %s", name), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to write %s", name), err)
	}
	if err := os.Chmod(tmpName, defaultFilePerm); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to write %s", name), err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to replace %s", name), err)
	}
	return nil
}

func (s *Store) saveSites() error {
	return s.write(sitesFileName, sitesFile{Sites: s.sites})
}

func (s *Store) saveUsers() error {
	return s.write(usersFileName, usersFile{Users: s.users})
}

func (s *Store) saveTelemetry() error {
	return s.write(telemetryFileName, telemetryFile{Sensors: s.sensors, Measurements: s.readings})
}

func (s *Store) ready() error {
	if !s.loaded {
		return errors.NewUnavailableError("file store not initialized", nil)
	}
	return nil
}

func compactSites(in []*models.Site) []*models.Site {
	out := make([]*models.Site, 0, len(in))
	for _, site := range in {
		if site != nil && site.ID != "" {
			out = append(out, site)
		}
	}
	return out
}

func compactUsers(in []*userRecord) []*userRecord {
	out := make([]*userRecord, 0, len(in))
	for _, u := range in {
		if u != nil && u.ID != "" {
			out = append(out, u)
		}
	}
	return out
}

func compactSensors(in []*models.Sensor) []*models.Sensor {
	out := make([]*models.Sensor, 0, len(in))
	for _, sn := range in {
		if sn != nil && sn.ID != "" {
			out = append(out, sn)
		}
	}
	return out
}

func compactReadings(in []*models.Measurement) []*models.Measurement {
	out := make([]*models.Measurement, 0, len(in))
	for _, m := range in {
		if m != nil && m.ID != "" {
			out = append(out, m)
		}
	}
	return out
}
