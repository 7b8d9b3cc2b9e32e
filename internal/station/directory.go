package station

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/models"
)

// Snapshot is an immutable copy of the directory at a point in time.
// Version increases on every successful refresh, so derived results
// (proximity matches) can detect that the data they were computed from
// has been superseded.
type Snapshot struct {
	Stations []models.Station
	Version  uint64
	TakenAt  time.Time
}

// Empty reports whether the snapshot holds no stations.
func (s Snapshot) Empty() bool {
	return len(s.Stations) == 0
}

// SnapshotStore persists the last good station list so a cold directory
// can still serve when the remote service is down.
type SnapshotStore interface {
	Load(ctx context.Context) ([]models.Station, error)
	Save(ctx context.Context, stations []models.Station) error
}

// Directory holds the current set of known stations. Refresh replaces
// the snapshot atomically; a failed refresh never touches the snapshot
// already held.
type Directory struct {
	source Source
	store  SnapshotStore // optional

	mu       sync.RWMutex
	snapshot Snapshot
	clock    func() time.Time
}

func NewDirectory(source Source) *Directory {
	return &Directory{
		source: source,
		clock:  time.Now,
	}
}

// NewDirectoryWithStore builds a directory that additionally persists
// refreshed snapshots to store and falls back to it on a cold start.
func NewDirectoryWithStore(source Source, store SnapshotStore) *Directory {
	d := NewDirectory(source)
	d.store = store
	return d
}

// Refresh fetches the full station list and replaces the snapshot. On
// failure it returns *UnavailableError and leaves the previous snapshot
// unchanged; if the directory is still cold it falls back to the
// snapshot store before giving up.
func (d *Directory) Refresh(ctx context.Context) (Snapshot, error) {
	stations, err := d.source.FetchStations(ctx)
	if err != nil {
		if snap, ok := d.restoreFromStore(ctx); ok {
			return snap, nil
		}
		return d.CurrentSnapshot(), NewUnavailableError("refresh failed", err)
	}

	snap := d.replace(stations)
	log.Debug().Int("station_count", len(stations)).Uint64("version", snap.Version).Msg("Station directory refreshed")

	if d.store != nil {
		if err := d.store.Save(ctx, stations); err != nil {
			log.Warn().Err(err).Msg("Persisting station snapshot failed")
		}
	}
	return snap, nil
}

// CurrentSnapshot returns the last successfully refreshed snapshot, or
// an empty one if no refresh has succeeded yet. It never blocks on an
// in-flight refresh.
func (d *Directory) CurrentSnapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

// FindByID looks a station up in the current snapshot.
func (d *Directory) FindByID(id string) (models.Station, bool) {
	snap := d.CurrentSnapshot()
	for _, s := range snap.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}

func (d *Directory) replace(stations []models.Station) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot = Snapshot{
		Stations: stations,
		Version:  d.snapshot.Version + 1,
		TakenAt:  d.clock(),
	}
	return d.snapshot
}

// restoreFromStore serves a cold directory from the persisted snapshot.
// A warm directory keeps what it has; staleness beats emptiness only.
func (d *Directory) restoreFromStore(ctx context.Context) (Snapshot, bool) {
	if d.store == nil || !d.CurrentSnapshot().Empty() {
		return Snapshot{}, false
	}
	stations, err := d.store.Load(ctx)
	if err != nil || len(stations) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("Loading persisted station snapshot failed")
		}
		return Snapshot{}, false
	}
	log.Info().Int("station_count", len(stations)).Msg("Serving station directory from persisted snapshot")
	return d.replace(stations), true
}
