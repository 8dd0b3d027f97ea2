package snapshot

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/services"
	"stravaboard/internal/snapshot/interfaces"
)

// storedSnapshot is the on-disk format: the snapshot plus its computation
// instant, so a restored snapshot ages against the original TTL.
type storedSnapshot struct {
	Athletes  []models.AthleteDisplay   `json:"athleteDisplays"`
	Details   models.CompetitionDetails `json:"details"`
	FetchedAt time.Time                 `json:"fetchedAt"`
}

// FileManager persists the last good snapshot so a restarted process can
// serve a leaderboard before its first aggregation pass completes.
type FileManager struct {
	cache      services.SnapshotCacheInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, cache services.SnapshotCacheInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		cache:      cache,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snap, ok := f.cache.Current()
	if !ok {
		return nil
	}

	jsonData, err := json.Marshal(storedSnapshot{
		Athletes:  snap.Athletes,
		Details:   snap.Details,
		FetchedAt: snap.FetchedAt,
	})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var stored storedSnapshot
	if err := json.Unmarshal(decompressedData, &stored); err != nil {
		return err
	}
	if stored.FetchedAt.IsZero() {
		f.logger.Warnf(providers.TypeApp, "Persisted snapshot has no timestamp, ignoring %s", fileName)
		return nil
	}

	f.cache.Seed(&models.LeaderboardSnapshot{
		Athletes:  stored.Athletes,
		Details:   stored.Details,
		FetchedAt: stored.FetchedAt,
	})
	f.logger.Infof(providers.TypeApp, "Restored snapshot from %s (%d athletes, fetched %s)",
		fileName, len(stored.Athletes), stored.FetchedAt.Format(time.RFC3339))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
