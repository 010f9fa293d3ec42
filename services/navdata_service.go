// backend/services/navdata_service.go
package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gewnthar/flightops/backend/config"
	"github.com/gewnthar/flightops/backend/database"
	"github.com/gewnthar/flightops/backend/models"
	"github.com/gewnthar/flightops/backend/scraper"
)

var lastKnownEffectiveDates = make(map[string]time.Time)

const (
	SourceWaypoints = "Waypoints"
	SourceAirports  = "Airports"
)

// InitLastKnownEffectiveDates seeds the in-memory freshness map from the
// navdata_versions table at startup.
func InitLastKnownEffectiveDates() {
	log.Println("Service: Initializing last known effective dates for navdata sources...")

	for _, sourceName := range []string{SourceWaypoints, SourceAirports} {
		date, err := database.GetMaxEffectiveUntilForSource(sourceName)
		if err != nil {
			log.Printf("ERROR Service: Failed to get effective until date for %s from DB: %v\n", sourceName, err)
			continue
		}
		if date != nil {
			lastKnownEffectiveDates[sourceName] = *date
			log.Printf("INFO Service: Initialized last known %s effective until date from DB: %s\n", sourceName, date.Format("2006-01-02"))
		} else {
			log.Printf("INFO Service: No existing %s effective end date found in DB.\n", sourceName)
		}
	}
}

// RefreshNavdataIfNeeded scrapes the publisher's AIRAC cycle page and
// refreshes the given navdata source when its effective window moved past
// what we last loaded.
func RefreshNavdataIfNeeded(sourceName string, cssSelectorForDate string) error {
	log.Printf("Service: Checking if update is needed for %s navdata (selector: '%s')...\n", sourceName, cssSelectorForDate)

	liveInfo, err := scraper.ScrapeNavdataCycleDates(cssSelectorForDate)
	if err != nil {
		return fmt.Errorf("failed to scrape AIRAC cycle dates for %s: %w", sourceName, err)
	}
	log.Printf("Service: Current publisher effective until date for %s: %s\n",
		sourceName, liveInfo.EffectiveUntil.Format("2006-01-02"))

	lastProcessedUntil, found := lastKnownEffectiveDates[sourceName]
	updateNeeded := false
	liveUntilDate := truncateToDay(liveInfo.EffectiveUntil)

	if !found {
		updateNeeded = true
	} else if liveUntilDate.After(truncateToDay(lastProcessedUntil)) {
		updateNeeded = true
	}

	if !updateNeeded && found {
		// Heuristic: force a refresh when we are within a week of the next
		// expected AIRAC publication, in case the page lagged.
		nextExpected := lastProcessedUntil.AddDate(0, 0, config.AppConfig.DataFreshness.AiracCycleDays-7)
		if time.Now().After(nextExpected) {
			log.Printf("Service: Approaching AIRAC cycle boundary for %s. Forcing an update to be safe.\n", sourceName)
			updateNeeded = true
		}
	}

	if !updateNeeded {
		log.Printf("Service: No update deemed necessary for %s navdata.\n", sourceName)
		return nil
	}

	log.Printf("Service: Update detected as needed for %s navdata.\n", sourceName)
	return ForceRefreshNavdata(sourceName, liveInfo)
}

// ForceRefreshNavdata downloads, parses, and clear-and-loads the given
// navdata source. liveEffectiveInfo may be nil for a manual refresh, in
// which case the effective dates recorded for the batch are NULL.
func ForceRefreshNavdata(sourceName string, liveEffectiveInfo *models.NavdataEffectiveInfo) error {
	log.Printf("Service: Forcing refresh for %s navdata...\n", sourceName)

	var csvURL string
	var downloadFunc func() (string, error)
	var loadFunc func(io.Reader, string) (int, error)

	var effectiveFrom, effectiveUntil *time.Time
	if liveEffectiveInfo != nil {
		effectiveFrom = &liveEffectiveInfo.EffectiveFrom
		effectiveUntil = &liveEffectiveInfo.EffectiveUntil
		log.Printf("Service: Using scraped effective dates for %s: From %s, Until %s\n",
			sourceName, effectiveFrom.Format("2006-01-02"), effectiveUntil.Format("2006-01-02"))
	} else {
		log.Printf("Service: No live effective date info provided for %s; effective dates will be NULL for this batch.\n", sourceName)
	}

	switch sourceName {
	case SourceWaypoints:
		csvURL = config.AppConfig.NavdataURLs.WaypointsCSV
		downloadFunc = scraper.DownloadWaypointsCsv
		loadFunc = func(r io.Reader, sf string) (int, error) {
			waypoints, err := scraper.ParseWaypointsCsv(r)
			if err != nil {
				return 0, err
			}
			return len(waypoints), database.SaveWaypoints(waypoints, sf)
		}
	case SourceAirports:
		csvURL = config.AppConfig.NavdataURLs.AirportsCSV
		downloadFunc = scraper.DownloadAirportsCsv
		loadFunc = func(r io.Reader, sf string) (int, error) {
			airports, err := scraper.ParseAirportsCsv(r)
			if err != nil {
				return 0, err
			}
			return len(airports), database.SaveAirports(airports, sf)
		}
	default:
		return fmt.Errorf("unknown navdata source name for forced refresh: %s", sourceName)
	}

	log.Printf("Service: Downloading %s CSV from %s\n", sourceName, csvURL)
	localPath, err := downloadFunc()
	if err != nil {
		return fmt.Errorf("failed to download %s CSV: %w", sourceName, err)
	}
	defer func() {
		log.Printf("Service: Cleaning up temporary file: %s\n", localPath)
		if err := os.Remove(localPath); err != nil {
			log.Printf("ERROR Service: Failed to remove temporary file %s: %v\n", localPath, err)
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open downloaded file %s: %w", localPath, err)
	}
	defer file.Close()

	sourceFileForDB := filepath.Base(localPath)
	if effectiveFrom != nil {
		sourceFileForDB = fmt.Sprintf("%s_%s", filepath.Base(localPath), effectiveFrom.Format("20060102"))
	}

	count, err := loadFunc(file, sourceFileForDB)
	if err != nil {
		return fmt.Errorf("failed to load %s navdata (source file: %s): %w", sourceName, sourceFileForDB, err)
	}

	now := time.Now().UTC()
	var lastChecked *time.Time
	if liveEffectiveInfo != nil {
		lastChecked = &liveEffectiveInfo.LastChecked
	}
	if err := database.LogNavdataVersionUpdate(sourceName, csvURL, sourceFileForDB,
		effectiveFrom, effectiveUntil, lastChecked, &now); err != nil {
		log.Printf("WARN Service: Loaded %s navdata but failed to record version: %v\n", sourceName, err)
	}

	if effectiveUntil != nil {
		lastKnownEffectiveDates[sourceName] = *effectiveUntil
	}
	log.Printf("Service: Successfully refreshed %s navdata (%d records).\n", sourceName, count)
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
