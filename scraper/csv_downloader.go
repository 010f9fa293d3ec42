// backend/scraper/csv_downloader.go
package scraper

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gewnthar/flightops/backend/config"
)

// DownloadFile is a utility function to download a file from a URL and save it to a local path.
// It returns an error if any step fails.
func DownloadFile(url string, localSavePath string) error {
	log.Printf("Attempting to download file from URL: %s to local path: %s\n", url, localSavePath)

	// Create a new HTTP client with a timeout
	client := http.Client{
		Timeout: 30 * time.Second, // Sensible timeout for a file download
	}

	// Make the GET request
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	// Check for non-200 status codes
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}

	// Ensure the directory for the local save path exists
	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Create the local file
	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	// Copy the response body to the local file
	_, err = io.Copy(outFile, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}

	log.Printf("Successfully downloaded %s to %s\n", url, localSavePath)
	return nil
}

// DownloadWaypointsCsv downloads the waypoints CSV from the URL specified in
// the config and saves it to the configured local path.
// It returns the local path of the downloaded file or an error.
func DownloadWaypointsCsv() (string, error) {
	waypointsURL := config.AppConfig.NavdataURLs.WaypointsCSV
	localPath := config.AppConfig.LocalCSVPaths.Waypoints

	if waypointsURL == "" {
		return "", fmt.Errorf("waypoints CSV URL is not configured")
	}
	if localPath == "" {
		return "", fmt.Errorf("local save path for waypoints CSV is not configured")
	}

	err := DownloadFile(waypointsURL, localPath)
	if err != nil {
		return "", fmt.Errorf("failed to download waypoints CSV: %w", err)
	}
	return localPath, nil
}

// DownloadAirportsCsv downloads the airports CSV from the URL specified in
// the config and saves it to the configured local path.
// It returns the local path of the downloaded file or an error.
func DownloadAirportsCsv() (string, error) {
	airportsURL := config.AppConfig.NavdataURLs.AirportsCSV
	localPath := config.AppConfig.LocalCSVPaths.Airports

	if airportsURL == "" {
		return "", fmt.Errorf("airports CSV URL is not configured")
	}
	if localPath == "" {
		return "", fmt.Errorf("local save path for airports CSV is not configured")
	}

	err := DownloadFile(airportsURL, localPath)
	if err != nil {
		return "", fmt.Errorf("failed to download airports CSV: %w", err)
	}
	return localPath, nil
}
