// backend/scraper/effective_date_checker.go
package scraper

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gewnthar/flightops/backend/config"
	"github.com/gewnthar/flightops/backend/models"
)

// Regex to find dates in format "Effective MM/DD/YYYY until MM/DD/YYYY"
var effectiveDateRegex = regexp.MustCompile(`Effective\s+(\d{2}/\d{2}/\d{4})\s+until\s+(\d{2}/\d{2}/\d{4})`)

const dateLayout = "01/02/2006" // For parsing MM/DD/YYYY

// parseEffectiveDateString extracts 'from' and 'until' dates using the regex.
func parseEffectiveDateString(textToSearch string) (from time.Time, until time.Time, rawMatch string, err error) {
	matches := effectiveDateRegex.FindStringSubmatch(textToSearch)
	if len(matches) < 3 {
		err = fmt.Errorf("could not find full 'Effective ... until ...' pattern in provided text block. Text searched: %s", textToSearch)
		return
	}

	rawMatch = matches[0]
	fromString := matches[1]
	untilString := matches[2]

	from, err = time.Parse(dateLayout, fromString)
	if err != nil {
		err = fmt.Errorf("failed to parse 'from' date '%s': %w", fromString, err)
		return
	}

	until, err = time.Parse(dateLayout, untilString)
	if err != nil {
		err = fmt.Errorf("failed to parse 'until' date '%s': %w", untilString, err)
		return
	}
	return
}

// GetNavdataCycleDates scrapes the given URL, looks for the AIRAC cycle UL
// within the container, and extracts the effective date window.
func GetNavdataCycleDates(pageURL, containerSelector string) (*models.NavdataEffectiveInfo, error) {
	log.Printf("Scraper: Checking AIRAC cycle dates from %s (container: '%s')\n", pageURL, containerSelector)

	client := http.Client{Timeout: 20 * time.Second}
	res, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	var foundDateText string
	doc.Find(containerSelector).Find("ul").EachWithBreak(func(i int, ulSelection *goquery.Selection) bool {
		firstLiText := strings.TrimSpace(ulSelection.Find("li:first-of-type").Text())
		if strings.Contains(firstLiText, "AIRAC") {
			secondLiText := strings.TrimSpace(ulSelection.Find("li:nth-of-type(2)").Text())
			if strings.Contains(secondLiText, "Effective") && strings.Contains(secondLiText, "until") {
				foundDateText = secondLiText
				return false
			}
		}
		return true
	})

	if foundDateText == "" {
		log.Printf("WARN Scraper: Could not find the AIRAC UL with an 'Effective ... until ...' entry within container '%s' on page %s.", containerSelector, pageURL)
		return nil, fmt.Errorf("AIRAC cycle dates not found on %s within container '%s'. QC: Verify container selector and page structure.", pageURL, containerSelector)
	}

	from, until, rawStr, err := parseEffectiveDateString(foundDateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AIRAC cycle dates from text '%s': %w", foundDateText, err)
	}

	log.Printf("Scraper: Found AIRAC cycle dates: From %s, Until %s (Raw: '%s')\n",
		from.Format(dateLayout), until.Format(dateLayout), rawStr)

	return &models.NavdataEffectiveInfo{
		EffectiveFrom:  from,
		EffectiveUntil: until,
		RawDateString:  rawStr,
		LastChecked:    time.Now().UTC(),
	}, nil
}

// ScrapeNavdataCycleDates fetches the AIRAC effective window from the
// configured cycle page. It accepts the containerSelector (typically from
// config) to use.
func ScrapeNavdataCycleDates(containerSelector string) (*models.NavdataEffectiveInfo, error) {
	pageURL := config.AppConfig.NavdataURLs.CycleEffectiveDatePage
	if containerSelector == "" { // Fallback if an empty selector is passed
		log.Println("WARN Scraper: No CSS selector provided for the AIRAC cycle container, using default 'body'. QC: This is likely inefficient/incorrect.")
		containerSelector = "body"
	}
	return GetNavdataCycleDates(pageURL, containerSelector)
}
