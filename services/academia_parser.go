package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/models"
)

// AcademiaParser scrapes the daily fixtures listing and per-match statistics
// pages of Academia das Apostas Brasil.
type AcademiaParser struct {
	client *AcademiaClient
}

func NewAcademiaParser(client *AcademiaClient) *AcademiaParser {
	return &AcademiaParser{client: client}
}

// DailyFixtures collects today's matches from the stats landing page.
func (p *AcademiaParser) DailyFixtures(ctx context.Context) ([]models.Fixture, error) {
	resp, err := p.client.Get(ctx, p.client.BaseURL()+"/stats")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return p.parseDailyFixtures(resp.Body)
}

func (p *AcademiaParser) parseDailyFixtures(body io.Reader) ([]models.Fixture, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixtures page: %w", err)
	}

	var fixtures []models.Fixture
	doc.Find("div.matches-today div.match-item").Each(func(_ int, item *goquery.Selection) {
		teams := strings.TrimSpace(item.Find("div.teams").Text())
		home, away, ok := strings.Cut(teams, " vs ")
		if !ok {
			logger.Warnf("Skipping fixture with unparseable teams %q", teams)
			return
		}

		fixture := models.Fixture{
			HomeTeam:    strings.TrimSpace(home),
			AwayTeam:    strings.TrimSpace(away),
			Competition: strings.TrimSpace(item.Find("div.competition").Text()),
			Kickoff:     strings.TrimSpace(item.Find("div.time").Text()),
		}
		if href, ok := item.Find("a[href]").Attr("href"); ok {
			fixture.StatsURL = p.client.BaseURL() + href
		}
		fixtures = append(fixtures, fixture)
	})

	return fixtures, nil
}

// MatchStats collects the statistics page of one fixture: both teams' stat
// tables, recent form, head-to-head history and bookmaker odds.
func (p *AcademiaParser) MatchStats(ctx context.Context, statsURL string) (*models.MatchStats, error) {
	resp, err := p.client.Get(ctx, statsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return p.parseMatchStats(resp.Body)
}

func (p *AcademiaParser) parseMatchStats(body io.Reader) (*models.MatchStats, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stats page: %w", err)
	}

	stats := &models.MatchStats{
		Home: models.TeamStatLines{Stats: map[string]string{}},
		Away: models.TeamStatLines{Stats: map[string]string{}},
		Odds: map[string]models.OddsLine{},
	}

	teamLinks := doc.Find(`a[href*="/team/"]`)
	if teamLinks.Length() > 0 {
		stats.Home.Name = strings.TrimSpace(teamLinks.First().Text())
		stats.Away.Name = strings.TrimSpace(teamLinks.Eq(1).Text())
	}

	// The stats tables carry one row per metric: label, home value, away
	// value.
	statTables := doc.Find("table.team-stats")
	statTables.First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() >= 3 {
			name := strings.TrimSpace(cols.Eq(0).Text())
			stats.Home.Stats[name] = strings.TrimSpace(cols.Eq(1).Text())
		}
	})
	if statTables.Length() > 1 {
		statTables.Eq(1).Find("tr").Each(func(_ int, row *goquery.Selection) {
			cols := row.Find("td")
			if cols.Length() >= 3 {
				name := strings.TrimSpace(cols.Eq(0).Text())
				stats.Away.Stats[name] = strings.TrimSpace(cols.Eq(2).Text())
			}
		})
	}

	doc.Find("table.h2h-table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		cols := row.Find("td")
		if cols.Length() >= 5 {
			stats.HeadToHead = append(stats.HeadToHead, models.HeadToHead{
				Date:     strings.TrimSpace(cols.Eq(0).Text()),
				HomeTeam: strings.TrimSpace(cols.Eq(1).Text()),
				Result:   strings.TrimSpace(cols.Eq(2).Text()),
				AwayTeam: strings.TrimSpace(cols.Eq(3).Text()),
			})
		}
	})

	doc.Find("table.odds-table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := row.Find("td")
		if cols.Length() >= 4 {
			bookmaker := strings.TrimSpace(cols.Eq(0).Text())
			stats.Odds[bookmaker] = models.OddsLine{
				Home: parseOdd(cols.Eq(1).Text()),
				Draw: parseOdd(cols.Eq(2).Text()),
				Away: parseOdd(cols.Eq(3).Text()),
			}
		}
	})

	formTables := doc.Find("table.last-matches-table")
	stats.Home.RecentForm = parseFormTable(formTables.First())
	if formTables.Length() > 1 {
		stats.Away.RecentForm = parseFormTable(formTables.Eq(1))
	}

	return stats, nil
}

func parseFormTable(table *goquery.Selection) []models.FormEntry {
	var form []models.FormEntry
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := row.Find("td")
		if cols.Length() >= 4 {
			form = append(form, models.FormEntry{
				Date:     strings.TrimSpace(cols.Eq(0).Text()),
				Result:   strings.TrimSpace(cols.Eq(1).Text()),
				Opponent: strings.TrimSpace(cols.Eq(2).Text()),
			})
		}
	})
	return form
}

func parseOdd(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "-" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &value
}
