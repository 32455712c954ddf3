package staples

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"staplecheck/lib/htmlutil"
	"staplecheck/lib/scryfall"
	"staplecheck/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const DefaultGoldfishBaseUrl = "https://www.mtggoldfish.com"

var goldfishCategories = [3]string{"creatures", "spells", "lands"}

// GoldfishScraper reads the format-staples tables off mtggoldfish.
type GoldfishScraper struct {
	http  *resty.Client
	cards *scryfall.CardResolver
}

type GoldfishOptions struct {
	// defaults to DefaultGoldfishBaseUrl
	BaseUrl string
}

func NewGoldfishScraper(cards *scryfall.CardResolver, opts GoldfishOptions) *GoldfishScraper {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultGoldfishBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/goldfish/http")

	return &GoldfishScraper{http: client, cards: cards}
}

func goldfishPaths(format scryfall.Format) ([3]string, error) {
	switch format {
	case scryfall.Pauper, scryfall.Pioneer, scryfall.Legacy, scryfall.Standard:
	default:
		return [3]string{}, fmt.Errorf("%s not supported by goldfish", format)
	}

	var paths [3]string
	for i, category := range goldfishCategories {
		paths[i] = fmt.Sprintf("/format-staples/%s/full/%s", format, category)
	}
	return paths, nil
}

// Fetch scrapes the three category pages of a format concurrently. A page
// without a staples table contributes zero rows with a warning; the fetch
// as a whole still succeeds.
func (s *GoldfishScraper) Fetch(ctx context.Context, format scryfall.Format) ([]Staple, error) {
	ctx, span := tracer.Start(ctx, "goldfish:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("format", format.String()))

	paths, err := goldfishPaths(format)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported format")
		return nil, err
	}

	results := make([][]Staple, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			staples, err := s.scrapePage(ctx, path)
			if err != nil {
				return err
			}
			results[i] = staples
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return nil, err
	}

	var staples []Staple
	for _, page := range results {
		staples = append(staples, page...)
	}
	return staples, nil
}

func (s *GoldfishScraper) scrapePage(ctx context.Context, path string) ([]Staple, error) {
	ctx, span := tracer.Start(ctx, "goldfish:scrapePage")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	res, err := s.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch staples page")
		return nil, err
	}
	slog.InfoContext(ctx, "goldfish page downloaded", "path", path)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	rows, found := parseStapleTable(doc)
	if !found {
		slog.WarnContext(ctx, "could not find staples table", "path", path)
		return nil, nil
	}

	return resolveRows(ctx, s.cards, rows)
}

// parseStapleTable reads the first table of a staples page. Each data row
// yields (name, percent, copies) after the leading icon/rank cell is
// discarded; rows under a table head are skipped. The second return is
// false when the page has no table at all.
func parseStapleTable(doc *goquery.Document) ([]row, bool) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, false
	}

	var rows []row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Parent().Is("thead") {
			return
		}
		tokens := htmlutil.TextTokens(tr)
		if len(tokens) < 2 {
			return
		}
		// tokens[0] is the icon/rank cell
		tokens = tokens[1:]

		r := row{Name: tokens[0]}
		if len(tokens) > 1 {
			percent, err := strconv.ParseFloat(strings.TrimSuffix(tokens[1], "%"), 64)
			if err == nil {
				r.Percent = &percent
			}
		}
		if len(tokens) > 2 {
			copiesFloat, err := strconv.ParseFloat(tokens[2], 64)
			if err == nil {
				copies := int(math.Ceil(copiesFloat))
				r.Copies = &copies
			}
		}
		rows = append(rows, r)
	})
	return rows, true
}
