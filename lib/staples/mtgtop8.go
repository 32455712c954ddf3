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

	"staplecheck/lib/scryfall"
	"staplecheck/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const DefaultTop8BaseUrl = "https://mtgtop8.com"

// top8Pages is how many pages of top cards each board is scraped for.
const top8Pages = 16

type board string

const (
	maindeck  board = "MD"
	sideboard board = "SB"
)

// the site expects the full metagame selection block on every request;
// values are the site's internal metagame ids
var top8StaticFields = map[string]string{
	"data":                "1",
	"metagame_sel[VI]":    "71",
	"metagame_sel[LE]":    "39",
	"metagame_sel[MO]":    "51",
	"metagame_sel[PI]":    "193",
	"metagame_sel[EX]":    "95",
	"metagame_sel[HI]":    "211",
	"metagame_sel[ST]":    "52",
	"metagame_sel[BL]":    "85",
	"metagame_sel[LI]":    "227",
	"metagame_sel[PAU]":   "145",
	"metagame_sel[EDH]":   "121",
	"metagame_sel[HIGH]":  "180",
	"metagame_sel[EDHP]":  "106",
	"metagame_sel[CHL]":   "105",
	"metagame_sel[PEA]":   "228",
	"metagame_sel[EDHM]":  "157",
	"metagame_sel[ALCH]":  "232",
	"metagame_sel[cEDH]":  "240",
	"metagame_sel[EXP]":   "259",
	"metagame_sel[PREM]":  "261",
	"card_col":            "",
	"card_type":           "",
	"card_rarity":         "",
	"lands":               "1",
}

func top8FormatCode(format scryfall.Format) (string, error) {
	switch format {
	case scryfall.Pauper:
		return "PAU", nil
	case scryfall.Legacy:
		return "LE", nil
	case scryfall.Pioneer:
		return "PI", nil
	case scryfall.Standard:
		return "ST", nil
	}
	return "", fmt.Errorf("%s not supported by mtgtop8", format)
}

// Top8Scraper reads the paginated top-cards form off mtgtop8.
type Top8Scraper struct {
	http            *resty.Client
	cards           *scryfall.CardResolver
	pageConcurrency int
}

type Top8Options struct {
	// defaults to DefaultTop8BaseUrl
	BaseUrl string
	// bounds concurrent page requests; 0 leaves them unbounded. This is
	// deliberately a separate knob from the card resolver's fetch limit.
	PageConcurrency int
}

func NewTop8Scraper(cards *scryfall.CardResolver, opts Top8Options) *Top8Scraper {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultTop8BaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/mtgtop8/http")

	return &Top8Scraper{
		http:            client,
		cards:           cards,
		pageConcurrency: opts.PageConcurrency,
	}
}

// Fetch posts the top-cards form for every page of both boards. Each page
// goroutine owns its parsed document and hands plain row values over a
// channel, so no document is ever shared across goroutines.
func (s *Top8Scraper) Fetch(ctx context.Context, format scryfall.Format) ([]Staple, error) {
	ctx, span := tracer.Start(ctx, "mtgtop8:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("format", format.String()))

	formatCode, err := top8FormatCode(format)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported format")
		return nil, err
	}

	parsed := make(chan row)
	collected := []row{}
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for r := range parsed {
			collected = append(collected, r)
		}
	}()

	group, ctx := errgroup.WithContext(ctx)
	if s.pageConcurrency > 0 {
		group.SetLimit(s.pageConcurrency)
	}
	for _, b := range []board{maindeck, sideboard} {
		for page := 1; page <= top8Pages; page++ {
			b, page := b, page
			group.Go(func() error {
				rows, err := s.scrapePage(ctx, formatCode, b, page)
				if err != nil {
					return err
				}
				for _, r := range rows {
					select {
					case parsed <- r:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			})
		}
	}
	err = group.Wait()
	close(parsed)
	<-collectorDone
	if err != nil {
		return nil, err
	}

	return resolveRows(ctx, s.cards, collected)
}

func (s *Top8Scraper) scrapePage(ctx context.Context, formatCode string, b board, page int) ([]row, error) {
	ctx, span := tracer.Start(ctx, "mtgtop8:scrapePage")
	defer span.End()
	span.SetAttributes(
		attribute.String("board", string(b)),
		attribute.Int("page", page),
	)

	form := map[string]string{
		"current_page": strconv.Itoa(page),
		"format":       formatCode,
		"maindeck":     string(b),
	}
	for key, value := range top8StaticFields {
		form[key] = value
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/topcards")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch top cards page")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	rows := parseTop8Cells(doc)
	slog.DebugContext(ctx, "scraped mtgtop8 page",
		"page", page,
		"board", string(b),
		"cards", len(rows),
	)
	return rows, nil
}

// parseTop8Cells reads the result cells of a top-cards page: runs of
// three td.L14 cells holding name, percent and copies.
func parseTop8Cells(doc *goquery.Document) []row {
	cells := doc.Find("td.L14")

	var rows []row
	for i := 0; i+3 <= cells.Length(); i += 3 {
		name := strings.TrimSpace(cells.Eq(i).Text())
		if name == "" {
			continue
		}
		r := row{Name: name}
		if percent, ok := firstNumber(cells.Eq(i + 1).Text()); ok {
			r.Percent = &percent
		}
		if copiesFloat, ok := firstNumber(cells.Eq(i + 2).Text()); ok {
			copies := int(math.Ceil(copiesFloat))
			r.Copies = &copies
		}
		rows = append(rows, r)
	}
	return rows
}

// firstNumber parses the first whitespace-separated field of a cell as a
// float.
func firstNumber(text string) (float64, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
