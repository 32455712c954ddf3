// Package scryfall is a minimal client for the Scryfall card API plus the
// cache-aside resolvers the pipeline uses to avoid refetching cards and
// printings across runs.
package scryfall

import (
	"context"
	"fmt"
	"time"

	"staplecheck/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("staplecheck.lib.scryfall")

const DefaultBaseUrl = "https://api.scryfall.com"

type Client struct {
	Http *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "staplecheck/1.0")
	client.SetHeader("accept", "application/json")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scryfall/http")

	return &Client{Http: client}
}

// CardByName fetches a card by its exact name.
func (c *Client) CardByName(ctx context.Context, name string) (Card, error) {
	ctx, span := tracer.Start(ctx, "client:CardByName")
	defer span.End()
	span.SetAttributes(attribute.String("name", name))

	var card Card
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("exact", name).
		SetResult(&card).
		Get("/cards/named")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch card")
		return Card{}, err
	}
	if res.IsError() {
		err := fmt.Errorf("card %q: %s", name, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "card lookup rejected")
		return Card{}, err
	}

	return card, nil
}

// list is Scryfall's paginated envelope.
type list struct {
	Data     []printedCard `json:"data"`
	HasMore  bool          `json:"has_more"`
	NextPage string        `json:"next_page"`
}

type printedCard struct {
	Set     string `json:"set"`
	SetName string `json:"set_name"`
}

// Printings walks the card's prints search pages and returns one Set per
// printing, in the provider's order.
func (c *Client) Printings(ctx context.Context, card Card) ([]Set, error) {
	ctx, span := tracer.Start(ctx, "client:Printings")
	defer span.End()
	span.SetAttributes(attribute.String("card", card.Name))

	if card.PrintsSearchURI == "" {
		err := fmt.Errorf("card %q has no prints search uri", card.Name)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing prints uri")
		return nil, err
	}

	var printings []Set
	next := card.PrintsSearchURI
	for next != "" {
		var page list
		res, err := c.Http.R().
			SetContext(ctx).
			SetResult(&page).
			Get(next)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch printings page")
			return nil, fmt.Errorf("printings of %s: %w", card.Name, err)
		}
		if res.IsError() {
			err := fmt.Errorf("printings of %s: %s", card.Name, res.Status())
			span.RecordError(err)
			span.SetStatus(codes.Error, "printings page rejected")
			return nil, err
		}

		for _, printed := range page.Data {
			printings = append(printings, Set{
				Code: printed.Set,
				Name: printed.SetName,
			})
		}

		next = ""
		if page.HasMore {
			next = page.NextPage
		}
	}

	return printings, nil
}
