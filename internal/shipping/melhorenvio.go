package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

const (
	melhorEnvioName      = "melhorenvio"
	melhorEnvioQuotePath = "/api/v2/me/shipment/calculate"
	correios             = "Correios"
)

// Items carry no dimensions, so every unit is quoted as a standard small
// parcel.
const (
	parcelWidthCM  = 11
	parcelHeightCM = 4
	parcelLengthCM = 16
	parcelWeightKG = 0.3
)

type meAddress struct {
	PostalCode string `json:"postal_code"`
}

type meProduct struct {
	ID             string          `json:"id"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Length         int             `json:"length"`
	Weight         float64         `json:"weight"`
	InsuranceValue decimal.Decimal `json:"insurance_value"`
	Quantity       int             `json:"quantity"`
}

type meQuoteRequest struct {
	From     meAddress   `json:"from"`
	To       meAddress   `json:"to"`
	Products []meProduct `json:"products"`
}

type meQuote struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryTime int             `json:"delivery_time"`
	Error        string          `json:"error,omitempty"`
	Company      struct {
		Name string `json:"name"`
	} `json:"company"`
}

type melhorEnvioProvider struct {
	client     *resty.Client
	originCode string
}

// NewMelhorEnvioProvider quotes through the Melhor Envio REST API. client
// should already carry the base URL, bearer token and timeout.
func NewMelhorEnvioProvider(client *resty.Client, originPostalCode string) Provider {
	return &melhorEnvioProvider{client: client, originCode: originPostalCode}
}

func (p *melhorEnvioProvider) Name() string { return melhorEnvioName }

func (p *melhorEnvioProvider) Quote(ctx context.Context, s Shipment) ([]Quote, error) {
	req := meQuoteRequest{
		From: meAddress{PostalCode: p.originCode},
		To:   meAddress{PostalCode: s.DestinationPostalCode},
	}
	for _, it := range s.Items {
		req.Products = append(req.Products, meProduct{
			ID:             it.ID,
			Width:          parcelWidthCM,
			Height:         parcelHeightCM,
			Length:         parcelLengthCM,
			Weight:         parcelWeightKG,
			InsuranceValue: it.UnitPrice,
			Quantity:       it.Quantity,
		})
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(req).
		Post(melhorEnvioQuotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to call melhor envio: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("melhor envio returned an error: %s", resp.Status())
	}

	var quotes []meQuote
	if err := json.Unmarshal(resp.Body(), &quotes); err != nil {
		return nil, fmt.Errorf("failed to decode melhor envio response: %w", err)
	}

	out := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.Error != "" {
			logger.FromCtx(ctx).Debug("carrier service unavailable",
				zap.String("service", q.Name),
				zap.String("reason", q.Error),
			)
			continue
		}
		out = append(out, Quote{
			Carrier:      carrierName(q),
			Service:      q.Name,
			Price:        q.Price,
			DeliveryDays: q.DeliveryTime,
		})
	}
	return out, nil
}

// carrierName reports Correios services by service name (PAC, SEDEX) and
// everyone else by company.
func carrierName(q meQuote) string {
	if strings.EqualFold(q.Company.Name, correios) || q.Company.Name == "" {
		return q.Name
	}
	return q.Company.Name
}
