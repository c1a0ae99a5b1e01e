package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	blingName       = "bling"
	blingOrdersPath = "/pedidos/vendas"
)

type blingContact struct {
	Name     string `json:"nome"`
	Document string `json:"numeroDocumento,omitempty"`
	Email    string `json:"email,omitempty"`
}

type blingItem struct {
	Code        string          `json:"codigo"`
	Description string          `json:"descricao"`
	Quantity    int             `json:"quantidade"`
	Value       decimal.Decimal `json:"valor"`
}

type blingTransport struct {
	Freight decimal.Decimal `json:"frete"`
	Carrier string          `json:"transportador,omitempty"`
}

type blingOrder struct {
	StoreNumber string          `json:"numeroLoja"`
	Date        string          `json:"data"`
	Contact     blingContact    `json:"contato"`
	Items       []blingItem     `json:"itens"`
	Transport   *blingTransport `json:"transporte,omitempty"`
	Notes       string          `json:"observacoesInternas,omitempty"`
}

type blingCreated struct {
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

type blingError struct {
	Error struct {
		Type        string `json:"type"`
		Message     string `json:"message"`
		Description string `json:"description"`
	} `json:"error"`
}

type blingProvider struct {
	client *resty.Client
	now    func() time.Time
}

// NewBlingProvider posts sales orders to Bling API v3. client should already
// carry the base URL, bearer token and timeout.
func NewBlingProvider(client *resty.Client) Provider {
	return &blingProvider{client: client, now: time.Now}
}

func (p *blingProvider) Name() string { return blingName }

func (p *blingProvider) SendOrder(ctx context.Context, o Order) (*Receipt, error) {
	body := blingOrder{
		StoreNumber: o.OrderID,
		Date:        p.now().Format("2006-01-02"),
		Contact: blingContact{
			Name:     o.Customer.Name,
			Document: o.Customer.Document,
			Email:    o.Customer.Email,
		},
	}
	for _, it := range o.Items {
		body.Items = append(body.Items, blingItem{
			Code:        it.ID,
			Description: it.DisplayName(),
			Quantity:    it.Quantity,
			Value:       it.UnitPrice,
		})
	}
	if o.Shipping != nil {
		body.Transport = &blingTransport{Freight: o.Shipping.Price, Carrier: o.Shipping.Carrier}
	}
	if o.SessionID != "" {
		body.Notes = "checkout session " + o.SessionID
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(body).
		Post(blingOrdersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to call bling: %w", err)
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		var be blingError
		if json.Unmarshal(resp.Body(), &be) == nil && be.Error.Message != "" {
			return nil, fmt.Errorf("bling returned %s: %s: %s", resp.Status(), be.Error.Type, be.Error.Message)
		}
		return nil, fmt.Errorf("bling returned an error: %s", resp.Status())
	}

	var created blingCreated
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return nil, fmt.Errorf("failed to decode bling response: %w", err)
	}
	if created.Data.ID == 0 {
		return nil, fmt.Errorf("bling response carried no order id")
	}

	return &Receipt{
		ERPOrderID: strconv.FormatInt(created.Data.ID, 10),
		Message:    "order created in Bling",
	}, nil
}
