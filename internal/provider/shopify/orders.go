package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-resolution-service/internal/domain"
	"github.com/spec-kit/order-resolution-service/internal/service"
)

const customerOrdersQuery = `
query CustomerOrders($query: String!, $first: Int!) {
  orders(first: $first, query: $query, sortKey: CREATED_AT, reverse: true) {
    edges {
      node {
        name
        createdAt
        displayFulfillmentStatus
        lineItems(first: 50) {
          edges { node { title quantity } }
        }
      }
    }
  }
}`

const orderFulfillmentQuery = `
query OrderFulfillment($query: String!) {
  orders(first: 1, query: $query) {
    edges {
      node {
        name
        lineItems(first: 100) {
          edges { node { title quantity } }
        }
        fulfillments(first: 50) {
          status
          displayStatus
          createdAt
          deliveredAt
          estimatedDeliveryAt
          trackingInfo { number company url }
          location { name }
          fulfillmentLineItems(first: 100) {
            edges { node { quantity lineItem { title } } }
          }
        }
      }
    }
  }
}`

type lineItemNode struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type lineItemConnection struct {
	Edges []struct {
		Node lineItemNode `json:"node"`
	} `json:"edges"`
}

type orderNode struct {
	Name                     string             `json:"name"`
	CreatedAt                time.Time          `json:"createdAt"`
	DisplayFulfillmentStatus string             `json:"displayFulfillmentStatus"`
	LineItems                lineItemConnection `json:"lineItems"`
	Fulfillments             []fulfillmentNode  `json:"fulfillments"`
}

type fulfillmentNode struct {
	Status              string     `json:"status"`
	DisplayStatus       string     `json:"displayStatus"`
	CreatedAt           *time.Time `json:"createdAt"`
	DeliveredAt         *time.Time `json:"deliveredAt"`
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt"`
	TrackingInfo        []struct {
		Number  string `json:"number"`
		Company string `json:"company"`
		URL     string `json:"url"`
	} `json:"trackingInfo"`
	Location *struct {
		Name string `json:"name"`
	} `json:"location"`
	FulfillmentLineItems struct {
		Edges []struct {
			Node struct {
				Quantity int          `json:"quantity"`
				LineItem lineItemNode `json:"lineItem"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"fulfillmentLineItems"`
}

type ordersData struct {
	Orders struct {
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

var (
	_ service.OrderHistoryProvider = (*Client)(nil)
	_ service.FulfillmentProvider  = (*Client)(nil)
)

// ListOrders returns the customer's most recent orders, newest first.
func (c *Client) ListOrders(ctx context.Context, customerEmail string) ([]domain.OrderCandidate, error) {
	var data ordersData
	err := c.query(ctx, customerOrdersQuery, map[string]any{
		"query": fmt.Sprintf("email:%q", customerEmail),
		"first": c.lookupLimit,
	}, &data)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.OrderCandidate, 0, len(data.Orders.Edges))
	for _, edge := range data.Orders.Edges {
		number, err := parseOrderName(edge.Node.Name)
		if err != nil {
			c.logger.Warn("skipping order with unparseable name", zap.String("name", edge.Node.Name))
			continue
		}
		candidates = append(candidates, domain.OrderCandidate{
			OrderNumber:       number,
			CreatedAt:         edge.Node.CreatedAt,
			FulfillmentStatus: domain.ParseFulfillmentStatus(edge.Node.DisplayFulfillmentStatus),
			LineItems:         toLineItems(edge.Node.LineItems),
		})
	}
	return candidates, nil
}

// GetOrderFulfillment returns the shipments of one order.
func (c *Client) GetOrderFulfillment(ctx context.Context, orderNumber int64) (*domain.OrderFulfillment, error) {
	var data ordersData
	err := c.query(ctx, orderFulfillmentQuery, map[string]any{
		"query": fmt.Sprintf("name:#%d", orderNumber),
	}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.Orders.Edges) == 0 {
		return nil, fmt.Errorf("#%d: %w", orderNumber, service.ErrOrderNotFound)
	}

	order := data.Orders.Edges[0].Node
	result := &domain.OrderFulfillment{
		OrderNumber: orderNumber,
		LineItems:   toLineItems(order.LineItems),
		Records:     make([]domain.FulfillmentRecord, 0, len(order.Fulfillments)),
	}
	for _, f := range order.Fulfillments {
		result.Records = append(result.Records, toRecord(f))
	}
	return result, nil
}

func toRecord(f fulfillmentNode) domain.FulfillmentRecord {
	record := domain.FulfillmentRecord{
		Status:              shipmentStatus(f),
		ShippedAt:           f.CreatedAt,
		EstimatedDeliveryAt: f.EstimatedDeliveryAt,
		DeliveredAt:         f.DeliveredAt,
		LineItems:           make([]domain.LineItem, 0, len(f.FulfillmentLineItems.Edges)),
	}
	if f.Location != nil {
		record.LocationName = f.Location.Name
	}
	if len(f.TrackingInfo) > 0 {
		record.TrackingNumber = f.TrackingInfo[0].Number
		record.Carrier = f.TrackingInfo[0].Company
		record.TrackingURL = f.TrackingInfo[0].URL
	}
	for _, edge := range f.FulfillmentLineItems.Edges {
		record.LineItems = append(record.LineItems, domain.LineItem{
			Title:    edge.Node.LineItem.Title,
			Quantity: edge.Node.Quantity,
		})
	}
	return record
}

func shipmentStatus(f fulfillmentNode) domain.ShipmentStatus {
	if f.DeliveredAt != nil {
		return domain.ShipmentStatusDelivered
	}
	if status := domain.ParseShipmentStatus(f.DisplayStatus); status != domain.ShipmentStatusPending {
		return status
	}
	return domain.ParseShipmentStatus(f.Status)
}

func toLineItems(conn lineItemConnection) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(conn.Edges))
	for _, edge := range conn.Edges {
		items = append(items, domain.LineItem{Title: edge.Node.Title, Quantity: edge.Node.Quantity})
	}
	return items
}

// parseOrderName turns a display name like "#1001" into 1001.
func parseOrderName(name string) (int64, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(name), "#")
	return strconv.ParseInt(digits, 10, 64)
}
