package handlers

import (
	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/search"
	"github.com/ida-management/backoffice/internal/services"
)

type customerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type shippingPayload struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode,omitempty"`
}

type paymentPayload struct {
	Status        string `json:"status"`
	Method        string `json:"method,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

type documentPayload struct {
	Slot          string  `json:"slot"`
	Status        string  `json:"status"`
	RejectionNote string  `json:"rejectionNote,omitempty"`
	ReviewedAt    *string `json:"reviewedAt,omitempty"`
	ReviewedBy    string  `json:"reviewedBy,omitempty"`
}

type trackingPayload struct {
	Carrier string `json:"carrier"`
	Number  string `json:"number"`
}

type fulfillmentPayload struct {
	Region    string `json:"region,omitempty"`
	Generated bool   `json:"generated"`
	Printed   bool   `json:"printed"`
}

type activityPayload struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Actor      string `json:"actor,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

type affiliatePayload struct {
	Name         string `json:"name,omitempty"`
	ReferralCode string `json:"referralCode"`
	CouponCode   string `json:"couponCode,omitempty"`
	Channel      string `json:"channel,omitempty"`
}

type orderListItemPayload struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	CreatedAt      string `json:"createdAt"`
	Customer       string `json:"customer"`
	Email          string `json:"email"`
	Country        string `json:"country"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	InternalStatus string `json:"internalStatus"`
	PaymentStatus  string `json:"paymentStatus"`
	ProductType    string `json:"productType"`
	DeliveryType   string `json:"deliveryType"`
	Region         string `json:"region,omitempty"`
}

type orderDetailPayload struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
	Customer       customerPayload    `json:"customer"`
	Shipping       shippingPayload    `json:"shipping"`
	Amount         string             `json:"amount"`
	AmountMinor    int64              `json:"amountMinor"`
	Currency       string             `json:"currency"`
	ProductType    string             `json:"productType"`
	DeliveryType   string             `json:"deliveryType"`
	Payment        paymentPayload     `json:"payment"`
	Status         string             `json:"status"`
	InternalStatus string             `json:"internalStatus"`
	Documents      []documentPayload  `json:"documents"`
	Tracking       *trackingPayload   `json:"tracking,omitempty"`
	Fulfillment    fulfillmentPayload `json:"fulfillment"`
	Activity       []activityPayload  `json:"activity"`
	Affiliate      *affiliatePayload  `json:"affiliate,omitempty"`
	ArchivedAt     *string            `json:"archivedAt,omitempty"`
}

type orderSummaryPayload struct {
	Total            int            `json:"total"`
	ByStatus         map[string]int `json:"byStatus"`
	ByInternalStatus map[string]int `json:"byInternalStatus"`
}

type orderListPayload struct {
	Orders  []orderListItemPayload `json:"orders"`
	Total   int                    `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"perPage"`
	Summary orderSummaryPayload    `json:"summary"`
}

func buildOrderListItemPayload(order *domain.Order) orderListItemPayload {
	return orderListItemPayload{
		ID:             order.ID,
		Number:         order.Number,
		CreatedAt:      formatTime(order.CreatedAt),
		Customer:       order.Customer.Name,
		Email:          order.Customer.Email,
		Country:        order.Shipping.Country,
		Amount:         search.FormatAmount(order.AmountMinor),
		Currency:       order.Currency,
		Status:         string(order.Status),
		InternalStatus: string(order.InternalStatus),
		PaymentStatus:  string(order.Payment.Status),
		ProductType:    string(order.ProductType),
		DeliveryType:   string(order.DeliveryType),
		Region:         string(order.Fulfillment.Region),
	}
}

func buildOrderDetailPayload(order *domain.Order) orderDetailPayload {
	documents := make([]documentPayload, 0, 3)
	for _, slot := range domain.DocumentSlots() {
		doc := order.Documents.Slot(slot)
		documents = append(documents, documentPayload{
			Slot:          string(slot),
			Status:        string(doc.Status),
			RejectionNote: doc.RejectionNote,
			ReviewedAt:    formatTimePtr(doc.ReviewedAt),
			ReviewedBy:    doc.ReviewedBy,
		})
	}

	activity := make([]activityPayload, 0, len(order.Activity))
	for _, entry := range order.Activity {
		activity = append(activity, activityPayload{
			ID:         entry.ID,
			Type:       entry.Type,
			Message:    entry.Message,
			Actor:      entry.Actor,
			OccurredAt: formatTime(entry.OccurredAt),
		})
	}

	payload := orderDetailPayload{
		ID:        order.ID,
		Number:    order.Number,
		CreatedAt: formatTime(order.CreatedAt),
		UpdatedAt: formatTime(order.UpdatedAt),
		Customer: customerPayload{
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		},
		Shipping: shippingPayload{
			Address:    order.Shipping.Address,
			City:       order.Shipping.City,
			Country:    order.Shipping.Country,
			PostalCode: order.Shipping.PostalCode,
		},
		Amount:       search.FormatAmount(order.AmountMinor),
		AmountMinor:  order.AmountMinor,
		Currency:     order.Currency,
		ProductType:  string(order.ProductType),
		DeliveryType: string(order.DeliveryType),
		Payment: paymentPayload{
			Status:        string(order.Payment.Status),
			Method:        order.Payment.Method,
			TransactionID: order.Payment.TransactionID,
		},
		Status:         string(order.Status),
		InternalStatus: string(order.InternalStatus),
		Documents:      documents,
		Fulfillment: fulfillmentPayload{
			Region:    string(order.Fulfillment.Region),
			Generated: order.Fulfillment.Generated,
			Printed:   order.Fulfillment.Printed,
		},
		Activity:   activity,
		ArchivedAt: formatTimePtr(order.ArchivedAt),
	}

	if order.Tracking != nil {
		payload.Tracking = &trackingPayload{
			Carrier: order.Tracking.Carrier,
			Number:  order.Tracking.Number,
		}
	}
	if order.Affiliate != nil {
		payload.Affiliate = &affiliatePayload{
			Name:         order.Affiliate.Name,
			ReferralCode: order.Affiliate.ReferralCode,
			CouponCode:   order.Affiliate.CouponCode,
			Channel:      order.Affiliate.Channel,
		}
	}
	return payload
}

func buildOrderListPayload(list services.OrderList) orderListPayload {
	orders := make([]orderListItemPayload, 0, len(list.Orders))
	for _, order := range list.Orders {
		orders = append(orders, buildOrderListItemPayload(order))
	}

	byStatus := make(map[string]int, len(list.Summary.ByStatus))
	for status, count := range list.Summary.ByStatus {
		byStatus[string(status)] = count
	}
	byInternal := make(map[string]int, len(list.Summary.ByInternalStatus))
	for status, count := range list.Summary.ByInternalStatus {
		byInternal[string(status)] = count
	}

	return orderListPayload{
		Orders:  orders,
		Total:   list.Total,
		Page:    list.Page,
		PerPage: list.PerPage,
		Summary: orderSummaryPayload{
			Total:            list.Summary.Total,
			ByStatus:         byStatus,
			ByInternalStatus: byInternal,
		},
	}
}
