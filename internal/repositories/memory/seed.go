package memory

import (
	"time"

	"github.com/ida-management/backoffice/internal/domain"
)

// Seed populates the registry with representative data for local development.
// IDs are fixed so bookmarks and test fixtures stay stable across restarts;
// timestamps are relative to now so list views look current.
func (r *Registry) Seed(now time.Time) {
	now = now.UTC()

	ptrTime := func(t time.Time) *time.Time { return &t }
	ptrInt := func(v int) *int { return &v }

	approvedDoc := func(reviewer string, at time.Time) domain.Document {
		return domain.Document{Status: domain.DocumentStatusApproved, ReviewedBy: reviewer, ReviewedAt: ptrTime(at)}
	}

	orders := []*domain.Order{
		{
			ID:        "order-2041",
			Number:    "IDA-2041",
			CreatedAt: now.Add(-6 * time.Hour),
			UpdatedAt: now.Add(-45 * time.Minute),
			Customer:  domain.Customer{Name: "Maria Silva", Email: "maria.silva@example.com", Phone: "+55 11 91234 0001"},
			Shipping: domain.ShippingAddress{
				Address: "Rua Augusta 1200", City: "São Paulo", Country: "Brazil", PostalCode: "01304-001",
			},
			AmountMinor:  7900,
			Currency:     "USD",
			ProductType:  domain.ProductTypePrintAndDigital,
			DeliveryType: domain.DeliveryTypeVIPExpress,
			Payment: domain.Payment{
				Status: domain.PaymentStatusPaid, Method: "card", TransactionID: "txn_8f3a1b",
			},
			Status:         domain.OrderStatusProcessing,
			InternalStatus: domain.InternalStatusPendingReview,
			Documents: domain.DocumentSet{
				Selfie: domain.Document{Status: domain.DocumentStatusPending},
				Front:  domain.Document{Status: domain.DocumentStatusPending},
				Back:   domain.Document{Status: domain.DocumentStatusMissing},
			},
			Fulfillment: domain.Fulfillment{Region: domain.RegionUK},
			Affiliate: &domain.AffiliateAttribution{
				Name: "DriveAbroad Blog", ReferralCode: "DRIVE10", CouponCode: "DRIVE10", Channel: "blog",
			},
		},
		{
			ID:        "order-2040",
			Number:    "IDA-2040",
			CreatedAt: now.Add(-26 * time.Hour),
			UpdatedAt: now.Add(-3 * time.Hour),
			Customer:  domain.Customer{Name: "Wei Chen", Email: "wei.chen@example.com", Phone: "+86 21 5555 0102"},
			Shipping: domain.ShippingAddress{
				Address: "88 Nanjing Road", City: "Shanghai", Country: "China", PostalCode: "200001",
			},
			AmountMinor:  4900,
			Currency:     "USD",
			ProductType:  domain.ProductTypeDigital,
			DeliveryType: domain.DeliveryTypeStandard,
			Payment: domain.Payment{
				Status: domain.PaymentStatusPaid, Method: "card", TransactionID: "txn_2c91ee",
			},
			Status:         domain.OrderStatusShipmentInProgress,
			InternalStatus: domain.InternalStatusReviewed,
			Documents: domain.DocumentSet{
				Selfie: approvedDoc("ops@ida.example", now.Add(-20*time.Hour)),
				Front:  approvedDoc("ops@ida.example", now.Add(-20*time.Hour)),
				Back:   approvedDoc("ops@ida.example", now.Add(-20*time.Hour)),
			},
			Tracking:    &domain.Tracking{Carrier: "SF Express", Number: "SF1234567890"},
			Fulfillment: domain.Fulfillment{Region: domain.RegionChina, Generated: true, Printed: false},
		},
		{
			ID:        "order-2039",
			Number:    "IDA-2039",
			CreatedAt: now.Add(-3 * 24 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Hour),
			Customer:  domain.Customer{Name: "Amelia Clarke", Email: "amelia.clarke@example.co.uk", Phone: "+44 20 7946 0011"},
			Shipping: domain.ShippingAddress{
				Address: "14 Baker Street", City: "London", Country: "United Kingdom", PostalCode: "NW1 6XE",
			},
			AmountMinor:  7900,
			Currency:     "USD",
			ProductType:  domain.ProductTypePrintAndDigital,
			DeliveryType: domain.DeliveryTypeStandard,
			Payment: domain.Payment{
				Status: domain.PaymentStatusPaid, Method: "paypal", TransactionID: "txn_77ab02",
			},
			Status:         domain.OrderStatusCompleted,
			InternalStatus: domain.InternalStatusReviewed,
			Documents: domain.DocumentSet{
				Selfie: approvedDoc("lena@ida.example", now.Add(-2*24*time.Hour)),
				Front:  approvedDoc("lena@ida.example", now.Add(-2*24*time.Hour)),
				Back:   approvedDoc("lena@ida.example", now.Add(-2*24*time.Hour)),
			},
			Tracking:    &domain.Tracking{Carrier: "Royal Mail", Number: "RM998877665GB"},
			Fulfillment: domain.Fulfillment{Region: domain.RegionUK, Generated: true, Printed: true},
		},
		{
			ID:        "order-2038",
			Number:    "IDA-2038",
			CreatedAt: now.Add(-4 * 24 * time.Hour),
			UpdatedAt: now.Add(-4 * time.Hour),
			Customer:  domain.Customer{Name: "Yuki Tanaka", Email: "yuki.tanaka@example.jp", Phone: "+81 3 5555 0190"},
			Shipping: domain.ShippingAddress{
				Address: "2-7-1 Shibuya", City: "Tokyo", Country: "Japan", PostalCode: "150-0002",
			},
			AmountMinor:  5900,
			Currency:     "USD",
			ProductType:  domain.ProductTypePrintAndDigital,
			DeliveryType: domain.DeliveryTypeStandard,
			Payment: domain.Payment{
				Status: domain.PaymentStatusPending, Method: "card", TransactionID: "txn_1d4c55",
			},
			Status:         domain.OrderStatusOnHold,
			InternalStatus: domain.InternalStatusOnHold,
			Documents: domain.DocumentSet{
				Selfie: domain.Document{Status: domain.DocumentStatusApproved, ReviewedBy: "ops@ida.example", ReviewedAt: ptrTime(now.Add(-3 * 24 * time.Hour))},
				Front: domain.Document{
					Status:        domain.DocumentStatusRejected,
					RejectionNote: "Licence number obscured by glare, please retake.",
					ReviewedBy:    "ops@ida.example",
					ReviewedAt:    ptrTime(now.Add(-3 * 24 * time.Hour)),
				},
				Back: domain.Document{Status: domain.DocumentStatusPending},
			},
			Fulfillment: domain.Fulfillment{Region: domain.RegionChina},
		},
		{
			ID:        "order-2035",
			Number:    "IDA-2035",
			CreatedAt: now.Add(-9 * 24 * time.Hour),
			UpdatedAt: now.Add(-8 * 24 * time.Hour),
			Customer:  domain.Customer{Name: "Lucas Moreau", Email: "lucas.moreau@example.fr", Phone: "+33 1 42 00 11 22"},
			Shipping: domain.ShippingAddress{
				Address: "5 Rue de Rivoli", City: "Paris", Country: "France", PostalCode: "75004",
			},
			AmountMinor:  4900,
			Currency:     "USD",
			ProductType:  domain.ProductTypeDigital,
			DeliveryType: domain.DeliveryTypeStandard,
			Payment: domain.Payment{
				Status: domain.PaymentStatusFailed, Method: "card", TransactionID: "txn_90ff31",
			},
			Status:         domain.OrderStatusRefunded,
			InternalStatus: domain.InternalStatusReviewed,
			Documents: domain.DocumentSet{
				Selfie: approvedDoc("lena@ida.example", now.Add(-8*24*time.Hour)),
				Front:  approvedDoc("lena@ida.example", now.Add(-8*24*time.Hour)),
				Back:   approvedDoc("lena@ida.example", now.Add(-8*24*time.Hour)),
			},
			Fulfillment: domain.Fulfillment{Region: domain.RegionUK},
			Affiliate: &domain.AffiliateAttribution{
				Name: "Nomad Travel Deals", ReferralCode: "NOMAD15", CouponCode: "NOMAD15", Channel: "newsletter",
			},
		},
		{
			ID:        "order-2020",
			Number:    "IDA-2020",
			CreatedAt: now.Add(-40 * 24 * time.Hour),
			UpdatedAt: now.Add(-35 * 24 * time.Hour),
			Customer:  domain.Customer{Name: "Noah Williams", Email: "noah.w@example.com", Phone: "+1 415 555 0144"},
			Shipping: domain.ShippingAddress{
				Address: "500 Market St", City: "San Francisco", Country: "United States", PostalCode: "94105",
			},
			AmountMinor:  7900,
			Currency:     "USD",
			ProductType:  domain.ProductTypePrintAndDigital,
			DeliveryType: domain.DeliveryTypeVIPExpress,
			Payment: domain.Payment{
				Status: domain.PaymentStatusPaid, Method: "card", TransactionID: "txn_3e0ba7",
			},
			Status:         domain.OrderStatusCompleted,
			InternalStatus: domain.InternalStatusReviewed,
			Documents: domain.DocumentSet{
				Selfie: approvedDoc("ops@ida.example", now.Add(-39*24*time.Hour)),
				Front:  approvedDoc("ops@ida.example", now.Add(-39*24*time.Hour)),
				Back:   approvedDoc("ops@ida.example", now.Add(-39*24*time.Hour)),
			},
			Tracking:    &domain.Tracking{Carrier: "FedEx", Number: "FX447788990012"},
			Fulfillment: domain.Fulfillment{Region: domain.RegionUK, Generated: true, Printed: true},
			ArchivedAt:  ptrTime(now.Add(-35 * 24 * time.Hour)),
		},
	}
	for _, order := range orders {
		r.orders.Put(order)
	}

	affiliates := []*domain.Affiliate{
		{
			ID: "aff-001", Name: "DriveAbroad Blog", Email: "partners@driveabroad.example",
			ReferralCode: "DRIVE10", Channel: "blog", CommissionBps: 1000, Active: true,
			CreatedAt: now.Add(-200 * 24 * time.Hour), UpdatedAt: now.Add(-30 * 24 * time.Hour),
		},
		{
			ID: "aff-002", Name: "Nomad Travel Deals", Email: "hello@nomaddeals.example",
			ReferralCode: "NOMAD15", Channel: "newsletter", CommissionBps: 1500, Active: true,
			CreatedAt: now.Add(-120 * 24 * time.Hour), UpdatedAt: now.Add(-10 * 24 * time.Hour),
		},
		{
			ID: "aff-003", Name: "Roadtrip Reviews", Email: "ads@roadtripreviews.example",
			ReferralCode: "ROAD5", Channel: "youtube", CommissionBps: 500, Active: false,
			CreatedAt: now.Add(-300 * 24 * time.Hour), UpdatedAt: now.Add(-90 * 24 * time.Hour),
		},
	}
	for _, affiliate := range affiliates {
		_ = r.affiliates.Insert(nil, affiliate)
	}

	discounts := []*domain.Discount{
		{
			ID: "disc-001", Code: "DRIVE10", Percent: 10, Active: true,
			CreatedAt: now.Add(-200 * 24 * time.Hour), UpdatedAt: now.Add(-200 * 24 * time.Hour),
		},
		{
			ID: "disc-002", Code: "NOMAD15", Percent: 15, Active: true,
			StartsAt:  ptrTime(now.Add(-60 * 24 * time.Hour)),
			EndsAt:    ptrTime(now.Add(30 * 24 * time.Hour)),
			CreatedAt: now.Add(-60 * 24 * time.Hour), UpdatedAt: now.Add(-60 * 24 * time.Hour),
		},
		{
			ID: "disc-003", Code: "SUMMER25", Percent: 25, Active: false,
			UsageLimit: ptrInt(100),
			CreatedAt:  now.Add(-400 * 24 * time.Hour), UpdatedAt: now.Add(-300 * 24 * time.Hour),
		},
	}
	for _, discount := range discounts {
		_ = r.discounts.Insert(nil, discount)
	}

	products := []*domain.Product{
		{
			ID: "prod-001", SKU: "IDA-DIGITAL", Name: "International Driver's Licence (Digital)",
			Type: domain.ProductTypeDigital, PriceMinor: 4900, Currency: "USD", Active: true,
			CreatedAt: now.Add(-500 * 24 * time.Hour), UpdatedAt: now.Add(-100 * 24 * time.Hour),
		},
		{
			ID: "prod-002", SKU: "IDA-PRINT", Name: "International Driver's Licence (Print + Digital)",
			Type: domain.ProductTypePrintAndDigital, PriceMinor: 7900, Currency: "USD", Active: true,
			CreatedAt: now.Add(-500 * 24 * time.Hour), UpdatedAt: now.Add(-100 * 24 * time.Hour),
		},
	}
	for _, product := range products {
		_ = r.products.Insert(nil, product)
	}

	staff := []*domain.StaffUser{
		{
			ID: "staff-001", Name: "Lena Hoffmann", Email: "lena@ida.example",
			Role: domain.StaffRoleAdmin, Active: true,
			CreatedAt: now.Add(-600 * 24 * time.Hour), UpdatedAt: now.Add(-50 * 24 * time.Hour),
		},
		{
			ID: "staff-002", Name: "Operations Desk", Email: "ops@ida.example",
			Role: domain.StaffRoleOperator, Active: true,
			CreatedAt: now.Add(-400 * 24 * time.Hour), UpdatedAt: now.Add(-40 * 24 * time.Hour),
		},
		{
			ID: "staff-003", Name: "Finance Viewer", Email: "finance@ida.example",
			Role: domain.StaffRoleViewer, Active: true,
			CreatedAt: now.Add(-200 * 24 * time.Hour), UpdatedAt: now.Add(-20 * 24 * time.Hour),
		},
	}
	for _, user := range staff {
		_ = r.staff.Insert(nil, user)
	}
}
