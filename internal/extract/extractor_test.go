package extract

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse_Price(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // decimal string, "" = nil
	}{
		{"dollar per unit slash", "We can offer $0.16/unit for this order.", "0.16"},
		{"rupee per unit", "Our best rate would be Rs 12 per unit.", "12"},
		{"rupee dotted", "Rs. 11.50 per tablet, ex-works.", "11.50"},
		{"inr per piece", "INR 8.25 per piece including GST.", "8.25"},
		{"price keyword", "Final price: $0.18 for the full quantity.", "0.18"},
		{"quote keyword no currency", "Our quote is 0.22 with free shipping.", "0.22"},
		{"offer phrase", "Happy to supply the lot at $0.19 each unit of 500mg.", "0.19"},
		{"bare unit suffix", "0.20/unit is the lowest we can go.", "0.20"},
		{"no price at all", "Thank you for reaching out. We will revert shortly.", ""},
		{"number without marker ignored", "We shipped 500 cartons last month.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if tt.want == "" {
				if got.UnitPrice != nil {
					t.Fatalf("UnitPrice = %v, want nil", got.UnitPrice)
				}
				return
			}
			want := decimal.RequireFromString(tt.want)
			if got.UnitPrice == nil {
				t.Fatalf("UnitPrice = nil, want %s", tt.want)
			}
			if !got.UnitPrice.Equal(want) {
				t.Errorf("UnitPrice = %s, want %s", got.UnitPrice, want)
			}
		})
	}
}

func TestParse_PricePrecedence(t *testing.T) {
	// The per-unit marker beats the bare number near "price".
	got := Parse("List price 100 boxes. We offer $0.45/unit delivered.")
	if got.UnitPrice == nil || !got.UnitPrice.Equal(decimal.RequireFromString("0.45")) {
		t.Errorf("UnitPrice = %v, want 0.45 (per-unit marker wins)", got.UnitPrice)
	}
}

func TestParse_DeliveryDays(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int // -1 = nil
	}{
		{"plain days", "We can deliver in 5 days.", 5},
		{"business days", "Dispatch within 3 business days of payment.", 3},
		{"weeks converted", "Lead time is 2 weeks from order confirmation.", 14},
		{"first match wins", "Delivery in 4 days, or 2 days with express surcharge.", 4},
		{"no delivery info", "Price is $0.18/unit. Stock is ready.", -1},
		{"day mention without number", "Delivery takes a few days.", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if tt.want == -1 {
				if got.DeliveryDays != nil {
					t.Fatalf("DeliveryDays = %d, want nil", *got.DeliveryDays)
				}
				return
			}
			if got.DeliveryDays == nil {
				t.Fatalf("DeliveryDays = nil, want %d", tt.want)
			}
			if *got.DeliveryDays != tt.want {
				t.Errorf("DeliveryDays = %d, want %d", *got.DeliveryDays, tt.want)
			}
		})
	}
}

func TestParse_Stock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int // -1 = nil
	}{
		{"units available", "We have 8,000 units available right now.", 8000},
		{"in stock", "12000 units in stock at our Pune warehouse.", 12000},
		{"stock colon", "Stock: 4500. Delivery in 6 days.", 4500},
		{"absent defaults to nil", "Price $0.20/unit, delivery in 3 days.", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if tt.want == -1 {
				if got.StockAvailable != nil {
					t.Fatalf("StockAvailable = %d, want nil", *got.StockAvailable)
				}
				return
			}
			if got.StockAvailable == nil {
				t.Fatalf("StockAvailable = nil, want %d", tt.want)
			}
			if *got.StockAvailable != tt.want {
				t.Errorf("StockAvailable = %d, want %d", *got.StockAvailable, tt.want)
			}
		})
	}
}

func TestParse_Conditions(t *testing.T) {
	text := "We quote $0.18/unit. Minimum order is 2000 units. Payment terms are net 30. Bulk discount applies above 10000 units."
	got := Parse(text)
	if len(got.Conditions) != 3 {
		t.Fatalf("Conditions = %v, want 3 entries", got.Conditions)
	}
}

func TestParse_InsufficientData(t *testing.T) {
	got := Parse("Thanks for your inquiry, our sales team will respond soon.")
	if !got.Insufficient() {
		t.Error("expected Insufficient() for reply with no price or delivery")
	}
	if got.UnitPrice != nil || got.DeliveryDays != nil || got.StockAvailable != nil {
		t.Error("expected all fields nil for unparsable reply")
	}

	priced := Parse("We offer $0.15/unit, delivery in 7 days.")
	if priced.Insufficient() {
		t.Error("expected sufficient data when price and delivery both parsed")
	}
}

func TestParse_PureFunction(t *testing.T) {
	text := "Rs 12 per unit, 5 days, 3000 units available."
	a := Parse(text)
	b := Parse(text)
	if !a.UnitPrice.Equal(*b.UnitPrice) || *a.DeliveryDays != *b.DeliveryDays {
		t.Error("Parse is not deterministic for identical input")
	}
}
