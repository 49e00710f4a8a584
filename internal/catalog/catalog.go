// Package catalog holds the shop's static product list and renders it for prompts.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Product is a single sellable item. Price is in whole rupees.
type Product struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Category groups products under a display heading.
type Category struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// ShopInfo carries the business facts repeated in prompts and the dashboard.
type ShopInfo struct {
	Name      string
	Location  string
	Phone     string
	Email     string
	Website   string
	Hours     string
	Certified string
	Delivery  string
	Payment   string
}

// Catalog is an ordered list of categories plus shop facts.
type Catalog struct {
	Shop       ShopInfo
	Categories []Category
}

// TotalProducts counts products across all categories.
func (c *Catalog) TotalProducts() int {
	total := 0
	for _, cat := range c.Categories {
		total += len(cat.Products)
	}
	return total
}

// Render produces the price list block appended to the system prompt.
func (c *Catalog) Render() string {
	var b strings.Builder
	b.WriteString("\n\n=== COMPLETE PRODUCT CATALOG WITH PRICES ===\n\n")
	for _, cat := range c.Categories {
		fmt.Fprintf(&b, "\n%s:\n", cat.Name)
		for _, p := range cat.Products {
			fmt.Fprintf(&b, "   • %s - Rs. %s\n", p.Name, FormatPrice(p.Price))
		}
	}
	b.WriteString("\n\n")
	if c.Shop.Delivery != "" {
		fmt.Fprintf(&b, "✨ Delivery: %s\n", c.Shop.Delivery)
	}
	if c.Shop.Payment != "" {
		fmt.Fprintf(&b, "💳 Payment: %s\n", c.Shop.Payment)
	}
	if c.Shop.Website != "" {
		fmt.Fprintf(&b, "🌐 Website: %s\n", c.Shop.Website)
	}
	if c.Shop.Phone != "" {
		fmt.Fprintf(&b, "📞 WhatsApp: %s\n", c.Shop.Phone)
	}
	b.WriteString("\n")
	return b.String()
}

// FormatPrice renders a rupee amount with thousands separators, e.g. 1250 -> "1,250".
func FormatPrice(price int) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}
	digits := strconv.Itoa(price)
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
