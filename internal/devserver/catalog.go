package devserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/five82/nutmunch/internal/storefront"
)

type seedProduct struct {
	id          string
	name        string
	category    string
	price       float64
	weight      string
	grade       string
	origin      string
	description string
}

var seedProducts = []seedProduct{
	{"1", "Sea Salt & Smoke Almonds", "Roasted", 24, "500g", "Premium", "USA (California)",
		"Artisanally roasted with real hickory smoke and harvested Mediterranean sea salt."},
	{"2", "Organic Nonpareil Supreme", "Raw", 28, "1kg", "Premium", "USA (California)",
		"The absolute gold standard of almonds. Large, whole, and perfectly shaped for maximum crunch."},
	{"3", "Wildflower Honey Glazed", "Confection", 22, "400g", "Reserve", "Global",
		"Sweetened by nature. Lightly coated in pure wildflower honey for a sophisticated treat."},
	{"4", "Premium Mamra Almonds", "Reserve", 42, "500g", "Premium", "Iran (Kerman)",
		"Rare Mamra almonds, famous for their unique shape and extremely high oil content."},
	{"5", "Salted Kerman Pistachios", "Roasted", 19, "250g", "Premium", "Iran (Kerman)",
		"Perfectly split shells and large, vibrant green kernels with a satisfying salt finish."},
	{"6", "Chilean Chandler Walnuts", "Raw", 34, "500g", "Reserve", "Global",
		"Extra-light Chandler walnuts from the pristine orchards of Chile."},
}

const defaultStock = 100

// SeedCatalog returns the development catalog.
func SeedCatalog() []storefront.Product {
	out := make([]storefront.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		out = append(out, storefront.Product{
			ID:                 storefront.ProductID(p.id),
			Name:               p.name,
			Slug:               slugify(p.name),
			Description:        p.description,
			Price:              p.price,
			Category:           p.category,
			StockQuantity:      defaultStock,
			ImageURL:           fmt.Sprintf("https://images.nutmunch.dev/%s.jpg", slugify(p.name)),
			Weight:             p.weight,
			Grade:              p.grade,
			Origin:             p.origin,
			NutritionalInfo:    nutritionFor(p.name),
			SustainabilityInfo: fmt.Sprintf("Sourced from the heart of the %s region. Our orchards have been cultivated for generations.", p.origin),
		})
	}
	return out
}

func nutritionFor(name string) string {
	facts := map[string]string{
		"Calories":     "579 kcal",
		"Protein":      "21.2 g",
		"Healthy Fats": "49.9 g",
		"Vitamin E":    "26.2 mg",
	}
	if strings.Contains(name, "Salt") {
		facts["Sodium"] = "150 mg"
	}
	if strings.Contains(name, "Honey") {
		facts["Sugars"] = "12 g"
	}
	raw, _ := json.Marshal(facts)
	return string(raw)
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
