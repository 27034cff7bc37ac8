package storefront

import (
	"encoding/json"
	"testing"
)

func TestProductID_JSON(t *testing.T) {
	cases := []struct {
		in   string
		want ProductID
	}{
		{`12`, "12"},
		{`"12"`, "12"},
		{`"sku-almond"`, "sku-almond"},
		{`null`, ""},
	}
	for _, tc := range cases {
		var id ProductID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tc.in, err)
		}
		if id != tc.want {
			t.Fatalf("Unmarshal(%s) = %q, want %q", tc.in, id, tc.want)
		}
	}

	out, err := json.Marshal(deltaRequest{ProductID: "12", Quantity: 3})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(out) != `{"product_id":12,"quantity":3}` {
		t.Fatalf("Marshal numeric id = %s", out)
	}
	out, err = json.Marshal(deltaRequest{ProductID: "sku-almond", Quantity: -1})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(out) != `{"product_id":"sku-almond","quantity":-1}` {
		t.Fatalf("Marshal string id = %s", out)
	}
}

func TestProduct_NutritionFacts(t *testing.T) {
	p := Product{NutritionalInfo: `{"protein": "21g", "calories": 579}`}
	facts, err := p.NutritionFacts()
	if err != nil {
		t.Fatalf("NutritionFacts returned error: %v", err)
	}
	if facts["protein"] != "21g" || facts["calories"] != "579" {
		t.Fatalf("NutritionFacts = %v", facts)
	}

	if facts, err := (Product{NutritionalInfo: "{}"}).NutritionFacts(); err != nil || facts != nil {
		t.Fatalf("empty NutritionFacts = %v, %v", facts, err)
	}
	if _, err := (Product{NutritionalInfo: "{bad"}).NutritionFacts(); err == nil {
		t.Fatalf("NutritionFacts accepted malformed JSON")
	}
}

func TestCheckoutRequest_Validate(t *testing.T) {
	ok := CheckoutRequest{CustomerName: "Ada", Email: "ada@example.com", Address: "1 Orchard Way", City: "Modesto"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	blank := CheckoutRequest{CustomerName: "  ", Email: "ada@example.com", Address: "x", City: "y"}
	if err := blank.Validate(); err == nil || err.Error() != "name is required" {
		t.Fatalf("Validate blank name = %v, want name is required", err)
	}
}
