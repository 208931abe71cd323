package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a product or listing. The remote service sends string ids,
// the built-in fallback catalog uses numbers; both decode to the same type.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Product represents an item of the catalog
type Product struct {
	ID          ID      `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Img         string  `json:"img"`
}

// FallbackProducts is served when the remote catalog cannot be fetched
func FallbackProducts() []Product {
	const img = "https://macbro.uz/cdn/shop/files/6_0bf35ddf-43dd-4cf3-b110-8d7a719e36f4.png?v=1704996220"
	return []Product{
		{
			ID:          "1",
			Title:       "Apple MacBook Air",
			Description: "13.6 inch M2 chip, 8GB, 256GB SSD, Space Gray",
			Price:       15999000,
			Img:         img,
		},
		{
			ID:          "2",
			Title:       "ASUS ZenBook Pro",
			Description: "15.6 inch OLED, 16GB RAM, 512GB SSD",
			Price:       18500000,
			Img:         img,
		},
	}
}
