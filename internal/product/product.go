package product

// Product is one entry of the product picker. IDs are Shopify global ids.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Media is a media node attached to a product.
type Media struct {
	ID               string `json:"id"`
	Alt              string `json:"alt,omitempty"`
	MediaContentType string `json:"mediaContentType"`
}

// Detail is the product detail page shape: the product plus its current
// badges and first media nodes.
type Detail struct {
	ID              string   `json:"id"`
	NumericID       string   `json:"numericId"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
	Badges          []string `json:"badges"`
	Media           []Media  `json:"media"`
}

// ListLimit caps the product picker; no pagination is offered.
const ListLimit = 10

// DetailMediaLimit is how many media nodes the detail view loads.
const DetailMediaLimit = 3
