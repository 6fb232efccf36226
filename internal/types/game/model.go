package game

import "encoding/json"

type Currency string

const (
	CurrencyDiamonds Currency = "diamonds"
	CurrencyUC       Currency = "uc"
)

type Package struct {
	PackageID   string   `json:"packageId"`
	Currency    Currency `json:"-"`
	Amount      int      `json:"-"`
	Price       int      `json:"price"`
	Description string   `json:"description,omitempty"`
}

type Game struct {
	GameID   string             `json:"gameId"`
	Name     string             `json:"name"`
	Icon     string             `json:"icon,omitempty"`
	Packages map[string]Package `json:"packages"`
}

// The store keeps the in-game currency as a dynamic field named after the
// currency itself ("diamonds": 310, "uc": 60). Fold it into the explicit
// Currency/Amount pair instead of carrying an open bag of fields.

type packageDoc struct {
	PackageID   string `json:"packageId"`
	Diamonds    *int   `json:"diamonds,omitempty"`
	UC          *int   `json:"uc,omitempty"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
}

func (p *Package) UnmarshalJSON(data []byte) error {
	var doc packageDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.PackageID = doc.PackageID
	p.Price = doc.Price
	p.Description = doc.Description
	switch {
	case doc.Diamonds != nil:
		p.Currency = CurrencyDiamonds
		p.Amount = *doc.Diamonds
	case doc.UC != nil:
		p.Currency = CurrencyUC
		p.Amount = *doc.UC
	}
	return nil
}

func (p Package) MarshalJSON() ([]byte, error) {
	doc := packageDoc{
		PackageID:   p.PackageID,
		Price:       p.Price,
		Description: p.Description,
	}
	switch p.Currency {
	case CurrencyDiamonds:
		doc.Diamonds = &p.Amount
	case CurrencyUC:
		doc.UC = &p.Amount
	}
	return json.Marshal(doc)
}
