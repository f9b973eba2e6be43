package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PG is a paying-guest housing listing, the rentable unit.
type PG struct {
	gorm.Model
	Name          string         `json:"name" gorm:"not null"`
	Address       string         `json:"address" gorm:"not null"`
	Price         float64        `json:"price" gorm:"not null;check:price >= 0"`
	Description   string         `json:"description" gorm:"type:text"`
	OwnerUsername string         `json:"ownerUsername" gorm:"not null;index"`
	ImageURLs     datatypes.JSON `json:"imageUrls"`
	VideoURL      string         `json:"videoUrl"`
	Gender        string         `json:"gender" gorm:"type:varchar(10);default:'Co-ed'"` // Boys, Girls, Co-ed

	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:PGID"`
	Bookings []Booking `json:"-" gorm:"foreignKey:PGID"`
}

// ImageURLList decodes the jsonb column into an ordered slice of URLs.
func (p *PG) ImageURLList() []string {
	var urls []string
	if p.ImageURLs != nil {
		json.Unmarshal(p.ImageURLs, &urls)
	}
	return urls
}

func (p *PG) SetImageURLs(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	b, _ := json.Marshal(urls)
	p.ImageURLs = b
}

func (p *PG) MarshalJSON() ([]byte, error) {
	type Alias PG
	aux := &struct {
		ImageURLs []string `json:"imageUrls"`
		*Alias
	}{
		ImageURLs: []string{},
		Alias:     (*Alias)(p),
	}
	if urls := p.ImageURLList(); urls != nil {
		aux.ImageURLs = urls
	}
	return json.Marshal(aux)
}
