package domain

import "time"

// Category is the closed product category enumeration. Values are stored as
// small integers and transmitted as-is over the API.
type Category int

const (
	CategoryMarble Category = iota + 1
	CategoryGranite
	CategoryTriplex
)

func (c Category) Valid() bool {
	return c >= CategoryMarble && c <= CategoryTriplex
}

func (c Category) String() string {
	switch c {
	case CategoryMarble:
		return "marble"
	case CategoryGranite:
		return "granite"
	case CategoryTriplex:
		return "triplex"
	default:
		return "unknown"
	}
}

// Product is a catalog item. It exclusively owns its ImageAssets; deleting a
// product removes all of them.
type Product struct {
	ID          int64        `json:"id,string" form:"id"`
	Name        string       `gorm:"size:200;index" json:"name" form:"name"`
	Description string       `json:"description" form:"description"`
	Price       float64      `gorm:"type:numeric(18,2)" json:"price" form:"price"`
	Category    Category     `gorm:"index" json:"category" form:"category"`
	Images      []ImageAsset `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt   *time.Time   `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "catalog_product"
}

// ImageAsset is a stored product image. RemoteID holds the identifier issued
// by the storage backend at upload time and is used verbatim for deletion.
type ImageAsset struct {
	ID        int64     `json:"id,string"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	Alt       string    `gorm:"size:200" json:"alt"`
	ProductID int64     `gorm:"index" json:"product_id,string"`
	RemoteID  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

// TableName Specify table name
func (ImageAsset) TableName() string {
	return "catalog_image_asset"
}
