package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TempIDPrefix marks a client-minted product id created while offline. Any
// id carrying it has never been confirmed by the remote store and is pending
// promotion to a server-assigned id by the reconnect sweep.
const TempIDPrefix = "temp_"

type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     int             `db:"stock" json:"stock"`
	Barcode   *string         `db:"barcode" json:"barcode"` // Nullable
	Category  *string         `db:"category" json:"category"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

func (p *Product) IsPlaceholder() bool {
	return IsTempID(p.ID)
}

func NewTempID() string {
	return fmt.Sprintf("%s%d", TempIDPrefix, time.Now().UnixMilli())
}

func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
