package models

// Product 远端商城的商品展示记录（只读，不落库）
type Product struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	Price         Money  `json:"price"`
	DiscountPrice *Money `json:"discountPrice,omitempty"`
	Stock         int    `json:"stock"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	SellerID      string `json:"sellerId,omitempty"`
}

// EffectivePrice 返回生效单价（有折扣价用折扣价）
func (p *Product) EffectivePrice() Money {
	if p == nil {
		return Money{}
	}
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}

// ProductSummary 商品列表摘要（列表页/搜索结果）
type ProductSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	Price         Money  `json:"price"`
	DiscountPrice *Money `json:"discountPrice,omitempty"`
	Stock         int    `json:"stock"`
	Category      string `json:"category,omitempty"`
}

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	Query    string // 搜索关键词
	Category string // 分类
	Shelf    string // 固定货架（trending/latest/discounts/user-choices）
	Limit    int
	Page     int
}
